package order

import "errors"

var (
	ErrNotFound         = errors.New("order not found")
	ErrItemNotFound     = errors.New("order item not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("product already in order")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrInvalidStatus    = errors.New("invalid order status")
)
