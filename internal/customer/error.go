package customer

import "errors"

var (
	ErrNotFound      = errors.New("customer not found")
	ErrEmailExists   = errors.New("email already registered")
	ErrPendingOrders = errors.New("customer has pending orders")
)
