package product

import "errors"

var (
	ErrNotFound       = errors.New("product not found")
	ErrNegativeStock  = errors.New("stock cannot be negative")
	ErrAlreadySoldOut = errors.New("product is already sold out")
)
