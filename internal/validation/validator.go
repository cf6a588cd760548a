package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator. Callers register any struct-level
// validations they need on the returned instance.
func New() *validatorv10.Validate {
	return validatorv10.New()
}
