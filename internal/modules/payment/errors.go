package payment

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("payment not found")
)
