package domain

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrNotReady   = errors.New("not ready")
	ErrValidation = errors.New("validation failed")
)
