package service

import "errors"

var (
	ErrValidation  = errors.New("missing or malformed input")
	ErrNotAdmin    = errors.New("admin access required")
	ErrInvalidFile = errors.New("only PDF or JPG files are allowed")
)
