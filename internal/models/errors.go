package models

import "errors"

var (
	// ErrRequired marks a missing mandatory field.
	ErrRequired = errors.New("required field is empty")

	// ErrInvalidValue marks a field outside its allowed domain.
	ErrInvalidValue = errors.New("invalid field value")
)
