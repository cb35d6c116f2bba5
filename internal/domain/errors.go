package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("already exists")
	// ErrCheckedOut indicates a mutation on a checked-out cart.
	ErrCheckedOut = errors.New("cart checked out")
	// ErrInvalidInput indicates the persistence layer rejected a value.
	ErrInvalidInput = errors.New("invalid input")
)
