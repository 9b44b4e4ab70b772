package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnconfigured  = errors.New("unconfigured")
	ErrInvalidStatus = errors.New("unexpected status")
)
