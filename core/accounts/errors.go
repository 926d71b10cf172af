package accounts

import "errors"

var (
	ErrDuplicateIdentifier = errors.New("identifier already exists")
	ErrNotFound            = errors.New("account not found")
	ErrProtectedAccount    = errors.New("account is protected")
	ErrInvalidTransition   = errors.New("invalid account status transition")
)
