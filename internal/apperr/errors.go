package apperr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrAlreadyExists     = errors.New("already exists")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrArchived          = errors.New("household archived")
	ErrAlreadyResolved   = errors.New("already resolved")
	ErrIncompleteProfile = errors.New("incomplete profile")
)
