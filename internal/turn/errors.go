package turn

import "errors"

var (
	ErrMissingCredential = errors.New("api key missing")
	ErrMissingMessage    = errors.New("message missing")
	ErrInvalidAction     = errors.New("invalid action")
	ErrCharacterNotFound = errors.New("character not found")
	ErrInternal          = errors.New("internal error")
)
