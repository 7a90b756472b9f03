package domain

import (
	"errors"
)

var (
	// ErrValidation wraps every rejection of user-supplied subscriber input.
	ErrValidation = errors.New("validation failed")

	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrTokenNotFound      = errors.New("subscription token not found")
	ErrTokenCollision     = errors.New("subscription token already exists")
)
