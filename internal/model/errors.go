package model

import "errors"

var (
	// ErrNotFound is returned by stores when an entity is absent, and by
	// owned mutations when the actor is not the owner.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken and ErrEmailTaken map the users table unique
	// constraints; they close the race the service-level pre-checks leave
	// open.
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)
