package chat

import "errors"

var (
	ErrMissingFields = errors.New("recipient and text are required")
	ErrUnknownUser   = errors.New("user not found")
	ErrNoMessages    = errors.New("no messages with this user yet")
	ErrSelfMessage   = errors.New("cannot message yourself")
)
