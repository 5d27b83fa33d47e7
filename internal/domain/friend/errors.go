package friend

import "errors"

var (
	ErrSelfRequest      = errors.New("cannot send a friend request to yourself")
	ErrUnknownUser      = errors.New("user not found")
	ErrDuplicatePending = errors.New("a pending request to this user already exists")
	ErrRequestNotFound  = errors.New("friend request not found")
	ErrAlreadyHandled   = errors.New("friend request already handled")
	ErrAlreadyFriends   = errors.New("already friends")
	ErrEmptyQuery       = errors.New("search query is required")
	ErrInvalidDecision  = errors.New("decision must be accept or reject")
)
