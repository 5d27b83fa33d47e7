package auth

import "errors"

var (
	ErrMissingFields       = errors.New("all fields are required")
	ErrMissingLogin        = errors.New("username or email is required")
	ErrUserAlreadyExists   = errors.New("username or email already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailNotVerified    = errors.New("email is not verified")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrStaleRefreshToken   = errors.New("refresh token has been rotated or revoked")
	ErrInvalidCode         = errors.New("invalid or expired verification code")
	ErrInvalidCodeFormat   = errors.New("verification code must be 6 digits")
	ErrResendCooldown      = errors.New("a verification code was sent recently, wait before retrying")
	ErrPasswordMismatch    = errors.New("current password does not match")
	ErrNothingToUpdate     = errors.New("no fields to update")
)
