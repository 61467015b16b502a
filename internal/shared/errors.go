package shared

import "errors"

var (
	// ErrNotFound indicates resource not found or not visible to the requester.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a malformed request rejected before any state change.
	ErrValidation = errors.New("validation failed")
	// ErrNotReady indicates a report download attempted before completion.
	ErrNotReady = errors.New("report not ready")
	// ErrForbidden indicates the requester lacks the required privilege.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates a missing or expired auth token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
