package service

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrInvalid   = errors.New("invalid")
	ErrBusy      = errors.New("busy")
	ErrTransport = errors.New("ai request failed")
	// ErrPrecondition is returned for intents that are ignored in the
	// current state, such as a search while one is pending.
	ErrPrecondition  = errors.New("precondition failed")
	ErrNotConfigured = errors.New("ai is not configured")
)
