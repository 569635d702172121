package triage

import "errors"

// Domain-specific errors for the triage package.
var (
	ErrMailboxUnavailable = errors.New("mailbox is unavailable")
)
