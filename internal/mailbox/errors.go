package mailbox

import "errors"

var (
	// ErrDirNotFound is returned when the mailbox directory does not exist.
	ErrDirNotFound = errors.New("mailbox directory not found")

	// ErrUndecodable is returned when a file cannot be decoded as text.
	ErrUndecodable = errors.New("file content is not decodable text")
)
