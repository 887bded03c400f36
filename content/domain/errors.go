package domain

import "errors"

// Sentinel errors for programmatic handling. Callers can use errors.Is to
// distinguish structural failures (a file that does not have the expected
// three-segment shape) from parse failures (a segment a parser rejected) and
// from repository misses.
var (
	ErrInvalidFormat    = errors.New("invalid format")
	ErrMissingTitle     = errors.New("metadata is missing required field: title")
	ErrMissingDateTime  = errors.New("metadata is missing required field: datetime")
	ErrNotFound         = errors.New("post not found")
	ErrUnknownParser    = errors.New("unknown parser")
	ErrCorruptArtifact  = errors.New("corrupt snapshot artifact")
	ErrArtifactChecksum = errors.New("snapshot artifact checksum mismatch")
)
