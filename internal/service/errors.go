package service

import (
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrCannotLikeSelf  = errors.New("cannot like your own profile")
	ErrCannotChatSelf  = errors.New("cannot chat with yourself")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidCreds    = errors.New("invalid email or password")
)

// ProtocolError wraps a store failure inside the like/match sequence. The
// operation is not retried; the caller re-enables the control and lets the
// user retry.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("like protocol: %s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// UploadError wraps a blob store failure. The upload step runs before any
// message append, so a failed upload never leaves a message pointing at a
// missing blob.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("uploading %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
