package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrProviderFailure = errors.New("provider failure")
	ErrStoreFailure    = errors.New("store failure")
	ErrImageRead       = errors.New("image read failed")
)

// ValidationError reports a single failed field rule. It is surfaced to the
// user directly and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// PayloadFormatError marks an image payload that is neither a recognized
// inline encoding nor an absolute URL. Submission is refused outright.
type PayloadFormatError struct {
	Index int
}

func (e *PayloadFormatError) Error() string {
	return fmt.Sprintf("image %d is neither an inline-encoded image nor an absolute URL", e.Index+1)
}

// SizeLimitError lists the images whose decoded size exceeds the persistence
// ceiling. Content is never silently truncated or dropped.
type SizeLimitError struct {
	Indices []int
}

func (e *SizeLimitError) Error() string {
	if len(e.Indices) == 1 {
		return fmt.Sprintf("1 image exceeds the storage size limit (image %d)", e.Indices[0]+1)
	}
	return fmt.Sprintf("%d images exceed the storage size limit", len(e.Indices))
}

// IsValidation reports whether err is a local, recoverable input error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
