package source

import (
	"errors"
	"fmt"
)

// Kind classifies a failed fetch attempt.
type Kind int

const (
	// KindIO is a local read failure.
	KindIO Kind = iota
	// KindNotFound is a missing path, unknown session key or out-of-range index.
	KindNotFound
	// KindFormat is corrupt, unsupported or non-image content.
	KindFormat
	// KindNetwork is a remote unreachable, timed out or failing server.
	KindNetwork
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindNotFound:
		return "not found"
	case KindFormat:
		return "format"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error tags a fetch failure with its kind and the path it concerns.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind carried by err, or KindIO when err is untagged.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindIO
}
