package composite

import (
	"errors"
	"fmt"
)

// ErrNoLayers means the selection resolved to zero usable layers. It is
// user-facing validation, not a system fault.
var ErrNoLayers = errors.New("no layers selected")

// DecodeError reports malformed or unsupported image bytes. Not
// retryable.
type DecodeError struct {
	Ref string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("decode: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Ref, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a violated encoder precondition or a failed
// serialization. Not retryable.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("encode: %v", e.Err) }

func (e *EncodeError) Unwrap() error { return e.Err }
