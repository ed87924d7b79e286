// Package fetch resolves trait image refs to raw bytes. Refs are either
// http(s) URLs or paths inside a local asset directory.
package fetch

import (
	"context"
	"fmt"
	"strings"
)

// Error reports an asset that could not be retrieved. By the time a
// caller sees it, retries are exhausted.
type Error struct {
	Ref string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("fetch %s: %v", e.Ref, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Fetcher resolves one ref to its bytes.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Auto routes refs by scheme: http(s) URLs go to Remote, everything
// else is treated as a path under the local asset directory.
type Auto struct {
	Remote *HTTP
	Local  *Dir
}

func (a *Auto) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return a.Remote.Fetch(ctx, ref)
	}
	return a.Local.Fetch(ctx, ref)
}
