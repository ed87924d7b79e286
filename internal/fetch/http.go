package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAttempts = 3
	defaultBackoff  = 250 * time.Millisecond
)

// HTTP fetches remote refs with a small bounded retry: up to Attempts
// tries with linear backoff between them.
type HTTP struct {
	Client   *http.Client
	Attempts int
	Backoff  time.Duration
}

func (f *HTTP) Fetch(ctx context.Context, ref string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	attempts := f.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	backoff := f.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &Error{Ref: ref, Err: ctx.Err()}
			case <-time.After(time.Duration(attempt) * backoff):
			}
		}

		b, err := f.get(ctx, client, ref)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, &Error{Ref: ref, Err: lastErr}
}

func (f *HTTP) get(ctx context.Context, client *http.Client, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
