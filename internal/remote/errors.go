package remote

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies failures so the UI can branch on them.
type Kind int

const (
	KindNone Kind = iota
	KindNetwork
	KindUpstream
	KindEmpty
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNetwork:
		return "network"
	case KindUpstream:
		return "upstream"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// NetworkError reports a request that never produced a usable response:
// transport failures, timeouts, unreadable bodies.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UpstreamStatusError reports a response the provider marked as failed,
// either through a non-2xx status or a payload-level status field.
type UpstreamStatusError struct {
	Op         string
	StatusCode int
	Message    string
}

// Error returns the provider's own message when there is one.
func (e *UpstreamStatusError) Error() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed with HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s failed", e.Op)
}

// EmptyResultError reports a payload that parsed but held nothing usable.
type EmptyResultError struct {
	Op    string
	Query string
}

func (e *EmptyResultError) Error() string {
	if e.Query == "" {
		return fmt.Sprintf("no results from %s", e.Op)
	}
	return fmt.Sprintf("no results for %q", e.Query)
}

// KindOf maps err onto the failure taxonomy.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var netErr *NetworkError
	var upErr *UpstreamStatusError
	var emptyErr *EmptyResultError
	switch {
	case errors.As(err, &emptyErr):
		return KindEmpty
	case errors.As(err, &upErr):
		return KindUpstream
	case errors.As(err, &netErr):
		return KindNetwork
	default:
		return KindUnknown
	}
}
