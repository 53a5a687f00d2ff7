package reader

import (
	"context"
	"errors"
)

var (
	ErrNetwork           = errors.New("network failure")
	ErrTimeout           = errors.New("request timed out")
	ErrNotFound          = errors.New("post not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrMalformedResponse = errors.New("malformed response")

	// ErrBusy is returned when an action arrives while another request is in flight.
	ErrBusy = errors.New("another request is in flight")
	// ErrStale is returned by Complete for results issued under an older generation.
	ErrStale = errors.New("stale response")
)

type Kind int

const (
	KindNone Kind = iota
	KindNetwork
	KindTimeout
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindMalformed
	KindBusy
	KindStale
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindMalformed:
		return "malformed"
	case KindBusy:
		return "busy"
	case KindStale:
		return "stale"
	default:
		return "error"
	}
}

// KindOf classifies an error chain. Timeouts win over generic network failures.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	case errors.Is(err, ErrBusy):
		return KindBusy
	case errors.Is(err, ErrStale):
		return KindStale
	default:
		return KindOther
	}
}

// IsNetwork reports transport failures, timeouts included.
func IsNetwork(err error) bool {
	k := KindOf(err)
	return k == KindNetwork || k == KindTimeout
}
