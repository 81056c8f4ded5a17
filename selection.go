package valuto

import (
	"context"
	"time"

	"github.com/valuto/valuto/currency"
)

// SelectionKey is the key the chosen currency code is stored under in both
// the session and sticky stores.
const SelectionKey = "currency"

// StickyTTL bounds how long the cookie-equivalent store remembers a choice.
const StickyTTL = 30 * 24 * time.Hour

// KV is the minimal contract for remembering a caller's currency choice
// across requests. Session is the request-scoped variant, Sticky the
// cookie-equivalent persisted one; either may be nil.
type KV interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// Selector resolves which currency a caller is working in. Precedence:
// explicit request parameter, then the session choice, then the sticky
// choice, then Default. A candidate absent from the snapshot is ignored
// rather than erroring.
type Selector struct {
	Session KV
	Sticky  KV
	Default string
}

// Resolve returns the active currency code for this caller without writing
// anything back.
func (s Selector) Resolve(ctx context.Context, snap currency.Snapshot, param string) string {
	if param != "" && snap.Has(param) {
		return param
	}

	if s.Session != nil {
		if code, ok := s.Session.Get(ctx, SelectionKey); ok && snap.Has(code) {
			return code
		}
	}

	if s.Sticky != nil {
		if code, ok := s.Sticky.Get(ctx, SelectionKey); ok && snap.Has(code) {
			return code
		}
	}

	return s.Default
}

// Select pins code as the caller's choice in both stores. Stores already
// holding code are left untouched.
func (s Selector) Select(ctx context.Context, code string) {
	if s.Session != nil {
		if prev, ok := s.Session.Get(ctx, SelectionKey); !ok || prev != code {
			s.Session.Set(ctx, SelectionKey, code, 0)
		}
	}

	if s.Sticky != nil {
		if prev, ok := s.Sticky.Get(ctx, SelectionKey); !ok || prev != code {
			s.Sticky.Set(ctx, SelectionKey, code, StickyTTL)
		}
	}
}

// Activate resolves the caller's currency and pins it, mirroring the
// request-time behaviour of the original package.
func (s Selector) Activate(ctx context.Context, snap currency.Snapshot, param string) string {
	code := s.Resolve(ctx, snap, param)
	s.Select(ctx, code)

	return code
}
