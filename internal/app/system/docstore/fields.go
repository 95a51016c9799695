package docstore

import (
	"sync"
	"time"
)

// Fields is the data written to a document. Values may be nested Fields
// (or map[string]any) and may contain the ServerTimestamp sentinel.
type Fields map[string]any

type serverTimestamp struct{}

// ServerTimestamp is replaced by the adapter's clock at write time.
// Callers never supply created_at/updated_at themselves.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// Resolve returns a copy of f with every ServerTimestamp replaced by now.
// Nested maps are copied into Fields.
func Resolve(f Fields, now time.Time) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = resolveValue(v, now)
	}
	return out
}

func resolveValue(v any, now time.Time) any {
	switch t := v.(type) {
	case serverTimestamp:
		return now
	case Fields:
		return Resolve(t, now)
	case map[string]any:
		return Resolve(Fields(t), now)
	default:
		return v
	}
}

// Flatten turns nested Fields into dotted keys so a merge only touches
// the leaves that were supplied: {"settings": {"theme": "dark"}} becomes
// {"settings.theme": "dark"}. Empty nested maps are kept as-is.
func Flatten(f Fields) Fields {
	out := Fields{}
	flattenInto(out, "", f)
	return out
}

func flattenInto(out Fields, prefix string, f Fields) {
	for k, v := range f {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		var nested Fields
		switch t := v.(type) {
		case Fields:
			nested = t
		case map[string]any:
			nested = Fields(t)
		}
		if nested != nil && len(nested) > 0 {
			flattenInto(out, key, nested)
			continue
		}
		out[key] = v
	}
}

// Clock hands out server timestamps. Timestamps are UTC, truncated to the
// millisecond (the precision BSON stores), and strictly increasing, so
// ordering by a server timestamp matches the order writes were applied.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// NewClock builds a Clock over a time source.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Now returns the next server timestamp.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC().Truncate(time.Millisecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Millisecond)
	}
	c.last = t
	return t
}

// DefaultClock is shared by adapters in the same process.
var DefaultClock = NewClock(time.Now)
