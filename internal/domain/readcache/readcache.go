package readcache

import "context"

// Cache is a read-through cache for query results. Values are shared between
// callers and must be treated as read-only.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	// Epoch returns a counter that every InvalidatePrefix call advances.
	Epoch() uint64
	// SetIfEpoch stores value only if no invalidation happened since epoch was
	// read, and reports whether it did.
	SetIfEpoch(key string, value interface{}, epoch uint64) bool
	// InvalidatePrefix drops every key starting with prefix and returns how many were removed.
	InvalidatePrefix(prefix string) int
}

// Fetch returns the cached value for key, or loads, stores and returns it.
// Load errors are returned and never cached. A value loaded while an
// invalidation ran is returned but not stored, since it may predate the write
// that triggered the invalidation.
func Fetch[T any](ctx context.Context, c Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	epoch := c.Epoch()
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	c.SetIfEpoch(key, v, epoch)
	return v, nil
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(string) (interface{}, bool)              { return nil, false }
func (Noop) Set(string, interface{})                     {}
func (Noop) Epoch() uint64                               { return 0 }
func (Noop) SetIfEpoch(string, interface{}, uint64) bool { return false }
func (Noop) InvalidatePrefix(string) int                 { return 0 }
