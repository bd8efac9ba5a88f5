package session

import (
	"context"

	"go.uber.org/zap"
)

// Mirror composes an ordered pair of Stores with the resilience policy the
// booking flow relies on: reads return the first non-empty value across the
// backends, writes and deletes go to both. A single backend failing is logged
// and swallowed; session state degrades gracefully without it.
type Mirror struct {
	stores []Store
	logger *zap.Logger
}

// NewMirror builds a Mirror over the given stores, consulted in order.
func NewMirror(logger *zap.Logger, stores ...Store) *Mirror {
	return &Mirror{stores: stores, logger: logger}
}

// Get returns the first non-empty value across backends.
func (m *Mirror) Get(ctx context.Context, key string) (string, error) {
	for _, st := range m.stores {
		val, err := st.Get(ctx, key)
		if err != nil {
			m.logger.Debug("session backend read failed", zap.String("key", key), zap.Error(err))
			continue
		}
		if val != "" {
			return val, nil
		}
	}
	return "", nil
}

// Set dual-writes the value to every backend.
func (m *Mirror) Set(ctx context.Context, key, value string) error {
	for _, st := range m.stores {
		if err := st.Set(ctx, key, value); err != nil {
			m.logger.Debug("session backend write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// Del removes keys from every backend.
func (m *Mirror) Del(ctx context.Context, keys ...string) error {
	for _, st := range m.stores {
		if err := st.Del(ctx, keys...); err != nil {
			m.logger.Debug("session backend delete failed", zap.Error(err))
		}
	}
	return nil
}

// Keys merges prefix matches across backends, deduplicated.
func (m *Mirror) Keys(ctx context.Context, prefix string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, st := range m.stores {
		keys, err := st.Keys(ctx, prefix)
		if err != nil {
			m.logger.Debug("session backend scan failed", zap.String("prefix", prefix), zap.Error(err))
			continue
		}
		for _, k := range keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out, nil
}
