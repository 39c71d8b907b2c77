// Package cache keeps generated reports so an unchanged inspection is not laid
// out twice.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/wudi/inspectkit/inspection"
)

// Cache stores rendered PDFs by key. A ttl of 0 means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, pdf []byte, ttl time.Duration) error
}

// Key derives the cache key of an envelope rendered by a given renderer
// version, normally report.Generator.Fingerprint: the hex xxh3-128 of the
// version and the envelope's JSON.
func Key(version string, env inspection.Envelope) (string, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("encode envelope: %w", err)
	}
	h := xxh3.New()
	h.WriteString(version)
	h.Write([]byte{0})
	h.Write(data)
	sum := h.Sum128().Bytes()
	return hex.EncodeToString(sum[:]), nil
}

type memItem struct {
	pdf     []byte
	expires time.Time
}

// Memory is an in-process Cache. Entries are copied in and out, so callers
// may modify the slices they pass or receive.
type Memory struct {
	mu    sync.Mutex
	items map[string]memItem
	now   func() time.Time
}

var _ Cache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{items: make(map[string]memItem), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	if !it.expires.IsZero() && !m.now().Before(it.expires) {
		delete(m.items, key)
		return nil, false, nil
	}
	return append([]byte(nil), it.pdf...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, pdf []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := memItem{pdf: append([]byte(nil), pdf...)}
	if ttl > 0 {
		it.expires = m.now().Add(ttl)
	}
	m.items[key] = it
	return nil
}

// Len reports the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
