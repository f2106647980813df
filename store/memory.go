package store

import (
	"time"

	"kshim/values"
)

// Memory is map backed KeyValue. Values are normalized on the way in so
// readers always see ordered maps.
// NOTE: presently not to be used concurrently!
type Memory struct {
	data map[string]any
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]any)}
}

func (m *Memory) Get(key string) (any, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key string, value any) error {
	m.data[key] = values.Normalize(value)
	return nil
}

func (m *Memory) Delete(key string) error {
	delete(m.data, key)
	return nil
}

type transient struct {
	value   string
	expires time.Time
}

// MemoryTransients is map backed Transients with injectable clock.
// NOTE: presently not to be used concurrently!
type MemoryTransients struct {
	data map[string]transient
	now  func() time.Time
}

func NewMemoryTransients(now func() time.Time) *MemoryTransients {
	if now == nil {
		now = time.Now
	}
	return &MemoryTransients{data: make(map[string]transient), now: now}
}

func (m *MemoryTransients) Get(key string) (string, bool, error) {
	t, ok := m.data[key]
	if !ok {
		return "", false, nil
	}
	if !m.now().Before(t.expires) {
		delete(m.data, key)
		return "", false, nil
	}
	return t.value, true, nil
}

func (m *MemoryTransients) Set(key, value string, ttl time.Duration) error {
	m.data[key] = transient{value: value, expires: m.now().Add(ttl)}
	return nil
}
