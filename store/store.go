// Package store defines host key-value stores the shim reads values from and
// provides in-memory and SQLite backed implementations of them.
//
// Every lookup reports presence explicitly, so stored zero values are never
// confused with missing ones.
package store

import "time"

// KeyValue is a generic store of structured values.
type KeyValue interface {
	// Get returns stored value and true, or nil and false when key was never
	// set.
	Get(key string) (any, bool, error)
	Set(key string, value any) error
	Delete(key string) error
}

// Settings keeps per theme settings, one value per field.
type Settings interface {
	KeyValue
}

// Options keeps named site options, either one value per field or serialized
// blobs holding all fields of a config.
type Options interface {
	KeyValue
}

// Transients is a TTL cache of short strings.
type Transients interface {
	// Get returns cached value and true, expired entries are reported as
	// missing.
	Get(key string) (string, bool, error)
	Set(key, value string, ttl time.Duration) error
}
