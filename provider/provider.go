// Package provider defines the backing cache service as seen by momentoredis:
// a narrow set of primitives (scalar get/set/set-if-absent/delete/increment and
// dictionary fetch/set-fields), every call scoped by a cache name.
//
// Implementations translate their own native response model into this contract.
// A response shape an implementation does not recognise must surface as an
// error wrapping ErrUnexpectedResponse, never as a silent miss.
package provider

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnexpectedResponse marks a backend answer that matched none of the
	// known response variants.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrWrongType is returned when a key holds a scalar and a dictionary
	// operation touches it (or the reverse).
	ErrWrongType = errors.New("operation against a key holding the wrong kind of value")

	// ErrNotInteger is returned by Increment when the stored value does not
	// parse as a base-10 int64.
	ErrNotInteger = errors.New("value is not an integer or out of range")

	// ErrRejected is returned when a store refused a write (admission or
	// buffer pressure in in-process stores).
	ErrRejected = errors.New("write rejected by store")

	ErrNilClient = errors.New("provider: nil client")
)

// Provider is the backing service primitive set.
// Must be safe for concurrent use. ttl <= 0 means "the backend's default":
// no expiry for in-process stores and redis, the client default TTL for Momento.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	Get(ctx context.Context, cacheName, key string) ([]byte, bool, error)

	// Set stores value unconditionally.
	Set(ctx context.Context, cacheName, key string, value []byte, ttl time.Duration) error

	// SetIfNotExists stores value only when key is absent. It must be atomic
	// with respect to other writers of the same key.
	SetIfNotExists(ctx context.Context, cacheName, key string, value []byte, ttl time.Duration) (stored bool, err error)

	// Delete removes key. Deleting an absent key is a success; backends do not
	// report whether anything was removed.
	Delete(ctx context.Context, cacheName, key string) error

	// Increment adds amount to the integer stored at key (absent => 0) and
	// returns the new value.
	Increment(ctx context.Context, cacheName, key string, amount int64) (int64, error)

	// DictionaryFetch returns all fields of the dictionary at name.
	// found=false on a missing dictionary.
	DictionaryFetch(ctx context.Context, cacheName, name string) (fields map[string][]byte, found bool, err error)

	// DictionarySetFields merges fields into the dictionary at name, creating it
	// when absent.
	DictionarySetFields(ctx context.Context, cacheName, name string, fields map[string][]byte) error

	// Close releases resources.
	Close(ctx context.Context) error
}
