// Package store turns a plain in-process byte cache into a provider.Provider.
// Entries are framed with their kind and absolute expiry (internal/wire), so a
// store without per-entry TTL still expires keys on read. Mutations take a
// striped per-key lock, which makes SetIfNotExists, Increment and dictionary
// merges atomic within the process.
package store

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/momentohq/momento-redis-go/codec"
	"github.com/momentohq/momento-redis-go/internal/util"
	"github.com/momentohq/momento-redis-go/internal/wire"
	pr "github.com/momentohq/momento-redis-go/provider"
)

// KV is the byte cache wrapped by Store. ttl <= 0 means no expiry.
// Set returns false when the cache refused the write.
type KV interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) bool
	Del(key string)
	Close() error
}

type Options struct {
	Codec       codec.Codec[codec.Dictionary] // nil => msgpack
	Now         func() time.Time              // nil => time.Now
	LockStripes int                           // 0 => 256
}

type Store struct {
	kv    KV
	codec codec.Codec[codec.Dictionary]
	now   func() time.Time
	locks *util.KeyLocks
}

var _ pr.Provider = (*Store)(nil)

func New(kv KV, opts Options) *Store {
	s := &Store{
		kv:    kv,
		codec: opts.Codec,
		now:   opts.Now,
		locks: util.NewKeyLocks(opts.LockStripes),
	}
	if s.codec == nil {
		s.codec = codec.Msgpack[codec.Dictionary]{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Store) Get(_ context.Context, cacheName, key string) ([]byte, bool, error) {
	e, ok := s.load(util.StorageKey(cacheName, key))
	if !ok {
		return nil, false, nil
	}
	if e.Kind != wire.KindScalar {
		return nil, false, pr.ErrWrongType
	}
	return append([]byte{}, e.Payload...), true, nil
}

func (s *Store) Set(_ context.Context, cacheName, key string, value []byte, ttl time.Duration) error {
	k := util.StorageKey(cacheName, key)
	unlock := s.locks.Lock(k)
	defer unlock()
	return s.store(k, wire.Entry{Kind: wire.KindScalar, ExpireAt: s.deadline(ttl), Payload: value})
}

func (s *Store) SetIfNotExists(_ context.Context, cacheName, key string, value []byte, ttl time.Duration) (bool, error) {
	k := util.StorageKey(cacheName, key)
	unlock := s.locks.Lock(k)
	defer unlock()
	if _, ok := s.loadLocked(k); ok {
		return false, nil
	}
	if err := s.store(k, wire.Entry{Kind: wire.KindScalar, ExpireAt: s.deadline(ttl), Payload: value}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Delete(_ context.Context, cacheName, key string) error {
	k := util.StorageKey(cacheName, key)
	unlock := s.locks.Lock(k)
	s.kv.Del(k)
	unlock()
	return nil
}

func (s *Store) Increment(_ context.Context, cacheName, key string, amount int64) (int64, error) {
	k := util.StorageKey(cacheName, key)
	unlock := s.locks.Lock(k)
	defer unlock()

	var cur int64
	e, ok := s.loadLocked(k)
	if ok {
		if e.Kind != wire.KindScalar {
			return 0, pr.ErrWrongType
		}
		n, err := strconv.ParseInt(string(e.Payload), 10, 64)
		if err != nil {
			return 0, pr.ErrNotInteger
		}
		cur = n
	} else {
		e = wire.Entry{Kind: wire.KindScalar}
	}
	if (amount > 0 && cur > math.MaxInt64-amount) || (amount < 0 && cur < math.MinInt64-amount) {
		return 0, fmt.Errorf("%w: increment would overflow", pr.ErrNotInteger)
	}
	cur += amount
	e.Payload = strconv.AppendInt(nil, cur, 10)
	if err := s.store(k, e); err != nil {
		return 0, err
	}
	return cur, nil
}

func (s *Store) DictionaryFetch(_ context.Context, cacheName, name string) (map[string][]byte, bool, error) {
	e, ok := s.load(util.StorageKey(cacheName, name))
	if !ok {
		return nil, false, nil
	}
	if e.Kind != wire.KindDictionary {
		return nil, false, pr.ErrWrongType
	}
	d, err := s.codec.Decode(e.Payload)
	if err != nil {
		return nil, false, fmt.Errorf("store: decode dictionary: %w", err)
	}
	return d, true, nil
}

func (s *Store) DictionarySetFields(_ context.Context, cacheName, name string, fields map[string][]byte) error {
	k := util.StorageKey(cacheName, name)
	unlock := s.locks.Lock(k)
	defer unlock()

	merged := make(codec.Dictionary, len(fields))
	e, ok := s.loadLocked(k)
	if ok {
		if e.Kind != wire.KindDictionary {
			return pr.ErrWrongType
		}
		cur, err := s.codec.Decode(e.Payload)
		if err != nil {
			return fmt.Errorf("store: decode dictionary: %w", err)
		}
		for f, v := range cur {
			merged[f] = v
		}
	} else {
		e = wire.Entry{Kind: wire.KindDictionary}
	}
	for f, v := range fields {
		merged[f] = v
	}
	payload, err := s.codec.Encode(merged)
	if err != nil {
		return fmt.Errorf("store: encode dictionary: %w", err)
	}
	e.Payload = payload
	return s.store(k, e)
}

func (s *Store) Close(context.Context) error {
	return s.kv.Close()
}

// read returns the live entry at k. A corrupt or expired entry reads as a
// miss with stale set; raw is what the kv held.
func (s *Store) read(k string) (e wire.Entry, raw []byte, ok, stale bool) {
	raw, found := s.kv.Get(k)
	if !found {
		return wire.Entry{}, nil, false, false
	}
	e, err := wire.Decode(raw)
	if err != nil || e.Expired(s.now()) {
		return wire.Entry{}, raw, false, true
	}
	return e, raw, true, false
}

// load is read for callers that do not hold the stripe lock of k. A stale
// entry is dropped under the lock, and only if a writer has not replaced it
// since it was read.
func (s *Store) load(k string) (wire.Entry, bool) {
	e, raw, ok, stale := s.read(k)
	if stale {
		unlock := s.locks.Lock(k)
		if cur, found := s.kv.Get(k); found && bytes.Equal(cur, raw) {
			s.kv.Del(k)
		}
		unlock()
	}
	return e, ok
}

// loadLocked is read for callers holding the stripe lock of k.
func (s *Store) loadLocked(k string) (wire.Entry, bool) {
	e, _, ok, stale := s.read(k)
	if stale {
		s.kv.Del(k)
	}
	return e, ok
}

func (s *Store) store(k string, e wire.Entry) error {
	var ttl time.Duration
	if !e.ExpireAt.IsZero() {
		ttl = e.ExpireAt.Sub(s.now())
		if ttl <= 0 {
			s.kv.Del(k)
			return nil
		}
	}
	if !s.kv.Set(k, wire.Encode(e), ttl) {
		return pr.ErrRejected
	}
	return nil
}

func (s *Store) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}
