package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"
)

const (
	version byte = 1

	KindScalar     byte = 1
	KindDictionary byte = 2
)

var (
	ErrCorrupt = errors.New("momentoredis: corrupt entry")
	magic4     = [...]byte{'M', 'R', 'D', 'E'}
)

const headerLen = 4 + 1 + 1 + 8 + 4

// Entry is a framed value held by an in-process backing store.
// ExpireAt is zero when the entry does not expire.
type Entry struct {
	Kind     byte
	ExpireAt time.Time
	Payload  []byte
}

// Expired reports whether e has an expiry at or before now.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpireAt.IsZero() && !now.Before(e.ExpireAt)
}

// Encode frames an entry:
//
//	magic(4) | ver(1) | kind(1) | expireAt unix nanos (i64 be, 0 = none) | vlen(u32 be) | payload(vlen)
func Encode(e Entry) []byte {
	var buf bytes.Buffer
	buf.Grow(headerLen + len(e.Payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(e.Kind)

	var u8 [8]byte
	var u4 [4]byte

	var exp int64
	if !e.ExpireAt.IsZero() {
		exp = e.ExpireAt.UnixNano()
	}
	binary.BigEndian.PutUint64(u8[:], uint64(exp))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(e.Payload)))
	buf.Write(u4[:])

	buf.Write(e.Payload)
	return buf.Bytes()
}

// Decode parses a framed entry. The returned payload aliases b.
func Decode(b []byte) (Entry, error) {
	if len(b) < headerLen || !bytes.Equal(b[:4], magic4[:]) || b[4] != version {
		return Entry{}, ErrCorrupt
	}
	kind := b[5]
	if kind != KindScalar && kind != KindDictionary {
		return Entry{}, ErrCorrupt
	}

	off := 6
	exp := int64(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // exact length; trailing bytes are corruption
		return Entry{}, ErrCorrupt
	}

	e := Entry{Kind: kind, Payload: b[off : off+vlen]}
	if exp != 0 {
		e.ExpireAt = time.Unix(0, exp)
	}
	return e, nil
}
