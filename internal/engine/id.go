package engine

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"sync"
	"time"
)

// IDSize is the length in bytes of an ID. The first 6 bytes carry a
// millisecond wall-clock timestamp; the remaining 10 are random. This gives
// approximate insertion-time ordering without a central counter.
const IDSize = 16

// ID is a 128-bit identifier used for nodes, pages, tuples, and
// transactions. Ordering is approximate insertion order: ids generated
// later compare greater, except for random tail collisions within the same
// millisecond. The zero value is the absent id; use IsZero to test for it.
type ID [IDSize]byte

// ZeroID is the absent/unset id, used as a sentinel (e.g. a root's
// parent_id).
var ZeroID ID

// idMu serializes timestamp+random generation so that two goroutines
// calling NewID in the same process never observe identical output, even
// within the same millisecond.
var idMu sync.Mutex

// lastMillis keeps the timestamp prefix from running backwards within a
// process: if the wall clock reads earlier than the last call, the last
// value is reused. The random tail is regenerated on every call, so ids
// sharing a millisecond are not ordered among themselves.
var lastMillis int64

// NewID produces a fresh, (approximately) insertion-ordered 128-bit
// identifier. No two calls in this process ever return an equal value.
func NewID() ID {
	idMu.Lock()
	defer idMu.Unlock()

	millis := time.Now().UnixMilli()
	if millis < lastMillis {
		millis = lastMillis
	}
	lastMillis = millis

	var id ID
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(millis))
	copy(id[:6], buf[2:8]) // low 48 bits of the millisecond timestamp

	if _, err := rand.Read(id[6:]); err != nil {
		// crypto/rand failing is a process-fatal condition; there is no
		// sane degraded mode for an id generator that must never repeat.
		panic("engine: failed to read random bytes for id: " + err.Error())
	}
	return id
}

// IsZero reports whether id is the absent/unset id.
func (id ID) IsZero() bool {
	return id == ZeroID
}

// Compare returns -1, 0, or 1 as id is less than, equal to, or greater than
// other, comparing bytes in order (timestamp prefix first).
func (id ID) Compare(other ID) int {
	for i := range id {
		if id[i] != other[i] {
			if id[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether id sorts before other.
func (id ID) Less(other ID) bool {
	return id.Compare(other) < 0
}

// String renders id as unpadded URL-safe base64.
func (id ID) String() string {
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// ParseID parses the text form produced by String.
func ParseID(s string) (ID, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return ZeroID, err
	}
	var id ID
	if len(b) != IDSize {
		return ZeroID, ErrInvalidArgument
	}
	copy(id[:], b)
	return id, nil
}

// Bytes returns a copy of id's underlying bytes.
func (id ID) Bytes() []byte {
	b := make([]byte, IDSize)
	copy(b, id[:])
	return b
}

// IDFromBytes reconstructs an ID from exactly IDSize bytes.
func IDFromBytes(b []byte) (ID, error) {
	if len(b) != IDSize {
		return ZeroID, ErrInvalidArgument
	}
	var id ID
	copy(id[:], b)
	return id, nil
}
