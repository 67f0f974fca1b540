// Package uuid generates time-ordered UUIDv7 identifiers for primary keys.
package uuid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	googleuuid "github.com/google/uuid"
)

// New generates a UUIDv7 string based on the current timestamp. Time-ordered
// keys keep inserts append-mostly on the primary index.
//
// Layout (RFC 4122):
//   - 48 bits: Unix timestamp in milliseconds
//   - 4 bits: version (0111)
//   - 12 bits: random
//   - 2 bits: variant (10)
//   - 62 bits: random
func New() string {
	var id [16]byte

	ts := uint64(time.Now().UnixMilli())
	binary.BigEndian.PutUint64(id[0:8], ts<<16)

	if _, err := rand.Read(id[6:]); err != nil {
		// Random source failure: fall back to a plain UUIDv4.
		return googleuuid.New().String()
	}

	id[6] = (id[6] & 0x0f) | 0x70
	id[8] = (id[8] & 0x3f) | 0x80

	return format(id)
}

func format(id [16]byte) string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		binary.BigEndian.Uint32(id[0:4]),
		binary.BigEndian.Uint16(id[4:6]),
		binary.BigEndian.Uint16(id[6:8]),
		binary.BigEndian.Uint16(id[8:10]),
		id[10:16],
	)
}

// IsValid reports whether s parses as a UUID.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
