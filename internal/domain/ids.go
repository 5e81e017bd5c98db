package domain

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
)

// Client identifiers are UUIDv7 values whose leading 48 bits hold the creation instant in Unix
// milliseconds. Byte-wise ordering of the identifiers therefore follows creation time, which lets
// reports bound clients by creation without a separate index.

// NewClientID returns a UUIDv7 whose embedded time is at.
func NewClientID(at time.Time) (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, err
	}
	putMillis(&id, at)
	return id, nil
}

// ClientIDTime returns the creation instant embedded in a client identifier.
func ClientIDTime(id uuid.UUID) time.Time {
	var buf [8]byte
	copy(buf[2:], id[:6])
	return time.UnixMilli(int64(binary.BigEndian.Uint64(buf[:]))).UTC()
}

// ClientIDFloor returns the smallest identifier created at t's millisecond.
func ClientIDFloor(t time.Time) uuid.UUID {
	var id uuid.UUID
	putMillis(&id, t)
	id[6] = 0x70
	id[8] = 0x80
	return id
}

// ClientIDCeil returns the largest identifier created at t's millisecond.
func ClientIDCeil(t time.Time) uuid.UUID {
	var id uuid.UUID
	for i := range id {
		id[i] = 0xff
	}
	putMillis(&id, t)
	id[6] = 0x7f
	id[8] = 0xbf
	return id
}

func putMillis(id *uuid.UUID, t time.Time) {
	ms := uint64(t.UnixMilli())
	id[0] = byte(ms >> 40)
	id[1] = byte(ms >> 32)
	id[2] = byte(ms >> 24)
	id[3] = byte(ms >> 16)
	id[4] = byte(ms >> 8)
	id[5] = byte(ms)
}
