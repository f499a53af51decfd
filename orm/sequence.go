package orm

import (
	"encoding/binary"
	"math"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Sequence hands out increasing identifiers starting at 1. The store holds
// the next value to hand out under "_s.<bucket>:<name>".
type Sequence struct {
	key []byte
}

// NewSequence returns the sequence called name within bucket.
func NewSequence(bucket, name string) Sequence {
	return Sequence{key: []byte("_s." + bucket + ":" + name)}
}

// NextID returns a fresh identifier and advances the counter. The counter
// is written to db, so discarding db also gives the id back.
func (s *Sequence) NextID(db ledger.KVStore) (uint64, error) {
	id, err := s.Peek(db)
	if err != nil {
		return 0, err
	}
	if id == math.MaxUint64 {
		return 0, errors.Wrapf(errors.ErrOverflow, "sequence %s exhausted", s.key)
	}
	if err := db.Set(s.key, EncodeID(id+1)); err != nil {
		return 0, errors.Wrapf(err, "advance sequence %s", s.key)
	}
	return id, nil
}

// Peek returns the identifier NextID would hand out, without changes.
func (s *Sequence) Peek(db ledger.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.key)
	if err != nil {
		return 0, errors.Wrapf(err, "load sequence %s", s.key)
	}
	if raw == nil {
		return 1, nil
	}
	return DecodeID(raw)
}

// EncodeID writes id as 8 big-endian bytes, so that the byte order of
// keys follows the numeric order of ids.
func EncodeID(id uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b[:]
}

// DecodeID reads an id written by EncodeID.
func DecodeID(raw []byte) (uint64, error) {
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "id of %d bytes", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}
