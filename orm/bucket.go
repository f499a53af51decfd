package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Model is an entity that can be validated and stored.
type Model interface {
	ledger.Persistent
	Validate() error
}

var bucketName = regexp.MustCompile(`^[a-z_]{3,10}$`)

// ModelBucket stores models of one type under a common key prefix.
type ModelBucket struct {
	name   string
	prefix []byte
	kind   string
}

// NewModelBucket returns a bucket called name. The example model only
// names the stored type in error messages. name must be 3 to 10 lower case
// letters or underscores, anything else panics.
func NewModelBucket(name string, example Model) ModelBucket {
	if !bucketName.MatchString(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return ModelBucket{
		name:   name,
		prefix: []byte(name + ":"),
		kind:   fmt.Sprintf("%T", example),
	}
}

// Name of the bucket.
func (b ModelBucket) Name() string {
	return b.name
}

// DBKey returns the store key of the model with the given primary key. The
// result never shares memory with earlier results.
func (b ModelBucket) DBKey(key []byte) []byte {
	k := make([]byte, 0, len(b.prefix)+len(key))
	return append(append(k, b.prefix...), key...)
}

// One loads the model stored under key into dest. A missing key gives
// ErrNotFound.
func (b ModelBucket) One(db ledger.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.DBKey(key))
	switch {
	case err != nil:
		return errors.Wrapf(err, "load %s", b.kind)
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.kind, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "decode %s", b.kind)
	}
	return nil
}

// Has returns ErrNotFound unless a model is stored under key.
func (b ModelBucket) Has(db ledger.ReadOnlyKVStore, key []byte) error {
	switch ok, err := db.Has(b.DBKey(key)); {
	case err != nil:
		return errors.Wrapf(err, "lookup %s", b.kind)
	case !ok:
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.kind, key)
	}
	return nil
}

// Put validates m and stores it under key.
func (b ModelBucket) Put(db ledger.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrapf(errors.ErrEmpty, "%s key", b.kind)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrapf(err, "validate %s", b.kind)
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "encode %s", b.kind)
	}
	// A nil value reads back as a missing key. The encoding of a model
	// with only zero fields is empty but must still exist.
	if raw == nil {
		raw = []byte{}
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrapf(err, "store %s", b.kind)
	}
	return nil
}

// Delete removes the model stored under key. A missing key gives
// ErrNotFound.
func (b ModelBucket) Delete(db ledger.KVStore, key []byte) error {
	if err := b.Has(db, key); err != nil {
		return err
	}
	if err := db.Delete(b.DBKey(key)); err != nil {
		return errors.Wrapf(err, "delete %s", b.kind)
	}
	return nil
}

// Register exposes the bucket to queries on "/"+path, or "/"+name when
// path is empty.
func (b ModelBucket) Register(path string, r ledger.QueryRouter) {
	if path == "" {
		path = b.name
	}
	r.Register("/"+path, b)
}

// Query serves the bucket content. Without a modifier data is a primary
// key and at most one model is returned. With "prefix" all models whose
// primary key starts with data are returned in key order.
func (b ModelBucket) Query(db ledger.ReadOnlyKVStore, mod string, data []byte) ([]ledger.Model, error) {
	switch mod {
	case ledger.KeyQueryMod:
		key := b.DBKey(data)
		val, err := db.Get(key)
		if err != nil || val == nil {
			return nil, err
		}
		return []ledger.Model{ledger.Pair(key, val)}, nil
	case ledger.PrefixQueryMod:
		it, err := db.Iterator(PrefixRange(b.DBKey(data)))
		if err != nil {
			return nil, err
		}
		return ReadAll(it)
	}
	return nil, errors.Wrapf(errors.ErrInput, "query modifier %q", mod)
}
