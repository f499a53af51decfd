package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// ResultSet is the encoding of query responses. The keys and the values of
// the found models are sent as two sets of equal length.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

type resultSetWire ResultSet

func (m *resultSetWire) Reset()         { *m = resultSetWire{} }
func (m *resultSetWire) String() string { return proto.CompactTextString(m) }
func (*resultSetWire) ProtoMessage()    {}

var _ ledger.Persistent = (*ResultSet)(nil)

// Marshal returns the protobuf encoding of the set.
func (r *ResultSet) Marshal() ([]byte, error) {
	return proto.Marshal((*resultSetWire)(r))
}

// Unmarshal replaces the set with the decoded raw bytes.
func (r *ResultSet) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*resultSetWire)(r)); err != nil {
		return errors.Wrapf(errors.ErrInput, "result set: %s", err)
	}
	return nil
}

// ResultsFromKeys collects the keys of models.
func ResultsFromKeys(models []ledger.Model) *ResultSet {
	set := &ResultSet{Results: make([][]byte, len(models))}
	for i, m := range models {
		set.Results[i] = m.Key
	}
	return set
}

// ResultsFromValues collects the values of models.
func ResultsFromValues(models []ledger.Model) *ResultSet {
	set := &ResultSet{Results: make([][]byte, len(models))}
	for i, m := range models {
		set.Results[i] = m.Value
	}
	return set
}

// JoinResults pairs the sets of a query response back into models.
func JoinResults(keys, values *ResultSet) ([]ledger.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys for %d values", len(keys.Results), len(values.Results))
	}
	models := make([]ledger.Model, len(keys.Results))
	for i, k := range keys.Results {
		models[i] = ledger.Pair(k, values.Results[i])
	}
	return models, nil
}

// UnmarshalOneResult decodes the first entry of an encoded ResultSet into
// dest. An empty set gives ErrNotFound.
func UnmarshalOneResult(raw []byte, dest ledger.Persistent) error {
	var set ResultSet
	if err := set.Unmarshal(raw); err != nil {
		return err
	}
	if len(set.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	return dest.Unmarshal(set.Results[0])
}
