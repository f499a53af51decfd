package ledgertest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/store/iavl"
)

// NewKey is a random ed25519 key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition is the condition of a random key.
func NewCondition() ledger.Condition {
	return NewKey().PublicKey().Condition()
}

// CommitKVStore opens an iavl store on leveldb in a temporary directory,
// the same backend a node runs on. Call cleanup when done.
func CommitKVStore(t testing.TB) (db ledger.CommitKVStore, cleanup func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "ledgertest")
	if err != nil {
		t.Fatalf("temp dir: %s", err)
	}
	s, err := iavl.NewCommitStore(dir, "ledger")
	if err != nil {
		os.RemoveAll(dir)
		t.Fatalf("commit store: %s", err)
	}
	return s, func() {
		s.Close()
		os.RemoveAll(dir)
	}
}
