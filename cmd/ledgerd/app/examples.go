package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/commands"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/x/escrow"
)

const exampleChain = "test-chain"

// Examples are fixed, signed fixtures for client libraries. Keys come from
// constant seeds so the output never changes.
func Examples() []commands.Example {
	client := crypto.PrivKeyEd25519FromSeed(make([]byte, 32))
	freelancer := crypto.PrivKeyEd25519FromSeed([]byte("freelancer-freelancer-freelancer"))

	create := &escrow.CreateMsg{
		Client:     client.PublicKey().Address(),
		Freelancer: freelancer.PublicKey().Address(),
		Amount:     1500,
	}
	deliver := &escrow.DeliverMsg{EscrowID: 1}
	release := &escrow.ReleaseMsg{EscrowID: 1}

	return []commands.Example{
		{Filename: "pub_key", Obj: client.PublicKey()},
		{Filename: "create_escrow_msg", Obj: create},
		{Filename: "deliver_escrow_msg", Obj: deliver},
		{Filename: "release_escrow_msg", Obj: release},
		{Filename: "escrow", Obj: &escrow.Escrow{
			ID:         1,
			Client:     create.Client,
			Freelancer: create.Freelancer,
			Amount:     create.Amount,
			Delivered:  true,
		}},
		{Filename: "create_tx", Obj: signedExample(create, client, 0)},
		{Filename: "deliver_tx", Obj: signedExample(deliver, freelancer, 0)},
		{Filename: "release_tx", Obj: signedExample(release, client, 1)},
	}
}

func signedExample(msg ledger.Msg, signer crypto.Signer, seq int64) *Tx {
	tx := NewTx(msg)
	if err := tx.Sign(signer, exampleChain, seq); err != nil {
		panic(err)
	}
	return tx
}
