// Package sigs authenticates transactions by their ed25519 signatures.
//
// Every signer has an account holding its public key and a sequence. A
// signature must carry the current sequence, which is then incremented,
// so a signed transaction cannot be replayed. The conditions of all valid
// signers are put into the context for the handlers to check.
package sigs
