package x

import (
	"github.com/iov-one/ledger"
)

// Authenticator tells a handler which conditions authorized the current
// transaction. Handlers receive one in their constructor so that they do
// not depend on how signatures are checked.
type Authenticator interface {
	GetConditions(ledger.Context) []ledger.Condition
	HasAddress(ledger.Context, ledger.Address) bool
}

// ChainAuth merges several authenticators. A condition is granted if any
// of them grants it.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

// MultiAuth is built by ChainAuth.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// GetConditions lists the conditions of every authenticator in order,
// skipping duplicates.
func (m MultiAuth) GetConditions(ctx ledger.Context) []ledger.Condition {
	var all []ledger.Condition
	for _, a := range m.impls {
	next:
		for _, c := range a.GetConditions(ctx) {
			for _, seen := range all {
				if seen.Equals(c) {
					continue next
				}
			}
			all = append(all, c)
		}
	}
	return all
}

func (m MultiAuth) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, a := range m.impls {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner is the first authenticated condition, nil if there is none.
// It is the implicit actor of a message that names no sender.
func MainSigner(ctx ledger.Context, auth Authenticator) ledger.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}

// GetAddresses is the address of every authenticated condition.
func GetAddresses(ctx ledger.Context, auth Authenticator) []ledger.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]ledger.Address, 0, len(conds))
	for _, c := range conds {
		addrs = append(addrs, c.Address())
	}
	return addrs
}
