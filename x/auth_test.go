package x

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/ledgertest"
)

func TestAuthenticators(t *testing.T) {
	a, b, c := ledgertest.NewCondition(), ledgertest.NewCondition(), ledgertest.NewCondition()
	bg := context.Background()
	alice := &ledgertest.CtxAuth{Key: "alice"}
	other := &ledgertest.CtxAuth{Key: "other"}
	withAB := alice.SetConditions(bg, a, b)

	cases := map[string]struct {
		ctx     ledger.Context
		auth    Authenticator
		want    []ledger.Condition
		missing ledger.Condition
	}{
		"nothing set": {
			ctx:     bg,
			auth:    alice,
			missing: a,
		},
		"context conditions": {
			ctx:     withAB,
			auth:    alice,
			want:    []ledger.Condition{a, b},
			missing: c,
		},
		"another key": {
			ctx:     withAB,
			auth:    other,
			missing: a,
		},
		"chain keeps order": {
			ctx:     other.SetConditions(withAB, c),
			auth:    ChainAuth(other, alice),
			want:    []ledger.Condition{c, a, b},
			missing: ledgertest.NewCondition(),
		},
		"chain drops duplicates": {
			ctx:     other.SetConditions(withAB, b),
			auth:    ChainAuth(alice, other),
			want:    []ledger.Condition{a, b},
			missing: c,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := tc.auth.GetConditions(tc.ctx)
			assert.Equal(t, tc.want, got)

			addrs := GetAddresses(tc.ctx, tc.auth)
			assert.Len(t, addrs, len(tc.want))
			for i, cond := range tc.want {
				assert.Equal(t, cond.Address(), addrs[i])
				assert.True(t, tc.auth.HasAddress(tc.ctx, cond.Address()))
			}
			assert.False(t, tc.auth.HasAddress(tc.ctx, tc.missing.Address()))

			if len(tc.want) == 0 {
				assert.Nil(t, MainSigner(tc.ctx, tc.auth))
			} else {
				assert.Equal(t, tc.want[0], MainSigner(tc.ctx, tc.auth))
			}
		})
	}
}
