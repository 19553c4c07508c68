// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package counting

import (
	"fmt"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iotexproject/iotex-counting/coin"
	"github.com/iotexproject/iotex-counting/contract"
	"github.com/iotexproject/iotex-counting/test/identityset"
)

func TestInstantiate(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := New()

	t.Run("without parent", func(t *testing.T) {
		r := require.New(t)
		sm, _ := newMockStateManager(ctrl)
		resp, err := c.Instantiate(execCtx(0, ""), sm, InstantiateMsg{Counter: 3, MinimalDonation: coin.NewCoin(10, "atom")})
		r.NoError(err)
		action, _ := resp.Attribute("action")
		r.Equal("instantiate", action)

		s, err := c.State(execCtx(1, ""), sm)
		r.NoError(err)
		r.Equal(uint64(3), s.Counter)
		r.Equal("10atom", s.MinimalDonation.String())
		r.Equal(identityset.Address(0).String(), s.Owner.String())
		r.Nil(s.DonatingParent)
		pd, err := c.ParentDonation(execCtx(1, ""), sm)
		r.NoError(err)
		r.Nil(pd)

		cv, err := c.loadContractVersion(sm)
		r.NoError(err)
		r.Equal(ContractVersion{Contract: ContractName, Version: CurrentVersion}, *cv)
	})

	t.Run("with parent", func(t *testing.T) {
		r := require.New(t)
		sm, _ := newMockStateManager(ctrl)
		instantiate(t, c, sm, InstantiateMsg{
			MinimalDonation: coin.NewCoin(0, "atom"),
			Parent: &Parent{
				Addr:           identityset.Address(8).String(),
				DonatingPeriod: 4,
				Part:           coin.MustNewPart("0.1"),
			},
		})
		s, err := c.State(execCtx(1, ""), sm)
		r.NoError(err)
		r.NotNil(s.DonatingParent)
		r.Equal(uint64(4), *s.DonatingParent)
		pd, err := c.ParentDonation(execCtx(1, ""), sm)
		r.NoError(err)
		r.Equal(identityset.Address(8).String(), pd.Address.String())
		r.Equal(uint64(4), pd.DonatingParentPeriod)
		r.Equal("0.1", pd.Part.String())
	})

	t.Run("invalid parent", func(t *testing.T) {
		r := require.New(t)
		sm, cb := newMockStateManager(ctrl)
		_, err := c.Instantiate(execCtx(0, ""), sm, InstantiateMsg{
			MinimalDonation: coin.NewCoin(0, "atom"),
			Parent:          &Parent{Addr: "parent", DonatingPeriod: 1},
		})
		var aerr *InvalidAddressError
		r.ErrorAs(err, &aerr)
		r.Equal("parent", aerr.Address)

		_, err = c.Instantiate(execCtx(0, ""), sm, InstantiateMsg{
			MinimalDonation: coin.NewCoin(0, "atom"),
			Parent:          &Parent{Addr: identityset.Address(8).String()},
		})
		r.Equal(ErrInvalidDonatingPeriod, errors.Cause(err))

		_, err = c.Instantiate(execCtx(0, ""), sm, InstantiateMsg{
			MinimalDonation: coin.NewCoin(0, "atom"),
			Parent:          &Parent{Addr: identityset.Address(9).String(), DonatingPeriod: 1, Part: coin.MustNewPart("1")},
		})
		r.Equal(ErrSelfParent, errors.Cause(err))
		r.Zero(cb.Size())
	})

	t.Run("invalid minimal donation", func(t *testing.T) {
		r := require.New(t)
		sm, cb := newMockStateManager(ctrl)
		_, err := c.Instantiate(execCtx(0, ""), sm, InstantiateMsg{MinimalDonation: coin.NewCoin(1, "")})
		r.Equal(coin.ErrInvalidCoin, errors.Cause(err))
		r.Zero(cb.Size())
	})
}

func TestIncrement(t *testing.T) {
	r := require.New(t)
	ctrl := gomock.NewController(t)
	c := New()

	for _, d := range [][2]uint64{{0, 0}, {1, 2}, {5, 0}, {100, 23}} {
		sm1, _ := newMockStateManager(ctrl)
		instantiate(t, c, sm1, InstantiateMsg{MinimalDonation: coin.NewCoin(0, "atom")})
		_, err := c.Increment(execCtx(1, ""), sm1, d[0])
		r.NoError(err)
		_, err = c.Increment(execCtx(2, ""), sm1, d[1])
		r.NoError(err)

		sm2, _ := newMockStateManager(ctrl)
		instantiate(t, c, sm2, InstantiateMsg{MinimalDonation: coin.NewCoin(0, "atom")})
		resp, err := c.Increment(execCtx(3, ""), sm2, d[0]+d[1])
		r.NoError(err)

		v1, err := c.Value(execCtx(1, ""), sm1)
		r.NoError(err)
		v2, err := c.Value(execCtx(1, ""), sm2)
		r.NoError(err)
		r.Equal(v1, v2)
		r.Equal(d[0]+d[1], v2)

		r.JSONEq(fmt.Sprintf(`{"value":%d}`, d[0]+d[1]), string(resp.Data))
		action, _ := resp.Attribute("action")
		r.Equal("increment", action)
		sender, _ := resp.Attribute("sender")
		r.Equal(identityset.Address(3).String(), sender)
	}

	t.Run("overflow", func(t *testing.T) {
		r := require.New(t)
		sm, _ := newMockStateManager(ctrl)
		instantiate(t, c, sm, InstantiateMsg{Counter: math.MaxUint64 - 1, MinimalDonation: coin.NewCoin(0, "atom")})
		_, err := c.Increment(execCtx(1, ""), sm, 2)
		r.Equal(ErrCounterOverflow, errors.Cause(err))
		v, err := c.Value(execCtx(1, ""), sm)
		r.NoError(err)
		r.Equal(uint64(math.MaxUint64-1), v)
	})
}

func TestReset(t *testing.T) {
	r := require.New(t)
	ctrl := gomock.NewController(t)
	c := New()
	sm, _ := newMockStateManager(ctrl)
	instantiate(t, c, sm, InstantiateMsg{Counter: 5, MinimalDonation: coin.NewCoin(0, "atom")})

	for i := 1; i < 4; i++ {
		_, err := c.Reset(execCtx(i, ""), sm, 10)
		var uerr *UnauthorizedError
		r.ErrorAs(err, &uerr)
		r.Equal(identityset.Address(0).String(), uerr.Owner.String())
		v, err := c.Value(execCtx(i, ""), sm)
		r.NoError(err)
		r.Equal(uint64(5), v)
	}

	resp, err := c.Reset(execCtx(0, ""), sm, 10)
	r.NoError(err)
	r.JSONEq(`{"value":10}`, string(resp.Data))
	resp, err = c.Reset(execCtx(0, ""), sm, 0)
	r.NoError(err)
	counter, _ := resp.Attribute("counter")
	r.Equal("0", counter)
}

func TestDonate(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := New()
	bq := newBankQuerier(ctrl, "100atom")

	t.Run("zero threshold", func(t *testing.T) {
		r := require.New(t)
		sm, _ := newMockStateManager(ctrl)
		instantiate(t, c, sm, InstantiateMsg{MinimalDonation: coin.NewCoin(0, "atom")})
		for i, funds := range []string{"", "1eth", "10atom"} {
			resp, err := c.Donate(execCtx(1, funds), sm, bq)
			r.NoError(err)
			r.Empty(resp.Messages)
			v, err := c.Value(execCtx(1, ""), sm)
			r.NoError(err)
			r.Equal(uint64(i+1), v)
		}
	})

	t.Run("threshold", func(t *testing.T) {
		r := require.New(t)
		sm, _ := newMockStateManager(ctrl)
		instantiate(t, c, sm, InstantiateMsg{MinimalDonation: coin.NewCoin(10, "atom")})
		tests := []struct {
			funds    string
			expected uint64
		}{
			{"5atom", 0},
			{"", 0},
			{"20eth", 0},
			{"10atom", 1},
			{"9atom", 1},
			{"3eth,15atom", 2},
		}
		for _, tt := range tests {
			resp, err := c.Donate(execCtx(1, tt.funds), sm, bq)
			r.NoError(err)
			r.Empty(resp.Messages)
			r.JSONEq(fmt.Sprintf(`{"value":%d}`, tt.expected), string(resp.Data))
			v, err := c.Value(execCtx(1, ""), sm)
			r.NoError(err)
			r.Equal(tt.expected, v, tt.funds)
		}
	})
}

func TestDonateParentCascade(t *testing.T) {
	r := require.New(t)
	ctrl := gomock.NewController(t)
	c := New()
	parent := identityset.Address(8)
	bq := newBankQuerier(ctrl, "100atom,7eth")

	sm, _ := newMockStateManager(ctrl)
	instantiate(t, c, sm, InstantiateMsg{
		MinimalDonation: coin.NewCoin(10, "atom"),
		Parent: &Parent{
			Addr:           parent.String(),
			DonatingPeriod: 3,
			Part:           coin.MustNewPart("0.1"),
		},
	})

	remaining := []uint64{2, 1, 3, 2, 1, 3, 2}
	for i, expected := range remaining {
		// a donation below the threshold does not move the cascade
		resp, err := c.Donate(execCtx(1, "1atom"), sm, bq)
		r.NoError(err)
		r.Empty(resp.Messages)

		resp, err = c.Donate(execCtx(1, "10atom"), sm, bq)
		r.NoError(err)
		s, err := c.State(execCtx(1, ""), sm)
		r.NoError(err)
		r.Equal(uint64(i+1), s.Counter)
		r.NotNil(s.DonatingParent)
		r.Equal(expected, *s.DonatingParent)

		if (i+1)%3 != 0 {
			r.Empty(resp.Messages)
			_, ok := resp.Attribute("donated_to_parent")
			r.False(ok)
			continue
		}
		r.Len(resp.Messages, 1)
		msg, ok := resp.Messages[0].(contract.WasmExecute)
		r.True(ok)
		r.Equal(parent.String(), msg.Contract.String())
		r.JSONEq(`{"donate":{}}`, string(msg.Msg))
		// 7eth * 0.1 truncates to zero and is dropped
		r.Equal("10atom", msg.Funds.String())
		donatedTo, ok := resp.Attribute("donated_to_parent")
		r.True(ok)
		r.Equal(parent.String(), donatedTo)
	}
}

func TestDonateForwardNeverExceedsBalance(t *testing.T) {
	r := require.New(t)
	ctrl := gomock.NewController(t)
	c := New()
	balances, err := coin.ParseCoins("1atom,3eth,999btc")
	r.NoError(err)
	bq := newBankQuerier(ctrl, balances.String())

	for _, part := range []string{"0", "0.333", "0.5", "0.999", "1"} {
		sm, _ := newMockStateManager(ctrl)
		instantiate(t, c, sm, InstantiateMsg{
			MinimalDonation: coin.NewCoin(0, "atom"),
			Parent: &Parent{
				Addr:           identityset.Address(8).String(),
				DonatingPeriod: 1,
				Part:           coin.MustNewPart(part),
			},
		})
		resp, err := c.Donate(execCtx(1, ""), sm, bq)
		r.NoError(err)
		r.Len(resp.Messages, 1)
		msg := resp.Messages[0].(contract.WasmExecute)
		for _, f := range msg.Funds {
			r.True(f.Amount.Sign() > 0)
			r.True(f.Amount.Cmp(balances.AmountOf(f.Denom)) <= 0, part)
		}
		if part == "1" {
			r.Equal(balances.String(), msg.Funds.String())
		}
		if part == "0" {
			r.Empty(msg.Funds)
		}
	}
}

func TestWithdraw(t *testing.T) {
	r := require.New(t)
	ctrl := gomock.NewController(t)
	c := New()
	sm, _ := newMockStateManager(ctrl)
	bq := newBankQuerier(ctrl, "100atom,0btc,20eth")
	instantiate(t, c, sm, InstantiateMsg{MinimalDonation: coin.NewCoin(0, "atom")})

	_, err := c.Withdraw(execCtx(1, ""), sm, bq)
	var uerr *UnauthorizedError
	r.ErrorAs(err, &uerr)
	r.Equal(identityset.Address(0).String(), uerr.Owner.String())

	resp, err := c.Withdraw(execCtx(0, ""), sm, bq)
	r.NoError(err)
	r.Len(resp.Messages, 1)
	send, ok := resp.Messages[0].(contract.BankSend)
	r.True(ok)
	r.Equal(identityset.Address(0).String(), send.ToAddress.String())
	r.Equal("100atom,20eth", send.Amount.String())
}

func TestWithdrawTo(t *testing.T) {
	r := require.New(t)
	ctrl := gomock.NewController(t)
	c := New()
	sm, _ := newMockStateManager(ctrl)
	bq := newBankQuerier(ctrl, "100atom,20eth")
	instantiate(t, c, sm, InstantiateMsg{MinimalDonation: coin.NewCoin(0, "atom")})
	receiver := identityset.Address(5).String()

	t.Run("unauthorized", func(t *testing.T) {
		r := require.New(t)
		_, err := c.WithdrawTo(execCtx(1, ""), sm, bq, receiver, nil)
		var uerr *UnauthorizedError
		r.ErrorAs(err, &uerr)
		r.Equal(identityset.Address(0).String(), uerr.Owner.String())
	})

	t.Run("invalid receiver", func(t *testing.T) {
		r := require.New(t)
		_, err := c.WithdrawTo(execCtx(0, ""), sm, bq, "receiver", nil)
		var aerr *InvalidAddressError
		r.ErrorAs(err, &aerr)
		r.Equal("receiver", aerr.Address)

		// ownership is checked before the receiver
		_, err = c.WithdrawTo(execCtx(1, ""), sm, bq, "receiver", nil)
		var uerr *UnauthorizedError
		r.ErrorAs(err, &uerr)
		r.Equal(identityset.Address(0).String(), uerr.Owner.String())
	})

	tests := []struct {
		caps     string
		expected string
	}{
		{"", "100atom,20eth"},
		{"50atom", "50atom"},
		{"150atom,5eth", "100atom,5eth"},
		{"0atom", ""},
	}
	for _, tt := range tests {
		caps, err := coin.ParseCoins(tt.caps)
		r.NoError(err)
		resp, err := c.WithdrawTo(execCtx(0, ""), sm, bq, receiver, caps)
		r.NoError(err)
		r.Len(resp.Messages, 1)
		send := resp.Messages[0].(contract.BankSend)
		r.Equal(receiver, send.ToAddress.String())
		r.Equal(tt.expected, send.Amount.String(), tt.caps)
		to, _ := resp.Attribute("receiver")
		r.Equal(receiver, to)
	}
}
