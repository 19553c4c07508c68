// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package host

import (
	"math/big"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-counting/coin"
	"github.com/iotexproject/iotex-counting/state"
)

type (
	// balance is the bank record of an identity
	balance struct {
		coins coin.Coins
	}

	balanceEntry struct {
		Denom  string
		Amount string
	}

	// bank reads and moves coins inside a working set
	bank struct {
		ws *workingSet
	}
)

// Serialize serializes the balance into bytes
func (b balance) Serialize() ([]byte, error) {
	entries := make([]balanceEntry, 0, len(b.coins))
	for _, c := range b.coins {
		entries = append(entries, balanceEntry{Denom: c.Denom, Amount: c.Amount.String()})
	}
	return state.GobEncode(&entries)
}

// Deserialize deserializes bytes into the balance
func (b *balance) Deserialize(data []byte) error {
	var entries []balanceEntry
	if err := state.GobDecode(&entries, data); err != nil {
		return err
	}
	coins := make(coin.Coins, 0, len(entries))
	for _, e := range entries {
		amount, ok := new(big.Int).SetString(e.Amount, 10)
		if !ok {
			return errors.Wrapf(state.ErrFailedToUnmarshalState, "invalid amount %s of %s", e.Amount, e.Denom)
		}
		coins = append(coins, coin.Coin{Denom: e.Denom, Amount: amount})
	}
	b.coins = coins
	return nil
}

// AllBalances returns every coin held by addr
func (b *bank) AllBalances(addr address.Address) (coin.Coins, error) {
	bal := balance{}
	switch err := b.ws.state(_bankNS, addr.Bytes(), &bal); errors.Cause(err) {
	case nil:
		return bal.coins, nil
	case state.ErrStateNotExist:
		return coin.Coins{}, nil
	default:
		return nil, err
	}
}

func (b *bank) setBalances(addr address.Address, coins coin.Coins) error {
	if coins.IsZero() {
		b.ws.delState(_bankNS, addr.Bytes())
		return nil
	}
	return b.ws.putState(_bankNS, addr.Bytes(), &balance{coins: coins.NonZero()})
}

func (b *bank) mint(to address.Address, amount coin.Coins) error {
	have, err := b.AllBalances(to)
	if err != nil {
		return err
	}
	sum, err := have.Add(amount)
	if err != nil {
		return err
	}
	return b.setBalances(to, sum)
}

func (b *bank) transfer(from, to address.Address, amount coin.Coins) error {
	if amount.IsZero() || from.String() == to.String() {
		return nil
	}
	have, err := b.AllBalances(from)
	if err != nil {
		return err
	}
	left, err := have.Sub(amount)
	if err != nil {
		return errors.Wrapf(ErrInsufficientFunds, "%s has %s, needs %s", from.String(), have.String(), amount.String())
	}
	if err := b.setBalances(from, left); err != nil {
		return err
	}
	return b.mint(to, amount)
}
