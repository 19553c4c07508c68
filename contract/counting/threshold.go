// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package counting

import (
	"github.com/iotexproject/iotex-counting/coin"
)

// thresholdMet reports whether the attached funds satisfy the minimal donation. A zero threshold is always met.
func thresholdMet(minimal coin.Coin, funds coin.Coins) bool {
	if minimal.IsZero() {
		return true
	}
	f, ok := funds.Find(minimal.Denom)
	return ok && f.Amount != nil && f.Amount.Cmp(minimal.Amount) >= 0
}

// capFunds limits balances by caps. A non-empty caps list is an allow-list, denominations it does not name are
// capped to zero. Zero amounts are dropped.
func capFunds(balances, caps coin.Coins) coin.Coins {
	if len(caps) == 0 {
		return balances.NonZero()
	}
	ret := make(coin.Coins, 0, len(balances))
	for _, b := range balances {
		amount := caps.AmountOf(b.Denom)
		if b.Amount.Cmp(amount) < 0 {
			amount.Set(b.Amount)
		}
		if amount.Sign() <= 0 {
			continue
		}
		ret = append(ret, coin.Coin{Denom: b.Denom, Amount: amount})
	}
	return ret
}
