// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package coin

import (
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidPart indicates a fraction outside of [0, 1]
var ErrInvalidPart = errors.New("part must be within [0, 1]")

var _one = decimal.NewFromInt(1)

// Part is a fraction within [0, 1]
type Part struct {
	d decimal.Decimal
}

// NewPart parses a decimal string such as "0.1"
func NewPart(s string) (Part, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Part{}, errors.Wrapf(ErrInvalidPart, "cannot parse %q", s)
	}
	return newPart(d)
}

// MustNewPart is NewPart that panics on error
func MustNewPart(s string) Part {
	p, err := NewPart(s)
	if err != nil {
		panic(err)
	}
	return p
}

func newPart(d decimal.Decimal) (Part, error) {
	if d.IsNegative() || d.GreaterThan(_one) {
		return Part{}, errors.Wrapf(ErrInvalidPart, "got %s", d.String())
	}
	return Part{d: d}, nil
}

// IsZero returns true for the zero fraction
func (p Part) IsZero() bool {
	return p.d.IsZero()
}

// Mul returns amount * p truncated toward zero
func (p Part) Mul(amount *big.Int) *big.Int {
	if amount == nil {
		return big.NewInt(0)
	}
	return decimal.NewFromBigInt(amount, 0).Mul(p.d).Truncate(0).BigInt()
}

// MulCoins applies Mul to every coin and drops the ones that end up zero
func (p Part) MulCoins(cs Coins) Coins {
	ret := make(Coins, 0, len(cs))
	for _, c := range cs {
		amount := p.Mul(c.Amount)
		if amount.Sign() == 0 {
			continue
		}
		ret = append(ret, Coin{Denom: c.Denom, Amount: amount})
	}
	return ret
}

// String returns the decimal representation
func (p Part) String() string {
	return p.d.String()
}

// MarshalJSON encodes the fraction as a decimal string
func (p Part) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.d.String())
}

// UnmarshalJSON decodes a decimal string and checks the range
func (p *Part) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	part, err := NewPart(s)
	if err != nil {
		return err
	}
	*p = part
	return nil
}
