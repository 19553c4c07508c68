// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package coin defines denominated amounts and the fixed-point fraction used to split balances.
package coin

import (
	"encoding/json"
	"math/big"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidCoin indicates a malformed coin string or value
	ErrInvalidCoin = errors.New("invalid coin")
	// ErrDuplicateDenom indicates a denomination appears twice in a coin list
	ErrDuplicateDenom = errors.New("duplicate denomination")
	// ErrInsufficientAmount indicates a subtraction would go negative
	ErrInsufficientAmount = errors.New("insufficient amount")

	_coinRegexp  = regexp.MustCompile(`^([0-9]+)([a-zA-Z][a-zA-Z0-9/:._-]{1,127})$`)
	_denomRegexp = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/:._-]{1,127}$`)
)

type (
	// Coin is an amount of a single denomination
	Coin struct {
		Denom  string
		Amount *big.Int
	}

	// Coins is a list of coins with unique denominations, sorted by denomination
	Coins []Coin

	coinJSON struct {
		Denom  string `json:"denom"`
		Amount string `json:"amount"`
	}
)

// NewCoin creates a coin
func NewCoin(amount int64, denom string) Coin {
	return Coin{Denom: denom, Amount: big.NewInt(amount)}
}

// NewCoins validates the given coins and sorts them, denominations must be unique
func NewCoins(coins ...Coin) (Coins, error) {
	ret := make(Coins, 0, len(coins))
	seen := make(map[string]struct{}, len(coins))
	for _, c := range coins {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[c.Denom]; ok {
			return nil, errors.Wrapf(ErrDuplicateDenom, "denom %s", c.Denom)
		}
		seen[c.Denom] = struct{}{}
		ret = append(ret, c.Clone())
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Denom < ret[j].Denom })
	return ret, nil
}

// Validate checks the denomination and that the amount is not negative
func (c Coin) Validate() error {
	if !_denomRegexp.MatchString(c.Denom) {
		return errors.Wrapf(ErrInvalidCoin, "invalid denom %q", c.Denom)
	}
	if c.Amount == nil || c.Amount.Sign() < 0 {
		return errors.Wrapf(ErrInvalidCoin, "invalid amount of %s", c.Denom)
	}
	return nil
}

// IsZero returns true if the amount is zero
func (c Coin) IsZero() bool {
	return c.Amount == nil || c.Amount.Sign() == 0
}

// Clone returns a deep copy of the coin
func (c Coin) Clone() Coin {
	amount := new(big.Int)
	if c.Amount != nil {
		amount.Set(c.Amount)
	}
	return Coin{Denom: c.Denom, Amount: amount}
}

// String returns the coin as <amount><denom>
func (c Coin) String() string {
	amount := "0"
	if c.Amount != nil {
		amount = c.Amount.String()
	}
	return amount + c.Denom
}

// MarshalJSON encodes the amount as a decimal string
func (c Coin) MarshalJSON() ([]byte, error) {
	amount := "0"
	if c.Amount != nil {
		amount = c.Amount.String()
	}
	return json.Marshal(coinJSON{Denom: c.Denom, Amount: amount})
}

// UnmarshalJSON decodes a coin with a decimal string amount
func (c *Coin) UnmarshalJSON(data []byte) error {
	var cj coinJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}
	amount, ok := new(big.Int).SetString(cj.Amount, 10)
	if !ok || amount.Sign() < 0 {
		return errors.Wrapf(ErrInvalidCoin, "invalid amount %q", cj.Amount)
	}
	c.Denom = cj.Denom
	c.Amount = amount
	return nil
}

// ParseCoin parses a coin string like "10atom"
func ParseCoin(s string) (Coin, error) {
	m := _coinRegexp.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Coin{}, errors.Wrapf(ErrInvalidCoin, "cannot parse %q", s)
	}
	amount, _ := new(big.Int).SetString(m[1], 10)
	return Coin{Denom: m[2], Amount: amount}, nil
}

// ParseCoins parses a comma separated list of coins like "10atom,5eth"
func ParseCoins(s string) (Coins, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Coins{}, nil
	}
	parts := strings.Split(s, ",")
	coins := make([]Coin, 0, len(parts))
	for _, p := range parts {
		c, err := ParseCoin(p)
		if err != nil {
			return nil, err
		}
		coins = append(coins, c)
	}
	return NewCoins(coins...)
}

// AmountOf returns the amount of the given denomination, zero if absent
func (cs Coins) AmountOf(denom string) *big.Int {
	for _, c := range cs {
		if c.Denom == denom && c.Amount != nil {
			return new(big.Int).Set(c.Amount)
		}
	}
	return big.NewInt(0)
}

// Find returns the coin of the given denomination
func (cs Coins) Find(denom string) (Coin, bool) {
	for _, c := range cs {
		if c.Denom == denom {
			return c, true
		}
	}
	return Coin{}, false
}

// Add returns the sum of both coin lists, failing on a negative amount
func (cs Coins) Add(other Coins) (Coins, error) {
	sum := make(map[string]*big.Int)
	for _, list := range []Coins{cs, other} {
		for _, c := range list {
			if c.IsZero() {
				continue
			}
			if c.Amount.Sign() < 0 {
				return nil, errors.Wrapf(ErrInvalidCoin, "negative amount %s", c.String())
			}
			if _, ok := sum[c.Denom]; !ok {
				sum[c.Denom] = new(big.Int)
			}
			sum[c.Denom].Add(sum[c.Denom], c.Amount)
		}
	}
	return fromMap(sum), nil
}

// Sub returns cs minus other, failing on a negative amount or if any denomination would go negative
func (cs Coins) Sub(other Coins) (Coins, error) {
	diff := make(map[string]*big.Int)
	for _, c := range cs {
		if !c.IsZero() {
			diff[c.Denom] = new(big.Int).Set(c.Amount)
		}
	}
	for _, c := range other {
		if c.IsZero() {
			continue
		}
		if c.Amount.Sign() < 0 {
			return nil, errors.Wrapf(ErrInvalidCoin, "negative amount %s", c.String())
		}
		have, ok := diff[c.Denom]
		if !ok || have.Cmp(c.Amount) < 0 {
			return nil, errors.Wrapf(ErrInsufficientAmount, "need %s", c.String())
		}
		have.Sub(have, c.Amount)
	}
	return fromMap(diff), nil
}

// NonZero returns the coins with a positive amount
func (cs Coins) NonZero() Coins {
	ret := make(Coins, 0, len(cs))
	for _, c := range cs {
		if !c.IsZero() {
			ret = append(ret, c.Clone())
		}
	}
	return ret
}

// IsZero returns true if no coin carries a positive amount
func (cs Coins) IsZero() bool {
	for _, c := range cs {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

// String returns the coins joined by commas
func (cs Coins) String() string {
	s := make([]string, 0, len(cs))
	for _, c := range cs {
		s = append(s, c.String())
	}
	return strings.Join(s, ",")
}

func fromMap(m map[string]*big.Int) Coins {
	ret := make(Coins, 0, len(m))
	for denom, amount := range m {
		if amount.Sign() == 0 {
			continue
		}
		ret = append(ret, Coin{Denom: denom, Amount: amount})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Denom < ret[j].Denom })
	return ret
}
