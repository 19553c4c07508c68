// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package counting

import (
	"math/big"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-counting/coin"
	"github.com/iotexproject/iotex-counting/state"
)

type (
	// State is the state record of a contract instance
	State struct {
		Counter         uint64
		MinimalDonation coin.Coin
		Owner           address.Address
		// DonatingParent is the number of donations left before the next forward, nil without a parent
		DonatingParent *uint64
	}

	// ParentDonation configures the forwarding of funds to a parent instance
	ParentDonation struct {
		Address              address.Address
		DonatingParentPeriod uint64
		Part                 coin.Part
	}

	// ContractVersion is the name and version metadata of an instance
	ContractVersion struct {
		Contract string
		Version  string
	}

	coinRecord struct {
		Denom  string
		Amount string
	}

	stateRecord struct {
		Counter         uint64
		MinimalDonation coinRecord
		Owner           string
		HasParent       bool
		DonatingParent  uint64
	}

	parentDonationRecord struct {
		Address              string
		DonatingParentPeriod uint64
		Part                 string
	}
)

func toCoinRecord(c coin.Coin) coinRecord {
	amount := "0"
	if c.Amount != nil {
		amount = c.Amount.String()
	}
	return coinRecord{Denom: c.Denom, Amount: amount}
}

func (r coinRecord) toCoin() (coin.Coin, error) {
	amount, ok := new(big.Int).SetString(r.Amount, 10)
	if !ok {
		return coin.Coin{}, errors.Errorf("failed to set amount %s", r.Amount)
	}
	return coin.Coin{Denom: r.Denom, Amount: amount}, nil
}

// Serialize serializes state into bytes
func (s State) Serialize() ([]byte, error) {
	if s.Owner == nil {
		return nil, errors.Wrap(state.ErrFailedToMarshalState, "owner is not set")
	}
	r := stateRecord{
		Counter:         s.Counter,
		MinimalDonation: toCoinRecord(s.MinimalDonation),
		Owner:           s.Owner.String(),
	}
	if s.DonatingParent != nil {
		r.HasParent = true
		r.DonatingParent = *s.DonatingParent
	}
	return state.GobEncode(&r)
}

// Deserialize deserializes bytes into state
func (s *State) Deserialize(data []byte) error {
	r := stateRecord{}
	if err := state.GobDecode(&r, data); err != nil {
		return err
	}
	minimal, err := r.MinimalDonation.toCoin()
	if err != nil {
		return errors.Wrap(state.ErrFailedToUnmarshalState, err.Error())
	}
	owner, err := address.FromString(r.Owner)
	if err != nil {
		return errors.Wrapf(state.ErrFailedToUnmarshalState, "invalid owner %s", r.Owner)
	}
	s.Counter = r.Counter
	s.MinimalDonation = minimal
	s.Owner = owner
	s.DonatingParent = nil
	if r.HasParent {
		remaining := r.DonatingParent
		s.DonatingParent = &remaining
	}
	return nil
}

// Serialize serializes the parent donation config into bytes
func (pd ParentDonation) Serialize() ([]byte, error) {
	if pd.Address == nil {
		return nil, errors.Wrap(state.ErrFailedToMarshalState, "parent address is not set")
	}
	return state.GobEncode(&parentDonationRecord{
		Address:              pd.Address.String(),
		DonatingParentPeriod: pd.DonatingParentPeriod,
		Part:                 pd.Part.String(),
	})
}

// Deserialize deserializes bytes into the parent donation config
func (pd *ParentDonation) Deserialize(data []byte) error {
	r := parentDonationRecord{}
	if err := state.GobDecode(&r, data); err != nil {
		return err
	}
	addr, err := address.FromString(r.Address)
	if err != nil {
		return errors.Wrapf(state.ErrFailedToUnmarshalState, "invalid parent %s", r.Address)
	}
	part, err := coin.NewPart(r.Part)
	if err != nil {
		return errors.Wrap(state.ErrFailedToUnmarshalState, err.Error())
	}
	pd.Address = addr
	pd.DonatingParentPeriod = r.DonatingParentPeriod
	pd.Part = part
	return nil
}

// Serialize serializes the version metadata into bytes
func (cv ContractVersion) Serialize() ([]byte, error) {
	return state.GobEncode(&cv)
}

// Deserialize deserializes bytes into the version metadata
func (cv *ContractVersion) Deserialize(data []byte) error {
	return state.GobDecode(cv, data)
}
