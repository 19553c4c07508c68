// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package counting

import (
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-counting/coin"
)

type (
	// InstantiateMsg creates an instance
	InstantiateMsg struct {
		Counter         uint64    `json:"counter"`
		MinimalDonation coin.Coin `json:"minimal_donation"`
		Parent          *Parent   `json:"parent,omitempty"`
	}

	// Parent is the parent configuration supplied at instantiation or migration
	Parent struct {
		Addr           string    `json:"addr"`
		DonatingPeriod uint64    `json:"donating_period"`
		Part           coin.Part `json:"part"`
	}

	// ExecMsg is the union of execute messages, exactly one field is set
	ExecMsg struct {
		Increment  *IncrementMsg  `json:"increment,omitempty"`
		Reset      *ResetMsg      `json:"reset,omitempty"`
		Donate     *DonateMsg     `json:"donate,omitempty"`
		Withdraw   *WithdrawMsg   `json:"withdraw,omitempty"`
		WithdrawTo *WithdrawToMsg `json:"withdraw_to,omitempty"`
	}

	// IncrementMsg adds Value to the counter
	IncrementMsg struct {
		Value uint64 `json:"value"`
	}

	// ResetMsg sets the counter, zero when omitted
	ResetMsg struct {
		Value uint64 `json:"value,omitempty"`
	}

	// DonateMsg donates the attached funds
	DonateMsg struct{}

	// WithdrawMsg sends every held coin to the owner
	WithdrawMsg struct{}

	// WithdrawToMsg sends held coins to Receiver, capped by Funds when it is not empty
	WithdrawToMsg struct {
		Receiver string     `json:"receiver"`
		Funds    coin.Coins `json:"funds,omitempty"`
	}

	// QueryMsg is the union of queries, exactly one field is set
	QueryMsg struct {
		Value          *ValueQuery          `json:"value,omitempty"`
		State          *StateQuery          `json:"state,omitempty"`
		ParentDonation *ParentDonationQuery `json:"parent_donation,omitempty"`
	}

	// ValueQuery asks for the counter
	ValueQuery struct{}

	// StateQuery asks for the whole state record
	StateQuery struct{}

	// ParentDonationQuery asks for the parent configuration
	ParentDonationQuery struct{}

	// MigrateMsg upgrades the state layout, optionally attaching a parent
	MigrateMsg struct {
		Parent *Parent `json:"parent,omitempty"`
	}

	// ValueResp carries the counter
	ValueResp struct {
		Value uint64 `json:"value"`
	}

	// StateResp is the JSON view of State
	StateResp struct {
		Counter         uint64    `json:"counter"`
		MinimalDonation coin.Coin `json:"minimal_donation"`
		Owner           string    `json:"owner"`
		DonatingParent  *uint64   `json:"donating_parent,omitempty"`
	}

	// ParentDonationResp is the JSON view of ParentDonation
	ParentDonationResp struct {
		Address              string    `json:"address"`
		DonatingParentPeriod uint64    `json:"donating_parent_period"`
		Part                 coin.Part `json:"part"`
	}
)

func (m ExecMsg) variants() int {
	n := 0
	for _, set := range []bool{m.Increment != nil, m.Reset != nil, m.Donate != nil, m.Withdraw != nil, m.WithdrawTo != nil} {
		if set {
			n++
		}
	}
	return n
}

func (m QueryMsg) variants() int {
	n := 0
	for _, set := range []bool{m.Value != nil, m.State != nil, m.ParentDonation != nil} {
		if set {
			n++
		}
	}
	return n
}

// toParentDonation validates the parent configuration of the instance at self
func (p *Parent) toParentDonation(self address.Address) (*ParentDonation, error) {
	addr, err := address.FromString(p.Addr)
	if err != nil {
		return nil, &InvalidAddressError{Address: p.Addr}
	}
	if self != nil && addr.String() == self.String() {
		return nil, errors.Wrapf(ErrSelfParent, "parent %s", p.Addr)
	}
	if p.DonatingPeriod == 0 {
		return nil, ErrInvalidDonatingPeriod
	}
	return &ParentDonation{
		Address:              addr,
		DonatingParentPeriod: p.DonatingPeriod,
		Part:                 p.Part,
	}, nil
}

func toStateResp(s *State) StateResp {
	resp := StateResp{
		Counter:         s.Counter,
		MinimalDonation: s.MinimalDonation.Clone(),
		Owner:           s.Owner.String(),
	}
	if s.DonatingParent != nil {
		remaining := *s.DonatingParent
		resp.DonatingParent = &remaining
	}
	return resp
}

func toParentDonationResp(pd *ParentDonation) *ParentDonationResp {
	if pd == nil {
		return nil
	}
	return &ParentDonationResp{
		Address:              pd.Address.String(),
		DonatingParentPeriod: pd.DonatingParentPeriod,
		Part:                 pd.Part,
	}
}
