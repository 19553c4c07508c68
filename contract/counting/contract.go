// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package counting implements the counting contract: a counter gated by a minimal donation, an optional parent
// that receives a part of the held funds every few donations, owner withdrawals and the migration of state laid
// down by earlier releases.
package counting

import (
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotexproject/iotex-counting/contract"
	"github.com/iotexproject/iotex-counting/state"
)

const (
	// ContractName is the name recorded in the version metadata
	ContractName = "counting-contract"
	// CurrentVersion is the version of the state layout written by this package
	CurrentVersion = "0.3.0"
)

var (
	_stateKey          = []byte("state")
	_parentDonationKey = []byte("parent_donation")
	_contractInfoKey   = []byte("contract_info")

	_countingMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iotex_counting_action",
			Help: "Counting contract calls by action and status",
		},
		[]string{"action", "status"},
	)
)

func init() {
	prometheus.MustRegister(_countingMtc)
}

// Counting is the counting contract. It keeps no state of its own, every call reads and writes the storage handed
// in by the host.
type Counting struct {
	name    string
	version string
}

// New creates the counting contract
func New() *Counting {
	return &Counting{
		name:    ContractName,
		version: CurrentVersion,
	}
}

// Name returns the contract name
func (c *Counting) Name() string { return c.name }

// Version returns the contract version
func (c *Counting) Version() string { return c.version }

func (c *Counting) state(sr contract.StateReader, key []byte, value interface{}) error {
	return sr.State(value, contract.KeyOption(key))
}

func (c *Counting) putState(sm contract.StateManager, key []byte, value interface{}) error {
	return sm.PutState(value, contract.KeyOption(key))
}

func (c *Counting) deleteState(sm contract.StateManager, key []byte) error {
	return sm.DelState(contract.KeyOption(key))
}

func (c *Counting) loadState(sr contract.StateReader) (*State, error) {
	s := State{}
	if err := c.state(sr, _stateKey, &s); err != nil {
		return nil, errors.Wrap(err, "failed to load state")
	}
	return &s, nil
}

func (c *Counting) loadParentDonation(sr contract.StateReader) (*ParentDonation, error) {
	pd := ParentDonation{}
	if err := c.state(sr, _parentDonationKey, &pd); err != nil {
		return nil, errors.Wrap(err, "failed to load parent donation")
	}
	return &pd, nil
}

func (c *Counting) loadContractVersion(sr contract.StateReader) (*ContractVersion, error) {
	cv := ContractVersion{}
	if err := c.state(sr, _contractInfoKey, &cv); err != nil {
		return nil, errors.Wrap(err, "failed to load contract info")
	}
	return &cv, nil
}

func (c *Counting) setContractVersion(sm contract.StateManager) error {
	return c.putState(sm, _contractInfoKey, &ContractVersion{Contract: c.name, Version: c.version})
}

// isNotExist reports whether err is a missing record
func isNotExist(err error) bool {
	return errors.Cause(err) == state.ErrStateNotExist
}

// assertOwner is the authorization guard of reset, withdraw and withdraw_to
func assertOwner(owner, caller address.Address) error {
	if caller == nil || owner.String() != caller.String() {
		return &UnauthorizedError{Owner: owner}
	}
	return nil
}
