// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package counting

import (
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-counting/coin"
	"github.com/iotexproject/iotex-counting/contract"
	"github.com/iotexproject/iotex-counting/state"
)

var (
	// 0.1.0 stored every field under its own key
	_legacyCounterKey         = []byte("counter")
	_legacyMinimalDonationKey = []byte("minimal_donation")
	_legacyOwnerKey           = []byte("owner")
)

type (
	// legacyState is a state layout of a released version. Every layout converts straight into the current State.
	legacyState interface {
		toState(admin address.Address) State
		cleanup(c *Counting, sm contract.StateManager) error
	}

	legacyLoader func(c *Counting, sr contract.StateReader) (legacyState, error)

	// legacyV010 is the layout of 0.1.0. Owner is nil for instances created before ownership was recorded.
	legacyV010 struct {
		Counter         uint64
		MinimalDonation coin.Coin
		Owner           address.Address
	}

	// legacyV020 is the layout of 0.2.0, a single state record without parent
	legacyV020 struct {
		Counter         uint64
		MinimalDonation coin.Coin
		Owner           address.Address
	}

	legacyV020Record struct {
		Counter         uint64
		MinimalDonation coinRecord
		Owner           string
	}
)

var _legacyLoaders = map[string]legacyLoader{
	"0.1.0": loadLegacyV010,
	"0.2.0": loadLegacyV020,
}

func loadLegacyV010(c *Counting, sr contract.StateReader) (legacyState, error) {
	var counter uint64
	if err := c.state(sr, _legacyCounterKey, &counter); err != nil {
		return nil, errors.Wrap(err, "failed to load 0.1.0 counter")
	}
	minimal := coinRecord{}
	if err := c.state(sr, _legacyMinimalDonationKey, &minimal); err != nil {
		return nil, errors.Wrap(err, "failed to load 0.1.0 minimal donation")
	}
	donation, err := minimal.toCoin()
	if err != nil {
		return nil, errors.Wrap(state.ErrFailedToUnmarshalState, err.Error())
	}
	l := legacyV010{Counter: counter, MinimalDonation: donation}
	var owner string
	switch err := c.state(sr, _legacyOwnerKey, &owner); {
	case err == nil:
		if l.Owner, err = address.FromString(owner); err != nil {
			return nil, errors.Wrapf(state.ErrFailedToUnmarshalState, "invalid 0.1.0 owner %s", owner)
		}
	case isNotExist(err):
	default:
		return nil, errors.Wrap(err, "failed to load 0.1.0 owner")
	}
	return &l, nil
}

func (l *legacyV010) toState(admin address.Address) State {
	owner := l.Owner
	if owner == nil {
		owner = admin
	}
	return State{
		Counter:         l.Counter,
		MinimalDonation: l.MinimalDonation.Clone(),
		Owner:           owner,
	}
}

func (l *legacyV010) cleanup(c *Counting, sm contract.StateManager) error {
	keys := [][]byte{_legacyCounterKey, _legacyMinimalDonationKey}
	if l.Owner != nil {
		keys = append(keys, _legacyOwnerKey)
	}
	for _, key := range keys {
		if err := c.deleteState(sm, key); err != nil {
			return errors.Wrapf(err, "failed to delete 0.1.0 key %s", key)
		}
	}
	return nil
}

func loadLegacyV020(c *Counting, sr contract.StateReader) (legacyState, error) {
	l := legacyV020{}
	if err := c.state(sr, _stateKey, &l); err != nil {
		return nil, errors.Wrap(err, "failed to load 0.2.0 state")
	}
	return &l, nil
}

func (l *legacyV020) toState(_ address.Address) State {
	return State{
		Counter:         l.Counter,
		MinimalDonation: l.MinimalDonation.Clone(),
		Owner:           l.Owner,
	}
}

// cleanup is a no-op, the current state record overwrites the 0.2.0 one
func (l *legacyV020) cleanup(_ *Counting, _ contract.StateManager) error {
	return nil
}

// Serialize serializes the 0.2.0 state into bytes
func (l legacyV020) Serialize() ([]byte, error) {
	if l.Owner == nil {
		return nil, errors.Wrap(state.ErrFailedToMarshalState, "owner is not set")
	}
	return state.GobEncode(&legacyV020Record{
		Counter:         l.Counter,
		MinimalDonation: toCoinRecord(l.MinimalDonation),
		Owner:           l.Owner.String(),
	})
}

// Deserialize deserializes bytes into the 0.2.0 state
func (l *legacyV020) Deserialize(data []byte) error {
	r := legacyV020Record{}
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
	l.Counter = r.Counter
	l.MinimalDonation = minimal
	l.Owner = owner
	return nil
}
