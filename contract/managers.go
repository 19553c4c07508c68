// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package contract

import (
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-counting/coin"
)

// NamespaceOption creates an option for given namespace
func NamespaceOption(ns string) StateOption {
	return func(sc *StateConfig) error {
		sc.Namespace = ns
		return nil
	}
}

// KeyOption sets the key for call
func KeyOption(key []byte) StateOption {
	return func(cfg *StateConfig) error {
		cfg.Key = make([]byte, len(key))
		copy(cfg.Key, key)
		return nil
	}
}

// CreateStateConfig creates a config for accessing contract storage
func CreateStateConfig(opts ...StateOption) (*StateConfig, error) {
	cfg := StateConfig{}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, errors.Wrap(err, "failed to execute state option")
		}
	}
	if len(cfg.Key) == 0 {
		return nil, errors.New("state key is not set")
	}
	return &cfg, nil
}

type (
	// StateConfig is the config for accessing contract storage
	StateConfig struct {
		Namespace string
		Key       []byte
	}

	// StateOption sets parameter for access state
	StateOption func(*StateConfig) error

	// StateReader defines an interface to read the storage of a contract instance
	StateReader interface {
		State(interface{}, ...StateOption) error
	}

	// StateManager defines the storage interface of a contract instance. Writes are staged by the host and
	// committed only if the call succeeds.
	StateManager interface {
		StateReader
		PutState(interface{}, ...StateOption) error
		DelState(...StateOption) error
	}

	// BankQuerier reads balances held by any identity
	BankQuerier interface {
		AllBalances(address.Address) (coin.Coins, error)
	}
)
