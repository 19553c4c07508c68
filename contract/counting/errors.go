// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package counting

import (
	"fmt"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-counting/coin"
)

var (
	// ErrInvalidDonatingPeriod indicates a parent configured with a zero period
	ErrInvalidDonatingPeriod = errors.New("donating period must be at least 1")
	// ErrSelfParent indicates an instance configured as its own parent
	ErrSelfParent = errors.New("parent must be another instance")
	// ErrInvalidPart indicates a parent part outside of [0, 1]
	ErrInvalidPart = coin.ErrInvalidPart
	// ErrCounterOverflow indicates the counter would exceed the range of uint64
	ErrCounterOverflow = errors.New("counter overflow")
	// ErrUnknownMessage indicates a message that does not match any entry point
	ErrUnknownMessage = errors.New("unknown message")
)

type (
	// UnauthorizedError is returned when the caller is not the owner
	UnauthorizedError struct {
		Owner address.Address
	}

	// InvalidAddressError is returned when an identity string cannot be decoded
	InvalidAddressError struct {
		Address string
	}

	// InvalidContractNameError is returned when migrating a different contract
	InvalidContractNameError struct {
		Expected string
	}

	// InvalidMigrationVersionError is returned when migrating from a version that never shipped
	InvalidMigrationVersionError struct {
		Version string
	}
)

func (e *UnauthorizedError) Error() string {
	owner := "<nil>"
	if e.Owner != nil {
		owner = e.Owner.String()
	}
	return fmt.Sprintf("unauthorized, owner: %s", owner)
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address: %s", e.Address)
}

func (e *InvalidContractNameError) Error() string {
	return fmt.Sprintf("invalid contract name, expected: %s", e.Expected)
}

func (e *InvalidMigrationVersionError) Error() string {
	return fmt.Sprintf("invalid migration version: %s", e.Version)
}
