// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package contract

import (
	"context"

	"github.com/iotexproject/iotex-address/address"

	"github.com/iotexproject/iotex-counting/coin"
	"github.com/iotexproject/iotex-counting/pkg/log"
)

type execCtxKey struct{}

// ExecCtx provides a contract call with auxiliary information.
type ExecCtx struct {
	// Caller is the identity invoking the entry point
	Caller address.Address
	// Funds are the coins attached to the call, already credited to the contract
	Funds coin.Coins
	// Contract is the address of the invoked instance
	Contract address.Address
}

// WithExecCtx adds ExecCtx into context.
func WithExecCtx(ctx context.Context, ec ExecCtx) context.Context {
	return context.WithValue(ctx, execCtxKey{}, ec)
}

// GetExecCtx gets ExecCtx
func GetExecCtx(ctx context.Context) (ExecCtx, bool) {
	ec, ok := ctx.Value(execCtxKey{}).(ExecCtx)
	return ec, ok
}

// MustGetExecCtx must get ExecCtx.
// If context doesn't exist, this function panic.
func MustGetExecCtx(ctx context.Context) ExecCtx {
	ec, ok := ctx.Value(execCtxKey{}).(ExecCtx)
	if !ok {
		log.S().Panic("Miss exec context")
	}
	return ec
}
