// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package contract

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-counting/coin"
	"github.com/iotexproject/iotex-counting/test/identityset"
)

func TestCreateStateConfig(t *testing.T) {
	r := require.New(t)
	key := []byte("state")
	cfg, err := CreateStateConfig(NamespaceOption("ns"), KeyOption(key))
	r.NoError(err)
	r.Equal("ns", cfg.Namespace)
	r.Equal(key, cfg.Key)
	key[0] = 'x'
	r.Equal([]byte("state"), cfg.Key)

	_, err = CreateStateConfig(NamespaceOption("ns"))
	r.Error(err)
}

func TestExecCtx(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	_, ok := GetExecCtx(ctx)
	r.False(ok)
	r.Panics(func() { MustGetExecCtx(ctx) })

	funds, err := coin.ParseCoins("10atom")
	r.NoError(err)
	ctx = WithExecCtx(ctx, ExecCtx{
		Caller:   identityset.Address(0),
		Funds:    funds,
		Contract: identityset.Address(1),
	})
	ec, ok := GetExecCtx(ctx)
	r.True(ok)
	r.Equal(identityset.Address(0).String(), ec.Caller.String())
	r.Equal("10atom", ec.Funds.String())
	r.Equal(identityset.Address(1).String(), MustGetExecCtx(ctx).Contract.String())
}

func TestResponse(t *testing.T) {
	r := require.New(t)
	resp := NewResponse().
		AddAttribute("action", "donate").
		AddAttribute("action", "ignored").
		AddMessage(BankSend{ToAddress: identityset.Address(0)}).
		AddMessage(WasmExecute{Contract: identityset.Address(1), Msg: json.RawMessage(`{}`)})
	v, ok := resp.Attribute("action")
	r.True(ok)
	r.Equal("donate", v)
	_, ok = resp.Attribute("counter")
	r.False(ok)
	r.Equal("bank_send", resp.Messages[0].MsgType())
	r.Equal("wasm_execute", resp.Messages[1].MsgType())

	resp, err := resp.SetData(map[string]uint64{"value": 3})
	r.NoError(err)
	r.JSONEq(`{"value":3}`, string(resp.Data))
}
