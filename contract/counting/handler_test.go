// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package counting

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iotexproject/iotex-counting/coin"
	"github.com/iotexproject/iotex-counting/contract"
	"github.com/iotexproject/iotex-counting/test/identityset"
)

func TestHandler(t *testing.T) {
	r := require.New(t)
	ctrl := gomock.NewController(t)
	h := NewHandler()
	sm, _ := newMockStateManager(ctrl)
	bq := newBankQuerier(ctrl, "100atom")
	parent := identityset.Address(8).String()

	_, err := h.Instantiate(execCtx(0, ""), sm, []byte(fmt.Sprintf(
		`{"counter":1,"minimal_donation":{"denom":"atom","amount":"10"},"parent":{"addr":"%s","donating_period":2,"part":"0.5"}}`,
		parent,
	)))
	r.NoError(err)

	resp, err := h.Execute(execCtx(1, ""), sm, bq, []byte(`{"increment":{"value":2}}`))
	r.NoError(err)
	r.JSONEq(`{"value":3}`, string(resp.Data))

	data, err := h.Query(execCtx(1, ""), sm, []byte(`{"value":{}}`))
	r.NoError(err)
	r.JSONEq(`{"value":3}`, string(data))

	_, err = h.Execute(execCtx(1, "10atom"), sm, bq, []byte(`{"donate":{}}`))
	r.NoError(err)
	resp, err = h.Execute(execCtx(1, "10atom"), sm, bq, []byte(`{"donate":{}}`))
	r.NoError(err)
	r.Len(resp.Messages, 1)
	r.Equal("50atom", resp.Messages[0].(contract.WasmExecute).Funds.String())

	data, err = h.Query(execCtx(1, ""), sm, []byte(`{"state":{}}`))
	r.NoError(err)
	r.JSONEq(fmt.Sprintf(
		`{"counter":5,"minimal_donation":{"denom":"atom","amount":"10"},"owner":"%s","donating_parent":2}`,
		identityset.Address(0).String(),
	), string(data))

	data, err = h.Query(execCtx(1, ""), sm, []byte(`{"parent_donation":{}}`))
	r.NoError(err)
	r.JSONEq(fmt.Sprintf(`{"address":"%s","donating_parent_period":2,"part":"0.5"}`, parent), string(data))

	resp, err = h.Execute(execCtx(0, ""), sm, bq, []byte(`{"reset":{"value":4}}`))
	r.NoError(err)
	r.JSONEq(`{"value":4}`, string(resp.Data))
	resp, err = h.Execute(execCtx(0, ""), sm, bq, []byte(`{"reset":{}}`))
	r.NoError(err)
	r.JSONEq(`{"value":0}`, string(resp.Data))

	resp, err = h.Execute(execCtx(0, ""), sm, bq, []byte(fmt.Sprintf(
		`{"withdraw_to":{"receiver":"%s","funds":[{"denom":"atom","amount":"30"}]}}`,
		identityset.Address(5).String(),
	)))
	r.NoError(err)
	r.Equal("30atom", resp.Messages[0].(contract.BankSend).Amount.String())

	resp, err = h.Execute(execCtx(0, ""), sm, bq, []byte(`{"withdraw":{}}`))
	r.NoError(err)
	r.Equal("100atom", resp.Messages[0].(contract.BankSend).Amount.String())

	_, err = h.Migrate(execCtx(7, ""), sm, []byte(`{}`))
	r.NoError(err)
}

func TestHandlerInvalidMessage(t *testing.T) {
	r := require.New(t)
	ctrl := gomock.NewController(t)
	h := NewHandler()
	sm, _ := newMockStateManager(ctrl)
	bq := newBankQuerier(ctrl, "")
	_, err := h.Instantiate(execCtx(0, ""), sm, []byte(`{"counter":0,"minimal_donation":{"denom":"atom","amount":"0"}}`))
	r.NoError(err)

	unknown := _countingMtc.WithLabelValues(_unknownAction, "failure")
	before := promtestutil.ToFloat64(unknown)
	invalid := []string{
		`{}`,
		`{"transfer":{}}`,
		`{"increment":{"value":1},"reset":{}}`,
		`{"increment":{"value":-1}}`,
		`{"reset":{"counter":1}}`,
		`not json`,
	}
	for _, msg := range invalid {
		_, err := h.Execute(execCtx(0, ""), sm, bq, []byte(msg))
		r.Equal(ErrUnknownMessage, errors.Cause(err), msg)
	}
	r.Equal(before+float64(len(invalid)), promtestutil.ToFloat64(unknown))
	for _, msg := range []string{`{}`, `{"value":{},"state":{}}`, `{"balance":{}}`} {
		_, err := h.Query(execCtx(0, ""), sm, []byte(msg))
		r.Equal(ErrUnknownMessage, errors.Cause(err), msg)
	}

	_, err = h.Execute(execCtx(0, ""), sm, bq, []byte(fmt.Sprintf(
		`{"withdraw_to":{"receiver":"%s","funds":[{"denom":"atom","amount":"1"},{"denom":"atom","amount":"2"}]}}`,
		identityset.Address(5).String(),
	)))
	r.Equal(coin.ErrDuplicateDenom, errors.Cause(err))

	_, err = h.Migrate(execCtx(0, ""), sm, []byte(fmt.Sprintf(
		`{"parent":{"addr":"%s","donating_period":1,"part":"1.5"}}`,
		identityset.Address(5).String(),
	)))
	r.Equal(ErrInvalidPart, errors.Cause(err))

	data, err := h.Query(execCtx(0, ""), sm, []byte(`{"parent_donation":{}}`))
	r.NoError(err)
	r.Equal("null", string(data))
}
