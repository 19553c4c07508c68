// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package counting

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-counting/coin"
	"github.com/iotexproject/iotex-counting/contract"
)

// _unknownAction labels execute messages that decode to no single action
const _unknownAction = "unknown"

// Handler exposes the counting contract through the JSON entry points driven by a host
type Handler struct {
	c *Counting
}

var _ contract.Contract = (*Handler)(nil)

// NewHandler creates a handler of the counting contract
func NewHandler() *Handler {
	return &Handler{c: New()}
}

// Instantiate decodes an InstantiateMsg and creates the instance
func (h *Handler) Instantiate(ctx context.Context, sm contract.StateManager, msg []byte) (*contract.Response, error) {
	m := InstantiateMsg{}
	if err := decodeMsg(msg, &m); err != nil {
		observe("instantiate", err)
		return nil, err
	}
	resp, err := h.c.Instantiate(ctx, sm, m)
	observe("instantiate", err)
	return resp, err
}

// Execute decodes an ExecMsg and dispatches it
func (h *Handler) Execute(ctx context.Context, sm contract.StateManager, bq contract.BankQuerier, msg []byte) (*contract.Response, error) {
	m := ExecMsg{}
	if err := decodeMsg(msg, &m); err != nil {
		observe(_unknownAction, err)
		return nil, err
	}
	if m.variants() != 1 {
		err := errors.Wrapf(ErrUnknownMessage, "%s", msg)
		observe(_unknownAction, err)
		return nil, err
	}
	var (
		action string
		resp   *contract.Response
		err    error
	)
	switch {
	case m.Increment != nil:
		action = "increment"
		resp, err = h.c.Increment(ctx, sm, m.Increment.Value)
	case m.Reset != nil:
		action = "reset"
		resp, err = h.c.Reset(ctx, sm, m.Reset.Value)
	case m.Donate != nil:
		action = "donate"
		resp, err = h.c.Donate(ctx, sm, bq)
	case m.Withdraw != nil:
		action = "withdraw"
		resp, err = h.c.Withdraw(ctx, sm, bq)
	case m.WithdrawTo != nil:
		action = "withdraw_to"
		var caps coin.Coins
		if caps, err = coin.NewCoins(m.WithdrawTo.Funds...); err == nil {
			resp, err = h.c.WithdrawTo(ctx, sm, bq, m.WithdrawTo.Receiver, caps)
		}
	}
	observe(action, err)
	return resp, err
}

// Query decodes a QueryMsg and returns the JSON encoded result
func (h *Handler) Query(ctx context.Context, sr contract.StateReader, msg []byte) ([]byte, error) {
	m := QueryMsg{}
	if err := decodeMsg(msg, &m); err != nil {
		return nil, err
	}
	if m.variants() != 1 {
		return nil, errors.Wrapf(ErrUnknownMessage, "%s", msg)
	}
	switch {
	case m.Value != nil:
		value, err := h.c.Value(ctx, sr)
		if err != nil {
			return nil, err
		}
		return json.Marshal(ValueResp{Value: value})
	case m.State != nil:
		s, err := h.c.State(ctx, sr)
		if err != nil {
			return nil, err
		}
		return json.Marshal(toStateResp(s))
	default:
		pd, err := h.c.ParentDonation(ctx, sr)
		if err != nil {
			return nil, err
		}
		return json.Marshal(toParentDonationResp(pd))
	}
}

// Migrate decodes a MigrateMsg and upgrades the state layout
func (h *Handler) Migrate(ctx context.Context, sm contract.StateManager, msg []byte) (*contract.Response, error) {
	m := MigrateMsg{}
	if err := decodeMsg(msg, &m); err != nil {
		observe("migrate", err)
		return nil, err
	}
	resp, err := h.c.Migrate(ctx, sm, m)
	observe("migrate", err)
	return resp, err
}

func decodeMsg(msg []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		switch errors.Cause(err) {
		case coin.ErrInvalidCoin, coin.ErrInvalidPart:
			return err
		}
		return errors.Wrapf(ErrUnknownMessage, "failed to decode %s: %v", msg, err)
	}
	return nil
}

func observe(action string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	_countingMtc.WithLabelValues(action, status).Inc()
}
