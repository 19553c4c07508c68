// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package counting

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-counting/coin"
	"github.com/iotexproject/iotex-counting/contract"
	"github.com/iotexproject/iotex-counting/pkg/log"
)

// Instantiate writes the initial state, the caller becomes the owner
func (c *Counting) Instantiate(ctx context.Context, sm contract.StateManager, msg InstantiateMsg) (*contract.Response, error) {
	ec := contract.MustGetExecCtx(ctx)
	if err := msg.MinimalDonation.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid minimal donation")
	}
	var pd *ParentDonation
	if msg.Parent != nil {
		var err error
		if pd, err = msg.Parent.toParentDonation(ec.Contract); err != nil {
			return nil, err
		}
	}
	s := State{
		Counter:         msg.Counter,
		MinimalDonation: msg.MinimalDonation.Clone(),
		Owner:           ec.Caller,
	}
	if pd != nil {
		period := pd.DonatingParentPeriod
		s.DonatingParent = &period
	}
	if err := c.setContractVersion(sm); err != nil {
		return nil, err
	}
	if err := c.putState(sm, _stateKey, &s); err != nil {
		return nil, err
	}
	if pd != nil {
		if err := c.putState(sm, _parentDonationKey, pd); err != nil {
			return nil, err
		}
	}
	log.L().Debug("Instantiated counting contract",
		zap.String("owner", ec.Caller.String()),
		zap.Uint64("counter", s.Counter),
		zap.String("minimalDonation", s.MinimalDonation.String()),
		zap.Bool("parent", pd != nil))
	return contract.NewResponse().
		AddAttribute("action", "instantiate").
		AddAttribute("sender", ec.Caller.String()), nil
}

// Increment adds delta to the counter, any caller may increment
func (c *Counting) Increment(ctx context.Context, sm contract.StateManager, delta uint64) (*contract.Response, error) {
	ec := contract.MustGetExecCtx(ctx)
	s, err := c.loadState(sm)
	if err != nil {
		return nil, err
	}
	if s.Counter > math.MaxUint64-delta {
		return nil, errors.Wrapf(ErrCounterOverflow, "counter %d, delta %d", s.Counter, delta)
	}
	s.Counter += delta
	if err := c.putState(sm, _stateKey, s); err != nil {
		return nil, err
	}
	return counterResponse("increment", ec.Caller, s.Counter)
}

// Reset sets the counter to value, only the owner may reset
func (c *Counting) Reset(ctx context.Context, sm contract.StateManager, value uint64) (*contract.Response, error) {
	ec := contract.MustGetExecCtx(ctx)
	s, err := c.loadState(sm)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(s.Owner, ec.Caller); err != nil {
		return nil, err
	}
	s.Counter = value
	if err := c.putState(sm, _stateKey, s); err != nil {
		return nil, err
	}
	return counterResponse("reset", ec.Caller, s.Counter)
}

// Donate counts a donation meeting the minimal donation. With a parent configured, every DonatingParentPeriod-th
// counted donation forwards floor(balance * part) of every held denomination to the parent.
func (c *Counting) Donate(ctx context.Context, sm contract.StateManager, bq contract.BankQuerier) (*contract.Response, error) {
	ec := contract.MustGetExecCtx(ctx)
	s, err := c.loadState(sm)
	if err != nil {
		return nil, err
	}
	if !thresholdMet(s.MinimalDonation, ec.Funds) {
		log.L().Debug("Donation below threshold",
			zap.String("sender", ec.Caller.String()),
			zap.String("funds", ec.Funds.String()),
			zap.String("minimalDonation", s.MinimalDonation.String()))
		return counterResponse("donate", ec.Caller, s.Counter)
	}
	if s.Counter == math.MaxUint64 {
		return nil, errors.Wrapf(ErrCounterOverflow, "counter %d", s.Counter)
	}
	s.Counter++

	var forward *contract.WasmExecute
	if s.DonatingParent != nil {
		remaining := uint64(0)
		if *s.DonatingParent > 1 {
			remaining = *s.DonatingParent - 1
		}
		if remaining == 0 {
			pd, err := c.loadParentDonation(sm)
			if err != nil {
				return nil, err
			}
			remaining = pd.DonatingParentPeriod
			if forward, err = c.forwardToParent(ec.Contract, pd, bq); err != nil {
				return nil, err
			}
		}
		s.DonatingParent = &remaining
	}
	if err := c.putState(sm, _stateKey, s); err != nil {
		return nil, err
	}
	resp, err := counterResponse("donate", ec.Caller, s.Counter)
	if err != nil {
		return nil, err
	}
	if forward != nil {
		resp.AddMessage(*forward).AddAttribute("donated_to_parent", forward.Contract.String())
		log.L().Debug("Forwarding donation to parent",
			zap.String("parent", forward.Contract.String()),
			zap.String("funds", forward.Funds.String()))
	}
	return resp, nil
}

func (c *Counting) forwardToParent(self address.Address, pd *ParentDonation, bq contract.BankQuerier) (*contract.WasmExecute, error) {
	balances, err := bq.AllBalances(self)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query balances")
	}
	msg, err := json.Marshal(ExecMsg{Donate: &DonateMsg{}})
	if err != nil {
		return nil, err
	}
	return &contract.WasmExecute{
		Contract: pd.Address,
		Msg:      msg,
		Funds:    pd.Part.MulCoins(balances),
	}, nil
}

// Withdraw sends every held coin to the owner
func (c *Counting) Withdraw(ctx context.Context, sm contract.StateManager, bq contract.BankQuerier) (*contract.Response, error) {
	ec := contract.MustGetExecCtx(ctx)
	s, err := c.loadState(sm)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(s.Owner, ec.Caller); err != nil {
		return nil, err
	}
	balances, err := bq.AllBalances(ec.Contract)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query balances")
	}
	amount := balances.NonZero()
	log.L().Debug("Withdrawing to owner", zap.String("owner", s.Owner.String()), zap.String("amount", amount.String()))
	return contract.NewResponse().
		AddMessage(contract.BankSend{ToAddress: s.Owner, Amount: amount}).
		AddAttribute("action", "withdraw").
		AddAttribute("sender", ec.Caller.String()), nil
}

// WithdrawTo sends held coins to receiver. A non-empty caps list limits every denomination to its cap, and
// denominations it does not name are not sent.
func (c *Counting) WithdrawTo(
	ctx context.Context,
	sm contract.StateManager,
	bq contract.BankQuerier,
	receiver string,
	caps coin.Coins,
) (*contract.Response, error) {
	ec := contract.MustGetExecCtx(ctx)
	s, err := c.loadState(sm)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(s.Owner, ec.Caller); err != nil {
		return nil, err
	}
	to, err := address.FromString(receiver)
	if err != nil {
		return nil, &InvalidAddressError{Address: receiver}
	}
	balances, err := bq.AllBalances(ec.Contract)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query balances")
	}
	amount := capFunds(balances, caps)
	log.L().Debug("Withdrawing to receiver",
		zap.String("receiver", receiver),
		zap.String("caps", caps.String()),
		zap.String("amount", amount.String()))
	return contract.NewResponse().
		AddMessage(contract.BankSend{ToAddress: to, Amount: amount}).
		AddAttribute("action", "withdraw_to").
		AddAttribute("sender", ec.Caller.String()).
		AddAttribute("receiver", to.String()), nil
}

// Value returns the counter
func (c *Counting) Value(_ context.Context, sr contract.StateReader) (uint64, error) {
	s, err := c.loadState(sr)
	if err != nil {
		return 0, err
	}
	return s.Counter, nil
}

// State returns the state record
func (c *Counting) State(_ context.Context, sr contract.StateReader) (*State, error) {
	return c.loadState(sr)
}

// ParentDonation returns the parent configuration, nil if the instance has no parent
func (c *Counting) ParentDonation(_ context.Context, sr contract.StateReader) (*ParentDonation, error) {
	s, err := c.loadState(sr)
	if err != nil {
		return nil, err
	}
	if s.DonatingParent == nil {
		return nil, nil
	}
	return c.loadParentDonation(sr)
}

func counterResponse(action string, sender address.Address, counter uint64) (*contract.Response, error) {
	log.L().Debug("Counter updated",
		zap.String("action", action),
		zap.String("sender", sender.String()),
		zap.Uint64("counter", counter))
	return contract.NewResponse().
		AddAttribute("action", action).
		AddAttribute("sender", sender.String()).
		AddAttribute("counter", strconv.FormatUint(counter, 10)).
		SetData(ValueResp{Value: counter})
}
