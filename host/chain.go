// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package host runs contract instances the way a chain does: it keeps the bank, stores every instance under its
// own prefix, stages the writes of a call and commits them only when the call and every instruction it returned
// succeed.
package host

import (
	"context"
	"sync"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-counting/coin"
	"github.com/iotexproject/iotex-counting/contract"
	"github.com/iotexproject/iotex-counting/db"
	"github.com/iotexproject/iotex-counting/pkg/lifecycle"
	"github.com/iotexproject/iotex-counting/pkg/log"
)

var (
	// ErrInsufficientFunds indicates a transfer larger than the balance of the sender
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnknownContract indicates an address without instance
	ErrUnknownContract = errors.New("unknown contract")
	// ErrUnknownCode indicates a code name that was not registered
	ErrUnknownCode = errors.New("unknown code")
	// ErrMigrationNotAllowed indicates a migration by someone other than the admin
	ErrMigrationNotAllowed = errors.New("migration not allowed")
	// ErrMaxCallDepth indicates too many nested contract calls
	ErrMaxCallDepth = errors.New("max call depth exceeded")

	_hostMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iotex_counting_host_call",
			Help: "Host calls by method and status",
		},
		[]string{"method", "status"},
	)
)

func init() {
	prometheus.MustRegister(_hostMtc)
}

type (
	// Config is the config of the chain
	Config struct {
		MaxCallDepth uint64 `yaml:"maxCallDepth"`
	}

	// Result is the outcome of a committed call
	Result struct {
		Events []contract.Event
		// Data is the data returned by the called instance
		Data []byte
	}

	// Chain hosts contract instances on top of a KV store
	Chain struct {
		mu     sync.Mutex
		cfg    Config
		kv     db.KVStore
		codes  map[string]contract.Contract
		lc     lifecycle.Lifecycle
		logger *zap.Logger
	}

	// Option sets an option of the chain
	Option func(*Chain) error
)

// DefaultConfig is the default config of the chain
var DefaultConfig = Config{
	MaxCallDepth: 8,
}

// WithCode registers a contract code under name
func WithCode(name string, code contract.Contract) Option {
	return func(c *Chain) error {
		if _, ok := c.codes[name]; ok {
			return errors.Errorf("code %s is already registered", name)
		}
		c.codes[name] = code
		return nil
	}
}

// NewChain creates a chain
func NewChain(cfg Config, kv db.KVStore, opts ...Option) (*Chain, error) {
	c := &Chain{
		cfg:    cfg,
		kv:     kv,
		codes:  make(map[string]contract.Contract),
		logger: log.Logger("host"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.lc.Add(kv)
	return c, nil
}

// Start starts the chain
func (c *Chain) Start(ctx context.Context) error {
	return c.lc.OnStart(ctx)
}

// Stop stops the chain
func (c *Chain) Stop(ctx context.Context) error {
	return c.lc.OnStop(ctx)
}

// Mint credits amount to addr
func (c *Chain) Mint(addr address.Address, amount coin.Coins) error {
	amount, err := coin.NewCoins(amount...)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ws := newWorkingSet(c.kv)
	if err := (&bank{ws: ws}).mint(addr, amount); err != nil {
		return err
	}
	return ws.commit()
}

// Balance returns every coin held by addr
func (c *Chain) Balance(addr address.Address) (coin.Coins, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return (&bank{ws: newWorkingSet(c.kv)}).AllBalances(addr)
}

// Instance returns the instance at addr
func (c *Chain) Instance(addr address.Address) (*Instance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return newWorkingSet(c.kv).instance(addr)
}

// Instantiate creates an instance of code. The attached funds move from sender to the new instance.
func (c *Chain) Instantiate(
	ctx context.Context,
	code string,
	sender address.Address,
	msg []byte,
	funds coin.Coins,
	label string,
	admin address.Address,
) (address.Address, *Result, error) {
	funds, err := coin.NewCoins(funds...)
	if err != nil {
		observe("instantiate", err)
		return nil, nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	impl, ok := c.codes[code]
	if !ok {
		return nil, nil, errors.Wrapf(ErrUnknownCode, "code %s", code)
	}
	ws := newWorkingSet(c.kv)
	addr, err := ws.nextAddress(sender)
	if err != nil {
		return nil, nil, err
	}
	inst := &Instance{
		Address: addr,
		Code:    code,
		Creator: sender,
		Admin:   admin,
		Label:   label,
	}
	if err := ws.putInstance(inst); err != nil {
		return nil, nil, err
	}
	res := &Result{}
	err = c.call(ctx, ws, res, 0, sender, inst, funds, func(ctx context.Context, sm contract.StateManager, _ contract.BankQuerier) (*contract.Response, error) {
		return impl.Instantiate(ctx, sm, msg)
	})
	if err := c.settle("instantiate", ws, err); err != nil {
		return nil, nil, err
	}
	c.logger.Info("Instantiated contract",
		zap.String("code", code),
		zap.String("address", addr.String()),
		zap.String("creator", sender.String()))
	return addr, res, nil
}

// Execute calls an instance. The attached funds move from sender to the instance before the call.
func (c *Chain) Execute(ctx context.Context, sender, addr address.Address, msg []byte, funds coin.Coins) (*Result, error) {
	funds, err := coin.NewCoins(funds...)
	if err != nil {
		observe("execute", err)
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ws := newWorkingSet(c.kv)
	res := &Result{}
	err = c.execute(ctx, ws, res, 0, sender, addr, msg, funds)
	if err := c.settle("execute", ws, err); err != nil {
		return nil, err
	}
	return res, nil
}

// Query runs a read-only query against an instance
func (c *Chain) Query(ctx context.Context, addr address.Address, msg []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ws := newWorkingSet(c.kv)
	inst, err := ws.instance(addr)
	if err != nil {
		return nil, err
	}
	impl, err := c.code(inst)
	if err != nil {
		return nil, err
	}
	data, err := impl.Query(ctx, ws.contractStore(inst), msg)
	observe("query", err)
	return data, err
}

// Migrate switches an instance to code and runs its migration. Only the admin of the instance may migrate.
func (c *Chain) Migrate(ctx context.Context, sender, addr address.Address, code string, msg []byte) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	impl, ok := c.codes[code]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCode, "code %s", code)
	}
	ws := newWorkingSet(c.kv)
	inst, err := ws.instance(addr)
	if err != nil {
		return nil, err
	}
	if inst.Admin == nil || inst.Admin.String() != sender.String() {
		observe("migrate", ErrMigrationNotAllowed)
		return nil, errors.Wrapf(ErrMigrationNotAllowed, "sender %s", sender.String())
	}
	inst.Code = code
	if err := ws.putInstance(inst); err != nil {
		return nil, err
	}
	res := &Result{}
	err = c.call(ctx, ws, res, 0, sender, inst, nil, func(ctx context.Context, sm contract.StateManager, _ contract.BankQuerier) (*contract.Response, error) {
		return impl.Migrate(ctx, sm, msg)
	})
	if err := c.settle("migrate", ws, err); err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateAdmin hands the migration right of an instance to admin, nil clears it
func (c *Chain) UpdateAdmin(sender, addr, admin address.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ws := newWorkingSet(c.kv)
	inst, err := ws.instance(addr)
	if err != nil {
		return err
	}
	if inst.Admin == nil || inst.Admin.String() != sender.String() {
		return errors.Wrapf(ErrMigrationNotAllowed, "sender %s", sender.String())
	}
	inst.Admin = admin
	if err := ws.putInstance(inst); err != nil {
		return err
	}
	return ws.commit()
}

type entryPoint func(context.Context, contract.StateManager, contract.BankQuerier) (*contract.Response, error)

func (c *Chain) execute(
	ctx context.Context,
	ws *workingSet,
	res *Result,
	depth uint64,
	sender, addr address.Address,
	msg []byte,
	funds coin.Coins,
) error {
	inst, err := ws.instance(addr)
	if err != nil {
		return err
	}
	impl, err := c.code(inst)
	if err != nil {
		return err
	}
	return c.call(ctx, ws, res, depth, sender, inst, funds, func(ctx context.Context, sm contract.StateManager, bq contract.BankQuerier) (*contract.Response, error) {
		return impl.Execute(ctx, sm, bq, msg)
	})
}

// call moves the funds, runs the entry point and delivers the instructions it returned
func (c *Chain) call(
	ctx context.Context,
	ws *workingSet,
	res *Result,
	depth uint64,
	sender address.Address,
	inst *Instance,
	funds coin.Coins,
	entry entryPoint,
) error {
	if depth > c.cfg.MaxCallDepth {
		return errors.Wrapf(ErrMaxCallDepth, "depth %d", depth)
	}
	bk := &bank{ws: ws}
	if err := bk.transfer(sender, inst.Address, funds); err != nil {
		return err
	}
	if !funds.IsZero() {
		res.Events = append(res.Events, transferEvent(sender, inst.Address, funds))
	}
	ctx = contract.WithExecCtx(ctx, contract.ExecCtx{
		Caller:   sender,
		Funds:    funds,
		Contract: inst.Address,
	})
	resp, err := entry(ctx, ws.contractStore(inst), bk)
	if err != nil {
		return errors.Wrapf(err, "call to %s failed", inst.Address.String())
	}
	res.Events = append(res.Events, wasmEvent(inst.Address, resp.Attributes))
	if depth == 0 {
		res.Data = resp.Data
	}
	for _, m := range resp.Messages {
		switch m := m.(type) {
		case contract.BankSend:
			if err := bk.transfer(inst.Address, m.ToAddress, m.Amount); err != nil {
				return err
			}
			if !m.Amount.IsZero() {
				res.Events = append(res.Events, transferEvent(inst.Address, m.ToAddress, m.Amount))
			}
		case contract.WasmExecute:
			if err := c.execute(ctx, ws, res, depth+1, inst.Address, m.Contract, m.Msg, m.Funds); err != nil {
				return err
			}
		default:
			return errors.Errorf("unsupported message %s", m.MsgType())
		}
	}
	return nil
}

func (c *Chain) code(inst *Instance) (contract.Contract, error) {
	impl, ok := c.codes[inst.Code]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCode, "code %s of %s", inst.Code, inst.Address.String())
	}
	return impl, nil
}

// settle commits the working set if the call succeeded
func (c *Chain) settle(method string, ws *workingSet, err error) error {
	if err == nil {
		err = ws.commit()
	}
	observe(method, err)
	if err != nil {
		c.logger.Debug("Call rolled back", zap.String("method", method), zap.Error(err))
	}
	return err
}

func transferEvent(from, to address.Address, amount coin.Coins) contract.Event {
	return contract.Event{
		Type: "transfer",
		Attributes: []contract.Attribute{
			{Key: "sender", Value: from.String()},
			{Key: "recipient", Value: to.String()},
			{Key: "amount", Value: amount.String()},
		},
	}
}

func wasmEvent(addr address.Address, attrs []contract.Attribute) contract.Event {
	return contract.Event{
		Type:       "wasm",
		Attributes: append([]contract.Attribute{{Key: "_contract_address", Value: addr.String()}}, attrs...),
	}
}

func observe(method string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	_hostMtc.WithLabelValues(method, status).Inc()
}
