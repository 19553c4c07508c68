// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package lifecycle provides start/stop plumbing for long-lived components such as KV stores.
package lifecycle

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
)

const (
	_notReady = 0
	_ready    = 1
)

// ErrWrongState indicates a component is turned on or off twice
var ErrWrongState = errors.New("service is in wrong state")

type (
	// Starter is a component that can be started
	Starter interface {
		Start(context.Context) error
	}

	// Stopper is a component that can be stopped
	Stopper interface {
		Stop(context.Context) error
	}

	// StartStopper is both a Starter and a Stopper
	StartStopper interface {
		Starter
		Stopper
	}

	// Lifecycle starts its models in insertion order and stops them in reverse order
	Lifecycle struct {
		models []StartStopper
	}

	// Readiness is a thread-safe struct to indicate a component's status
	Readiness struct {
		ready int32
	}
)

// Add adds a model into the lifecycle
func (lc *Lifecycle) Add(m StartStopper) { lc.models = append(lc.models, m) }

// AddModels adds multiple models into the lifecycle
func (lc *Lifecycle) AddModels(m ...StartStopper) { lc.models = append(lc.models, m...) }

// OnStart starts all models, stopping at the first failure
func (lc *Lifecycle) OnStart(ctx context.Context) error {
	for _, m := range lc.models {
		if err := m.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// OnStop stops all models in reverse order and returns the last error
func (lc *Lifecycle) OnStop(ctx context.Context) error {
	var err error
	for i := len(lc.models) - 1; i >= 0; i-- {
		if e := lc.models[i].Stop(ctx); e != nil {
			err = e
		}
	}
	return err
}

// TurnOn sets the component to ready
func (r *Readiness) TurnOn() error {
	if atomic.CompareAndSwapInt32(&r.ready, _notReady, _ready) {
		return nil
	}
	return ErrWrongState
}

// TurnOff sets the component to not ready (initial state)
func (r *Readiness) TurnOff() error {
	if atomic.CompareAndSwapInt32(&r.ready, _ready, _notReady) {
		return nil
	}
	return ErrWrongState
}

// IsReady returns whether the component accepts requests
func (r *Readiness) IsReady() bool {
	return atomic.LoadInt32(&r.ready) == _ready
}
