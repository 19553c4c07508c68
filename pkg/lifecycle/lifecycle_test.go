// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package lifecycle

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name    string
	trace   *[]string
	stopErr error
}

func (r *recorder) Start(context.Context) error {
	*r.trace = append(*r.trace, "start "+r.name)
	return nil
}

func (r *recorder) Stop(context.Context) error {
	*r.trace = append(*r.trace, "stop "+r.name)
	return r.stopErr
}

func TestLifecycle(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	var trace []string
	errStop := errors.New("error")
	var lc Lifecycle
	lc.Add(&recorder{name: "a", trace: &trace})
	lc.AddModels(&recorder{name: "b", trace: &trace, stopErr: errStop})
	r.NoError(lc.OnStart(ctx))
	r.Equal(errStop, lc.OnStop(ctx))
	r.Equal([]string{"start a", "start b", "stop b", "stop a"}, trace)
}

func TestReady(t *testing.T) {
	r := require.New(t)

	ready := Readiness{}
	r.False(ready.IsReady())
	r.Equal(ErrWrongState, ready.TurnOff())

	r.NoError(ready.TurnOn())
	r.True(ready.IsReady())
	r.Equal(ErrWrongState, ready.TurnOn())

	r.NoError(ready.TurnOff())
	r.False(ready.IsReady())
	r.Equal(ErrWrongState, ready.TurnOff())
}
