// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-counting/test/identityset"
)

type ctl struct {
	t      *testing.T
	config string
	format string
}

func newCtl(t *testing.T) *ctl {
	dir := t.TempDir()
	cfg := []byte("db:\n  dbType: boltdb\n  dbPath: " + filepath.Join(dir, "counting.db") + "\n")
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, cfg, 0600))
	return &ctl{t: t, config: path, format: _formatJSON}
}

func (c *ctl) run(args ...string) (string, error) {
	root := NewCountingCtl()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", c.config, "--output-format", c.format}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *ctl) mustRun(v interface{}, args ...string) {
	out, err := c.run(args...)
	require.NoError(c.t, err, args)
	if v != nil {
		require.NoError(c.t, json.Unmarshal([]byte(out), v), out)
	}
}

func TestCountingCtl(t *testing.T) {
	r := require.New(t)
	c := newCtl(t)
	owner := identityset.Address(0).String()
	donor := identityset.Address(1).String()
	receiver := identityset.Address(2).String()

	var bal balanceView
	c.mustRun(&bal, "bank", "mint", donor, "50atom,3eth")
	r.Equal(donor, bal.Address)
	r.Equal("50atom,3eth", bal.Balance)

	var inst resultView
	c.mustRun(&inst, "instantiate", "--sender", owner, "--minimal-donation", "10atom", "--label", "test")
	r.NotEmpty(inst.Contract)
	contract := inst.Contract

	c.mustRun(nil, "donate", contract, "--sender", donor, "--funds", "10atom,1eth")
	c.mustRun(nil, "donate", contract, "--sender", donor, "--funds", "5atom")
	var value map[string]uint64
	c.mustRun(&value, "query", "value", contract)
	r.Equal(uint64(1), value["value"])

	var res resultView
	c.mustRun(&res, "increment", contract, "4", "--sender", donor)
	r.Equal(map[string]interface{}{"value": float64(5)}, res.Data)

	_, err := c.run("reset", contract, "--sender", donor)
	r.Error(err)
	c.mustRun(nil, "reset", contract, "2", "--sender", owner)
	c.mustRun(&value, "query", "value", contract)
	r.Equal(uint64(2), value["value"])

	var st map[string]interface{}
	c.mustRun(&st, "query", "state", contract)
	r.Equal(owner, st["owner"])

	c.mustRun(nil, "withdraw-to", contract, receiver, "--caps", "4atom,9eth", "--sender", owner)
	c.mustRun(&bal, "bank", "balance", receiver)
	r.Equal("4atom,1eth", bal.Balance)
	c.mustRun(&bal, "bank", "balance", contract)
	r.Equal("11atom", bal.Balance)

	c.mustRun(nil, "withdraw", contract, "--sender", owner)
	c.mustRun(&bal, "bank", "balance", owner)
	r.Equal("11atom", bal.Balance)

	var mig resultView
	c.mustRun(&mig, "migrate", contract, "--sender", owner)
	r.Equal(contract, mig.Contract)
	_, err = c.run("migrate", contract, "--sender", donor)
	r.Error(err)
}

func TestCountingCtlFlags(t *testing.T) {
	r := require.New(t)
	c := newCtl(t)

	c.format = "xml"
	_, err := c.run("bank", "balance", identityset.Address(0).String())
	r.ErrorContains(err, "unsupported output format")

	c.format = _formatYAML
	out, err := c.run("bank", "balance", identityset.Address(0).String())
	r.NoError(err)
	r.Contains(out, "address: "+identityset.Address(0).String())

	c.format = _formatJSON
	_, err = c.run("increment", identityset.Address(1).String(), "1")
	r.ErrorContains(err, "--sender is required")
	_, err = c.run("instantiate", "--sender", identityset.Address(0).String(), "--minimal-donation", "10")
	r.Error(err)
	_, err = c.run("query", "value", "not-an-address")
	r.Error(err)
}

func TestDecodeData(t *testing.T) {
	r := require.New(t)
	v, err := decodeData([]byte(`{"value":18446744073709551615,"neg":-1,"part":"0.1","list":[1.5]}`))
	r.NoError(err)
	r.Equal(map[string]interface{}{
		"value": uint64(18446744073709551615),
		"neg":   int64(-1),
		"part":  "0.1",
		"list":  []interface{}{1.5},
	}, v)
	_, err = decodeData([]byte("{"))
	r.Error(err)
}
