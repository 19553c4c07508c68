// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-counting/host"
)

type (
	attributeView struct {
		Key   string `json:"key" yaml:"key"`
		Value string `json:"value" yaml:"value"`
	}

	eventView struct {
		Type       string          `json:"type" yaml:"type"`
		Attributes []attributeView `json:"attributes" yaml:"attributes"`
	}

	resultView struct {
		Contract string      `json:"contract,omitempty" yaml:"contract,omitempty"`
		Events   []eventView `json:"events" yaml:"events"`
		Data     interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	}

	balanceView struct {
		Address string `json:"address" yaml:"address"`
		Balance string `json:"balance" yaml:"balance"`
	}
)

func newResultView(contract string, res *host.Result) (*resultView, error) {
	view := &resultView{Contract: contract}
	for _, evt := range res.Events {
		ev := eventView{Type: evt.Type}
		for _, attr := range evt.Attributes {
			ev.Attributes = append(ev.Attributes, attributeView{Key: attr.Key, Value: attr.Value})
		}
		view.Events = append(view.Events, ev)
	}
	if len(res.Data) > 0 {
		data, err := decodeData(res.Data)
		if err != nil {
			return nil, err
		}
		view.Data = data
	}
	return view, nil
}

// decodeData turns contract JSON into a generic value that both encoders can print, keeping integers exact
func decodeData(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "failed to decode contract data")
	}
	return normalize(v), nil
}

func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if u, err := strconv.ParseUint(val.String(), 10, 64); err == nil {
			return u
		}
		if i, err := strconv.ParseInt(val.String(), 10, 64); err == nil {
			return i
		}
		f, _ := val.Float64()
		return f
	case map[string]interface{}:
		for k, e := range val {
			val[k] = normalize(e)
		}
	case []interface{}:
		for i, e := range val {
			val[i] = normalize(e)
		}
	}
	return v
}
