// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package contract

import (
	"context"
	"encoding/json"

	"github.com/iotexproject/iotex-address/address"

	"github.com/iotexproject/iotex-counting/coin"
)

type (
	// Contract is the set of entry points a host drives. Messages and query results are JSON encoded.
	Contract interface {
		Instantiate(context.Context, StateManager, []byte) (*Response, error)
		Execute(context.Context, StateManager, BankQuerier, []byte) (*Response, error)
		Query(context.Context, StateReader, []byte) ([]byte, error)
		Migrate(context.Context, StateManager, []byte) (*Response, error)
	}

	// Attribute is a key value pair reported by a call
	Attribute struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}

	// Event groups the attributes emitted by one contract call
	Event struct {
		Type       string      `json:"type"`
		Attributes []Attribute `json:"attributes"`
	}

	// Msg is an outbound instruction returned by a contract and executed by the host after the call
	Msg interface {
		MsgType() string
	}

	// BankSend transfers coins held by the contract to an identity
	BankSend struct {
		ToAddress address.Address
		Amount    coin.Coins
	}

	// WasmExecute invokes another contract instance with funds attached
	WasmExecute struct {
		Contract address.Address
		Msg      json.RawMessage
		Funds    coin.Coins
	}

	// Response is the outcome of a successful call
	Response struct {
		Messages   []Msg
		Attributes []Attribute
		Data       []byte
	}
)

// MsgType returns "bank_send"
func (BankSend) MsgType() string { return "bank_send" }

// MsgType returns "wasm_execute"
func (WasmExecute) MsgType() string { return "wasm_execute" }

// NewResponse creates an empty response
func NewResponse() *Response {
	return &Response{}
}

// AddAttribute appends an attribute
func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// AddMessage appends an outbound instruction
func (r *Response) AddMessage(m Msg) *Response {
	r.Messages = append(r.Messages, m)
	return r
}

// SetData sets the JSON encoding of v as the response data
func (r *Response) SetData(v interface{}) (*Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	r.Data = data
	return r, nil
}

// Attribute returns the value of the first attribute with the given key
func (r *Response) Attribute(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
