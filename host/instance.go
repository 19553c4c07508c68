// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package host

import (
	"encoding/binary"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-counting/state"
)

var _sequenceKey = []byte("sequence")

type (
	// Instance is a contract instance registered on the chain
	Instance struct {
		Address address.Address
		Code    string
		Creator address.Address
		// Admin may migrate the instance, nil if nobody can
		Admin address.Address
		Label string
	}

	instanceRecord struct {
		Code    string
		Creator string
		Admin   string
		Label   string
	}
)

// Serialize serializes the instance into bytes
func (inst Instance) Serialize() ([]byte, error) {
	r := instanceRecord{
		Code:    inst.Code,
		Creator: inst.Creator.String(),
		Label:   inst.Label,
	}
	if inst.Admin != nil {
		r.Admin = inst.Admin.String()
	}
	return state.GobEncode(&r)
}

// Deserialize deserializes bytes into the instance, the address is the key it is stored under
func (inst *Instance) Deserialize(data []byte) error {
	r := instanceRecord{}
	if err := state.GobDecode(&r, data); err != nil {
		return err
	}
	creator, err := address.FromString(r.Creator)
	if err != nil {
		return errors.Wrapf(state.ErrFailedToUnmarshalState, "invalid creator %s", r.Creator)
	}
	inst.Code = r.Code
	inst.Creator = creator
	inst.Label = r.Label
	inst.Admin = nil
	if r.Admin != "" {
		if inst.Admin, err = address.FromString(r.Admin); err != nil {
			return errors.Wrapf(state.ErrFailedToUnmarshalState, "invalid admin %s", r.Admin)
		}
	}
	return nil
}

func (ws *workingSet) instance(addr address.Address) (*Instance, error) {
	inst := Instance{}
	if err := ws.state(_instanceNS, addr.Bytes(), &inst); err != nil {
		if errors.Cause(err) == state.ErrStateNotExist {
			return nil, errors.Wrapf(ErrUnknownContract, "address %s", addr.String())
		}
		return nil, err
	}
	inst.Address = addr
	return &inst, nil
}

func (ws *workingSet) putInstance(inst *Instance) error {
	return ws.putState(_instanceNS, inst.Address.Bytes(), inst)
}

// nextAddress derives the address of a new instance from the creator and the chain wide sequence
func (ws *workingSet) nextAddress(creator address.Address) (address.Address, error) {
	var seq uint64
	if err := ws.state(_metaNS, _sequenceKey, &seq); err != nil && errors.Cause(err) != state.ErrStateNotExist {
		return nil, err
	}
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)
	h := hash.Hash160b(append(creator.Bytes(), seqBytes[:]...))
	addr, err := address.FromBytes(h[:])
	if err != nil {
		return nil, err
	}
	seq++
	if err := ws.putState(_metaNS, _sequenceKey, &seq); err != nil {
		return nil, err
	}
	return addr, nil
}
