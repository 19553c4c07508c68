// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package host

import (
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-counting/contract"
	"github.com/iotexproject/iotex-counting/db"
	"github.com/iotexproject/iotex-counting/db/batch"
	"github.com/iotexproject/iotex-counting/state"
)

const (
	_bankNS     = "Bank"
	_instanceNS = "Instance"
	_contractNS = "Contract"
	_metaNS     = "Meta"
)

// workingSet stages the writes of one call on top of the KV store. Dropping it discards the call.
type workingSet struct {
	kv db.KVStore
	cb batch.CachedBatch
}

func newWorkingSet(kv db.KVStore) *workingSet {
	return &workingSet{
		kv: kv,
		cb: batch.NewCachedBatch(),
	}
}

func (ws *workingSet) get(ns string, key []byte) ([]byte, error) {
	v, err := ws.cb.Get(ns, key)
	switch errors.Cause(err) {
	case nil:
		return v, nil
	case batch.ErrAlreadyDeleted:
		return nil, errors.Wrapf(state.ErrStateNotExist, "ns %s key %x is deleted", ns, key)
	}
	v, err = ws.kv.Get(ns, key)
	if err != nil {
		if errors.Cause(err) == db.ErrNotExist {
			return nil, errors.Wrapf(state.ErrStateNotExist, "ns %s key %x", ns, key)
		}
		return nil, err
	}
	return v, nil
}

func (ws *workingSet) state(ns string, key []byte, s interface{}) error {
	data, err := ws.get(ns, key)
	if err != nil {
		return err
	}
	return state.Deserialize(s, data)
}

func (ws *workingSet) putState(ns string, key []byte, s interface{}) error {
	data, err := state.Serialize(s)
	if err != nil {
		return err
	}
	ws.cb.Put(ns, key, data, "failed to put ns %s key %x", ns, key)
	return nil
}

func (ws *workingSet) delState(ns string, key []byte) {
	ws.cb.Delete(ns, key, "failed to delete ns %s key %x", ns, key)
}

func (ws *workingSet) commit() error {
	if ws.cb.Size() == 0 {
		return nil
	}
	return ws.kv.WriteBatch(ws.cb)
}

// contractStore is the storage of one instance, keys are prefixed by the instance address
type contractStore struct {
	ws     *workingSet
	prefix []byte
}

func (ws *workingSet) contractStore(inst *Instance) *contractStore {
	return &contractStore{ws: ws, prefix: inst.Address.Bytes()}
}

func (cs *contractStore) key(opts []contract.StateOption) ([]byte, error) {
	cfg, err := contract.CreateStateConfig(opts...)
	if err != nil {
		return nil, err
	}
	key := make([]byte, 0, len(cs.prefix)+len(cfg.Namespace)+len(cfg.Key)+1)
	key = append(key, cs.prefix...)
	if cfg.Namespace != "" {
		key = append(append(key, cfg.Namespace...), '/')
	}
	return append(key, cfg.Key...), nil
}

// State reads a record of the instance
func (cs *contractStore) State(s interface{}, opts ...contract.StateOption) error {
	key, err := cs.key(opts)
	if err != nil {
		return err
	}
	return cs.ws.state(_contractNS, key, s)
}

// PutState writes a record of the instance
func (cs *contractStore) PutState(s interface{}, opts ...contract.StateOption) error {
	key, err := cs.key(opts)
	if err != nil {
		return err
	}
	return cs.ws.putState(_contractNS, key, s)
}

// DelState deletes a record of the instance
func (cs *contractStore) DelState(opts ...contract.StateOption) error {
	key, err := cs.key(opts)
	if err != nil {
		return err
	}
	cs.ws.delState(_contractNS, key)
	return nil
}
