// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-counting/db/batch"
	"github.com/iotexproject/iotex-counting/testutil"
)

var (
	_bucket1 = "test_ns1"
	_bucket2 = "test_ns2"
	_k1      = []byte("key_1")
	_k2      = []byte("key_2")
	_v1      = []byte("value_1")
	_v2      = []byte("value_2")
)

func TestKVStorePutGet(t *testing.T) {
	testKVStorePutGet := func(kvStore KVStore, t *testing.T) {
		require := require.New(t)
		ctx := context.Background()

		require.NoError(kvStore.Start(ctx))
		defer func() {
			require.NoError(kvStore.Stop(ctx))
		}()

		require.NoError(kvStore.Put(_bucket1, _k1, _v1))
		value, err := kvStore.Get(_bucket1, _k1)
		require.NoError(err)
		require.Equal(_v1, value)

		_, err = kvStore.Get(_bucket2, _k1)
		require.Equal(ErrNotExist, errors.Cause(err))
		_, err = kvStore.Get(_bucket1, _k2)
		require.Equal(ErrNotExist, errors.Cause(err))

		require.NoError(kvStore.Put(_bucket1, _k1, _v2))
		value, err = kvStore.Get(_bucket1, _k1)
		require.NoError(err)
		require.Equal(_v2, value)

		require.NoError(kvStore.Delete(_bucket1, _k1))
		_, err = kvStore.Get(_bucket1, _k1)
		require.Equal(ErrNotExist, errors.Cause(err))
		// deleting a missing key is fine
		require.NoError(kvStore.Delete(_bucket2, _k2))
	}

	for _, tc := range newTestStores(t) {
		t.Run(tc.name, func(t *testing.T) {
			testKVStorePutGet(tc.store, t)
		})
	}
}

func TestKVStoreWriteBatch(t *testing.T) {
	testWriteBatch := func(kvStore KVStore, t *testing.T) {
		require := require.New(t)
		ctx := context.Background()

		require.NoError(kvStore.Start(ctx))
		defer func() {
			require.NoError(kvStore.Stop(ctx))
		}()

		require.NoError(kvStore.Put(_bucket2, _k2, _v2))
		b := batch.NewCachedBatch()
		b.Put(_bucket1, _k1, _v1, "failed to put")
		b.Put(_bucket1, _k1, _v2, "failed to put")
		b.Delete(_bucket2, _k2, "failed to delete")
		require.NoError(kvStore.WriteBatch(b))
		require.Zero(b.Size())

		value, err := kvStore.Get(_bucket1, _k1)
		require.NoError(err)
		require.Equal(_v2, value)
		_, err = kvStore.Get(_bucket2, _k2)
		require.Equal(ErrNotExist, errors.Cause(err))
	}

	for _, tc := range newTestStores(t) {
		t.Run(tc.name, func(t *testing.T) {
			testWriteBatch(tc.store, t)
		})
	}
}

func TestNotStarted(t *testing.T) {
	require := require.New(t)
	path, err := testutil.PathOfTempFile("bolt-not-started")
	require.NoError(err)
	defer testutil.CleanupPath(path)

	cfg := DefaultConfig
	cfg.DbPath = path
	kv := NewBoltDB(cfg)
	_, err = kv.Get(_bucket1, _k1)
	require.Equal(ErrDBNotStarted, err)
	require.Equal(ErrDBNotStarted, kv.Put(_bucket1, _k1, _v1))
}

func TestCreateKVStore(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig
	_, err := CreateKVStore(cfg, "")
	require.Equal(ErrEmptyDBPath, err)

	kv, err := CreateKVStore(cfg, "bolt.db")
	require.NoError(err)
	require.IsType(&BoltDB{}, kv)

	cfg.DBType = DBPebble
	kv, err = CreateKVStore(cfg, "pebble")
	require.NoError(err)
	require.IsType(&PebbleDB{}, kv)

	cfg.DBType = DBInMemory
	kv, err = CreateKVStore(cfg, "")
	require.NoError(err)
	require.NotNil(kv)

	cfg.DBType = "leveldb"
	_, err = CreateKVStore(cfg, "level.db")
	require.Error(err)
}

type namedStore struct {
	name  string
	store KVStore
}

func newTestStores(t *testing.T) []namedStore {
	dir, err := os.MkdirTemp("", "counting-db")
	require.NoError(t, err)
	t.Cleanup(func() { testutil.CleanupPath(dir) })

	cfg := DefaultConfig
	cfg.DbPath = filepath.Join(dir, "bolt.db")
	bolt := NewBoltDB(cfg)
	cfg.DbPath = filepath.Join(dir, "pebble")
	pebble := NewPebbleDB(cfg)
	return []namedStore{
		{"memory", NewMemKVStore()},
		{"bolt", bolt},
		{"pebble", pebble},
	}
}
