// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

const (
	// DBBolt is the bbolt backend
	DBBolt = "boltdb"
	// DBPebble is the pebble backend
	DBPebble = "pebbledb"
	// DBInMemory keeps everything in process memory, nothing survives a restart
	DBInMemory = "memory"
)

// Config is the config for database
type Config struct {
	DbPath string `yaml:"dbPath"`
	// DBType is the backend type, one of boltdb, pebbledb or memory
	DBType string `yaml:"dbType"`
	// NumRetries is the number of retries of a bolt update transaction
	NumRetries uint8 `yaml:"numRetries"`
	// ReadOnly is set db to be opened in read only mode
	ReadOnly bool `yaml:"readOnly"`
}

// DefaultConfig returns the default config
var DefaultConfig = Config{
	DbPath:     "/var/data/counting.db",
	DBType:     DBBolt,
	NumRetries: 3,
	ReadOnly:   false,
}
