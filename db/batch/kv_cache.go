// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package batch

type (
	// kvCacheKey is the key for 2D Map cache
	kvCacheKey struct {
		key1 string
		key2 string
	}

	node struct {
		value   []byte
		deleted bool
	}

	// kvCache is a local cache of batched <k, v> for fast query
	kvCache struct {
		cache map[string]map[string]*node
	}
)

func newKVCache() *kvCache {
	return &kvCache{
		cache: make(map[string]map[string]*node),
	}
}

// Read retrieves a record
func (c *kvCache) Read(key *kvCacheKey) ([]byte, error) {
	if ns, ok := c.cache[key.key1]; ok {
		if node, ok := ns[key.key2]; ok {
			if node.deleted {
				return nil, ErrAlreadyDeleted
			}
			return node.value, nil
		}
	}
	return nil, ErrNotExist
}

// Write puts a record into cache
func (c *kvCache) Write(key *kvCacheKey, v []byte) {
	value := make([]byte, len(v))
	copy(value, v)
	c.set(key, &node{value: value})
}

// Evict marks a record as deleted
func (c *kvCache) Evict(key *kvCacheKey) {
	c.set(key, &node{deleted: true})
}

// Clear clears the cache
func (c *kvCache) Clear() {
	c.cache = make(map[string]map[string]*node)
}

func (c *kvCache) set(key *kvCacheKey, n *node) {
	if _, ok := c.cache[key.key1]; !ok {
		c.cache[key.key1] = make(map[string]*node)
	}
	c.cache[key.key1][key.key2] = n
}
