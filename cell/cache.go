// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// decoded cells kept for a while after they are read
//
// an entry is only used after the store confirms the record exists;
// it keeps the decoded form and any children already loaded
type cellCache struct {
	cache *cache.Cache
}

func newCellCache(expiration time.Duration) *cellCache {
	if expiration <= 0 {
		return nil
	}
	return &cellCache{
		cache: cache.New(expiration, 2*expiration),
	}
}

func (c *cellCache) get(id Id) (*StorageCell, bool) {
	if nil == c {
		return nil, false
	}
	obj, found := c.cache.Get(id.String())
	if !found {
		return nil, false
	}
	return obj.(*StorageCell), true
}

func (c *cellCache) set(id Id, cell *StorageCell) {
	if nil == c {
		return
	}
	c.cache.Set(id.String(), cell, cache.DefaultExpiration)
}

func (c *cellCache) remove(id Id) {
	if nil == c {
		return
	}
	c.cache.Delete(id.String())
}

func (c *cellCache) clear() {
	if nil == c {
		return
	}
	c.cache.Flush()
}

func (c *cellCache) count() int {
	if nil == c {
		return 0
	}
	return c.cache.ItemCount()
}
