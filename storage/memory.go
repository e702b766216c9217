// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
)

// MemoryDb - volatile key/value collection on a skiplist
//
// supports transactions but not snapshots; visitors must not write
// to the same collection
type MemoryDb struct {
	*collection
}

type memoryBackend struct {
	sync.RWMutex
	db *memdb.DB
}

// NewMemoryDb - create an empty in-memory collection
func NewMemoryDb() *MemoryDb {
	return &MemoryDb{
		collection: newCollection("memory", &memoryBackend{
			db: memdb.New(comparer.DefaultComparer, 0),
		}),
	}
}

func (b *memoryBackend) get(key []byte) ([]byte, bool, error) {
	b.RLock()
	defer b.RUnlock()

	value, err := b.db.Get(key)
	if memdb.ErrNotFound == err {
		return nil, false, nil
	}
	if nil != err {
		return nil, false, err
	}
	return duplicate(value), true, nil
}

func (b *memoryBackend) forEachInRange(start []byte, limit []byte, visitor Visitor) (bool, error) {
	b.RLock()
	defer b.RUnlock()

	return iterate(b.db.NewIterator(keyRange(start, limit)), visitor)
}

func (b *memoryBackend) put(key []byte, value []byte) error {
	b.Lock()
	defer b.Unlock()

	return b.db.Put(key, value)
}

func (b *memoryBackend) delete(key []byte) error {
	b.Lock()
	defer b.Unlock()

	return ignoreNotFound(b.db.Delete(key))
}

// readers hold the read lock so they never observe half a batch
func (b *memoryBackend) write(batch *leveldb.Batch) error {
	b.Lock()
	defer b.Unlock()

	return replay(batch, b.db.Put, func(key []byte) error {
		return ignoreNotFound(b.db.Delete(key))
	})
}

func (b *memoryBackend) count() (int, error) {
	b.RLock()
	defer b.RUnlock()

	return b.db.Len(), nil
}

func (b *memoryBackend) close() error {
	return nil
}

func (b *memoryBackend) erase() error {
	b.Lock()
	defer b.Unlock()

	b.db.Reset()
	return nil
}

func ignoreNotFound(err error) error {
	if memdb.ErrNotFound == err {
		return nil
	}
	return err
}
