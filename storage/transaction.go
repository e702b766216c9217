// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/cellstore/fault"
)

// batchTransaction - pending operations held in a leveldb batch
//
// every backend commits the same batch format, either directly
// (leveldb) or by replaying it inside its own atomic update
type batchTransaction struct {
	sync.Mutex
	owner     *collection
	batch     *leveldb.Batch
	completed bool
}

func newTransaction(owner *collection) (Transaction, error) {
	if err := owner.acquire(); nil != err {
		return nil, err
	}
	return &batchTransaction{
		owner: owner,
		batch: new(leveldb.Batch),
	}, nil
}

// Put - stage a key/value pair
func (t *batchTransaction) Put(key Key, value []byte) error {
	t.Lock()
	defer t.Unlock()

	if t.completed {
		return fault.ErrTransactionCompleted
	}
	t.batch.Put(key.Bytes(), value)
	return nil
}

// Delete - stage removal of a key
func (t *batchTransaction) Delete(key Key) error {
	t.Lock()
	defer t.Unlock()

	if t.completed {
		return fault.ErrTransactionCompleted
	}
	t.batch.Delete(key.Bytes())
	return nil
}

// Clear - drop all staged operations
func (t *batchTransaction) Clear() error {
	t.Lock()
	defer t.Unlock()

	if t.completed {
		return fault.ErrTransactionCompleted
	}
	t.batch.Reset()
	return nil
}

// Len - number of staged operations
func (t *batchTransaction) Len() int {
	t.Lock()
	defer t.Unlock()
	return t.batch.Len()
}

// IsEmpty - true if nothing is staged
func (t *batchTransaction) IsEmpty() bool {
	return 0 == t.Len()
}

// Commit - apply all staged operations atomically
//
// the transaction is finished afterwards whether or not the write
// succeeded
func (t *batchTransaction) Commit() error {
	t.Lock()
	defer t.Unlock()

	if t.completed {
		return fault.ErrTransactionCompleted
	}
	t.completed = true
	defer t.owner.release()

	return t.owner.write(t.batch)
}

// Abort - discard all staged operations
func (t *batchTransaction) Abort() {
	t.Lock()
	defer t.Unlock()

	if t.completed {
		return
	}
	t.completed = true
	t.batch.Reset()
	t.owner.release()
}

// replay target that records the first error
type batchReplay struct {
	put    func(key []byte, value []byte) error
	delete func(key []byte) error
	err    error
}

func (r *batchReplay) Put(key []byte, value []byte) {
	if nil == r.err {
		r.err = r.put(key, value)
	}
}

func (r *batchReplay) Delete(key []byte) {
	if nil == r.err {
		r.err = r.delete(key)
	}
}

// apply a batch in order through the given functions
func replay(batch *leveldb.Batch, put func([]byte, []byte) error, delete func([]byte) error) error {
	r := &batchReplay{
		put:    put,
		delete: delete,
	}
	if err := batch.Replay(r); nil != err {
		return err
	}
	return r.err
}
