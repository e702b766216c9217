// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// Key - anything that can be converted to a storage key
type Key interface {
	Bytes() []byte
}

// RawKey - a plain byte slice key
type RawKey []byte

// Bytes - the key itself
func (k RawKey) Bytes() []byte {
	return k
}

// Visitor - called for each key/value pair during iteration
//
// the slices are only valid during the call - copy them if they must
// be preserved.  Return false to stop the iteration
type Visitor func(key []byte, value []byte) (bool, error)

// Readable - read access to a key/value collection
type Readable interface {
	Get(Key) ([]byte, error)
	Contains(Key) (bool, error)
	ForEach(Visitor) (bool, error)
}

// RangeReadable - iteration over a key range
//
// start is included, limit is excluded, nil means unbounded
type RangeReadable interface {
	ForEachInRange(start []byte, limit []byte, visitor Visitor) (bool, error)
}

// Writeable - direct write access, each operation is applied immediately
type Writeable interface {
	Put(Key, []byte) error
	Delete(Key) error
}

// Transaction - a batch of operations applied atomically by Commit
//
// operations may be staged from several goroutines; after Commit or
// Abort the transaction cannot be used again
type Transaction interface {
	Put(Key, []byte) error
	Delete(Key) error
	Clear() error
	Len() int
	IsEmpty() bool
	Commit() error
	Abort()
}

// Transactional - a collection that can create transactions
type Transactional interface {
	BeginTransaction() (Transaction, error)
}

// Snapshot - read-only view fixed at the time of creation
type Snapshot interface {
	Readable
	RangeReadable
	Release()
}

// Snapshotable - a collection that can create snapshots
type Snapshotable interface {
	Snapshot() (Snapshot, error)
}

// Collection - whole collection operations
//
// Close releases the backend, Destroy also erases its persisted data
type Collection interface {
	Len() (int, error)
	Close() error
	Destroy() error
}

// Database - the capabilities every backend provides
type Database interface {
	Readable
	RangeReadable
	Writeable
	Transactional
	Collection
}

// copy a byte slice that is only valid for the duration of a call
func duplicate(b []byte) []byte {
	if nil == b {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
