// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"os"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"go.etcd.io/bbolt"
)

const (
	boltFileMode = 0600
	boltTimeout  = 5 * time.Second

	// open snapshots hold the mmap lock, so map enough up front that
	// writers rarely need to grow it
	boltInitialMmapSize = 256 * 1024 * 1024
)

var boltBucket = []byte("cellstore")

// BoltDb - key/value collection on bbolt, all keys in a single bucket
type BoltDb struct {
	*collection
	db *bbolt.DB
}

type boltBackend struct {
	db       *bbolt.DB
	filename string
}

// NewBoltDb - open or create a bbolt database file
func NewBoltDb(filename string, readOnly bool) (*BoltDb, error) {
	options := &bbolt.Options{
		Timeout:         boltTimeout,
		ReadOnly:        readOnly,
		InitialMmapSize: boltInitialMmapSize,
	}
	db, err := bbolt.Open(filename, boltFileMode, options)
	if nil != err {
		return nil, err
	}

	if !readOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(boltBucket)
			return err
		})
		if nil != err {
			db.Close()
			return nil, err
		}
	}

	return &BoltDb{
		collection: newCollection(filename, &boltBackend{db: db, filename: filename}),
		db:         db,
	}, nil
}

// Snapshot - read-only view of the current state
func (b *BoltDb) Snapshot() (Snapshot, error) {
	return b.newSnapshot(func() (snapshotReader, error) {
		tx, err := b.db.Begin(false)
		if nil != err {
			return nil, err
		}
		return &boltSnapshot{tx: tx}, nil
	})
}

func (b *boltBackend) get(key []byte) (value []byte, found bool, err error) {
	err = b.db.View(func(tx *bbolt.Tx) error {
		value, found = boltGet(tx, key)
		return nil
	})
	return
}

func (b *boltBackend) forEachInRange(start []byte, limit []byte, visitor Visitor) (more bool, err error) {
	err = b.db.View(func(tx *bbolt.Tx) error {
		more, err = boltIterate(tx, start, limit, visitor)
		return err
	})
	return
}

func (b *boltBackend) put(key []byte, value []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Put(key, value)
	})
}

func (b *boltBackend) delete(key []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Delete(key)
	})
}

// the whole batch goes into one update so it commits or fails as a unit
func (b *boltBackend) write(batch *leveldb.Batch) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		return replay(batch,
			func(key []byte, value []byte) error {
				return bucket.Put(duplicate(key), duplicate(value))
			},
			func(key []byte) error {
				return bucket.Delete(key)
			},
		)
	})
}

func (b *boltBackend) count() (n int, err error) {
	err = b.db.View(func(tx *bbolt.Tx) error {
		if bucket := tx.Bucket(boltBucket); nil != bucket {
			n = bucket.Stats().KeyN
		}
		return nil
	})
	return
}

func (b *boltBackend) close() error {
	return b.db.Close()
}

func (b *boltBackend) erase() error {
	return os.Remove(b.filename)
}

type boltSnapshot struct {
	tx *bbolt.Tx
}

func (s *boltSnapshot) get(key []byte) ([]byte, bool, error) {
	value, found := boltGet(s.tx, key)
	return value, found, nil
}

func (s *boltSnapshot) forEachInRange(start []byte, limit []byte, visitor Visitor) (bool, error) {
	return boltIterate(s.tx, start, limit, visitor)
}

func (s *boltSnapshot) release() {
	s.tx.Rollback()
}

// values are only valid inside the bolt transaction so return a copy
func boltGet(tx *bbolt.Tx, key []byte) ([]byte, bool) {
	bucket := tx.Bucket(boltBucket)
	if nil == bucket {
		return nil, false
	}
	value := bucket.Get(key)
	if nil == value {
		return nil, false
	}
	return duplicate(value), true
}

func boltIterate(tx *bbolt.Tx, start []byte, limit []byte, visitor Visitor) (bool, error) {
	bucket := tx.Bucket(boltBucket)
	if nil == bucket {
		return true, nil
	}

	cursor := bucket.Cursor()
	var key, value []byte
	if nil == start {
		key, value = cursor.First()
	} else {
		key, value = cursor.Seek(start)
	}
	for ; nil != key; key, value = cursor.Next() {
		if nil != limit && bytes.Compare(key, limit) >= 0 {
			break
		}
		more, err := visitor(key, value)
		if nil != err {
			return false, err
		}
		if !more {
			return false, nil
		}
	}
	return true, nil
}
