// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/dgraph-io/badger/v4"
	"github.com/syndtr/goleveldb/leveldb"
)

// BadgerDb - key/value collection on Badger
type BadgerDb struct {
	*collection
	db *badger.DB
}

type badgerBackend struct {
	db   *badger.DB
	path string
}

// NewBadgerDb - open or create a Badger database in a directory
func NewBadgerDb(path string, readOnly bool) (*BadgerDb, error) {
	options := badger.DefaultOptions(path).
		WithReadOnly(readOnly).
		WithLogger(newBadgerLogger())
	return openBadgerDb(path, options)
}

// NewMemoryBadgerDb - Badger database held entirely in memory
func NewMemoryBadgerDb() (*BadgerDb, error) {
	options := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(newBadgerLogger())
	return openBadgerDb("", options)
}

func openBadgerDb(path string, options badger.Options) (*BadgerDb, error) {
	db, err := badger.Open(options)
	if nil != err {
		return nil, err
	}

	name := path
	if "" == name {
		name = "badger(memory)"
	}
	return &BadgerDb{
		collection: newCollection(name, &badgerBackend{db: db, path: path}),
		db:         db,
	}, nil
}

// Snapshot - read-only view of the current state
func (b *BadgerDb) Snapshot() (Snapshot, error) {
	return b.newSnapshot(func() (snapshotReader, error) {
		return &badgerSnapshot{txn: b.db.NewTransaction(false)}, nil
	})
}

func (b *badgerBackend) get(key []byte) (value []byte, found bool, err error) {
	err = b.db.View(func(txn *badger.Txn) error {
		value, found, err = badgerGet(txn, key)
		return err
	})
	return
}

func (b *badgerBackend) forEachInRange(start []byte, limit []byte, visitor Visitor) (more bool, err error) {
	err = b.db.View(func(txn *badger.Txn) error {
		more, err = badgerIterate(txn, start, limit, visitor)
		return err
	})
	return
}

func (b *badgerBackend) put(key []byte, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (b *badgerBackend) delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// the whole batch goes into one update so it commits or fails as a unit
func (b *badgerBackend) write(batch *leveldb.Batch) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return replay(batch,
			func(key []byte, value []byte) error {
				return txn.Set(duplicate(key), duplicate(value))
			},
			func(key []byte) error {
				return txn.Delete(duplicate(key))
			},
		)
	})
}

func (b *badgerBackend) count() (int, error) {
	n := 0
	err := b.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n += 1
		}
		return nil
	})
	return n, err
}

func (b *badgerBackend) close() error {
	return b.db.Close()
}

func (b *badgerBackend) erase() error {
	if "" == b.path {
		return nil
	}
	return os.RemoveAll(b.path)
}

type badgerSnapshot struct {
	txn *badger.Txn
}

func (s *badgerSnapshot) get(key []byte) ([]byte, bool, error) {
	return badgerGet(s.txn, key)
}

func (s *badgerSnapshot) forEachInRange(start []byte, limit []byte, visitor Visitor) (bool, error) {
	return badgerIterate(s.txn, start, limit, visitor)
}

func (s *badgerSnapshot) release() {
	s.txn.Discard()
}

func badgerGet(txn *badger.Txn, key []byte) ([]byte, bool, error) {
	item, err := txn.Get(key)
	if badger.ErrKeyNotFound == err {
		return nil, false, nil
	}
	if nil != err {
		return nil, false, err
	}
	value, err := item.ValueCopy(nil)
	if nil != err {
		return nil, false, err
	}
	return value, true, nil
}

func badgerIterate(txn *badger.Txn, start []byte, limit []byte, visitor Visitor) (bool, error) {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	if nil == start {
		it.Rewind()
	} else {
		it.Seek(start)
	}
	for ; it.Valid(); it.Next() {
		item := it.Item()
		key := item.Key()
		if nil != limit && bytes.Compare(key, limit) >= 0 {
			break
		}
		value, err := item.ValueCopy(nil)
		if nil != err {
			return false, err
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

// route badger's internal messages to the storage log
type badgerLogger struct {
	log *logger.L
}

func newBadgerLogger() *badgerLogger {
	return &badgerLogger{
		log: logger.New("badger"),
	}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}
