// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"os"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/cellstore/fault"
)

// LevelDb - key/value collection on LevelDB
type LevelDb struct {
	*collection
	db *leveldb.DB
}

type levelDbBackend struct {
	db   *leveldb.DB
	path string
}

// NewLevelDb - open or create a LevelDB database in a directory
func NewLevelDb(path string, readOnly bool) (*LevelDb, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(path, opt)
	if nil != err {
		return nil, err
	}
	return newLevelDb(path, db), nil
}

// NewMemoryLevelDb - LevelDB database held entirely in memory
func NewMemoryLevelDb() (*LevelDb, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return newLevelDb("", db), nil
}

func newLevelDb(path string, db *leveldb.DB) *LevelDb {
	name := path
	if "" == name {
		name = "leveldb(memory)"
	}
	return &LevelDb{
		collection: newCollection(name, &levelDbBackend{db: db, path: path}),
		db:         db,
	}
}

// Snapshot - read-only view of the current state
func (l *LevelDb) Snapshot() (Snapshot, error) {
	return l.newSnapshot(func() (snapshotReader, error) {
		s, err := l.db.GetSnapshot()
		if nil != err {
			return nil, err
		}
		return &levelDbSnapshot{snapshot: s}, nil
	})
}

func (b *levelDbBackend) get(key []byte) ([]byte, bool, error) {
	value, err := b.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, false, nil
	}
	return value, nil == err, err
}

func (b *levelDbBackend) forEachInRange(start []byte, limit []byte, visitor Visitor) (bool, error) {
	return iterate(b.db.NewIterator(keyRange(start, limit), nil), visitor)
}

func (b *levelDbBackend) put(key []byte, value []byte) error {
	return b.db.Put(key, value, nil)
}

func (b *levelDbBackend) delete(key []byte) error {
	return b.db.Delete(key, nil)
}

func (b *levelDbBackend) write(batch *leveldb.Batch) error {
	return b.db.Write(batch, nil)
}

func (b *levelDbBackend) count() (int, error) {
	return 0, fault.ErrNotSupported
}

func (b *levelDbBackend) close() error {
	return b.db.Close()
}

func (b *levelDbBackend) erase() error {
	if "" == b.path {
		return nil
	}
	return os.RemoveAll(b.path)
}

type levelDbSnapshot struct {
	snapshot *leveldb.Snapshot
}

func (s *levelDbSnapshot) get(key []byte) ([]byte, bool, error) {
	value, err := s.snapshot.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, false, nil
	}
	return value, nil == err, err
}

func (s *levelDbSnapshot) forEachInRange(start []byte, limit []byte, visitor Visitor) (bool, error) {
	return iterate(s.snapshot.NewIterator(keyRange(start, limit), nil), visitor)
}

func (s *levelDbSnapshot) release() {
	s.snapshot.Release()
}

// convert bounds to a LevelDB range, nil for the whole keyspace
func keyRange(start []byte, limit []byte) *ldb_util.Range {
	if nil == start && nil == limit {
		return nil
	}
	return &ldb_util.Range{
		Start: start, // Start of key range, included in the range
		Limit: limit, // Limit of key range, excluded from the range
	}
}

// run a visitor over a LevelDB iterator
func iterate(iter iterator.Iterator, visitor Visitor) (bool, error) {
	defer iter.Release()

	for iter.Next() {
		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		more, err := visitor(iter.Key(), iter.Value())
		if nil != err {
			return false, err
		}
		if !more {
			return false, nil
		}
	}
	return true, iter.Error()
}
