// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/cellstore/fault"
)

// table prefixes
const (
	VersionPrefix   = 0x00
	CellPrefix      = 'C'
	BlockMetaPrefix = 'M'
)

// Element - a key/value pair with the table prefix removed
type Element struct {
	Key   []byte
	Value []byte
}

type readSource interface {
	Readable
	RangeReadable
}

// key translation shared by tables and their snapshots
type prefixedReader struct {
	prefix byte
	limit  []byte
	source readSource
}

// Table - a prefixed region of a database
//
// keys passed in and out of a table never include the prefix
type Table struct {
	prefixedReader
	database Database
}

// NewTable - create a table for a prefix within a database
func NewTable(prefix byte, database Database) *Table {
	var limit []byte
	if prefix < 0xff {
		limit = []byte{prefix + 1}
	}
	return &Table{
		prefixedReader: prefixedReader{
			prefix: prefix,
			limit:  limit,
			source: database,
		},
		database: database,
	}
}

// Prefix - the key prefix of this table
func (p *prefixedReader) Prefix() byte {
	return p.prefix
}

// prepend the prefix onto the key
func (p *prefixedReader) prefixKey(key []byte) RawKey {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Get - read a value, fault.NotFoundError if absent
func (p *prefixedReader) Get(key Key) ([]byte, error) {
	value, err := p.source.Get(p.prefixKey(key.Bytes()))
	if fault.IsErrNotFound(err) {
		return nil, fault.KeyNotFound(key.Bytes())
	}
	return value, err
}

// Contains - check if a key exists
func (p *prefixedReader) Contains(key Key) (bool, error) {
	return p.source.Contains(p.prefixKey(key.Bytes()))
}

// ForEach - visit every entry of the table
func (p *prefixedReader) ForEach(visitor Visitor) (bool, error) {
	return p.ForEachInRange(nil, nil, visitor)
}

// ForEachInRange - visit the table entries in [start, limit)
func (p *prefixedReader) ForEachInRange(start []byte, limit []byte, visitor Visitor) (bool, error) {
	actualStart := []byte{p.prefix}
	if nil != start {
		actualStart = p.prefixKey(start)
	}
	actualLimit := p.limit
	if nil != limit {
		actualLimit = p.prefixKey(limit)
	}
	return p.source.ForEachInRange(actualStart, actualLimit, func(key []byte, value []byte) (bool, error) {
		return visitor(key[1:], value)
	})
}

// Len - count the entries of the table
func (p *prefixedReader) Len() (int, error) {
	n := 0
	_, err := p.ForEach(func(key []byte, value []byte) (bool, error) {
		n += 1
		return true, nil
	})
	return n, err
}

// Put - store a key/value pair immediately
func (t *Table) Put(key Key, value []byte) error {
	return t.database.Put(t.prefixKey(key.Bytes()), value)
}

// Delete - remove a key immediately
func (t *Table) Delete(key Key) error {
	return t.database.Delete(t.prefixKey(key.Bytes()))
}

// BeginTransaction - start a transaction on the whole database viewed
// through this table
func (t *Table) BeginTransaction() (Transaction, error) {
	trx, err := t.database.BeginTransaction()
	if nil != err {
		return nil, err
	}
	return t.Bind(trx), nil
}

// Bind - view a transaction through this table
//
// several tables bound to the same transaction commit together.
// Clear, Commit and Abort act on the whole shared transaction
func (t *Table) Bind(trx Transaction) Transaction {
	if bound, ok := trx.(*tableTransaction); ok {
		trx = bound.Transaction
	}
	return &tableTransaction{
		Transaction: trx,
		table:       t,
	}
}

// Snapshot - point in time view of this table
//
// fault.ErrNotSupported if the database has no snapshots
func (t *Table) Snapshot() (Snapshot, error) {
	s, ok := t.database.(Snapshotable)
	if !ok {
		return nil, fault.ErrNotSupported
	}
	snap, err := s.Snapshot()
	if nil != err {
		return nil, err
	}
	return &tableSnapshot{
		prefixedReader: prefixedReader{
			prefix: t.prefix,
			limit:  t.limit,
			source: snap,
		},
		snapshot: snap,
	}, nil
}

type tableTransaction struct {
	Transaction
	table *Table
}

func (trx *tableTransaction) Put(key Key, value []byte) error {
	return trx.Transaction.Put(trx.table.prefixKey(key.Bytes()), value)
}

func (trx *tableTransaction) Delete(key Key) error {
	return trx.Transaction.Delete(trx.table.prefixKey(key.Bytes()))
}

type tableSnapshot struct {
	prefixedReader
	snapshot Snapshot
}

func (s *tableSnapshot) Release() {
	s.snapshot.Release()
}
