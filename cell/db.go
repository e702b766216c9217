// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/cellstore/storage"
)

// CellDb - content addressed cell store
type CellDb struct {
	log   *logger.L
	db    storage.Readable
	cache *cellCache
}

// New - cell store reading from db
//
// decoded cells are cached for cacheExpiry, zero disables the cache
func New(db storage.Readable, cacheExpiry time.Duration) *CellDb {
	return &CellDb{
		log:   logger.New("celldb"),
		db:    db,
		cache: newCellCache(cacheExpiry),
	}
}

// GetCell - read and decode a cell
//
// children are not loaded; an unknown id returns the not found error
// of the underlying store.  The store is always read so a cached cell
// is only returned while its record still exists
func (c *CellDb) GetCell(id Id) (*StorageCell, error) {
	record, err := c.db.Get(id)
	if nil != err {
		c.cache.remove(id)
		return nil, err
	}

	if cell, ok := c.cache.get(id); ok {
		return cell, nil
	}

	data, references, err := DeserialiseCell(record)
	if nil != err {
		c.log.Errorf("cell: %s: %s", id, err)
		return nil, err
	}

	cell := newStorageCell(data, references, c)
	c.cache.set(id, cell)
	return cell, nil
}

// Contains - check if a cell is stored
func (c *CellDb) Contains(id Id) (bool, error) {
	found, err := c.db.Contains(id)
	if nil != err || !found {
		c.cache.remove(id)
	}
	return found, err
}

// PutCell - stage a cell record into a transaction
func PutCell(trx storage.Transaction, id Id, cell Cell) error {
	return trx.Put(id, SerialiseCell(cell))
}

// DeleteCell - stage removal of a cell record
func (c *CellDb) DeleteCell(trx storage.Transaction, id Id) error {
	c.cache.remove(id)
	return trx.Delete(id)
}

// StoreTree - stage every cell of a DAG that is not yet stored
//
// each distinct cell is staged once; a stored cell is assumed to
// have its whole subtree stored.  Returns the number of cells staged
func (c *CellDb) StoreTree(trx storage.Transaction, root Cell) (int, error) {
	seen := make(map[Id]struct{})
	stack := []Cell{root}
	staged := 0

	for len(stack) > 0 {
		n := len(stack) - 1
		cell := stack[n]
		stack = stack[:n]

		id := cell.ReprHash()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		if sc, ok := cell.(*StorageCell); ok && c == sc.db {
			continue
		}

		found, err := c.Contains(id)
		if nil != err {
			return staged, err
		}
		if found {
			continue
		}

		err = PutCell(trx, id, cell)
		if nil != err {
			return staged, err
		}
		staged += 1

		for i := 0; i < cell.ReferencesCount(); i += 1 {
			child, err := cell.Reference(i)
			if nil != err {
				return staged, err
			}
			stack = append(stack, child)
		}
	}

	c.log.Debugf("staged %d cells of tree: %s", staged, root.ReprHash())
	return staged, nil
}

// Flush - drop all cached cells
func (c *CellDb) Flush() {
	c.cache.clear()
}

// CachedCount - number of cells in the cache
func (c *CellDb) CachedCount() int {
	return c.cache.count()
}
