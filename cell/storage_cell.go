// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

import (
	"sync"

	"github.com/bitmark-inc/cellstore/fault"
)

// Reference - link to a child of a decoded cell
//
// starts out holding only the child hash; the cell is filled in when
// the child is first loaded
type Reference struct {
	Hash Id
	cell Cell
}

// IsLoaded - true once the child cell is present
func (r Reference) IsLoaded() bool {
	return nil != r.cell
}

// StorageCell - a cell decoded from the store
//
// the cell database handle is not owned; it must stay open while
// unloaded children are still needed
type StorageCell struct {
	lock       sync.Mutex
	data       Data
	references []Reference
	hash       Id
	db         *CellDb
}

func newStorageCell(data Data, references []Reference, db *CellDb) *StorageCell {
	hashes := make([]Id, len(references))
	for i := range references {
		hashes[i] = references[i].Hash
	}
	return &StorageCell{
		data:       data,
		references: references,
		hash:       reprHash(data, hashes),
		db:         db,
	}
}

// Data - payload of the cell
func (c *StorageCell) Data() Data {
	return c.data
}

// ReferencesCount - number of children
func (c *StorageCell) ReferencesCount() int {
	return len(c.references)
}

// ReferenceHash - hash of a child, never loads
func (c *StorageCell) ReferenceHash(i int) (Id, error) {
	if i < 0 || i >= len(c.references) {
		return Id{}, fault.ErrReferenceIndex
	}
	return c.references[i].Hash, nil
}

// IsLoaded - true if the child has been loaded
func (c *StorageCell) IsLoaded(i int) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if i < 0 || i >= len(c.references) {
		return false
	}
	return c.references[i].IsLoaded()
}

// Reference - child cell, loaded from the store on first use
func (c *StorageCell) Reference(i int) (Cell, error) {
	if i < 0 || i >= len(c.references) {
		return nil, fault.ErrReferenceIndex
	}

	c.lock.Lock()
	child := c.references[i].cell
	hash := c.references[i].Hash
	c.lock.Unlock()

	if nil != child {
		return child, nil
	}
	if nil == c.db {
		return nil, fault.ErrNotInitialised
	}

	loaded, err := c.db.GetCell(hash)
	if nil != err {
		return nil, err
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	// another caller may have loaded it meanwhile
	if nil == c.references[i].cell {
		c.references[i].cell = loaded
	}
	return c.references[i].cell, nil
}

// ReprHash - content hash of the cell
func (c *StorageCell) ReprHash() Id {
	return c.hash
}
