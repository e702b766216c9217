// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

import (
	"github.com/bitmark-inc/cellstore/digest"
	"github.com/bitmark-inc/cellstore/fault"
)

// Id - content hash of a cell, also its storage key
type Id = digest.Digest

// Cell - a node of the DAG
type Cell interface {
	Data() Data
	ReferencesCount() int

	// child cell, may load it from the store
	Reference(i int) (Cell, error)

	// child hash, never loads
	ReferenceHash(i int) (Id, error)

	ReprHash() Id
}

// DataCell - a cell built in memory with all of its children present
type DataCell struct {
	data       Data
	references []Cell
	hash       Id
}

// NewDataCell - create a cell from data and at most four children
func NewDataCell(data Data, references ...Cell) (*DataCell, error) {
	if len(references) > MaxReferences {
		return nil, fault.ErrTooManyReferences
	}

	hashes := make([]Id, len(references))
	for i, r := range references {
		hashes[i] = r.ReprHash()
	}

	refs := make([]Cell, len(references))
	copy(refs, references)

	return &DataCell{
		data:       data,
		references: refs,
		hash:       reprHash(data, hashes),
	}, nil
}

// Data - payload of the cell
func (c *DataCell) Data() Data {
	return c.data
}

// ReferencesCount - number of children
func (c *DataCell) ReferencesCount() int {
	return len(c.references)
}

// Reference - child cell
func (c *DataCell) Reference(i int) (Cell, error) {
	if i < 0 || i >= len(c.references) {
		return nil, fault.ErrReferenceIndex
	}
	return c.references[i], nil
}

// ReferenceHash - hash of a child cell
func (c *DataCell) ReferenceHash(i int) (Id, error) {
	if i < 0 || i >= len(c.references) {
		return Id{}, fault.ErrReferenceIndex
	}
	return c.references[i].ReprHash(), nil
}

// ReprHash - content hash of the cell
func (c *DataCell) ReprHash() Id {
	return c.hash
}

// SHA-256 of: reference count ++ data representation ++ child hashes
func reprHash(data Data, references []Id) Id {
	parts := make([][]byte, 0, 2+len(references))
	parts = append(parts, []byte{byte(len(references))}, data.representation())
	for i := range references {
		parts = append(parts, references[i][:])
	}
	return digest.NewDigestOf(parts...)
}
