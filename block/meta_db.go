// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/cellstore/fault"
	"github.com/bitmark-inc/cellstore/storage"
)

// MetaStore - storage needed by the metadata table
type MetaStore interface {
	storage.Readable
	storage.Writeable
}

// MetaDb - block metadata keyed by block id
type MetaDb struct {
	log *logger.L
	db  MetaStore
}

// NewMetaDb - metadata table on a store
func NewMetaDb(db MetaStore) *MetaDb {
	return &MetaDb{
		log: logger.New("blockmeta"),
		db:  db,
	}
}

// Get - read the metadata of a block
func (m *MetaDb) Get(id BlockId) (*Meta, error) {
	record, err := m.db.Get(id)
	if nil != err {
		return nil, err
	}
	meta, err := ParseMeta(record)
	if nil != err {
		m.log.Errorf("block: %s: %s", id, err)
		return nil, err
	}
	return meta, nil
}

// Contains - check if a block has metadata
func (m *MetaDb) Contains(id BlockId) (bool, error) {
	return m.db.Contains(id)
}

// Put - write metadata immediately
func (m *MetaDb) Put(id BlockId, meta *Meta) error {
	m.log.Debugf("put: %s  %s", id, meta)
	return m.db.Put(id, meta.Serialise())
}

// Stage - add a metadata write to a transaction
func (m *MetaDb) Stage(trx storage.Transaction, id BlockId, meta *Meta) error {
	return trx.Put(id, meta.Serialise())
}

// Delete - remove metadata immediately
func (m *MetaDb) Delete(id BlockId) error {
	return m.db.Delete(id)
}

// LoadHandle - block handle for an identifier
//
// a block without stored metadata gets a fresh empty one
func (m *MetaDb) LoadHandle(ext BlockIdExt) (*Handle, error) {
	meta, err := m.Get(NewBlockId(ext))
	if nil != err {
		if !fault.IsErrNotFound(err) {
			return nil, err
		}
		meta = NewMeta(0, 0, 0, 0)
	}
	return &Handle{
		Id:   ext,
		Meta: meta,
	}, nil
}

// StoreHandle - write the metadata of a handle immediately
func (m *MetaDb) StoreHandle(handle *Handle) error {
	return m.Put(NewBlockId(handle.Id), handle.Meta)
}
