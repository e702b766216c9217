// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/cellstore/fault"
	"github.com/bitmark-inc/cellstore/storage"
)

const (
	testingDirName = "testing"
)

func setupTestLogger() {
	removeFiles()
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

func removeFiles() {
	os.RemoveAll(testingDirName)
}

func TestMain(m *testing.M) {
	setupTestLogger()
	rc := m.Run()
	logger.Finalise()
	removeFiles()
	os.Exit(rc)
}

func TestMetaDb(t *testing.T) {
	db := storage.NewMemoryDb()
	defer db.Destroy()

	table := storage.NewTable(storage.BlockMetaPrefix, db)
	metas := NewMetaDb(table)

	id := NewBlockId(testExt())

	_, err := metas.Get(id)
	assert.True(t, fault.IsErrNotFound(err), "wrong error: %v", err)

	found, err := metas.Contains(id)
	assert.Nil(t, err, "contains error")
	assert.False(t, found, "unknown block found")

	meta := NewMeta(FlagData, 100, 200, 0)
	assert.Nil(t, metas.Put(id, meta), "put error")

	stored, err := metas.Get(id)
	assert.Nil(t, err, "get error")
	assert.True(t, stored.IsDataInited(), "flags")
	assert.Equal(t, uint64(200), stored.GenLt(), "gen lt")

	raw, err := db.Get(storage.RawKey(append([]byte{storage.BlockMetaPrefix}, id.Bytes()...)))
	assert.Nil(t, err, "raw get error")
	assert.Equal(t, MetaRecordLength, len(raw), "raw record")

	assert.Nil(t, metas.Delete(id), "delete error")
	found, err = metas.Contains(id)
	assert.Nil(t, err, "contains error")
	assert.False(t, found, "deleted block found")
}

func TestMetaDbStage(t *testing.T) {
	db := storage.NewMemoryDb()
	defer db.Destroy()

	table := storage.NewTable(storage.BlockMetaPrefix, db)
	metas := NewMetaDb(table)
	id := NewBlockId(testExt())

	trx, err := table.BeginTransaction()
	assert.Nil(t, err, "begin error")
	assert.Nil(t, metas.Stage(trx, id, NewMeta(FlagProof, 0, 0, 5)), "stage error")

	found, err := metas.Contains(id)
	assert.Nil(t, err, "contains error")
	assert.False(t, found, "staged meta visible")

	assert.Nil(t, trx.Commit(), "commit error")

	stored, err := metas.Get(id)
	assert.Nil(t, err, "get error")
	assert.True(t, stored.IsProofInited(), "flags")
	assert.Equal(t, uint32(5), stored.MasterchainRefSeqNo(), "mc ref")
}

func TestMetaDbCorrupt(t *testing.T) {
	db := storage.NewMemoryDb()
	defer db.Destroy()

	metas := NewMetaDb(db)
	id := NewBlockId(testExt())

	assert.Nil(t, db.Put(id, []byte{1, 2, 3}), "put error")
	_, err := metas.Get(id)
	assert.Equal(t, fault.ErrInvalidBlockMeta, err, "wrong error")

	_, err = metas.LoadHandle(testExt())
	assert.Equal(t, fault.ErrInvalidBlockMeta, err, "handle error")
}

func TestHandles(t *testing.T) {
	db := storage.NewMemoryDb()
	defer db.Destroy()

	metas := NewMetaDb(storage.NewTable(storage.BlockMetaPrefix, db))

	handle, err := metas.LoadHandle(testExt())
	assert.Nil(t, err, "load error")
	assert.Equal(t, uint32(0), handle.Meta.Flags(), "fresh meta")

	handle.Meta.SetFlags(FlagData | FlagProof)
	handle.Meta.SetMasterchainRefSeqNo(77)
	assert.Nil(t, metas.StoreHandle(handle), "store error")

	again, err := metas.LoadHandle(testExt())
	assert.Nil(t, err, "load error")
	assert.Equal(t, FlagData|FlagProof, again.Meta.Flags(), "flags")
	assert.Equal(t, uint32(77), HandleMcSeqNo(again), "mc seqno")
}
