// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/cellstore/fault"
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

func teardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func TestMain(m *testing.M) {
	setupTestLogger()
	rc := m.Run()
	teardownTestLogger()
	os.Exit(rc)
}

// a backend under test
type testBackend struct {
	name string
	open func(t *testing.T) Database
}

func testBackends() []testBackend {
	return []testBackend{
		{
			name: "leveldb",
			open: func(t *testing.T) Database {
				db, err := NewLevelDb(filepath.Join(t.TempDir(), "test.leveldb"), ReadWrite)
				assert.Nil(t, err, "open error")
				return db
			},
		},
		{
			name: "leveldb-memory",
			open: func(t *testing.T) Database {
				db, err := NewMemoryLevelDb()
				assert.Nil(t, err, "open error")
				return db
			},
		},
		{
			name: "badger-memory",
			open: func(t *testing.T) Database {
				db, err := NewMemoryBadgerDb()
				assert.Nil(t, err, "open error")
				return db
			},
		},
		{
			name: "bolt",
			open: func(t *testing.T) Database {
				db, err := NewBoltDb(filepath.Join(t.TempDir(), "test.bolt"), ReadWrite)
				assert.Nil(t, err, "open error")
				return db
			},
		},
		{
			name: "memory",
			open: func(t *testing.T) Database {
				return NewMemoryDb()
			},
		},
	}
}

// run a test against every backend, destroying it afterwards
func forEachBackend(t *testing.T, f func(t *testing.T, db Database)) {
	for _, b := range testBackends() {
		b := b
		t.Run(b.name, func(t *testing.T) {
			db := b.open(t)
			defer db.Destroy()
			f(t, db)
		})
	}
}

// run a test against every backend that has snapshots
func forEachSnapshotBackend(t *testing.T, f func(t *testing.T, db Database, s Snapshotable)) {
	forEachBackend(t, func(t *testing.T, db Database) {
		s, ok := db.(Snapshotable)
		if !ok {
			t.Skip("no snapshots")
		}
		f(t, db, s)
	})
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	for _, backend := range []string{BackendLevelDb, BackendBadger, BackendBolt, BackendMemory} {
		db, err := Open(backend, filepath.Join(dir, backend), ReadWrite)
		assert.Nil(t, err, "open: %s", backend)
		assert.NotNil(t, db, "open: %s", backend)

		err = db.Put(RawKey("key"), []byte("value"))
		assert.Nil(t, err, "put: %s", backend)

		err = db.Destroy()
		assert.Nil(t, err, "destroy: %s", backend)
	}
}

func TestOpenInMemory(t *testing.T) {
	for _, backend := range []string{BackendLevelDb, BackendBadger, BackendMemory} {
		db, err := Open(backend, "", ReadWrite)
		assert.Nil(t, err, "open: %s", backend)
		assert.Nil(t, db.Close(), "close: %s", backend)
	}
}

func TestOpenErrors(t *testing.T) {
	db, err := Open("no-such-backend", t.TempDir(), ReadWrite)
	assert.Equal(t, fault.ErrInvalidBackend, err, "wrong error")
	assert.Nil(t, db, "database returned")

	db, err = Open(BackendBolt, "", ReadWrite)
	assert.Equal(t, fault.ErrNotSupported, err, "wrong error")
	assert.Nil(t, db, "database returned")
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()

	for _, backend := range []string{BackendLevelDb, BackendBadger, BackendBolt} {
		directory := filepath.Join(dir, backend)

		db, err := Open(backend, directory, ReadWrite)
		assert.Nil(t, err, "open: %s", backend)
		assert.Nil(t, db.Put(RawKey("key"), []byte("value")), "put: %s", backend)
		assert.Nil(t, db.Close(), "close: %s", backend)

		db, err = Open(backend, directory, ReadWrite)
		assert.Nil(t, err, "reopen: %s", backend)
		value, err := db.Get(RawKey("key"))
		assert.Nil(t, err, "get: %s", backend)
		assert.Equal(t, []byte("value"), value, "value: %s", backend)
		assert.Nil(t, db.Destroy(), "destroy: %s", backend)

		_, err = os.Stat(filepath.Join(directory, databaseName+"."+backend))
		assert.True(t, os.IsNotExist(err), "data not erased: %s", backend)
	}
}
