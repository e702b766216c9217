// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"os"
	"path/filepath"

	"github.com/bitmark-inc/cellstore/fault"
)

// backend names
const (
	BackendLevelDb = "leveldb"
	BackendBadger  = "badger"
	BackendBolt    = "bolt"
	BackendMemory  = "memory"
)

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

const databaseName = "cells"

// Open - open a backend by name
//
// an empty directory selects the in-memory form of the backend; bolt
// has none and needs a directory
func Open(backend string, directory string, readOnly bool) (Database, error) {
	var db Database
	var err error

	switch backend {
	case BackendLevelDb:
		var l *LevelDb
		if "" == directory {
			l, err = NewMemoryLevelDb()
		} else {
			l, err = NewLevelDb(filepath.Join(directory, databaseName+".leveldb"), readOnly)
		}
		db = l

	case BackendBadger:
		var b *BadgerDb
		if "" == directory {
			b, err = NewMemoryBadgerDb()
		} else {
			b, err = NewBadgerDb(filepath.Join(directory, databaseName+".badger"), readOnly)
		}
		db = b

	case BackendBolt:
		if "" == directory {
			return nil, fault.ErrNotSupported
		}
		if !readOnly {
			if err := os.MkdirAll(directory, 0700); nil != err {
				return nil, err
			}
		}
		var b *BoltDb
		b, err = NewBoltDb(filepath.Join(directory, databaseName+".bolt"), readOnly)
		db = b

	case BackendMemory:
		db = NewMemoryDb()

	default:
		return nil, fault.ErrInvalidBackend
	}

	if nil != err {
		return nil, err
	}
	return db, nil
}
