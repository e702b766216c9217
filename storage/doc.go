// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - backend independent key/value storage
//
// The key/value contract is split into separate capabilities so that
// a backend only has to provide what it can support:
//
//   Readable       - Get, Contains, ForEach
//   RangeReadable  - ForEachInRange over [start, limit)
//   Writeable      - direct Put, Delete
//   Transactional  - BeginTransaction returning a write batch that is
//                    applied atomically by Commit
//   Snapshotable   - read-only point in time view
//   Collection     - Len, Destroy
//
// Backends:
//
//   LevelDb   - goleveldb, on disk or in memory, all capabilities
//   BadgerDb  - badger v4, all capabilities (Len not supported)
//   BoltDb    - bbolt single bucket, all capabilities
//   MemoryDb  - goleveldb memdb, no snapshots (for tests)
//
// A backend can be split into tables, each defined by a prefix byte
// that is prepended to every key (to spread the keys in the backend):
//
//   0x00 ++ "VERSION"          - database version
//                                data: big endian uint32 (4 bytes)
//   C ++ cell id               - cell records (see package cell)
//   M ++ block key             - block meta records (see package block)
//
// Destroy refuses to run while any transaction or snapshot obtained
// from the backend has not been committed, aborted or released; after
// Destroy all operations fail with fault.ErrDbIsDropped.
package storage
