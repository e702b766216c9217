// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package engine - open the cell and block metadata stores on one
// backend and keep them running
package engine

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/cellstore/background"
	"github.com/bitmark-inc/cellstore/block"
	"github.com/bitmark-inc/cellstore/cell"
	"github.com/bitmark-inc/cellstore/fault"
	"github.com/bitmark-inc/cellstore/storage"
)

// defaults
const (
	DefaultBackend            = storage.BackendLevelDb
	DefaultCellCacheExpiry    = 120 // seconds
	DefaultStatisticsInterval = 60  // seconds
)

// Configuration - engine settings from the configuration file
type Configuration struct {
	Backend            string `gluamapper:"backend" json:"backend"`
	Directory          string `gluamapper:"directory" json:"directory"`
	ReadOnly           bool   `gluamapper:"read_only" json:"read_only"`
	CellCacheExpiry    int    `gluamapper:"cell_cache_expiry" json:"cell_cache_expiry"`
	StatisticsInterval int    `gluamapper:"statistics_interval" json:"statistics_interval"`
}

// DefaultConfiguration - settings used for anything not configured
func DefaultConfiguration() Configuration {
	return Configuration{
		Backend:            DefaultBackend,
		CellCacheExpiry:    DefaultCellCacheExpiry,
		StatisticsInterval: DefaultStatisticsInterval,
	}
}

// Engine - a backend with its cell and block metadata tables
type Engine struct {
	lock       sync.Mutex
	log        *logger.L
	database   storage.Database
	version    uint32
	cellTable  *storage.Table
	metaTable  *storage.Table
	cells      *cell.CellDb
	metas      *block.MetaDb
	background *background.T
	closed     bool
}

// Batch - one transaction viewed through each table
//
// everything staged through either view commits together
type Batch struct {
	Cells storage.Transaction
	Meta  storage.Transaction
}

// New - open the backend, check its version and start statistics
func New(configuration *Configuration) (*Engine, error) {
	log := logger.New("engine")

	database, err := storage.Open(configuration.Backend, configuration.Directory, configuration.ReadOnly)
	if nil != err {
		log.Errorf("open backend: %q  directory: %q  error: %s", configuration.Backend, configuration.Directory, err)
		return nil, err
	}

	version, mustMigrate, err := storage.CheckVersion(database, configuration.ReadOnly)
	if nil != err {
		log.Criticalf("database version: %d  current version: %d  error: %s", version, storage.CurrentVersion, err)
		database.Close()
		return nil, err
	}
	if mustMigrate {
		log.Warnf("database version: %d is older than current version: %d", version, storage.CurrentVersion)
	}

	e := &Engine{
		log:       log,
		database:  database,
		version:   version,
		cellTable: storage.NewTable(storage.CellPrefix, database),
		metaTable: storage.NewTable(storage.BlockMetaPrefix, database),
	}
	e.cells = cell.New(e.cellTable, time.Duration(configuration.CellCacheExpiry)*time.Second)
	e.metas = block.NewMetaDb(e.metaTable)

	if source, ok := database.(storage.StatisticsSource); ok && configuration.StatisticsInterval > 0 {
		interval := time.Duration(configuration.StatisticsInterval) * time.Second
		e.background = background.Start(background.Processes{
			storage.NewReporter(interval, source),
		}, nil)
	}

	log.Infof("opened backend: %q  version: %d", configuration.Backend, version)
	return e, nil
}

// Version - stored database version
func (e *Engine) Version() uint32 {
	return e.version
}

// Database - the underlying backend
func (e *Engine) Database() storage.Database {
	return e.database
}

// Cells - the cell store
func (e *Engine) Cells() *cell.CellDb {
	return e.cells
}

// CellTable - the table holding cell records
func (e *Engine) CellTable() *storage.Table {
	return e.cellTable
}

// BlockMeta - the block metadata store
func (e *Engine) BlockMeta() *block.MetaDb {
	return e.metas
}

// MetaTable - the table holding block metadata records
func (e *Engine) MetaTable() *storage.Table {
	return e.metaTable
}

// Update - run a function with a batch and commit it if the function
// succeeds, otherwise nothing is written
func (e *Engine) Update(f func(batch *Batch) error) error {
	trx, err := e.database.BeginTransaction()
	if nil != err {
		return err
	}

	batch := &Batch{
		Cells: e.cellTable.Bind(trx),
		Meta:  e.metaTable.Bind(trx),
	}
	if err := f(batch); nil != err {
		trx.Abort()
		return err
	}
	return trx.Commit()
}

// StoreBlock - store a cell tree and the metadata of its block in one
// commit
func (e *Engine) StoreBlock(root cell.Cell, id block.BlockId, meta *block.Meta) (int, error) {
	staged := 0
	err := e.Update(func(batch *Batch) error {
		n, err := e.cells.StoreTree(batch.Cells, root)
		if nil != err {
			return err
		}
		staged = n
		return e.metas.Stage(batch.Meta, id, meta)
	})
	if nil != err {
		return 0, err
	}
	e.log.Debugf("block: %s  cells: %d", id, staged)
	return staged, nil
}

// Close - stop statistics and close the backend
//
// fails while transactions or snapshots are outstanding, the engine
// stays open so Close can be retried
func (e *Engine) Close() error {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.closed {
		return nil
	}
	e.background.Stop()

	e.log.Info("closing")
	if err := e.database.Close(); nil != err {
		e.log.Warnf("close error: %s", err)
		return err
	}
	e.closed = true
	return nil
}

// Destroy - stop statistics and erase the backend
//
// fails while transactions or snapshots are outstanding
func (e *Engine) Destroy() error {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.background.Stop()

	err := e.database.Destroy()
	if nil != err {
		if fault.ErrHasActiveTransactions != err {
			e.log.Errorf("destroy error: %s", err)
		}
		return err
	}
	e.closed = true
	return nil
}
