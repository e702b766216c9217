// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/cellstore/counter"
	"github.com/bitmark-inc/cellstore/fault"
)

// the operations a concrete key/value engine must supply
type backend interface {
	get(key []byte) ([]byte, bool, error)
	forEachInRange(start []byte, limit []byte, visitor Visitor) (bool, error)
	put(key []byte, value []byte) error
	delete(key []byte) error
	write(batch *leveldb.Batch) error
	count() (int, error)
	close() error
	erase() error
}

// state shared between a backend and every transaction or snapshot
// created from it
type collection struct {
	lock       sync.RWMutex
	name       string
	log        *logger.L
	backend    backend
	dropped    bool
	references counter.Counter
	statistics Statistics
}

func newCollection(name string, b backend) *collection {
	c := &collection{
		name:    name,
		log:     logger.New("storage"),
		backend: b,
	}
	c.log.Infof("%s: opened", name)
	return c
}

// obtain shared access, must be followed by done() if no error
func (c *collection) use() error {
	c.lock.RLock()
	if c.dropped {
		c.lock.RUnlock()
		return fault.ErrDbIsDropped
	}
	return nil
}

func (c *collection) done() {
	c.lock.RUnlock()
}

// register an outstanding transaction or snapshot
func (c *collection) acquire() error {
	if err := c.use(); nil != err {
		return err
	}
	c.references.Increment()
	c.done()
	return nil
}

func (c *collection) release() {
	c.references.Decrement()
}

// Name - the name the backend was opened with
func (c *collection) Name() string {
	return c.name
}

// Statistics - operation counters of this backend
func (c *collection) Statistics() *Statistics {
	return &c.statistics
}

// Get - read the value for a key
//
// returns a fault.NotFoundError if the key is absent
func (c *collection) Get(key Key) ([]byte, error) {
	if err := c.use(); nil != err {
		return nil, err
	}
	defer c.done()

	c.statistics.Reads.Increment()
	value, found, err := c.backend.get(key.Bytes())
	if nil != err {
		return nil, err
	}
	if !found {
		return nil, fault.KeyNotFound(key.Bytes())
	}
	return value, nil
}

// Contains - check if a key exists
func (c *collection) Contains(key Key) (bool, error) {
	if err := c.use(); nil != err {
		return false, err
	}
	defer c.done()

	c.statistics.Reads.Increment()
	_, found, err := c.backend.get(key.Bytes())
	return found, err
}

// ForEach - visit all entries in backend order
func (c *collection) ForEach(visitor Visitor) (bool, error) {
	return c.ForEachInRange(nil, nil, visitor)
}

// ForEachInRange - visit the entries in [start, limit)
func (c *collection) ForEachInRange(start []byte, limit []byte, visitor Visitor) (bool, error) {
	if err := c.use(); nil != err {
		return false, err
	}
	defer c.done()

	c.statistics.Reads.Increment()
	return c.backend.forEachInRange(start, limit, visitor)
}

// Put - store a key/value pair immediately
func (c *collection) Put(key Key, value []byte) error {
	if err := c.use(); nil != err {
		return err
	}
	defer c.done()

	c.statistics.Writes.Increment()
	return c.backend.put(key.Bytes(), value)
}

// Delete - remove a key immediately
func (c *collection) Delete(key Key) error {
	if err := c.use(); nil != err {
		return err
	}
	defer c.done()

	c.statistics.Writes.Increment()
	return c.backend.delete(key.Bytes())
}

// BeginTransaction - start a batch of writes
func (c *collection) BeginTransaction() (Transaction, error) {
	return newTransaction(c)
}

// apply a committed batch
func (c *collection) write(batch *leveldb.Batch) error {
	if err := c.use(); nil != err {
		return err
	}
	defer c.done()

	err := c.backend.write(batch)
	if nil != err {
		c.log.Errorf("%s: commit of %d operations failed: %s", c.name, batch.Len(), err)
		return err
	}
	c.statistics.Commits.Increment()
	c.statistics.Writes.Add(uint64(batch.Len()))
	return nil
}

// Len - number of entries
//
// returns fault.ErrNotSupported if the backend cannot count
func (c *collection) Len() (int, error) {
	if err := c.use(); nil != err {
		return 0, err
	}
	defer c.done()

	return c.backend.count()
}

// shut down the backend, caller must hold the write lock
func (c *collection) shutdown() error {
	if !c.references.IsZero() {
		return fault.ErrHasActiveTransactions
	}
	if c.dropped {
		return nil
	}
	c.dropped = true
	return c.backend.close()
}

// Close - release the backend keeping its data
//
// fails if any transaction or snapshot is still outstanding
func (c *collection) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.dropped {
		return nil
	}
	err := c.shutdown()
	if nil == err {
		c.log.Infof("%s: closed", c.name)
		c.log.Flush()
	}
	return err
}

// Destroy - release the backend and erase all of its data
//
// fails if any transaction or snapshot is still outstanding
func (c *collection) Destroy() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.shutdown(); nil != err {
		c.log.Warnf("%s: destroy refused: %s", c.name, err)
		return err
	}

	c.log.Infof("%s: destroyed", c.name)
	return c.backend.erase()
}
