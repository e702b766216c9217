// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/bitmark-inc/cellstore/fault"
)

// the operations a concrete snapshot must supply
type snapshotReader interface {
	get(key []byte) ([]byte, bool, error)
	forEachInRange(start []byte, limit []byte, visitor Visitor) (bool, error)
	release()
}

// point in time view that keeps its backend alive until released
type snapshot struct {
	lock     sync.RWMutex
	owner    *collection
	reader   snapshotReader
	released bool
}

// create a snapshot using the backend specific constructor
func (c *collection) newSnapshot(open func() (snapshotReader, error)) (Snapshot, error) {
	if err := c.acquire(); nil != err {
		return nil, err
	}

	reader, err := open()
	if nil != err {
		c.release()
		return nil, err
	}
	return &snapshot{
		owner:  c,
		reader: reader,
	}, nil
}

func (s *snapshot) use() error {
	s.lock.RLock()
	if s.released {
		s.lock.RUnlock()
		return fault.ErrSnapshotReleased
	}
	return nil
}

// Get - read the value for a key as it was when the snapshot was taken
func (s *snapshot) Get(key Key) ([]byte, error) {
	if err := s.use(); nil != err {
		return nil, err
	}
	defer s.lock.RUnlock()

	s.owner.statistics.Reads.Increment()
	value, found, err := s.reader.get(key.Bytes())
	if nil != err {
		return nil, err
	}
	if !found {
		return nil, fault.KeyNotFound(key.Bytes())
	}
	return value, nil
}

// Contains - check if a key existed when the snapshot was taken
func (s *snapshot) Contains(key Key) (bool, error) {
	if err := s.use(); nil != err {
		return false, err
	}
	defer s.lock.RUnlock()

	s.owner.statistics.Reads.Increment()
	_, found, err := s.reader.get(key.Bytes())
	return found, err
}

// ForEach - visit all entries of the snapshot
func (s *snapshot) ForEach(visitor Visitor) (bool, error) {
	return s.ForEachInRange(nil, nil, visitor)
}

// ForEachInRange - visit the snapshot entries in [start, limit)
func (s *snapshot) ForEachInRange(start []byte, limit []byte, visitor Visitor) (bool, error) {
	if err := s.use(); nil != err {
		return false, err
	}
	defer s.lock.RUnlock()

	s.owner.statistics.Reads.Increment()
	return s.reader.forEachInRange(start, limit, visitor)
}

// Release - free the snapshot, further reads fail
func (s *snapshot) Release() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.released {
		return
	}
	s.released = true
	s.reader.release()
	s.owner.release()
}
