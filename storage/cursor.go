// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/cellstore/fault"
)

// FetchCursor - cursor structure
type FetchCursor struct {
	source RangeReadable
	start  []byte
}

// NewFetchCursor - initialise a cursor to the start of a table
func (p *prefixedReader) NewFetchCursor() *FetchCursor {
	return &FetchCursor{
		source: p,
	}
}

// Seek - move cursor to specific key position
func (cursor *FetchCursor) Seek(key []byte) *FetchCursor {
	cursor.start = duplicate(key)
	return cursor
}

// Fetch - return up to count elements and advance the cursor past them
func (cursor *FetchCursor) Fetch(count int) ([]Element, error) {
	if count <= 0 {
		return nil, fault.ErrInvalidCount
	}

	results := make([]Element, 0, count)
	_, err := cursor.source.ForEachInRange(cursor.start, nil, func(key []byte, value []byte) (bool, error) {
		results = append(results, Element{
			Key:   duplicate(key),
			Value: duplicate(value),
		})
		return len(results) < count, nil
	})

	if n := len(results); n > 0 {
		// smallest key after the last one returned
		last := results[n-1].Key
		cursor.start = append(make([]byte, 0, len(last)+1), last...)
		cursor.start = append(cursor.start, 0x00)
	}
	return results, err
}

// Map - run a function on all elements from the cursor position
func (cursor *FetchCursor) Map(f func(key []byte, value []byte) error) error {
	_, err := cursor.source.ForEachInRange(cursor.start, nil, func(key []byte, value []byte) (bool, error) {
		if err := f(duplicate(key), duplicate(value)); nil != err {
			return false, err
		}
		return true, nil
	})
	return err
}
