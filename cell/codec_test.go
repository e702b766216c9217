// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/cellstore/digest"
	"github.com/bitmark-inc/cellstore/fault"
)

func TestSerialiseWithTwoReferences(t *testing.T) {
	h1 := mustCell(t, []byte("left"))
	h2 := mustCell(t, []byte("right"))
	parent := mustCell(t, []byte{0x01, 0x02}, h1, h2)

	left := h1.ReprHash()
	right := h2.ReprHash()

	expected := []byte{0x10, 0x01, 0x02, 0x02}
	expected = append(expected, left[:]...)
	expected = append(expected, right[:]...)

	record := SerialiseCell(parent)
	assert.Equal(t, expected, record, "record")

	data, references, err := DeserialiseCell(record)
	assert.Nil(t, err, "decode error")
	assert.True(t, parent.Data().Equal(data), "data")
	assert.Equal(t, 2, len(references), "reference count")
	assert.Equal(t, left, references[0].Hash, "first hash")
	assert.Equal(t, right, references[1].Hash, "second hash")
	assert.False(t, references[0].IsLoaded(), "first loaded")
	assert.False(t, references[1].IsLoaded(), "second loaded")
}

func TestSerialiseRoundTrip(t *testing.T) {
	leaves := []Cell{
		mustCell(t, []byte("a")),
		mustCell(t, []byte("b")),
		mustCell(t, []byte("c")),
		mustCell(t, []byte("d")),
	}

	for n := 0; n <= MaxReferences; n += 1 {
		c := mustCell(t, bytes.Repeat([]byte{byte(n)}, n+1), leaves[:n]...)

		data, references, err := DeserialiseCell(SerialiseCell(c))
		assert.Nil(t, err, "%d: decode error", n)
		assert.True(t, c.Data().Equal(data), "%d: data", n)
		assert.Equal(t, n, len(references), "%d: reference count", n)
		for i := range references {
			assert.Equal(t, leaves[i].ReprHash(), references[i].Hash, "%d: hash %d", n, i)
		}
	}
}

func TestSerialiseEmptyDataIsNotEmpty(t *testing.T) {
	d := mustData(t, []byte{}, 0)
	c, err := NewDataCell(d)
	assert.Nil(t, err, "cell error")
	assert.Equal(t, []byte{0x00, 0x00}, SerialiseCell(c), "record")
}

// a cell that violates the reference limit
type brokenCell struct {
	*DataCell
}

func (c brokenCell) ReferencesCount() int {
	return 5
}

func TestSerialiseTooManyReferencesPanics(t *testing.T) {
	c := brokenCell{DataCell: mustCell(t, []byte("x"))}
	assert.Panics(t, func() {
		SerialiseCell(c)
	}, "five references")
}

func TestNewDataCellTooManyReferences(t *testing.T) {
	leaf := mustCell(t, []byte("leaf"))
	d := mustData(t, []byte{0x01}, 8)

	_, err := NewDataCell(d, leaf, leaf, leaf, leaf, leaf)
	assert.Equal(t, fault.ErrTooManyReferences, err, "wrong error")
}

func TestDeserialiseInvalid(t *testing.T) {
	hash := make([]byte, digest.Length)

	items := [][]byte{
		{},
		{0x08, 0xab},
		{0x08, 0xab, 0x05},
		{0x08, 0xab, 0x01},
		append([]byte{0x08, 0xab, 0x01}, hash[:31]...),
		append(append([]byte{0x08, 0xab, 0x01}, hash...), 0x00),
		{0x10, 0x01},
	}

	for i, item := range items {
		_, _, err := DeserialiseCell(item)
		assert.Equal(t, fault.ErrInvalidCellRecord, err, "%d: wrong error", i)
		assert.True(t, fault.IsErrRecord(err), "%d: wrong class", i)
	}
}

func TestReprHash(t *testing.T) {
	leaf := mustCell(t, []byte{0x01, 0x02})

	// refs ++ d2 ++ data
	assert.Equal(t, digest.NewDigest([]byte{0x00, 0x04, 0x01, 0x02}), leaf.ReprHash(), "leaf hash")

	child := leaf.ReprHash()
	parent := mustCell(t, []byte{0xff}, leaf)
	expected := digest.NewDigest(append([]byte{0x01, 0x02, 0xff}, child[:]...))
	assert.Equal(t, expected, parent.ReprHash(), "parent hash")

	// same content same id
	assert.Equal(t, parent.ReprHash(), mustCell(t, []byte{0xff}, mustCell(t, []byte{0x01, 0x02})).ReprHash(), "deterministic")
	assert.NotEqual(t, parent.ReprHash(), mustCell(t, []byte{0xfe}, leaf).ReprHash(), "different data")
}

func TestDataCellReference(t *testing.T) {
	leaf := mustCell(t, []byte("leaf"))
	parent := mustCell(t, []byte("parent"), leaf)

	child, err := parent.Reference(0)
	assert.Nil(t, err, "reference error")
	assert.Equal(t, leaf, child, "child")

	_, err = parent.Reference(1)
	assert.Equal(t, fault.ErrReferenceIndex, err, "out of range")
	_, err = parent.ReferenceHash(-1)
	assert.Equal(t, fault.ErrReferenceIndex, err, "negative index")
}
