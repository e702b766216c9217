// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

import (
	"github.com/bitmark-inc/cellstore/fault"
	"github.com/bitmark-inc/cellstore/util"
)

// limits of a single cell
const (
	MaxBitLength  = 1023
	MaxReferences = 4
)

// Data - bit packed payload of a cell
//
// bits are stored most significant first; unused bits of a partial
// last byte are always zero
type Data struct {
	bitLength int
	data      []byte
}

// NewData - create cell data from bytes holding bitLength bits
func NewData(data []byte, bitLength int) (Data, error) {
	if bitLength < 0 || bitLength > MaxBitLength {
		return Data{}, fault.ErrInvalidBitLength
	}
	if len(data) != byteLength(bitLength) {
		return Data{}, fault.ErrInvalidBitLength
	}

	d := make([]byte, len(data))
	copy(d, data)
	if r := bitLength % 8; 0 != r {
		d[len(d)-1] &= 0xff << uint(8-r)
	}
	return Data{
		bitLength: bitLength,
		data:      d,
	}, nil
}

// NewDataFromBytes - cell data using every bit of the bytes
func NewDataFromBytes(data []byte) (Data, error) {
	return NewData(data, 8*len(data))
}

func byteLength(bitLength int) int {
	return (bitLength + 7) / 8
}

// BitLength - number of valid bits
func (d Data) BitLength() int {
	return d.bitLength
}

// Bytes - the packed bits, must not be modified
func (d Data) Bytes() []byte {
	return d.data
}

// Equal - same bits
func (d Data) Equal(other Data) bool {
	if d.bitLength != other.bitLength {
		return false
	}
	for i, b := range d.data {
		if b != other.data[i] {
			return false
		}
	}
	return true
}

// Append - append the self delimiting serialisation to a buffer
func (d Data) Append(buffer []byte) []byte {
	buffer = util.AppendVarint64(buffer, uint64(d.bitLength))
	return append(buffer, d.data...)
}

// Serialise - self delimiting serialisation, never empty
func (d Data) Serialise() []byte {
	return d.Append(make([]byte, 0, util.Varint64MaximumBytes+len(d.data)))
}

// ParseData - decode serialised data from the start of a buffer
//
// returns the data and the number of bytes consumed
func ParseData(buffer []byte) (Data, int, error) {
	bitLength, n := util.ClippedVarint64(buffer, 0, MaxBitLength)
	if 0 == n {
		return Data{}, 0, fault.ErrInvalidCellRecord
	}

	end := n + byteLength(bitLength)
	if len(buffer) < end {
		return Data{}, 0, fault.ErrInvalidCellRecord
	}

	// a stored partial byte must already have its unused bits clear
	if r := bitLength % 8; 0 != r && 0 != buffer[end-1]&(0xff>>uint(r)) {
		return Data{}, 0, fault.ErrInvalidCellRecord
	}

	d, err := NewData(buffer[n:end], bitLength)
	if nil != err {
		return Data{}, 0, fault.ErrInvalidCellRecord
	}
	return d, end, nil
}

// descriptor byte 2 and the data padded with a completion tag
func (d Data) representation() []byte {
	buffer := make([]byte, 0, 1+len(d.data))
	buffer = append(buffer, byte(d.bitLength/8+byteLength(d.bitLength)))
	buffer = append(buffer, d.data...)
	if r := d.bitLength % 8; 0 != r {
		buffer[len(buffer)-1] |= 0x80 >> uint(r)
	}
	return buffer
}
