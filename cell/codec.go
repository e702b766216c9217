// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cell

import (
	"github.com/bitmark-inc/cellstore/digest"
	"github.com/bitmark-inc/cellstore/fault"
	"github.com/bitmark-inc/cellstore/util"
)

// SerialiseCell - encode a cell as a store record
//
// a cell with more than four references is a broken DAG and panics
func SerialiseCell(cell Cell) []byte {
	count := cell.ReferencesCount()
	if count > MaxReferences {
		fault.Panicf("cell: %s has %d references", cell.ReprHash(), count)
	}

	data := cell.Data()
	buffer := make([]byte, 0, util.Varint64MaximumBytes+len(data.Bytes())+1+count*digest.Length)
	buffer = data.Append(buffer)
	buffer = append(buffer, byte(count))

	for i := 0; i < count; i += 1 {
		hash, err := cell.ReferenceHash(i)
		fault.PanicIfError("cell reference hash", err)
		buffer = append(buffer, hash[:]...)
	}

	if 0 == len(buffer) {
		fault.Panicf("cell: %s has an empty record", cell.ReprHash())
	}
	return buffer
}

// DeserialiseCell - decode a store record
//
// every reference is returned unloaded; a truncated or malformed
// record gives fault.ErrInvalidCellRecord
func DeserialiseCell(record []byte) (Data, []Reference, error) {
	data, n, err := ParseData(record)
	if nil != err {
		return Data{}, nil, err
	}

	if n >= len(record) {
		return Data{}, nil, fault.ErrInvalidCellRecord
	}
	count := int(record[n])
	n += 1

	if count > MaxReferences || len(record) != n+count*digest.Length {
		return Data{}, nil, fault.ErrInvalidCellRecord
	}

	references := make([]Reference, count)
	for i := range references {
		copy(references[i].Hash[:], record[n:n+digest.Length])
		n += digest.Length
	}
	return data, references, nil
}
