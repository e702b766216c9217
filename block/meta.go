// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/bitmark-inc/cellstore/fault"
)

// metadata flags
const (
	FlagData           uint32 = 1 << 0
	FlagProof          uint32 = 1 << 1
	FlagProofLink      uint32 = 1 << 2
	FlagKeyBlock       uint32 = 1 << 11
	FlagMovedToArchive uint32 = 1 << 13
)

// MetaRecordLength - bytes in a stored metadata record
const MetaRecordLength = 4 + 4 + 8 + 4

// Meta - block metadata shared between goroutines
//
// flags and the masterchain reference are updated atomically, the
// generation time and logical time are fixed at creation
type Meta struct {
	genLt               uint64
	genUtime            uint32
	flags               uint32
	masterchainRefSeqNo uint32
}

// NewMeta - create metadata
func NewMeta(flags uint32, genUtime uint32, genLt uint64, masterchainRefSeqNo uint32) *Meta {
	return &Meta{
		genLt:               genLt,
		genUtime:            genUtime,
		flags:               flags,
		masterchainRefSeqNo: masterchainRefSeqNo,
	}
}

// Flags - current flag bits
func (m *Meta) Flags() uint32 {
	return atomic.LoadUint32(&m.flags)
}

// IsFlag - true if every bit of flag is set
func (m *Meta) IsFlag(flag uint32) bool {
	return m.Flags()&flag == flag
}

// SetFlags - set bits, true if any of them was not already set
//
// when several goroutines set the same bit exactly one gets true
func (m *Meta) SetFlags(flag uint32) bool {
	for {
		old := atomic.LoadUint32(&m.flags)
		if old&flag == flag {
			return false
		}
		if atomic.CompareAndSwapUint32(&m.flags, old, old|flag) {
			return true
		}
	}
}

// IsDataInited - block data is stored
func (m *Meta) IsDataInited() bool {
	return m.IsFlag(FlagData)
}

// IsProofInited - block proof is stored
func (m *Meta) IsProofInited() bool {
	return m.IsFlag(FlagProof)
}

// IsProofLinkInited - block proof link is stored
func (m *Meta) IsProofLinkInited() bool {
	return m.IsFlag(FlagProofLink)
}

// IsKeyBlock - block is a key block
func (m *Meta) IsKeyBlock() bool {
	return m.IsFlag(FlagKeyBlock)
}

// IsMovedToArchive - block belongs to archive storage
func (m *Meta) IsMovedToArchive() bool {
	return m.IsFlag(FlagMovedToArchive)
}

// SetMovedToArchive - one way transition to archive ownership
//
// true only for the caller that made the transition
func (m *Meta) SetMovedToArchive() bool {
	return m.SetFlags(FlagMovedToArchive)
}

// GenUtime - block generation unix time
func (m *Meta) GenUtime() uint32 {
	return m.genUtime
}

// GenLt - block generation logical time
func (m *Meta) GenLt() uint64 {
	return m.genLt
}

// MasterchainRefSeqNo - seqno of the referring masterchain block, zero
// if not yet known
func (m *Meta) MasterchainRefSeqNo() uint32 {
	return atomic.LoadUint32(&m.masterchainRefSeqNo)
}

// SetMasterchainRefSeqNo - record the referring masterchain block
//
// the value can only be set once; returns false if a different
// value is already present
func (m *Meta) SetMasterchainRefSeqNo(seqNo uint32) bool {
	if atomic.CompareAndSwapUint32(&m.masterchainRefSeqNo, 0, seqNo) {
		return true
	}
	return m.MasterchainRefSeqNo() == seqNo
}

// Serialise - fixed length little endian record
//
// flags ++ gen utime ++ gen lt ++ masterchain ref seqno
func (m *Meta) Serialise() []byte {
	buffer := make([]byte, MetaRecordLength)
	binary.LittleEndian.PutUint32(buffer[0:], m.Flags())
	binary.LittleEndian.PutUint32(buffer[4:], m.genUtime)
	binary.LittleEndian.PutUint64(buffer[8:], m.genLt)
	binary.LittleEndian.PutUint32(buffer[16:], m.MasterchainRefSeqNo())
	return buffer
}

// ParseMeta - decode a stored record
func ParseMeta(record []byte) (*Meta, error) {
	if MetaRecordLength != len(record) {
		return nil, fault.ErrInvalidBlockMeta
	}
	return NewMeta(
		binary.LittleEndian.Uint32(record[0:]),
		binary.LittleEndian.Uint32(record[4:]),
		binary.LittleEndian.Uint64(record[8:]),
		binary.LittleEndian.Uint32(record[16:]),
	), nil
}

// String - for logging
func (m *Meta) String() string {
	return fmt.Sprintf("flags: 0x%04x  gen_utime: %d  gen_lt: %d  mc_ref: %d", m.Flags(), m.genUtime, m.genLt, m.MasterchainRefSeqNo())
}
