// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/bitmark-inc/cellstore/digest"
)

// MasterchainId - workchain id of the masterchain
const MasterchainId int32 = -1

// ShardIdent - workchain and shard prefix (including its tag bit)
type ShardIdent struct {
	Workchain int32
	Prefix    uint64
}

// IsMasterchain - true for the masterchain shard
func (s ShardIdent) IsMasterchain() bool {
	return MasterchainId == s.Workchain
}

// String - workchain:prefix
func (s ShardIdent) String() string {
	return fmt.Sprintf("%d:%016x", s.Workchain, s.Prefix)
}

// BlockIdExt - full logical identifier of a block
type BlockIdExt struct {
	Shard    ShardIdent
	SeqNo    uint32
	RootHash digest.Digest
	FileHash digest.Digest
}

// String - (wc:shard, seqno, rh hash, fh hash)
func (b BlockIdExt) String() string {
	return fmt.Sprintf("(%s, %d, rh %s, fh %s)", b.Shard, b.SeqNo, b.RootHash, b.FileHash)
}

// BlockId - a block identifier with its storage key
type BlockId struct {
	key digest.Digest
	ext BlockIdExt
}

// NewBlockId - derive the storage key of a block
//
// SHA-256 of: workchain (LE i32) ++ shard prefix (LE u64) ++ seqno
// (LE u32) ++ root hash ++ file hash
func NewBlockId(ext BlockIdExt) BlockId {
	buffer := make([]byte, 0, 4+8+4+2*digest.Length)
	buffer = binary.LittleEndian.AppendUint32(buffer, uint32(ext.Shard.Workchain))
	buffer = binary.LittleEndian.AppendUint64(buffer, ext.Shard.Prefix)
	buffer = binary.LittleEndian.AppendUint32(buffer, ext.SeqNo)
	buffer = append(buffer, ext.RootHash[:]...)
	buffer = append(buffer, ext.FileHash[:]...)

	return BlockId{
		key: digest.NewDigest(buffer),
		ext: ext,
	}
}

// Key - the storage key
func (b BlockId) Key() digest.Digest {
	return b.key
}

// Bytes - the storage key as bytes
func (b BlockId) Bytes() []byte {
	return b.key[:]
}

// Ext - the logical identifier
func (b BlockId) Ext() BlockIdExt {
	return b.ext
}

// String - [hex key] logical identifier
func (b BlockId) String() string {
	return "[" + hex.EncodeToString(b.key[:]) + "] " + b.ext.String()
}
