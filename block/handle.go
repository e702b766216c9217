// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

// Handle - a block identifier with its metadata
type Handle struct {
	Id   BlockIdExt
	Meta *Meta
}

// McSeqNo - masterchain seqno a block belongs to
//
// a masterchain block is its own reference; a shard block uses the
// reference stored in its metadata, zero while unresolved
func McSeqNo(id BlockIdExt, meta *Meta) uint32 {
	if id.Shard.IsMasterchain() {
		return id.SeqNo
	}
	if nil == meta {
		return 0
	}
	return meta.MasterchainRefSeqNo()
}

// HandleMcSeqNo - McSeqNo for an optional handle, zero for nil
func HandleMcSeqNo(handle *Handle) uint32 {
	if nil == handle {
		return 0
	}
	return McSeqNo(handle.Id, handle.Meta)
}
