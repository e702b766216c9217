// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cell - codec and content addressed store for DAG cells
//
// A cell carries up to 1023 bits of data and up to four references to
// child cells.  Its identifier is the SHA-256 of its representation,
// so equal cells share one record.
//
// Stored record:
//
//   varint64(bit length) ++ data bytes ++ reference count (1 byte)
//     ++ reference count × 32 byte child hash
//
// Cells read back from the store only know the hashes of their
// children; each child is loaded from the store the first time it is
// requested and kept afterwards.
package cell
