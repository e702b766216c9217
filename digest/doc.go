// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package digest - 256 bit SHA-256 digests
//
// used as cell identifiers, block root and file hashes and as derived
// block storage keys
package digest
