// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/bitmark-inc/cellstore/fault"
)

// CurrentVersion - record layout version written by this code
const CurrentVersion = 0x100

// for database version
var versionKey = RawKey{VersionPrefix, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

// CheckVersion - compare the stored version with the current one
//
// an empty database is tagged with the current version unless opened
// read only.  Returns the stored version and whether it is older than
// the current one
func CheckVersion(db Database, readOnly bool) (uint32, bool, error) {
	version, err := GetVersion(db)
	if nil != err {
		return 0, false, err
	}

	if version > CurrentVersion {
		return version, false, fault.ErrNewerVersion
	}

	if 0 == version {
		if readOnly {
			return 0, false, nil
		}
		return CurrentVersion, false, PutVersion(db, CurrentVersion)
	}

	return version, version < CurrentVersion, nil
}

// GetVersion - read the stored version, zero if none
func GetVersion(db Readable) (uint32, error) {
	value, err := db.Get(versionKey)
	if fault.IsErrNotFound(err) {
		return 0, nil
	}
	if nil != err {
		return 0, err
	}
	if 4 != len(value) {
		return 0, fault.ErrInvalidVersion
	}
	return binary.BigEndian.Uint32(value), nil
}

// PutVersion - store a version number
func PutVersion(db Writeable, version uint32) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, version)

	return db.Put(versionKey, currentVersion)
}
