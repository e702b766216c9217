// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/cellstore/fault"
)

func TestCheckVersion(t *testing.T) {
	db := NewMemoryDb()
	defer db.Destroy()

	// read only does not tag an empty database
	version, mustMigrate, err := CheckVersion(db, ReadOnly)
	assert.Nil(t, err, "check error")
	assert.Equal(t, uint32(0), version, "empty version")
	assert.False(t, mustMigrate, "empty must not migrate")

	version, mustMigrate, err = CheckVersion(db, ReadWrite)
	assert.Nil(t, err, "check error")
	assert.Equal(t, uint32(CurrentVersion), version, "tagged version")
	assert.False(t, mustMigrate, "current must not migrate")

	value, err := db.Get(RawKey{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'})
	assert.Nil(t, err, "get error")
	assert.Equal(t, []byte{0x00, 0x00, 0x01, 0x00}, value, "stored version")

	assert.Nil(t, PutVersion(db, CurrentVersion-1), "put error")
	version, mustMigrate, err = CheckVersion(db, ReadWrite)
	assert.Nil(t, err, "check error")
	assert.Equal(t, uint32(CurrentVersion-1), version, "old version")
	assert.True(t, mustMigrate, "old version must migrate")

	assert.Nil(t, PutVersion(db, CurrentVersion+1), "put error")
	_, _, err = CheckVersion(db, ReadWrite)
	assert.Equal(t, fault.ErrNewerVersion, err, "newer version")

	assert.Nil(t, db.Put(versionKey, []byte{1, 2}), "put error")
	_, err = GetVersion(db)
	assert.Equal(t, fault.ErrInvalidVersion, err, "bad length")
}
