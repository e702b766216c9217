// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/cellstore/util"
)

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/etc/cellstore/data", util.EnsureAbsolute("/etc/cellstore", "data"), "relative path not joined")
	assert.Equal(t, "/var/data", util.EnsureAbsolute("/etc/cellstore", "/var/data/"), "absolute path changed")
	assert.Equal(t, "", util.EnsureAbsolute("/etc/cellstore", ""), "empty path expanded")
}

func TestEnsureFileExists(t *testing.T) {
	directory := t.TempDir()

	assert.True(t, util.EnsureFileExists(directory), "temporary directory not found")
	assert.False(t, util.EnsureFileExists(filepath.Join(directory, "missing")), "missing file found")
}
