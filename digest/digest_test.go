// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/cellstore/digest"
	"github.com/bitmark-inc/cellstore/fault"
)

// printf '%s' 'hello world' | sha256sum
const helloWorld = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func TestDigest(t *testing.T) {
	d := digest.NewDigest([]byte("hello world"))

	var expected digest.Digest
	n, err := fmt.Sscan(helloWorld, &expected)
	if nil != err {
		t.Fatalf("hex to digest error: %v", err)
	}
	if 1 != n {
		t.Fatalf("scanned %d items expected to scan 1", n)
	}

	if d != expected {
		t.Errorf("digest = %#v expected %#v", d, expected)
	}

	if s := fmt.Sprintf("%s", d); s != helloWorld {
		t.Errorf("string: digest = %s expected %s", s, helloWorld)
	}
	if s := fmt.Sprintf("%#v", d); s != "<SHA256:"+helloWorld+">" {
		t.Errorf("hash-v: digest = %s expected <SHA256:%s>", s, helloWorld)
	}
}

func TestDigestOfParts(t *testing.T) {
	whole := digest.NewDigest([]byte("hello world"))
	parts := digest.NewDigestOf([]byte("hello"), []byte(" "), []byte("world"))

	assert.Equal(t, whole, parts, "concatenated digest differs")
}

func TestJSON(t *testing.T) {
	d := digest.NewDigest([]byte("hello world"))

	buffer, err := json.Marshal(d)
	assert.Nil(t, err, "marshal error")
	assert.Equal(t, `"`+helloWorld+`"`, string(buffer), "wrong JSON")

	var back digest.Digest
	err = json.Unmarshal(buffer, &back)
	assert.Nil(t, err, "unmarshal error")
	assert.Equal(t, d, back, "JSON round trip differs")
}

func TestDigestFromBytes(t *testing.T) {
	var d digest.Digest

	err := digest.DigestFromBytes(&d, make([]byte, 31))
	assert.Equal(t, fault.ErrInvalidDigestLength, err, "short buffer accepted")

	buffer := make([]byte, digest.Length)
	buffer[0] = 0x42
	err = digest.DigestFromBytes(&d, buffer)
	assert.Nil(t, err, "valid buffer rejected")
	assert.Equal(t, byte(0x42), d[0], "wrong first byte")
	assert.False(t, d.IsZero(), "non-zero digest reported as zero")
	assert.True(t, digest.Digest{}.IsZero(), "zero digest not reported as zero")
}
