// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/cellstore/fault"
)

var (
	ErrExistsOne   = fault.ExistsError("exists one ")
	ErrExistsTwo   = fault.ExistsError("exists two")
	ErrInvalidOne  = fault.InvalidError("invalid one")
	ErrInvalidTwo  = fault.InvalidError("invalid two")
	ErrLengthOne   = fault.LengthError("length one")
	ErrLengthTwo   = fault.LengthError("length two")
	ErrNotFoundOne = fault.NotFoundError("not found one")
	ErrNotFoundTwo = fault.NotFoundError("not found two")
	ErrProcessOne  = fault.ProcessError("process one")
	ErrProcessTwo  = fault.ProcessError("process two")
	ErrRecordOne   = fault.RecordError("record one")
	ErrRecordTwo   = fault.RecordError("record two")
)

const (
	testingDirName = "testing"
)

func TestMain(m *testing.M) {
	os.RemoveAll(testingDirName)
	_ = os.Mkdir(testingDirName, 0700)

	_ = logger.Initialise(logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})

	rc := m.Run()
	logger.Finalise()
	os.RemoveAll(testingDirName)
	os.Exit(rc)
}

// test that the various errors can be subclassed
func TestClasses(t *testing.T) {
	errorList := []struct {
		err      error
		exists   bool
		invalid  bool
		length   bool
		notFound bool
		process  bool
		record   bool
	}{
		{ErrExistsOne, true, false, false, false, false, false},
		{ErrExistsTwo, true, false, false, false, false, false},
		{ErrInvalidOne, false, true, false, false, false, false},
		{ErrInvalidTwo, false, true, false, false, false, false},
		{ErrLengthOne, false, false, true, false, false, false},
		{ErrLengthTwo, false, false, true, false, false, false},
		{ErrNotFoundOne, false, false, false, true, false, false},
		{ErrNotFoundTwo, false, false, false, true, false, false},
		{ErrProcessOne, false, false, false, false, true, false},
		{ErrProcessTwo, false, false, false, false, true, false},
		{ErrRecordOne, false, false, false, false, false, true},
		{ErrRecordTwo, false, false, false, false, false, true},
		{fault.ErrDbIsDropped, false, false, false, false, true, false},
		{fault.ErrHasActiveTransactions, false, false, false, false, true, false},
		{fault.ErrInvalidCellRecord, false, false, false, false, false, true},
		{fmt.Errorf("wrapped: %w", ErrNotFoundOne), false, false, false, true, false, false},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrLength(err) != e.length {
			t.Errorf("%d: expected 'length' == %v for err = %v", i, e.length, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
		if fault.IsErrRecord(err) != e.record {
			t.Errorf("%d: expected 'record' == %v for err = %v", i, e.record, err)
		}
	}
}

func TestKeyNotFound(t *testing.T) {
	err := fault.KeyNotFound([]byte{0x01, 0xab, 0xff})

	assert.True(t, fault.IsErrNotFound(err), "wrong error class")
	assert.Equal(t, "key not found: 01abff", err.Error(), "wrong message")
}

func TestPanicfPanics(t *testing.T) {
	assert.PanicsWithValue(t, "bad value: 5", func() {
		fault.Panicf("bad value: %d", 5)
	}, "Panicf did not panic")
}

func TestPanicIfError(t *testing.T) {
	assert.NotPanics(t, func() {
		fault.PanicIfError("nothing", nil)
	})
	assert.Panics(t, func() {
		fault.PanicIfError("something", ErrProcessOne)
	})
}

func TestPanicLogChannel(t *testing.T) {
	assert.Nil(t, fault.Initialise(), "initialise")
	assert.Equal(t, fault.ErrAlreadyInitialised, fault.Initialise(), "second initialise")

	assert.NotPanics(t, func() {
		fault.Criticalf("logged value: %d", 7)
	})
	assert.PanicsWithValue(t, "through channel", func() {
		fault.Panicf("through %s", "channel")
	})

	fault.Finalise()
	fault.Finalise()

	assert.Nil(t, fault.Initialise(), "initialise after finalise")
	fault.Finalise()
}
