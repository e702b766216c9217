// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"encoding/hex"
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised    = ExistsError("already initialised")
	ErrDbIsDropped           = ProcessError("database is dropped")
	ErrHasActiveTransactions = ProcessError("database has active transactions")
	ErrInvalidBackend        = InvalidError("invalid storage backend")
	ErrInvalidBitLength      = InvalidError("invalid cell bit length")
	ErrInvalidBlockMeta      = LengthError("invalid block meta record length")
	ErrInvalidCellRecord     = RecordError("invalid cell record")
	ErrInvalidCount          = InvalidError("invalid count")
	ErrInvalidConfiguration  = InvalidError("configuration must return a table")
	ErrInvalidDigestLength   = LengthError("invalid digest length")
	ErrInvalidLoggerChannel  = InvalidError("invalid logger channel")
	ErrInvalidStructPointer  = InvalidError("invalid struct pointer")
	ErrInvalidVersion        = LengthError("invalid database version length")
	ErrNewerVersion          = ProcessError("database version is newer than supported")
	ErrNotInitialised        = NotFoundError("not initialised")
	ErrNotSupported          = ProcessError("operation not supported by backend")
	ErrReferenceIndex        = InvalidError("cell reference index out of range")
	ErrSnapshotReleased      = ProcessError("snapshot already released")
	ErrTooManyReferences     = InvalidError("too many cell references")
	ErrTransactionCompleted  = ProcessError("transaction already completed")
)

// KeyNotFound - a requested key is absent, the hex key is part of the message
func KeyNotFound(key []byte) error {
	return NotFoundError("key not found: " + hex.EncodeToString(key))
}

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error, wrapped errors are unwrapped
func IsErrExists(e error) bool   { var t ExistsError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool  { var t InvalidError; return errors.As(e, &t) }
func IsErrLength(e error) bool   { var t LengthError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool  { var t ProcessError; return errors.As(e, &t) }
func IsErrRecord(e error) bool   { var t RecordError; return errors.As(e, &t) }
