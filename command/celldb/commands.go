// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/bitmark-inc/cellstore/block"
	"github.com/bitmark-inc/cellstore/cell"
	"github.com/bitmark-inc/cellstore/digest"
	"github.com/bitmark-inc/cellstore/engine"
	"github.com/bitmark-inc/cellstore/storage"
)

const deletePageSize = 100

// dump cell records as decoded data and reference hashes
func dumpCells(e *engine.Engine, count int) error {
	cursor := e.CellTable().NewFetchCursor()
	data, err := cursor.Fetch(count)
	if nil != err {
		return err
	}
	for i, item := range data {
		fmt.Printf("%d: Key: %x\n", i, item.Key)
		d, references, err := cell.DeserialiseCell(item.Value)
		if nil != err {
			fmt.Printf("%d: Val: %x  error: %s\n", i, item.Value, err)
			continue
		}
		fmt.Printf("%d: Bits: %d  Data: %x\n", i, d.BitLength(), d.Bytes())
		for j, r := range references {
			fmt.Printf("%d:   Ref[%d]: %s\n", i, j, r.Hash)
		}
	}
	return nil
}

// dump block metadata records
func dumpBlocks(e *engine.Engine, count int) error {
	cursor := e.MetaTable().NewFetchCursor()
	data, err := cursor.Fetch(count)
	if nil != err {
		return err
	}
	for i, item := range data {
		fmt.Printf("%d: Key: %x\n", i, item.Key)
		meta, err := block.ParseMeta(item.Value)
		if nil != err {
			fmt.Printf("%d: Val: %x  error: %s\n", i, item.Value, err)
			continue
		}
		fmt.Printf("%d: Meta: %s\n", i, meta)
	}
	return nil
}

// step through the cell records asking whether to delete each one
//
// records are read a page at a time so no backend lock is held while
// waiting for input
func deleteCells(e *engine.Engine) error {
	ttyFd, err := os.OpenFile("/dev/tty", os.O_RDWR, os.ModePerm)
	if err != nil {
		return err
	}
	defer ttyFd.Close()

	oldState, err := terminal.MakeRaw(int(ttyFd.Fd()))
	if err != nil {
		return err
	}
	defer terminal.Restore(int(ttyFd.Fd()), oldState)

	console := terminal.NewTerminal(ttyFd, "Cell Delete: ")

	cursor := e.CellTable().NewFetchCursor()
	for {
		data, err := cursor.Fetch(deletePageSize)
		if nil != err {
			return err
		}
		if 0 == len(data) {
			return nil
		}

	page:
		for _, item := range data {
			fmt.Printf("%x → %x\r\n", item.Key, item.Value)
			cmd, err := console.ReadLine()
			if err != nil {
				return err
			}
			switch strings.ToLower(cmd) {
			case "d", "y":
				if err := deleteCell(e, item.Key); nil != err {
					fmt.Printf("delete error: %s\r\n", err)
				}
			case "q":
				return nil
			case "n", "":
				continue page
			default:
				fmt.Printf("invalid command\r\n")
			}
		}
	}
}

func deleteCell(e *engine.Engine, key []byte) error {
	var id digest.Digest
	if err := digest.DigestFromBytes(&id, key); nil != err {
		return err
	}
	return e.Update(func(batch *engine.Batch) error {
		return e.Cells().DeleteCell(batch.Cells, id)
	})
}

// record counts and backend statistics
func showStats(e *engine.Engine, version string) {
	fmt.Printf("program version: %s\n", version)
	fmt.Printf("store version:   0x%x\n", e.Version())

	tables := []struct {
		name  string
		table *storage.Table
	}{
		{"cells", e.CellTable()},
		{"blocks", e.MetaTable()},
	}
	for _, t := range tables {
		n, err := t.table.Len()
		if nil != err {
			fmt.Printf("%-7s records: %s\n", t.name, err)
			continue
		}
		fmt.Printf("%-7s records: %d\n", t.name, n)
	}

	if source, ok := e.Database().(storage.StatisticsSource); ok {
		s := source.Statistics()
		fmt.Printf("%s: reads: %d  writes: %d  commits: %d\n", source.Name(), s.Reads.Uint64(), s.Writes.Uint64(), s.Commits.Uint64())
	}
}
