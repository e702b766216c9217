// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/cellstore/engine"
	"github.com/bitmark-inc/cellstore/fault"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["help"]) > 0 || 0 == len(arguments) {
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--version] --config-file=FILE command [args]\n"+
			"  cells COUNT   - dump up to COUNT cell records\n"+
			"  blocks COUNT  - dump up to COUNT block metadata records\n"+
			"  delete        - interactively delete cell records\n"+
			"  stats         - show record counts and version", program)
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	verbose := len(options["verbose"]) > 0
	if verbose {
		theConfiguration.Logging.Console = true
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// set up the fault panic log (now that logging is available)
	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// ------------------
	// start of real main
	// ------------------

	command := arguments[0]
	arguments = arguments[1:]

	// only the delete command writes
	if "delete" != command {
		theConfiguration.Engine.ReadOnly = true
	}

	e, err := engine.New(&theConfiguration.Engine)
	if nil != err {
		fault.Criticalf("engine open error: %s", err)
		exitwithstatus.Message("%s: engine open error: %s", program, err)
	}
	defer e.Close()

	switch command {
	case "cells", "blocks":
		if 1 != len(arguments) {
			exitwithstatus.Message("%s: %s requires a COUNT argument", program, command)
		}
		count, err := strconv.Atoi(arguments[0])
		if nil != err || count <= 0 {
			exitwithstatus.Message("%s: invalid count: %q", program, arguments[0])
		}
		if "cells" == command {
			err = dumpCells(e, count)
		} else {
			err = dumpBlocks(e, count)
		}
		if nil != err {
			exitwithstatus.Message("%s: %s error: %s", program, command, err)
		}

	case "delete":
		if err := deleteCells(e); nil != err {
			exitwithstatus.Message("%s: delete error: %s", program, err)
		}

	case "stats":
		showStats(e, version)

	default:
		exitwithstatus.Message("%s: unknown command: %q", program, command)
	}
}
