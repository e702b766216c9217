// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/cellstore/counter"
)

// Statistics - operation counters of a backend
type Statistics struct {
	Reads   counter.Counter
	Writes  counter.Counter
	Commits counter.Counter
}

// StatisticsSource - anything that exposes backend statistics
type StatisticsSource interface {
	Name() string
	Statistics() *Statistics
}

// Reporter - background process that logs statistics deltas
type Reporter struct {
	log      *logger.L
	interval time.Duration
	sources  []StatisticsSource
}

// NewReporter - create a reporter for a set of backends
func NewReporter(interval time.Duration, sources ...StatisticsSource) *Reporter {
	return &Reporter{
		log:      logger.New("statistics"),
		interval: interval,
		sources:  sources,
	}
}

// Run - background loop, satisfies background.Process
func (r *Reporter) Run(args interface{}, shutdown <-chan struct{}) {
	r.log.Info("starting…")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			r.Report()
		}
	}

	r.Report()
	r.log.Info("stopped")
}

// Report - log and reset the counters of every source
func (r *Reporter) Report() {
	for _, s := range r.sources {
		st := s.Statistics()
		reads := st.Reads.Take()
		writes := st.Writes.Take()
		commits := st.Commits.Take()
		if 0 == reads+writes+commits {
			continue
		}
		r.log.Infof("%s: reads: %d  writes: %d  commits: %d", s.Name(), reads, writes, commits)
	}
}
