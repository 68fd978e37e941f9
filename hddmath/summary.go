// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hddmath computes statistics over disk access-time samples.
//
// Latencies are in milliseconds throughout. Statistics that are not
// defined for a sample are reported as errors, never as NaN or ±Inf.
package hddmath

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
)

// MiB is the number of bytes in a mebibyte.
const MiB = 1 << 20

var (
	// ErrEmptyGroup is returned when summarizing zero latencies.
	ErrEmptyGroup = errors.New("hddmath: empty sample group")

	// ErrZeroLatency is returned when the mean latency is zero,
	// so IOPS and throughput are undefined.
	ErrZeroLatency = errors.New("hddmath: mean latency is zero")

	// ErrOverflow is returned when a statistic exceeds the range
	// of float64.
	ErrOverflow = errors.New("hddmath: latency statistics overflow")
)

// A Summary summarizes the latencies of one block size on one drive.
type Summary struct {
	// N is the number of samples.
	N int

	// Mean is the arithmetic mean latency in milliseconds.
	Mean float64

	// Min and Max bound the observed latencies.
	Min, Max float64

	// IOPS is the number of reads per second implied by Mean.
	IOPS float64

	// Throughput is BlockSize × IOPS in MiB per second.
	Throughput float64
}

// Summarize computes the Summary of latencies (in milliseconds) for
// reads of blockSize bytes.
func Summarize(blockSize int, latencies []float64) (Summary, error) {
	if len(latencies) == 0 {
		return Summary{}, ErrEmptyGroup
	}
	if blockSize <= 0 {
		return Summary{}, fmt.Errorf("hddmath: block size must be positive, got %d", blockSize)
	}
	mean := stats.Mean(latencies)
	if mean == 0 {
		return Summary{}, ErrZeroLatency
	}
	lo, hi := stats.Bounds(latencies)
	iops := 1000 / mean
	tput := float64(blockSize) * iops / MiB
	for _, v := range []float64{mean, lo, hi, iops, tput} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return Summary{}, ErrOverflow
		}
	}
	return Summary{
		N:          len(latencies),
		Mean:       mean,
		Min:        lo,
		Max:        hi,
		IOPS:       iops,
		Throughput: tput,
	}, nil
}
