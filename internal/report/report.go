// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report formats per-model latency tables for a Store.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aclements/go-gg/ggstat"
	"github.com/hddance/hddance/hddseries"
	"github.com/hddance/hddance/hddunit"
	"github.com/hddance/hddance/internal/texttab"
)

// NA stands in for statistics that are undefined for a group.
const NA = "n/a"

// Column names produced by the quantile aggregation.
const (
	colCount = "n"
	colP50   = "p50 " + hddseries.ColLatency
	colP99   = "p99 " + hddseries.ColLatency
	colMax   = "max " + hddseries.ColLatency
)

// Quantiles are order statistics of a group's latencies, in ms.
type Quantiles struct {
	N             int
	P50, P99, Max float64
}

// LatencyQuantiles computes Quantiles for every non-empty group of s.
// Groups without samples are absent from the result.
func LatencyQuantiles(s *hddseries.Store) map[hddseries.Key]Quantiles {
	out := make(map[hddseries.Key]Quantiles)
	if s.Len() == 0 {
		return out
	}
	agg := ggstat.Agg(hddseries.ColModel, hddseries.ColBlock)(
		ggstat.AggCount(colCount),
		ggstat.AggQuantile("p50", 0.5, hddseries.ColLatency),
		ggstat.AggQuantile("p99", 0.99, hddseries.ColLatency),
		ggstat.AggMax(hddseries.ColLatency),
	)
	res := agg.F(s.Table())
	for _, gid := range res.Tables() {
		t := res.Table(gid)
		models := t.MustColumn(hddseries.ColModel).([]string)
		blocks := t.MustColumn(hddseries.ColBlock).([]int)
		counts := t.MustColumn(colCount).([]int)
		p50 := t.MustColumn(colP50).([]float64)
		p99 := t.MustColumn(colP99).([]float64)
		maxes := t.MustColumn(colMax).([]float64)
		for i := range models {
			out[hddseries.Key{Model: models[i], BlockSize: blocks[i]}] = Quantiles{counts[i], p50[i], p99[i], maxes[i]}
		}
	}
	return out
}

// StatsLines returns one row per block size of model with its block
// size, mean latency, IOPS and throughput. A group whose statistics
// are undefined gets NA in their place. These are the lines annotated
// on charts.
func StatsLines(s *hddseries.Store, model string) *texttab.Table {
	var tab texttab.Table
	for _, g := range s.Groups(model) {
		tab.Row().Cell(hddunit.BlockSize(g.Key.BlockSize))
		sum, err := g.Summary()
		if err != nil {
			tab.Cell(NA)
			continue
		}
		tab.Cell(hddunit.Millis(sum.Mean), texttab.Right).
			Cell(hddunit.IOPS(sum.IOPS), texttab.Right).
			Cell(hddunit.MiBps(sum.Throughput), texttab.Right)
	}
	return &tab
}

// Write writes a latency table for every model in s to w.
func Write(w io.Writer, s *hddseries.Store) error {
	qs := LatencyQuantiles(s)
	for i, model := range s.Models() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s: %d samples\n", model, s.ModelLen(model)); err != nil {
			return err
		}

		var tab texttab.Table
		tab.Gap = "  "
		tab.Row().Cell("block").Cell("tier").Cell("n", texttab.Right).
			Cell("mean ms", texttab.Right).Cell("IOPS", texttab.Right).Cell("MiB/s", texttab.Right).
			Cell("p50 ms", texttab.Right).Cell("p99 ms", texttab.Right).Cell("max ms", texttab.Right)
		for _, g := range s.Groups(model) {
			tab.Row().Cell(hddunit.BlockSize(g.Key.BlockSize)).
				Cell(hddunit.Classify(g.Key.BlockSize).String()).
				Cell(strconv.Itoa(g.Len()), texttab.Right)
			if sum, err := g.Summary(); err != nil {
				tab.Cell(NA, texttab.Right).Cell(NA, texttab.Right).Cell(NA, texttab.Right)
			} else {
				tab.Cell(num(sum.Mean), texttab.Right).
					Cell(num(sum.IOPS), texttab.Right).
					Cell(num(sum.Throughput), texttab.Right)
			}
			if q, ok := qs[g.Key]; ok {
				tab.Cell(num(q.P50), texttab.Right).Cell(num(q.P99), texttab.Right).Cell(num(q.Max), texttab.Right)
			} else {
				tab.Cell(NA, texttab.Right).Cell(NA, texttab.Right).Cell(NA, texttab.Right)
			}
		}
		if err := tab.Format(w); err != nil {
			return err
		}
	}
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
