// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hddseries

import "github.com/aclements/go-gg/table"

// Table column names.
const (
	ColModel    = "model"
	ColBlock    = "block"
	ColPosition = "position"
	ColLatency  = "latency"
)

// Table returns the samples of s as a flat table with columns
// ColModel ([]string), ColBlock ([]int), ColPosition and ColLatency
// ([]float64). Rows are ordered by model, then block size, then
// position, so grouping the table by model and block yields groups in
// the same order as Models and Groups.
func (s *Store) Table() *table.Table {
	n := s.Len()
	models := make([]string, 0, n)
	blocks := make([]int, 0, n)
	pos := make([]float64, 0, n)
	lat := make([]float64, 0, n)
	for _, m := range s.Models() {
		for _, g := range s.Groups(m) {
			for _, smp := range g.Samples {
				models = append(models, m)
				blocks = append(blocks, g.Key.BlockSize)
				pos = append(pos, smp.Position)
				lat = append(lat, smp.Latency)
			}
		}
	}
	return new(table.Builder).
		Add(ColModel, models).
		Add(ColBlock, blocks).
		Add(ColPosition, pos).
		Add(ColLatency, lat).
		Done()
}
