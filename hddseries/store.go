// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hddseries groups disk access-time samples by drive model and
// block size.
//
// A Store is built by a Builder from measurement files (see package
// hddfmt) and is read by summarizers and renderers. Within a Group,
// samples are ordered by head position, which is what smoothing and
// plotting expect.
package hddseries

import (
	"sort"

	"github.com/hddance/hddance/hddmath"
)

// A Sample is one timed read.
type Sample struct {
	Position float64 // Head position, percent of capacity in [0, 100]
	Latency  float64 // Access time, milliseconds
}

// A Key identifies a Group.
type Key struct {
	Model     string
	BlockSize int // Bytes
}

// A Group is the samples of one model at one block size.
type Group struct {
	Key Key

	// Samples are ordered by ascending Position. Samples with equal
	// positions are in the order they were read.
	Samples []Sample
}

// Len returns the number of samples in g.
func (g *Group) Len() int {
	return len(g.Samples)
}

// Positions returns the sample positions, in order.
func (g *Group) Positions() []float64 {
	xs := make([]float64, len(g.Samples))
	for i, s := range g.Samples {
		xs[i] = s.Position
	}
	return xs
}

// Latencies returns the sample latencies, in order.
func (g *Group) Latencies() []float64 {
	ys := make([]float64, len(g.Samples))
	for i, s := range g.Samples {
		ys[i] = s.Latency
	}
	return ys
}

// Summary returns the latency statistics of g. It returns
// hddmath.ErrEmptyGroup if g has no samples.
func (g *Group) Summary() (hddmath.Summary, error) {
	return hddmath.Summarize(g.Key.BlockSize, g.Latencies())
}

// Smooth returns the LOESS trend of g's latencies over position.
func (g *Group) Smooth(fraction float64) (*hddmath.Curve, error) {
	return hddmath.Smooth(g.Positions(), g.Latencies(), fraction)
}

// A Store maps model to block size to Group.
type Store struct {
	models map[string]map[int]*Group
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{models: make(map[string]map[int]*Group)}
}

// group returns the Group for k, creating it if necessary.
func (s *Store) group(k Key) *Group {
	blocks := s.models[k.Model]
	if blocks == nil {
		blocks = make(map[int]*Group)
		s.models[k.Model] = blocks
	}
	g := blocks[k.BlockSize]
	if g == nil {
		g = &Group{Key: k}
		blocks[k.BlockSize] = g
	}
	return g
}

// Group returns the Group for k, or nil if there is none.
func (s *Store) Group(k Key) *Group {
	return s.models[k.Model][k.BlockSize]
}

// Models returns the models in s in lexical order.
func (s *Store) Models() []string {
	models := make([]string, 0, len(s.models))
	for m := range s.models {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

// BlockSizes returns the block sizes recorded for model in ascending
// order.
func (s *Store) BlockSizes(model string) []int {
	blocks := s.models[model]
	sizes := make([]int, 0, len(blocks))
	for b := range blocks {
		sizes = append(sizes, b)
	}
	sort.Ints(sizes)
	return sizes
}

// Groups returns the groups of model in ascending block size order.
func (s *Store) Groups(model string) []*Group {
	var gs []*Group
	for _, b := range s.BlockSizes(model) {
		gs = append(gs, s.models[model][b])
	}
	return gs
}

// Len returns the number of samples in all groups of s.
func (s *Store) Len() int {
	n := 0
	for _, blocks := range s.models {
		for _, g := range blocks {
			n += len(g.Samples)
		}
	}
	return n
}

// ModelLen returns the number of samples in all groups of model.
func (s *Store) ModelLen(model string) int {
	n := 0
	for _, g := range s.models[model] {
		n += len(g.Samples)
	}
	return n
}

// sort orders the samples of every group by position, keeping the
// relative order of samples at the same position.
func (s *Store) sort() {
	for _, blocks := range s.models {
		for _, g := range blocks {
			sort.SliceStable(g.Samples, func(i, j int) bool {
				return g.Samples[i].Position < g.Samples[j].Position
			})
		}
	}
}
