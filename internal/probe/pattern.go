// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package probe

import (
	"math"
	"math/rand"
)

// RandomPositions returns n read positions in [0, 1] drawn from an
// exponential distribution with mean 1/e. Draws above 1 are rejected,
// so positions cluster toward the start of the device where a typical
// file system keeps most of its data.
func RandomPositions(rng *rand.Rand, n int) []float64 {
	pos := make([]float64, 0, n)
	for len(pos) < n {
		if p := rng.ExpFloat64() / math.E; p <= 1 {
			pos = append(pos, p)
		}
	}
	return pos
}

// Number of reads at each end of the device in the final full-swing
// phase of HeadDance, per end.
const fullSwings = 200

// HeadDance returns the positions of the head movement pattern. The
// last swings positions alternate between the two ends of the device;
// their mean access time is the drive's full-stroke seek time.
//
// Positions carry a small random jitter and may fall slightly outside
// [0, 1]; readers clamp them.
func HeadDance(rng *rand.Rand) (positions []float64, swings int) {
	d := &dance{rng: rng}

	// Accelerating zigzag.
	s := 0.010
	var f float64
	for i := 0; i < 5; i++ {
		for f = 0; f < 1; f += s {
			d.at(f)
		}
		for f -= s; f > 0; f -= s {
			d.at(f)
		}
		s += 0.0075
	}
	f += s

	// Tightening zigzag.
	for lo, hi := 0.10, 0.90; lo < hi; lo, hi = lo+0.05, hi-0.05 {
		for ; f < hi; f += s {
			d.at(f)
		}
		for ; f > lo; f -= s {
			d.at(f)
		}
	}

	for amp := 0.05; amp <= 0.50; amp += 0.05 {
		d.sine(amp, 32, false)
	}
	for amp := 0.50; amp > 0; amp -= 0.05 {
		d.sine(amp, 32, false)
	}
	for amp := 0.05; amp <= 0.50; amp += 0.05 {
		d.sine(amp, 16, true)
	}
	for amp := 0.50; amp > 0; amp -= 0.05 {
		d.sine(amp, 16, true)
	}

	// Evenly spaced heads, first more of them, then fewer.
	heads := 2
	for ; heads < 7; heads++ {
		d.heads(heads)
	}
	for ; heads > 0; heads -= 2 {
		d.heads(heads)
	}

	for i := 0; i < fullSwings; i++ {
		d.pos = append(d.pos, rng.Float64()*1e-4, 1-rng.Float64()*1e-4)
	}
	return d.pos, 2 * fullSwings
}

type dance struct {
	rng *rand.Rand
	pos []float64
}

func (d *dance) jitter() float64 {
	return (d.rng.Float64() - 0.5) * 1e-4
}

func (d *dance) at(p float64) {
	d.pos = append(d.pos, p+d.jitter())
}

// sine traces one period of a sinusoid of amplitude amp around the
// middle of the device in 2*steps reads. If mirror is set, every read
// is followed by one at the mirrored position.
func (d *dance) sine(amp float64, steps int, mirror bool) {
	for x := 0.0; x < 2*math.Pi; x += math.Pi / float64(steps) {
		f := math.Sin(x)*amp + 0.5
		d.at(f)
		if mirror {
			d.pos = append(d.pos, 1-f-d.jitter())
		}
	}
}

func (d *dance) heads(n int) {
	for i := 0; i < 160/n; i++ {
		for j := 1; j <= n; j++ {
			d.at(float64(j) / float64(n+1))
		}
	}
}
