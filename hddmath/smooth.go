// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hddmath

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/fit"
	"github.com/aclements/go-moremath/stats"
)

// DefaultFraction is the LOESS span used for latency trend lines.
// Access-time scatter is dense and noisy, so a narrow window keeps
// zone boundaries visible.
const DefaultFraction = 0.05

// PredictionLevel is the coverage of the interval returned by Smooth.
const PredictionLevel = 0.95

// minWindow is the fewest points a local fit may use. A degree 1 fit
// needs two points with non-zero weight, and tricube weighting gives
// the farthest point in the window zero weight.
const minWindow = 4

// ErrUnsorted is returned by Smooth when xs is not in ascending order.
var ErrUnsorted = errors.New("hddmath: x values are not sorted")

// A Curve is a smoothed series and its prediction interval. All
// slices are aligned with the xs passed to Smooth.
type Curve struct {
	Y      []float64
	Lo, Hi []float64
}

// Smooth fits a locally-weighted linear regression (LOESS) through
// (xs[i], ys[i]) with the given span fraction in (0, 1] and returns
// the fitted values together with a PredictionLevel prediction
// interval. xs must be sorted in ascending order.
//
// The interval is the fit ± z·σ, where σ is the standard deviation of
// the residuals.
func Smooth(xs, ys []float64, fraction float64) (c *Curve, err error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("hddmath: len(xs) = %d, len(ys) = %d", len(xs), len(ys))
	}
	if !(fraction > 0 && fraction <= 1) {
		return nil, fmt.Errorf("hddmath: smoothing fraction %v out of range (0, 1]", fraction)
	}
	n := len(xs)
	if n == 0 {
		return nil, ErrEmptyGroup
	}
	for i := 1; i < n; i++ {
		if xs[i] < xs[i-1] {
			return nil, ErrUnsorted
		}
	}

	c = &Curve{
		Y:  make([]float64, n),
		Lo: make([]float64, n),
		Hi: make([]float64, n),
	}
	if n < minWindow {
		// Too few points for a local fit.
		copy(c.Y, ys)
		copy(c.Lo, ys)
		copy(c.Hi, ys)
		return c, nil
	}

	// The local regressions panic on singular windows.
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, fmt.Errorf("hddmath: LOESS fit failed: %v", r)
		}
	}()
	span := math.Min(1, math.Max(fraction, minWindow/float64(n)))
	q := int(math.Ceil(span * float64(n)))
	if q > n {
		q = n
	}
	f := fit.LOESS(xs, ys, 1, span)
	resid := make([]float64, n)
	for i, x := range xs {
		var y float64
		if singular(xs, q, x) {
			// Every weighted point shares x, so there is
			// no slope to fit.
			y = meanAt(xs, ys, i)
		} else {
			y = f(x)
		}
		if math.IsNaN(y) || math.IsInf(y, 0) {
			y = meanAt(xs, ys, i)
		}
		c.Y[i] = y
		resid[i] = ys[i] - y
	}

	z := stats.StdNormal.InvCDF(1 - (1-PredictionLevel)/2)
	w := z * stats.StdDev(resid)
	for i, y := range c.Y {
		c.Lo[i], c.Hi[i] = y-w, y+w
	}
	return c, nil
}

// singular reports whether the LOESS window of the q points of xs
// closest to x gives non-zero weight to fewer than two distinct x
// values. The window is chosen the same way fit.LOESS chooses it.
func singular(xs []float64, q int, x float64) bool {
	lo := 0
	if len(xs) > q {
		lo = sort.Search(len(xs)-q, func(i int) bool {
			return xs[i]+xs[i+q] >= x*2
		})
	}
	w := xs[lo : lo+q]
	d := math.Max(x-w[0], w[q-1]-x)
	first, seen := 0.0, false
	for _, v := range w {
		if math.Abs(x-v) >= d {
			// Tricube weight is zero at the window edge.
			continue
		}
		if !seen {
			first, seen = v, true
		} else if v != first {
			return false
		}
	}
	return true
}

// meanAt returns the mean of the ys whose x equals xs[i]. xs must be
// sorted.
func meanAt(xs, ys []float64, i int) float64 {
	lo, hi := i, i+1
	for lo > 0 && xs[lo-1] == xs[i] {
		lo--
	}
	for hi < len(xs) && xs[hi] == xs[i] {
		hi++
	}
	return stats.Mean(ys[lo:hi])
}
