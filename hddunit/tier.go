// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hddunit classifies block sizes and formats the quantities
// reported for disk access-time measurements.
package hddunit

// A Tier is a class of block sizes. Tiers are ordered from smallest
// to largest block size and do not overlap.
type Tier int

const (
	TierSmall  Tier = iota // ≤ 512 bytes
	TierMedium             // (512, 4096] bytes
	TierLarge              // (4096, 65536] bytes
	TierHuge               // > 65536 bytes

	NumTiers = int(TierHuge) + 1
)

// Tier upper bounds, inclusive.
const (
	smallMax  = 512
	mediumMax = 4 << 10
	largeMax  = 64 << 10
)

// Classify returns the tier of a block size in bytes. Every int has a
// tier; sizes ≤ 0 fall in TierSmall.
func Classify(blockSize int) Tier {
	switch {
	case blockSize <= smallMax:
		return TierSmall
	case blockSize <= mediumMax:
		return TierMedium
	case blockSize <= largeMax:
		return TierLarge
	}
	return TierHuge
}

// String returns the byte range of t in interval notation.
func (t Tier) String() string {
	switch t {
	case TierSmall:
		return "≤512"
	case TierMedium:
		return "(512,4096]"
	case TierLarge:
		return "(4096,65536]"
	case TierHuge:
		return ">65536"
	}
	return "Tier(?)"
}
