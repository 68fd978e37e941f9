// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hddchart

import (
	"image/color"

	"github.com/hddance/hddance/hddunit"
)

var tierColors = [hddunit.NumTiers]color.NRGBA{
	hddunit.TierSmall:  {0xBF, 0xBF, 0x00, 0xFF}, // yellow
	hddunit.TierMedium: {0xFF, 0x00, 0x00, 0xFF}, // red
	hddunit.TierLarge:  {0x00, 0x80, 0x00, 0xFF}, // green
	hddunit.TierHuge:   {0x00, 0x00, 0xFF, 0xFF}, // blue
}

// TierColor returns the series color of block sizes in tier t.
func TierColor(t hddunit.Tier) color.Color {
	if t < 0 || int(t) >= len(tierColors) {
		return foreground
	}
	return tierColors[t]
}

// withAlpha returns c with its alpha channel replaced.
func withAlpha(c color.Color, alpha uint8) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = alpha
	return n
}
