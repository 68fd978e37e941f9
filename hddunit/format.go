// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hddunit

import "strconv"

// KiB formats a block size in bytes as a number of kibibytes using the
// fewest digits that represent it exactly, for example "0.5" or "64".
func KiB(blockSize int) string {
	return strconv.FormatFloat(float64(blockSize)/1024, 'g', -1, 64)
}

// BlockSize formats a block size in bytes with its unit, for example
// "0.5 KiB".
func BlockSize(blockSize int) string {
	return KiB(blockSize) + " KiB"
}

// Millis formats a latency in milliseconds, rounded to two decimals.
func Millis(ms float64) string {
	return fixed(ms) + " ms"
}

// IOPS formats an operation rate, rounded to two decimals.
func IOPS(iops float64) string {
	return fixed(iops) + " IOPS"
}

// MiBps formats a throughput in MiB per second, rounded to two
// decimals.
func MiBps(mibps float64) string {
	return fixed(mibps) + " MiB/s"
}

func fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
