// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package probe

import (
	"errors"
	"runtime"
	"time"
)

var errUnsupported = errors.New("probe: direct device reads are not supported on " + runtime.GOOS)

// An Identity is what a drive reports about itself.
type Identity struct {
	Model, Serial, Firmware string
}

// A File is a block device opened for direct reads.
type File struct{}

// Open always fails on this platform.
func Open(path string) (*File, error) {
	return nil, errUnsupported
}

func (f *File) Identity() (Identity, bool) { return Identity{}, false }
func (f *File) Capacity() int64            { return 0 }
func (f *File) Model() string              { return "" }
func (f *File) Close() error               { return nil }

func (f *File) Read(pos float64, blockSize int) (time.Duration, error) {
	return 0, errUnsupported
}
