// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package probe times reads at chosen positions of a block device
// and records them as measurement files.
package probe

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hddance/hddance/hddfmt"
)

const (
	// Samples is the number of reads in a random read run.
	Samples = 2048

	// SectorSize is the unit of direct I/O. Block sizes must be a
	// multiple of it.
	SectorSize = 512

	// MaxBlockSize is the largest block size a Device reads.
	MaxBlockSize = 1 << 20
)

var (
	// ErrShortRead is returned by Device.Read, along with the
	// elapsed time, when fewer bytes than requested were read.
	// This usually means a bad sector.
	ErrShortRead = errors.New("short read, might be a bad sector")

	// ErrBadTiming is returned when a read takes no measurable time.
	ErrBadTiming = errors.New("invalid block access measurement, repeat the test")
)

// CheckBlockSize reports whether a Device can read blocks of the given
// size.
func CheckBlockSize(blockSize int) error {
	switch {
	case blockSize <= 0:
		return fmt.Errorf("block size must be positive, got %d", blockSize)
	case blockSize > MaxBlockSize:
		return fmt.Errorf("block can't be more than 1 MiB, got %d bytes", blockSize)
	case blockSize%SectorSize != 0:
		return fmt.Errorf("block size must be a multiple of %d bytes, got %d", SectorSize, blockSize)
	}
	return nil
}

// A Device is a block device that can be read at a position given as
// a fraction of its capacity.
type Device interface {
	// Model names the drive. It becomes the model line of
	// measurement files.
	Model() string

	// Read reads blockSize bytes at pos, which is in [0, 1], and
	// returns how long the read took.
	Read(pos float64, blockSize int) (time.Duration, error)
}

// A Runner runs benchmarks on a Device.
type Runner struct {
	Dev Device

	// Dir is where measurement files are written.
	Dir string

	// Rand is the source of positions. If nil, a source seeded
	// with the current time is used.
	Rand *rand.Rand

	// Progress, if non-nil, is called before the i'th read of a
	// run with its clamped position.
	Progress func(i int, pos float64)

	// Warn, if non-nil, is called about reads whose timing was
	// kept despite a problem.
	Warn func(format string, args ...interface{})
}

func (r *Runner) rng() *rand.Rand {
	if r.Rand == nil {
		r.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return r.Rand
}

func (r *Runner) warn(format string, args ...interface{}) {
	if r.Warn != nil {
		r.Warn(format, args...)
	}
}

// read times one read. It fails with the context's error once ctx is
// done.
func (r *Runner) read(ctx context.Context, i int, pos float64, blockSize int) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	pos = min(max(pos, 0), 1)
	if r.Progress != nil {
		r.Progress(i, pos)
	}
	d, err := r.Dev.Read(pos, blockSize)
	if errors.Is(err, ErrShortRead) {
		r.warn("read at %g: %v", pos, err)
		err = nil
	}
	return d, err
}

// RandomRead times Samples reads of blockSize bytes at positions from
// RandomPositions and writes them to a measurement file in r.Dir. It
// returns the file's path and the mean access time.
//
// A read that takes no measurable time fails the run with
// ErrBadTiming and no file is written.
func (r *Runner) RandomRead(ctx context.Context, blockSize int) (string, time.Duration, error) {
	if err := CheckBlockSize(blockSize); err != nil {
		return "", 0, err
	}
	positions := RandomPositions(r.rng(), Samples)
	recs := make([]hddfmt.Record, len(positions))
	var total time.Duration
	for i, pos := range positions {
		d, err := r.read(ctx, i, pos, blockSize)
		if err != nil {
			return "", 0, err
		}
		if d <= 0 {
			return "", 0, ErrBadTiming
		}
		recs[i] = hddfmt.Record{Position: pos, AccessTime: d.Seconds()}
		total += d
	}

	hdr := hddfmt.Header{Model: r.Dev.Model(), BlockSize: blockSize}
	path := filepath.Join(r.Dir, FileName(hdr.Model, blockSize))
	if err := writeFile(path, hdr, recs); err != nil {
		return "", 0, err
	}
	return path, total / time.Duration(len(recs)), nil
}

// MoveHeads reads the HeadDance pattern in SectorSize blocks and
// returns the mean access time of its full swings.
func (r *Runner) MoveHeads(ctx context.Context) (time.Duration, error) {
	positions, swings := HeadDance(r.rng())
	var total time.Duration
	for i, pos := range positions {
		d, err := r.read(ctx, i, pos, SectorSize)
		if err != nil {
			return 0, err
		}
		if i >= len(positions)-swings {
			total += d
		}
	}
	return total / time.Duration(swings), nil
}

// FileName returns the base name of the measurement file of model at
// blockSize.
func FileName(model string, blockSize int) string {
	model = strings.ReplaceAll(model, "/", "-")
	return model + "_" + strconv.Itoa(blockSize) + ".txt"
}

func writeFile(path string, hdr hddfmt.Header, recs []hddfmt.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("can't open results file: %w", err)
	}
	w := hddfmt.NewWriter(f)
	err = w.WriteHeader(hdr)
	for i := 0; err == nil && i < len(recs); i++ {
		err = w.WriteRecord(recs[i])
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}
