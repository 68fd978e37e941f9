// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hddseries

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/hddance/hddance/hddfmt"
)

// Scale factors from file units to Sample units.
const (
	positionScale = 100  // fraction to percent
	latencyScale  = 1000 // seconds to milliseconds
)

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	// Strict makes a file with an unparseable header fail the
	// build. Otherwise the file is skipped with a warning.
	Strict bool

	// Warn, if non-nil, is called with diagnostics about skipped
	// input.
	Warn func(format string, args ...interface{})
}

// A Builder collects measurement files into a Store.
type Builder struct {
	store *Store
	opts  BuilderOptions

	malformed, discarded int
}

// NewBuilder returns a Builder with an empty Store.
func NewBuilder(opts BuilderOptions) *Builder {
	return &Builder{store: NewStore(), opts: opts}
}

func (b *Builder) warn(format string, args ...interface{}) {
	if b.opts.Warn != nil {
		b.opts.Warn(format, args...)
	}
}

// Add reads one measurement file from r. fileName is used in
// diagnostics.
//
// The file is parsed in full before any of its samples are added, so
// a failing file leaves the Store unchanged. A header that cannot be
// parsed returns a *hddfmt.SyntaxError in strict mode and is
// otherwise reported through Warn and skipped. Record lines that
// cannot be parsed, or whose values overflow once scaled, are counted
// as malformed. Samples with non-positive access time are dropped.
func (b *Builder) Add(r io.Reader, fileName string) error {
	rd := hddfmt.NewReader(r, fileName)
	hdr, err := rd.Header()
	if err != nil {
		var se *hddfmt.SyntaxError
		if errors.As(err, &se) && !b.opts.Strict {
			b.warn("skipping %v", err)
			return nil
		}
		return err
	}

	var samples []Sample
	discarded, overflow := 0, 0
	for rd.Scan() {
		rec := rd.Record()
		smp := Sample{rec.Position * positionScale, rec.AccessTime * latencyScale}
		if math.IsInf(smp.Position, 0) || math.IsInf(smp.Latency, 0) {
			overflow++
			continue
		}
		if smp.Latency <= 0 {
			discarded++
			continue
		}
		samples = append(samples, smp)
	}
	if err := rd.Err(); err != nil {
		return err
	}

	malformed := rd.Malformed() + overflow
	if malformed > 0 {
		b.warn("%s: skipped %d malformed line(s)", fileName, malformed)
	}
	b.malformed += malformed
	b.discarded += discarded

	g := b.store.group(Key{hdr.Model, hdr.BlockSize})
	g.Samples = append(g.Samples, samples...)
	return nil
}

// AddFile reads the measurement file at path.
func (b *Builder) AddFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return b.Add(f, path)
}

// AddDir reads every regular file in dir, in lexical order of file
// name.
func (b *Builder) AddDir(dir string) error {
	paths, err := hddfmt.Dir(dir)
	if err != nil {
		return fmt.Errorf("reading input directory: %w", err)
	}
	for _, path := range paths {
		if err := b.AddFile(path); err != nil {
			return err
		}
	}
	return nil
}

// Malformed returns the number of record lines dropped so far because
// they could not be parsed.
func (b *Builder) Malformed() int {
	return b.malformed
}

// Discarded returns the number of records dropped so far because their
// access time was not positive.
func (b *Builder) Discarded() int {
	return b.discarded
}

// Store sorts every group by position and returns the Store. The
// Builder may continue to be used; later additions are sorted by the
// next call to Store.
func (b *Builder) Store() *Store {
	b.store.sort()
	return b.store
}

// Aggregate reads every measurement file in dir into a new Store.
func Aggregate(dir string, opts BuilderOptions) (*Store, error) {
	b := NewBuilder(opts)
	if err := b.AddDir(dir); err != nil {
		return nil, err
	}
	return b.Store(), nil
}
