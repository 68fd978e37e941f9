// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package probe

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hddance/hddance/hddfmt"
)

// fakeDevice takes 1ms plus 1ms per unit of position for every read.
type fakeDevice struct {
	model string
	reads int

	// timing, if non-nil, overrides the access time.
	timing func(n int) (time.Duration, error)
}

func (d *fakeDevice) Model() string { return d.model }

func (d *fakeDevice) Read(pos float64, blockSize int) (time.Duration, error) {
	d.reads++
	if d.timing != nil {
		return d.timing(d.reads)
	}
	return time.Millisecond + time.Duration(pos*float64(time.Millisecond)), nil
}

func newRunner(t *testing.T, dev Device) *Runner {
	return &Runner{Dev: dev, Dir: t.TempDir(), Rand: rand.New(rand.NewSource(1))}
}

func TestRandomRead(t *testing.T) {
	dev := &fakeDevice{model: "WDC WD10/EZEX"}
	r := newRunner(t, dev)
	var progress int
	r.Progress = func(i int, pos float64) {
		if i != progress {
			t.Errorf("progress %d, want %d", i, progress)
		}
		progress++
	}

	path, mean, err := r.RandomRead(context.Background(), 4096)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(r.Dir, "WDC WD10-EZEX_4096.txt"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if dev.reads != Samples || progress != Samples {
		t.Errorf("%d reads, %d progress calls, want %d", dev.reads, progress, Samples)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rd := hddfmt.NewReader(f, path)
	hdr, err := rd.Header()
	if err != nil {
		t.Fatal(err)
	}
	if hdr != (hddfmt.Header{Model: "WDC WD10/EZEX", BlockSize: 4096}) {
		t.Errorf("header = %+v", hdr)
	}
	var n int
	var total float64
	for rd.Scan() {
		rec := rd.Record()
		if want := 0.001 + rec.Position*0.001; rec.AccessTime < want-1e-8 || rec.AccessTime > want+1e-8 {
			t.Errorf("record %+v, want access time %v", rec, want)
		}
		total += rec.AccessTime
		n++
	}
	if err := rd.Err(); err != nil {
		t.Fatal(err)
	}
	if n != Samples || rd.Malformed() != 0 {
		t.Errorf("read back %d records, %d malformed", n, rd.Malformed())
	}
	if got := time.Duration(total / float64(n) * float64(time.Second)); got-mean > time.Microsecond || mean-got > time.Microsecond {
		t.Errorf("mean = %v, file mean %v", mean, got)
	}
}

func TestRandomReadBadTiming(t *testing.T) {
	dev := &fakeDevice{model: "m", timing: func(n int) (time.Duration, error) {
		if n == 10 {
			return 0, nil
		}
		return time.Millisecond, nil
	}}
	r := newRunner(t, dev)
	if _, _, err := r.RandomRead(context.Background(), 512); !errors.Is(err, ErrBadTiming) {
		t.Fatalf("err = %v, want ErrBadTiming", err)
	}
	if ents, _ := os.ReadDir(r.Dir); len(ents) != 0 {
		t.Errorf("failed run left %d files", len(ents))
	}
}

func TestRandomReadShortRead(t *testing.T) {
	dev := &fakeDevice{model: "m", timing: func(n int) (time.Duration, error) {
		if n == 3 {
			return time.Millisecond, ErrShortRead
		}
		return time.Millisecond, nil
	}}
	r := newRunner(t, dev)
	var warnings []string
	r.Warn = func(format string, args ...interface{}) {
		warnings = append(warnings, format)
	}
	if _, mean, err := r.RandomRead(context.Background(), 512); err != nil || mean != time.Millisecond {
		t.Fatalf("RandomRead = %v, %v; want 1ms, nil", mean, err)
	}
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(warnings))
	}
}

func TestRandomReadDeviceError(t *testing.T) {
	boom := errors.New("boom")
	dev := &fakeDevice{model: "m", timing: func(int) (time.Duration, error) { return 0, boom }}
	if _, _, err := newRunner(t, dev).RandomRead(context.Background(), 512); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestRandomReadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dev := &fakeDevice{model: "m"}
	dev.timing = func(n int) (time.Duration, error) {
		if n == 5 {
			cancel()
		}
		return time.Millisecond, nil
	}
	_, _, err := newRunner(t, dev).RandomRead(ctx, 512)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if dev.reads != 5 {
		t.Errorf("%d reads after cancel, want 5", dev.reads)
	}
}

func TestCheckBlockSize(t *testing.T) {
	for _, bs := range []int{512, 4096, 65536, MaxBlockSize} {
		if err := CheckBlockSize(bs); err != nil {
			t.Errorf("CheckBlockSize(%d) = %v", bs, err)
		}
	}
	for _, bs := range []int{0, -512, 100, MaxBlockSize + 512, 2 * MaxBlockSize} {
		if err := CheckBlockSize(bs); err == nil {
			t.Errorf("CheckBlockSize(%d) succeeded", bs)
		}
	}
	dev := &fakeDevice{model: "m"}
	if _, _, err := newRunner(t, dev).RandomRead(context.Background(), 1000); err == nil || dev.reads != 0 {
		t.Errorf("RandomRead with bad block size: err %v after %d reads", err, dev.reads)
	}
}

func TestMoveHeads(t *testing.T) {
	dev := &fakeDevice{model: "m"}
	r := newRunner(t, dev)
	var clamped bool
	r.Progress = func(i int, pos float64) {
		if pos < 0 || pos > 1 {
			clamped = true
		}
	}
	swing, err := r.MoveHeads(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if clamped {
		t.Error("unclamped position passed to device")
	}
	// Swings alternate between position ~0 (1ms) and ~1 (2ms).
	if want := 1500 * time.Microsecond; swing < want-time.Microsecond || swing > want+time.Microsecond {
		t.Errorf("mean swing = %v, want %v", swing, want)
	}
	if ents, _ := os.ReadDir(r.Dir); len(ents) != 0 {
		t.Errorf("MoveHeads wrote %d files", len(ents))
	}
}

func TestFileName(t *testing.T) {
	if got, want := FileName("ST/1000", 65536), "ST-1000_65536.txt"; got != want {
		t.Errorf("FileName = %q, want %q", got, want)
	}
	if !strings.HasSuffix(FileName("1024_MiB_drive", 512), "_512.txt") {
		t.Error("missing block size suffix")
	}
}
