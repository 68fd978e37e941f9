// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hddance/hddance/internal/probe"
)

type fakeDevice struct {
	ident  *probe.Identity
	reads  int
	closed bool

	// cancel, if non-nil, is called on the first read.
	cancel func()
}

func (d *fakeDevice) Model() string {
	if d.ident != nil {
		return d.ident.Model
	}
	return "1024_MiB_drive"
}

func (d *fakeDevice) Identity() (probe.Identity, bool) {
	if d.ident == nil {
		return probe.Identity{}, false
	}
	return *d.ident, true
}

func (d *fakeDevice) Read(pos float64, blockSize int) (time.Duration, error) {
	d.reads++
	if d.cancel != nil {
		d.cancel()
	}
	return 5*time.Millisecond + time.Duration(pos*float64(5*time.Millisecond)), nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

func execute(t *testing.T, ctx context.Context, dev *fakeDevice, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut strings.Builder
	open := func(path string) (device, error) {
		if path != "/dev/sdz" {
			return nil, errors.New("no such device")
		}
		return dev, nil
	}
	cmd := newRootCmd(&out, &errOut, open)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func files(t *testing.T, dir string) []string {
	t.Helper()
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range ents {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestDefaultBlockSizes(t *testing.T) {
	dev := &fakeDevice{ident: &probe.Identity{Model: "ST1000DM003", Serial: "Z1D0", Firmware: "CC45"}}
	out := filepath.Join(t.TempDir(), "results")
	stdout, stderr, err := execute(t, context.Background(), dev, "-o", out, "/dev/sdz")
	if err != nil {
		t.Fatalf("%v\nstderr:\n%s", err, stderr)
	}
	want := []string{"ST1000DM003_4096.txt", "ST1000DM003_512.txt", "ST1000DM003_65536.txt"}
	if diff := cmp.Diff(want, files(t, out)); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}
	if dev.reads != 3*probe.Samples || !dev.closed {
		t.Errorf("%d reads, closed %v", dev.reads, dev.closed)
	}
	for _, s := range []string{
		"Hard Disk Model: ST1000DM003\nSerial Number: Z1D0\nFirmware Revision: CC45\n",
		"setting block size to 512 Bytes",
		"average read access time for 65536 B block is ",
	} {
		if !strings.Contains(stdout, s) {
			t.Errorf("stdout missing %q", s)
		}
	}
}

func TestBlockSizeFlag(t *testing.T) {
	dev := &fakeDevice{}
	out := t.TempDir()
	_, stderr, err := execute(t, context.Background(), dev, "-b", "0.5", "-o", out, "/dev/sdz")
	if err != nil {
		t.Fatalf("%v\nstderr:\n%s", err, stderr)
	}
	if diff := cmp.Diff([]string{"1024_MiB_drive_512.txt"}, files(t, out)); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}
	if !strings.Contains(stderr, "no hard disk identification") {
		t.Errorf("missing identification warning:\n%s", stderr)
	}

	for _, kib := range []string{"2048", "0.1", "0"} {
		dev := &fakeDevice{}
		if _, _, err := execute(t, context.Background(), dev, "-b", kib, "-o", t.TempDir(), "/dev/sdz"); err == nil {
			t.Errorf("-b %s: want error", kib)
		}
		if dev.reads != 0 {
			t.Errorf("-b %s: %d reads before rejecting block size", kib, dev.reads)
		}
	}
}

func TestMoveHeads(t *testing.T) {
	dev := &fakeDevice{}
	out := t.TempDir()
	stdout, stderr, err := execute(t, context.Background(), dev, "-m", "-o", out, "/dev/sdz")
	if err != nil {
		t.Fatalf("%v\nstderr:\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "average full swing is 7.5") {
		t.Errorf("stdout missing full swing time:\n%s", stdout[max(0, len(stdout)-200):])
	}
	if got := files(t, out); len(got) != 0 {
		t.Errorf("moveheads wrote %v", got)
	}
}

func TestPrintPosition(t *testing.T) {
	stdout, _, err := execute(t, context.Background(), &fakeDevice{}, "-p", "-b", "4", "-o", t.TempDir(), "/dev/sdz")
	if err != nil {
		t.Fatal(err)
	}
	var marks int
	for _, line := range strings.Split(stdout, "\n") {
		if len(line) == 80 && strings.Count(line, "#") == 1 {
			marks++
		}
	}
	if marks != probe.Samples {
		t.Errorf("got %d position lines, want %d", marks, probe.Samples)
	}
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dev := &fakeDevice{cancel: cancel}
	out := t.TempDir()
	stdout, _, err := execute(t, ctx, dev, "-o", out, "/dev/sdz")
	if err != nil {
		t.Fatalf("canceled run returned %v", err)
	}
	if !strings.HasSuffix(stdout, "canceled by user\n") {
		t.Errorf("stdout does not end with cancel message:\n%q", stdout)
	}
	if dev.reads != 1 || !dev.closed {
		t.Errorf("%d reads, closed %v; want 1 read and closed", dev.reads, dev.closed)
	}
	if got := files(t, out); len(got) != 0 {
		t.Errorf("canceled run wrote %v", got)
	}
}

func TestVersion(t *testing.T) {
	dev := &fakeDevice{}
	stdout, _, err := execute(t, context.Background(), dev, "--version")
	if err != nil || stdout != "1.0\n" {
		t.Errorf("--version = %q, %v", stdout, err)
	}
	if dev.reads != 0 {
		t.Error("--version read the device")
	}
}

func TestErrors(t *testing.T) {
	if _, _, err := execute(t, context.Background(), &fakeDevice{}); err == nil {
		t.Error("want error without device")
	}
	_, stderr, err := execute(t, context.Background(), &fakeDevice{}, "-o", t.TempDir(), "/dev/nope")
	if err == nil || !strings.Contains(stderr, "no such device") {
		t.Errorf("bad device: err %v, stderr %q", err, stderr)
	}
}

func TestPositionLine(t *testing.T) {
	for _, test := range []struct {
		pos  float64
		mark int
	}{{0, 0}, {0.5, 39}, {1, 79}} {
		line := positionLine(test.pos)
		if len(line) != 80 || strings.IndexByte(line, '#') != test.mark {
			t.Errorf("positionLine(%v) = %q", test.pos, line)
		}
	}
}
