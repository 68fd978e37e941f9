// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hddseries

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTable(t *testing.T) {
	b := NewBuilder(BuilderOptions{})
	for _, f := range []string{
		"B\n4096\n0.5:0.25\n",
		"A\n4096\n0.75:0.5\n0.25:0.125\n",
		"A\n512\n0.5:0.0625\n",
	} {
		if err := b.Add(strings.NewReader(f), "f"); err != nil {
			t.Fatal(err)
		}
	}
	tab := b.Store().Table()

	if tab.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", tab.Len())
	}
	if diff := cmp.Diff([]string{"A", "A", "A", "B"}, tab.MustColumn(ColModel)); diff != "" {
		t.Errorf("model column (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{512, 4096, 4096, 4096}, tab.MustColumn(ColBlock)); diff != "" {
		t.Errorf("block column (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{50, 25, 75, 50}, tab.MustColumn(ColPosition)); diff != "" {
		t.Errorf("position column (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{62.5, 125, 500, 250}, tab.MustColumn(ColLatency)); diff != "" {
		t.Errorf("latency column (-want +got):\n%s", diff)
	}
}

func TestTableEmpty(t *testing.T) {
	tab := NewStore().Table()
	if tab.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tab.Len())
	}
}
