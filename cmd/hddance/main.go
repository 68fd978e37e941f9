// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Hddance measures the random read access time of a hard disk.
//
// Usage:
//
//	hddance [flags] device
//
// By default hddance times 2048 reads at random positions for each of
// 0.5, 4 and 64 KiB blocks and writes one measurement file per block
// size, named <model>_<block size>.txt, for hddplot to chart. With
// --moveheads it instead moves the heads through a series of patterns
// and reports the full-stroke seek time.
//
// Reads bypass the page cache, so hddance usually needs to be run as
// root. Interrupting it discards the run in progress.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hddance/hddance/internal/logging"
	"github.com/hddance/hddance/internal/probe"
)

const version = "1.0"

// Block sizes measured when --blocksize is not given.
var defaultBlockSizes = []int{512, 4 << 10, 64 << 10}

type device interface {
	probe.Device
	Identity() (probe.Identity, bool)
	Close() error
}

type openFunc func(path string) (device, error)

func openFile(path string) (device, error) {
	return probe.Open(path)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdout, os.Stderr, openFile).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

type options struct {
	blockKiB  float64
	output    string
	moveHeads bool
	printPos  bool
	verbose   bool
	version   bool
}

func newRootCmd(stdout, stderr io.Writer, open openFunc) *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "hddance [flags] device",
		Short: "Measure hard disk access time",
		Long: `hddance times direct reads at random positions of a block device and
writes them as measurement files for hddplot.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.version {
				fmt.Fprintln(stdout, version)
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("missing device")
			}
			blockSizes := defaultBlockSizes
			if cmd.Flags().Changed("blocksize") {
				blockSizes = []int{int(o.blockKiB * 1024)}
			}
			err := run(cmd.Context(), args[0], blockSizes, &o, open, stdout, stderr)
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(stdout, "canceled by user")
				return nil
			}
			if err != nil {
				fmt.Fprintf(stderr, "hddance: %v\n", err)
			}
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.Float64VarP(&o.blockKiB, "blocksize", "b", 0, "measure only blocks of `KiB` kibibytes")
	f.StringVarP(&o.output, "output", "o", ".", "write measurement files to `dir`, creating it if needed")
	f.BoolVarP(&o.moveHeads, "moveheads", "m", false, "move the heads in patterns and report the full-stroke seek time")
	f.BoolVarP(&o.printPos, "printposition", "p", false, "draw the head position of every read")
	f.BoolVar(&o.verbose, "verbose", false, "log debug messages")
	f.BoolVar(&o.version, "version", false, "print the version and exit")
	return cmd
}

func run(ctx context.Context, path string, blockSizes []int, o *options, open openFunc, stdout, stderr io.Writer) error {
	log := logging.New(stderr, o.verbose)
	for _, bs := range blockSizes {
		if err := probe.CheckBlockSize(bs); err != nil {
			return err
		}
	}
	if !o.moveHeads {
		if err := os.MkdirAll(o.output, 0777); err != nil {
			return err
		}
	}

	dev, err := open(path)
	if err != nil {
		return err
	}
	defer dev.Close()
	if id, ok := dev.Identity(); ok {
		fmt.Fprintf(stdout, "Hard Disk Model: %s\nSerial Number: %s\nFirmware Revision: %s\n\n", id.Model, id.Serial, id.Firmware)
	} else {
		log.Warn("no hard disk identification information available", "model", dev.Model())
	}

	r := &probe.Runner{Dev: dev, Dir: o.output, Warn: logging.Warnf(log)}
	if o.printPos {
		r.Progress = func(_ int, pos float64) { fmt.Fprintln(stdout, positionLine(pos)) }
	} else {
		r.Progress = func(i int, _ float64) { fmt.Fprintf(stdout, "%d\r", i+1) }
	}

	if o.moveHeads {
		swing, err := r.MoveHeads(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\naverage full swing is %.3f ms\n", millis(swing))
		return nil
	}

	for _, bs := range blockSizes {
		fmt.Fprintf(stdout, "setting block size to %d Bytes\n", bs)
		file, mean, err := r.RandomRead(ctx, bs)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\naverage read access time for %d B block is %.3f ms\n", bs, millis(mean))
		log.Debug("wrote measurements", "file", file)
	}
	return nil
}

// positionLine draws pos as a mark on an 80 column line.
func positionLine(pos float64) string {
	line := []byte(strings.Repeat(" ", 80))
	line[int(pos*79)] = '#'
	return string(line)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
