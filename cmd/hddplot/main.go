// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Hddplot charts disk access-time measurements.
//
// Usage:
//
//	hddplot [flags]
//
// Hddplot reads every measurement file in the input directory, prints
// a latency table per drive model and writes one PNG chart per model
// and vertical scale to the output directory:
//
//	<output>/<model>_<scale>_ms.png
//
// Every flag may also be given in the environment as HDDPLOT_<FLAG>,
// for example HDDPLOT_SMOOTH=true, or as a key of the --config file.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hddance/hddance/hddchart"
	"github.com/hddance/hddance/hddseries"
	"github.com/hddance/hddance/internal/logging"
	"github.com/hddance/hddance/internal/report"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

var flagNames = []string{"input", "output", "smooth", "strict", "verbose", "dpi", "config"}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "hddplot",
		Short: "Chart disk access-time measurements",
		Long: `hddplot aggregates the measurement files written by hddance by drive
model and block size, prints per-block-size statistics and draws access
time over head position for every model.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(v, stdout, stderr)
			if err != nil {
				fmt.Fprintf(stderr, "hddplot: %v\n", err)
			}
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringP("input", "i", ".", "read measurement files from `dir`")
	f.StringP("output", "o", ".", "write charts to `dir`, creating it if needed")
	f.BoolP("smooth", "s", false, "draw a LOESS trend line and prediction band")
	f.Bool("strict", false, "fail on files with an invalid header instead of skipping them")
	f.BoolP("verbose", "v", false, "log debug messages")
	f.Int("dpi", hddchart.DefaultOptions().DPI, "chart resolution")
	f.String("config", "", "read settings from `file` (YAML, JSON or TOML)")
	for _, name := range flagNames {
		v.BindPFlag(name, f.Lookup(name))
	}
	v.SetEnvPrefix("HDDPLOT")
	v.AutomaticEnv()
	return cmd
}

func run(v *viper.Viper, stdout, stderr io.Writer) error {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	log := logging.New(stderr, v.GetBool("verbose"))
	warn := logging.Warnf(log)

	b := hddseries.NewBuilder(hddseries.BuilderOptions{
		Strict: v.GetBool("strict"),
		Warn:   warn,
	})
	input := v.GetString("input")
	if err := b.AddDir(input); err != nil {
		return err
	}
	s := b.Store()
	log.Debug("aggregated measurements", "input", input, "models", len(s.Models()),
		"samples", s.Len(), "malformed", b.Malformed(), "discarded", b.Discarded())
	if len(s.Models()) == 0 {
		log.Warn("no measurements found", "input", input)
		return nil
	}

	if err := report.Write(stdout, s); err != nil {
		return err
	}

	opts := hddchart.DefaultOptions()
	opts.Smooth = v.GetBool("smooth")
	opts.DPI = v.GetInt("dpi")
	opts.Warn = warn
	opts.Progress = func(model string) { log.Info("processing", "model", model) }
	if opts.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", opts.DPI)
	}
	paths, err := hddchart.Chart(s, v.GetString("output"), opts)
	for _, p := range paths {
		log.Debug("wrote chart", "file", p)
	}
	return err
}
