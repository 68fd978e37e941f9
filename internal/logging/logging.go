// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging builds the structured loggers used by the hddance
// commands.
package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// New returns a text logger writing to w at Info level, or at Debug
// level if verbose is set.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Warnf adapts l to the printf-style Warn callbacks taken by library
// options.
func Warnf(l *slog.Logger) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		l.Warn(fmt.Sprintf(format, args...))
	}
}
