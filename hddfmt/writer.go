// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hddfmt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A Writer writes a measurement file.
//
// Output is buffered; callers must call Flush when done.
type Writer struct {
	w          *bufio.Writer
	wroteHdr   bool
	scratchBuf []byte
}

// NewWriter returns a writer that writes a measurement file to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the model and block size lines. It must be
// called exactly once, before any WriteRecord.
func (w *Writer) WriteHeader(h Header) error {
	if w.wroteHdr {
		return errors.New("hddfmt: header already written")
	}
	if h.Model == "" || strings.ContainsAny(h.Model, "\r\n") {
		return fmt.Errorf("hddfmt: invalid model %q", h.Model)
	}
	if h.BlockSize <= 0 {
		return fmt.Errorf("hddfmt: block size must be positive, got %d", h.BlockSize)
	}
	w.wroteHdr = true
	_, err := fmt.Fprintf(w.w, "%s\n%d\n", h.Model, h.BlockSize)
	return err
}

// WriteRecord writes a single "<position>:<access time>" line.
func (w *Writer) WriteRecord(rec Record) error {
	if !w.wroteHdr {
		return errors.New("hddfmt: record written before header")
	}
	buf := w.scratchBuf[:0]
	buf = strconv.AppendFloat(buf, rec.Position, 'g', -1, 64)
	buf = append(buf, ':')
	buf = strconv.AppendFloat(buf, rec.AccessTime, 'g', -1, 64)
	buf = append(buf, '\n')
	w.scratchBuf = buf
	_, err := w.w.Write(buf)
	return err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
