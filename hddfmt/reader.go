// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hddfmt reads and writes disk access-time measurement files.
//
// A measurement file records one benchmark run of one drive at one
// block size:
//
//	<model>
//	<block size in bytes>
//	<position>:<access time>
//	<position>:<access time>
//	...
//
// Position is the fraction of the device's capacity at which the read
// was issued, in [0, 1]. Access time is the duration of the read in
// seconds.
package hddfmt

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// A Header is the first two lines of a measurement file.
type Header struct {
	// Model identifies the measured drive. It is used verbatim.
	Model string

	// BlockSize is the size of every read in the file, in bytes.
	BlockSize int
}

// A Record is one timed read, in file units.
type Record struct {
	Position   float64 // Fraction of capacity, in [0, 1]
	AccessTime float64 // Seconds
}

// A SyntaxError represents a syntax error on a particular line of a
// measurement file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// A Reader reads a measurement file.
//
// Its API is modeled on bufio.Scanner. The header is parsed on the
// first call to Header or Scan. Record lines that cannot be parsed are
// skipped and counted; see Malformed.
type Reader struct {
	br       *bufio.Reader
	fileName string
	line     int

	// buf holds the current line. tooLong is set instead when the
	// line exceeds MaxLineLen.
	buf     []byte
	tooLong bool
	ioErr   error

	header    Header
	headerErr error
	haveHdr   bool

	rec       Record
	malformed int
	err       error
}

// NewReader constructs a reader to parse a measurement file from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	return &Reader{br: bufio.NewReader(r), fileName: fileName}
}

func (r *Reader) newSyntaxError(msg string) *SyntaxError {
	return &SyntaxError{r.fileName, r.line, msg}
}

// Header returns the file's header. If the model or block size line
// is missing, or the block size is not a positive integer, it returns
// a *SyntaxError. I/O errors are returned as is.
func (r *Reader) Header() (Header, error) {
	if !r.haveHdr {
		r.haveHdr = true
		r.header, r.headerErr = r.readHeader()
		if r.headerErr != nil {
			r.err = r.headerErr
		}
	}
	return r.header, r.headerErr
}

func (r *Reader) readHeader() (Header, error) {
	var h Header
	if !r.nextLine() {
		if r.ioErr != nil {
			return h, r.ioError(r.ioErr)
		}
		return h, r.newSyntaxError("missing model line")
	}
	if r.tooLong {
		return h, r.newSyntaxError("model line too long")
	}
	h.Model = string(r.buf)

	if !r.nextLine() {
		if r.ioErr != nil {
			return h, r.ioError(r.ioErr)
		}
		return h, r.newSyntaxError("missing block size line")
	}
	if r.tooLong {
		return h, r.newSyntaxError("block size line too long")
	}
	text := strings.TrimSpace(string(r.buf))
	bs, err := strconv.Atoi(text)
	if err != nil {
		return h, r.newSyntaxError(fmt.Sprintf("invalid block size %q", text))
	}
	if bs <= 0 {
		return h, r.newSyntaxError(fmt.Sprintf("block size must be positive, got %d", bs))
	}
	h.BlockSize = bs
	return h, nil
}

// MaxLineLen is the longest line a Reader accepts. Longer record
// lines are counted as malformed.
const MaxLineLen = 64 << 10

// nextLine reads the next line into r.buf, without its line ending.
func (r *Reader) nextLine() bool {
	if r.ioErr != nil {
		return false
	}
	r.buf, r.tooLong = r.buf[:0], false
	for {
		chunk, isPrefix, err := r.br.ReadLine()
		if err != nil {
			if err != io.EOF {
				r.ioErr = err
			}
			return false
		}
		if !r.tooLong {
			if len(r.buf)+len(chunk) > MaxLineLen {
				r.buf, r.tooLong = r.buf[:0], true
			} else {
				r.buf = append(r.buf, chunk...)
			}
		}
		if !isPrefix {
			break
		}
	}
	r.line++
	return true
}

func (r *Reader) ioError(err error) error {
	return fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
}

// Scan advances the reader to the next well-formed record and reports
// whether one was read. The caller should use the Record method to get
// the record. If Scan reaches EOF, fails to parse the header, or hits
// an I/O error, it returns false, in which case the caller should use
// the Err method to check for errors.
func (r *Reader) Scan() bool {
	if _, err := r.Header(); err != nil {
		return false
	}
	if r.err != nil {
		return false
	}
	for r.nextLine() {
		if r.tooLong {
			r.malformed++
			continue
		}
		line := string(r.buf)
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, ok := parseRecord(line)
		if !ok {
			r.malformed++
			continue
		}
		r.rec = rec
		return true
	}
	if r.ioErr != nil {
		r.err = r.ioError(r.ioErr)
	}
	return false
}

// parseRecord parses a "<position>:<access time>" line. Both fields
// must be finite decimal numbers and the position must lie in [0, 1].
func parseRecord(line string) (Record, bool) {
	fields := strings.Split(line, ":")
	if len(fields) != 2 {
		return Record{}, false
	}
	pos, ok := parseFloat(fields[0])
	if !ok || pos < 0 || pos > 1 {
		return Record{}, false
	}
	at, ok := parseFloat(fields[1])
	if !ok {
		return Record{}, false
	}
	return Record{pos, at}, true
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Record returns the record that was just read by Scan.
func (r *Reader) Record() Record {
	return r.rec
}

// Malformed returns the number of record lines skipped so far because
// they could not be parsed.
func (r *Reader) Malformed() int {
	return r.malformed
}

// Err returns the error that stopped Scan, if any. If Scan stopped at
// EOF, Err returns nil.
func (r *Reader) Err() error {
	return r.err
}
