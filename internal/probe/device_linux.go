// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package probe

import (
	"fmt"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// HDIO_GET_IDENTITY from linux/hdreg.h, and the layout of the
// struct hd_driveid it fills.
const (
	hdioGetIdentity = 0x030d
	identitySize    = 512
)

var (
	serialField = [2]int{20, 40}
	fwField     = [2]int{46, 54}
	modelField  = [2]int{54, 94}
)

// An Identity is what a drive reports about itself.
type Identity struct {
	Model, Serial, Firmware string
}

// A File is a block device opened for direct reads.
type File struct {
	path     string
	fd       int
	capacity int64
	ident    *Identity
	buf      []byte
}

// Open opens the block device at path for timed reads that bypass the
// page cache.
func Open(path string) (*File, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECT|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("can't open block device %s: %w", path, err)
	}
	f := &File{path: path, fd: fd}

	var size uint64
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), unix.BLKGETSIZE64, uintptr(unsafe.Pointer(&size))); errno != 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("can't get capacity of %s: %w", path, errno)
	}
	f.capacity = int64(size)

	var id [identitySize]byte
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), hdioGetIdentity, uintptr(unsafe.Pointer(&id[0]))); errno == 0 {
		f.ident = &Identity{
			Model:    idString(id[modelField[0]:modelField[1]]),
			Serial:   idString(id[serialField[0]:serialField[1]]),
			Firmware: idString(id[fwField[0]:fwField[1]]),
		}
	}

	// Anonymous mappings are page aligned, as O_DIRECT requires.
	f.buf, err = unix.Mmap(-1, 0, MaxBlockSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("allocating read buffer: %w", err)
	}
	return f, nil
}

// idString drops NUL bytes and surrounding white space from an
// identity field.
func idString(b []byte) string {
	return strings.TrimSpace(strings.ReplaceAll(string(b), "\x00", ""))
}

// Identity returns the drive's identification, or false if the drive
// did not provide one.
func (f *File) Identity() (Identity, bool) {
	if f.ident == nil {
		return Identity{}, false
	}
	return *f.ident, true
}

// Capacity returns the size of the device in bytes.
func (f *File) Capacity() int64 {
	return f.capacity
}

// Model returns the identified model, or a name derived from the
// capacity for drives that report none.
func (f *File) Model() string {
	if f.ident != nil && f.ident.Model != "" {
		return f.ident.Model
	}
	return fmt.Sprintf("%d_MiB_drive", f.capacity>>20)
}

// Read reads blockSize bytes at the block boundary nearest below pos
// and times it.
func (f *File) Read(pos float64, blockSize int) (time.Duration, error) {
	if err := CheckBlockSize(blockSize); err != nil {
		return 0, err
	}
	span := f.capacity - int64(blockSize)
	if span < 0 {
		return 0, fmt.Errorf("%s is smaller than one block", f.path)
	}
	off := int64(float64(span)*pos) / int64(blockSize) * int64(blockSize)

	start := time.Now()
	n, err := unix.Pread(f.fd, f.buf[:blockSize], off)
	d := time.Since(start)
	if err != nil {
		return 0, fmt.Errorf("reading %s at %d: %w", f.path, off, err)
	}
	if n != blockSize {
		return d, ErrShortRead
	}
	return d, nil
}

// Close releases the device.
func (f *File) Close() error {
	if f.buf != nil {
		unix.Munmap(f.buf)
		f.buf = nil
	}
	return unix.Close(f.fd)
}
