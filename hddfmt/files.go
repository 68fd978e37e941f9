// Copyright 2026 The hddance Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hddfmt

import (
	"os"
	"path/filepath"
)

// Dir returns the paths of the regular files in dir, in lexical order
// of file name. Symbolic links are followed; subdirectories and other
// non-regular files are omitted.
//
// The order is part of the contract: samples with equal positions
// keep the order of the files they came from.
func Dir(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, ent := range ents {
		path := filepath.Join(dir, ent.Name())
		if ent.Type().IsRegular() {
			paths = append(paths, path)
			continue
		}
		if ent.Type()&os.ModeSymlink == 0 {
			continue
		}
		fi, err := os.Stat(path)
		if err != nil {
			// Dangling link.
			continue
		}
		if fi.Mode().IsRegular() {
			paths = append(paths, path)
		}
	}
	return paths, nil
}
