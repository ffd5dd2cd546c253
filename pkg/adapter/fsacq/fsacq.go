// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fsacq implements the scoped file-acquisition helper shared
// by every importer (cstyle, legacy, xml): it memory-maps a file for a
// streaming read and guarantees release of both the mapping and the
// underlying descriptor on every exit path, per the resource
// discipline of §5 of the specification this engine implements.
package fsacq

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// WithFile opens path, memory-maps its contents read-only, and invokes
// fn with the mapped bytes. The mapping and the file descriptor are
// always released before WithFile returns, regardless of how fn exits.
func WithFile(path string, fn func(data []byte) error) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return fn(nil)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("mmap %s: %w", path, err)
	}
	defer func() {
		if uerr := m.Unmap(); uerr != nil && err == nil {
			err = fmt.Errorf("unmap %s: %w", path, uerr)
		}
	}()

	return fn([]byte(m))
}
