// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package legacy implements the Legacy Importer (C8): a
// compatibility-read-only parser for the classic INI-style paraset
// format ("[section]" headers, "key=value" lines), feeding the same
// element stream every other importer feeds (§2 C8, §6.5 "Legacy
// file: <name>.cfg").
package legacy

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/avibit/avconfig2/pkg/adapter/fsacq"
	"github.com/avibit/avconfig2/pkg/core/location"
	"github.com/avibit/avconfig2/pkg/core/meta"
	"github.com/avibit/avconfig2/pkg/core/model"
	"github.com/avibit/avconfig2/pkg/core/store"
	"github.com/avibit/avconfig2/pkg/core/value"
)

// Import parses path, a classic paraset ".cfg" file, into s. Every
// installed parameter carries Legacy-flagged metadata (untyped,
// string-kind) since a paraset file carries no schema of its own;
// strict metadata equivalence is never required against it (§4.3
// "Metadata equivalence").
func Import(path string, s *store.Store) error {
	dir := filepath.Dir(path)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return fsacq.WithFile(path, func(data []byte) error {
		section := ""
		lineNo := 0
		for _, raw := range strings.Split(string(data), "\n") {
			lineNo++
			line := strings.TrimSpace(raw)
			if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
				continue
			}
			if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
				section = strings.TrimSpace(line[1 : len(line)-1])
				continue
			}
			eq := strings.IndexByte(line, '=')
			if eq < 0 {
				return fmt.Errorf("%s:%d: malformed line %q", base, lineNo, line)
			}
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			name := key
			if section != "" {
				name = section + "." + key
			}
			loc := location.Location{
				Dir: dir, Name: name, Format: location.FormatLegacy, Line: lineNo,
				Source: model.FileOrdinary,
			}
			md := meta.Metadata{
				Name: name, Type: value.KindString, Legacy: true,
			}
			if err := s.AddParameter(value.QuoteIfNeeded(val), md, loc); err != nil {
				return fmt.Errorf("%s:%d: %w", base, lineNo, err)
			}
		}
		return nil
	})
}
