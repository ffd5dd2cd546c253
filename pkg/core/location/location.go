// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package location implements the Storage Location: an immutable
// descriptor of where a loaded element came from.
package location

import (
	"fmt"

	"github.com/avibit/avconfig2/pkg/core/fact"
	"github.com/avibit/avconfig2/pkg/core/model"
)

// Format names the textual format an element was loaded from.
type Format int

const (
	// FormatSynthetic marks an element that was never read from any
	// file, e.g. a DEFAULT_OPTIONAL/DEFAULT_PURE parameter or a
	// resolved reference.
	FormatSynthetic Format = iota
	FormatCstyle
	FormatLegacy
	FormatXML
	FormatCmdline
)

// String returns the canonical textual form of f.
func (f Format) String() string {
	switch f {
	case FormatSynthetic:
		return "synthetic"
	case FormatCstyle:
		return "cstyle"
	case FormatLegacy:
		return "legacy"
	case FormatXML:
		return "xml"
	case FormatCmdline:
		return "cmdline"
	default:
		return "unknown"
	}
}

// Location is the immutable descriptor of where a loaded element came
// from: directory, file name, format, source class, fact-condition
// stack, and (for file-backed elements) the line number, so diagnostics
// and the exporter can report and reproduce it precisely.
//
// A Location whose Dir and Name are both empty and whose Source is
// model.DefaultPure or model.DefaultOptional represents a synthesized
// element with no on-disk origin; the cstyle exporter writes a
// parameter carrying one like any other complete parameter.
type Location struct {
	Dir    string
	Name   string
	Format Format
	Source model.SourceClass
	Line   int
	Facts  fact.Stack

	// InheritedParameterName records the original fully-qualified name
	// an INHERITED_PARAMETER element was copied from, so diagnostics
	// and the exporter can trace it back to its parent declaration.
	InheritedParameterName string
}

// Null is the zero Location, used for identity mappings per invariant
// 5 of the specification this engine implements (a mapping that maps an
// unmapped name to itself is recorded but tagged with a null location
// so it is never re-saved).
var Null = Location{}

// IsNull reports whether l is the zero-value null location: no
// directory, no name, no line, no fact conditions, and no inherited
// name pointer.
func (l Location) IsNull() bool {
	return l.Dir == "" && l.Name == "" && l.Line == 0 &&
		len(l.Facts) == 0 && l.InheritedParameterName == ""
}

// String renders l for diagnostics as "dir/name:line (SOURCE_CLASS)".
func (l Location) String() string {
	path := l.Name
	if l.Dir != "" {
		path = l.Dir + "/" + l.Name
	}
	if path == "" {
		path = "<synthetic>"
	}
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d (%s)", path, l.Line, l.Source)
	}
	return fmt.Sprintf("%s (%s)", path, l.Source)
}

// Satisfied reports whether l's fact-condition stack is satisfied by m.
func (l Location) Satisfied(m fact.Map) bool {
	return l.Facts.Satisfied(m)
}
