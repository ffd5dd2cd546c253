// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// SourceClass identifies where a loaded element's value came from and
// fixes its precedence relative to other sources of the same name.
// Larger values win: an element may only be replaced by an element
// whose SourceClass compares strictly greater, per the override rules
// of a loaded-data store.
type SourceClass int

// Source classes, ordered from lowest to highest precedence. The zero
// value is intentionally invalid so a forgotten initialization is never
// mistaken for DefaultPure.
const (
	_ SourceClass = iota

	// DefaultPure is synthesized for a pure cmdline-only option that
	// was never given on the command line.
	DefaultPure

	// DefaultOptional is synthesized for an optional registered
	// parameter that has no loaded value of its own.
	DefaultOptional

	// InheritedParameter was copied from a parent namespace by
	// inheritance expansion.
	InheritedParameter

	// ResolvedReference was produced by reference resolution.
	ResolvedReference

	// FileOrdinary was declared inside a namespace in a config file.
	FileOrdinary

	// FileDevOverride appeared before any namespace in a dev-overlay
	// file ("name = value;" with no enclosing namespace).
	FileDevOverride

	// CmdlineOverride came from a "--name value" argument.
	CmdlineOverride

	// CmdlineParam came from a registered "-switch value" argument.
	CmdlineParam
)

// names maps each SourceClass to its canonical textual form, used for
// diagnostics and the -dump_config debug view.
var names = map[SourceClass]string{
	DefaultPure:         "DEFAULT_PURE",
	DefaultOptional:     "DEFAULT_OPTIONAL",
	InheritedParameter:  "INHERITED_PARAMETER",
	ResolvedReference:   "RESOLVED_REFERENCE",
	FileOrdinary:        "FILE_ORDINARY",
	FileDevOverride:     "FILE_DEV_OVERRIDE",
	CmdlineOverride:     "CMDLINE_OVERRIDE",
	CmdlineParam:        "CMDLINE_PARAM",
}

// String returns the canonical all-caps textual form of sc.
func (sc SourceClass) String() string {
	if n, ok := names[sc]; ok {
		return n
	}
	return "UNKNOWN_SOURCE_CLASS"
}

// Overridable reports whether an element currently loaded from sc may
// be replaced by a newcomer of strictly higher precedence without that
// being flagged as a loaded duplicate (it still can be, depending on
// the specific store operation; this only says replacement itself is
// not forbidden outright).
func (sc SourceClass) Overridable() bool {
	switch sc {
	case CmdlineParam, CmdlineOverride, FileDevOverride,
		InheritedParameter, DefaultOptional:
		return true
	default:
		return false
	}
}
