// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr represents the core layer errors. This package includes
// the Error struct which helps to wrap common errors with a Category,
// so the errors may be classified based on the error taxonomy this
// engine implements: ingest-time fatal grammar violations, load-time
// accumulated diagnostics, runtime non-fatal conditions, and programmer
// errors.
package cerr

import "fmt"

// Category classifies an Error by where, in the engine's error
// taxonomy, it belongs.
type Category int

const (
	// IngestFatal marks a grammar violation discovered while an
	// importer is parsing a file: duplicate #define, unbalanced #if,
	// malformed #map, an override appearing after a namespace
	// declaration of the same name, or an unsupported format version.
	// Reported, aborts startup.
	IngestFatal Category = iota

	// LoadTime marks a diagnostic accumulated during the
	// registered-parameter refresh: missing configs, loaded
	// duplicates, metadata mismatches, missing registered parameters,
	// unresolved references, deprecated names, cmdline errors, parse
	// failures, restriction violations. Collected into a refresh
	// result rather than returned directly; in CMLenient/CMAutosave
	// most are demoted to warnings by the caller.
	LoadTime

	// Runtime marks a non-fatal condition discovered outside the
	// refresh pass, such as a reference target type mismatch when
	// concatenating a non-string literal; the reference simply remains
	// unresolved.
	Runtime

	// Programmer marks a caller contract violation: registering the
	// same variable twice, registering without help text, registering
	// a non-hierarchical name. Always fatal, detected at startup.
	Programmer
)

// String returns the canonical textual form of c.
func (c Category) String() string {
	switch c {
	case IngestFatal:
		return "ingest-fatal"
	case LoadTime:
		return "load-time"
	case Runtime:
		return "runtime"
	case Programmer:
		return "programmer"
	default:
		return "unknown"
	}
}

// Error wraps Err, aka the underlying cause, and classifies it with a
// Category so callers can decide, uniformly, whether a given failure
// must abort startup or may be collected and reported later.
type Error struct {
	Err      error
	Category Category
}

// Unwrap returns the wrapped inner error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Error implements the error interface, returning a string
// representation of the Error instance.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Category, e.Err.Error())
}

// Ingest wraps err and marks it IngestFatal.
func Ingest(err error) *Error {
	return &Error{Err: err, Category: IngestFatal}
}

// Load wraps err and marks it LoadTime.
func Load(err error) *Error {
	return &Error{Err: err, Category: LoadTime}
}

// RuntimeErr wraps err and marks it Runtime.
func RuntimeErr(err error) *Error {
	return &Error{Err: err, Category: Runtime}
}

// ProgrammerErr wraps err and marks it Programmer.
func ProgrammerErr(err error) *Error {
	return &Error{Err: err, Category: Programmer}
}
