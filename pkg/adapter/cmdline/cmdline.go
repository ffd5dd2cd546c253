// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cmdline implements the Command-line Parser (C11): splitting
// program arguments into registered-switch assignments, arbitrary
// overrides, and an "extra" tail passed through to the application
// (§4.7, §6.2 of the specification this engine implements).
package cmdline

import (
	"fmt"
	"strings"
)

// Result is the outcome of parsing argv: switches feed
// store.SetCmdlineSwitches, overrides feed store.AddOverride with
// CMDLINE_OVERRIDE precedence, and Extra is returned to the
// application untouched.
type Result struct {
	Switches  map[string]string
	Overrides map[string]string

	// OverrideOrder preserves the order overrides were given, since
	// the store's ordered collections are insertion-order sensitive.
	OverrideOrder []string

	Extra []string

	// Builtins records which of -help, -save, -dump_config, -version,
	// -coldstart, -suppress_transient_problems were given, and their
	// value where one applies (-help's optional "group|all" argument,
	// -cfgdir/-save_dir's mandatory directory, -debug's mandatory
	// level).
	Builtins map[string]string
}

var builtinSwitches = map[string]bool{
	"help": true, "save": true, "dump_config": true, "version": true,
	"coldstart": true, "suppress_transient_problems": true,
}

var builtinsWithValue = map[string]bool{
	"cfgdir": true, "save_dir": true, "debug": true,
}

// Parse splits argv per §4.7: "--name value" is an override (value
// mandatory); "-switch [value]" is a registered-switch assignment (the
// value is optional — a missing or "-"-prefixed next token makes it
// valueless, i.e. empty string); a bare "--" ends config arguments and
// everything after it becomes Extra. A switch given twice with
// differing values is fatal.
func Parse(argv []string) (*Result, error) {
	r := &Result{
		Switches:  make(map[string]string),
		Overrides: make(map[string]string),
		Builtins:  make(map[string]string),
	}
	i := 0
	for i < len(argv) {
		tok := argv[i]
		if tok == "--" {
			r.Extra = append(r.Extra, argv[i+1:]...)
			break
		}
		switch {
		case strings.HasPrefix(tok, "--"):
			name := strings.TrimPrefix(tok, "--")
			if i+1 >= len(argv) {
				return nil, fmt.Errorf("override %q requires a value", tok)
			}
			val := argv[i+1]
			i += 2
			if existing, dup := r.Overrides[name]; dup && existing != val {
				return nil, fmt.Errorf(
					"override %q given twice with differing values %q and %q",
					name, existing, val,
				)
			}
			if _, dup := r.Overrides[name]; !dup {
				r.OverrideOrder = append(r.OverrideOrder, name)
			}
			r.Overrides[name] = val
		case strings.HasPrefix(tok, "-") && len(tok) > 1:
			name := strings.TrimPrefix(tok, "-")
			val := ""
			consumed := 1
			if i+1 < len(argv) && !strings.HasPrefix(argv[i+1], "-") {
				val = argv[i+1]
				consumed = 2
			}
			i += consumed

			if builtinSwitches[name] {
				r.Builtins[name] = val
				continue
			}
			if builtinsWithValue[name] {
				if consumed != 2 {
					return nil, fmt.Errorf("switch %q requires a value", tok)
				}
				r.Builtins[name] = val
				continue
			}
			if existing, dup := r.Switches[name]; dup && existing != val {
				return nil, fmt.Errorf(
					"switch %q given twice with differing values %q and %q",
					name, existing, val,
				)
			}
			r.Switches[name] = val
		default:
			r.Extra = append(r.Extra, tok)
			i++
		}
	}
	return r, nil
}
