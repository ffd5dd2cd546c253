// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"os"
)

// CheckingMode governs whether schema drift discovered during a
// registered-parameter refresh is fatal, merely warned about, or
// silently repaired by rewriting the on-disk config.
type CheckingMode int

const (
	// CMStrict treats every load-time accumulated error (§7.2 of the
	// specification this engine implements) as fatal.
	CMStrict CheckingMode = iota

	// CMLenient demotes load-time accumulated errors to warnings and
	// falls back to a parameter's suggested default where possible.
	CMLenient

	// CMAutosave behaves like CMLenient but additionally marks the
	// refresh result as SaveRequired so a caller may opt into rewriting
	// the configuration file. This is an operations policy lever, not
	// a correctness requirement, so it is never selected implicitly.
	CMAutosave
)

// String returns the canonical textual form of cm.
func (cm CheckingMode) String() string {
	switch cm {
	case CMStrict:
		return "strict"
	case CMLenient:
		return "lenient"
	case CMAutosave:
		return "autosave"
	default:
		return "unknown"
	}
}

// CheckingModeFromEnv reads AVCONFIG2_NO_STRICT_CHECKING and returns the
// CheckingMode it selects, defaulting to CMStrict when the variable is
// unset or empty. Recognized values are "0" (strict), "1" (lenient), and
// "AUTOSAVE".
func CheckingModeFromEnv() (CheckingMode, error) {
	v, ok := os.LookupEnv("AVCONFIG2_NO_STRICT_CHECKING")
	if !ok || v == "" {
		return CMStrict, nil
	}
	switch v {
	case "0":
		return CMStrict, nil
	case "1":
		return CMLenient, nil
	case "AUTOSAVE":
		return CMAutosave, nil
	default:
		return CMStrict, fmt.Errorf(
			"AVCONFIG2_NO_STRICT_CHECKING: unrecognized value %q", v,
		)
	}
}
