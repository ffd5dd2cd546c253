// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package meta implements Metadata: the schema attached to a loaded
// parameter or reference, and the Restriction sub-schema used to
// validate a registered parameter's typed value.
package meta

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/avibit/avconfig2/pkg/core/value"
	"github.com/go-playground/validator/v10"
)

// Metadata is the schema for a parameter: its name, type tag, help
// text, suggested default, suggested reference, optional flag, the
// command-line switch that may assign it, an optional restriction, and
// a user comment line copied from the source file.
type Metadata struct {
	Name            string
	Type            value.Kind
	Help            string
	Suggested       string
	SuggestedRef    string
	Optional        bool
	CmdlineSwitch   string
	Restriction     *Restriction
	Comment         string

	// Incomplete marks Metadata that was synthesized from an override
	// or cmdline element before the full schema was known (the store
	// backfills it once a matching FILE_ORDINARY/namespace declaration
	// arrives). Strict metadata equivalence is never required against
	// Incomplete metadata.
	Incomplete bool

	// Legacy marks Metadata loaded through the classic paraset
	// importer, which carries no schema of its own. Strict metadata
	// equivalence is never required against Legacy metadata.
	Legacy bool
}

// RelaxedEquivalent reports whether m and other are relaxed-equivalent:
// same Type and same Name.
func (m Metadata) RelaxedEquivalent(other Metadata) bool {
	return m.Type == other.Type && m.Name == other.Name
}

// StrictEquivalent reports whether m and other are strict-equivalent:
// relaxed-equivalent, plus matching Help, Suggested, SuggestedRef,
// Optional, the textual form of Restriction, and CmdlineSwitch.
func (m Metadata) StrictEquivalent(other Metadata) bool {
	if !m.RelaxedEquivalent(other) {
		return false
	}
	if m.Help != other.Help || m.Suggested != other.Suggested ||
		m.SuggestedRef != other.SuggestedRef ||
		m.Optional != other.Optional ||
		m.CmdlineSwitch != other.CmdlineSwitch {
		return false
	}
	return m.restrictionText() == other.restrictionText()
}

func (m Metadata) restrictionText() string {
	if m.Restriction == nil {
		return ""
	}
	return m.Restriction.String()
}

// Kind of restriction.
type RestrictionKind int

const (
	// RestrictNone performs no validation beyond FromString succeeding.
	RestrictNone RestrictionKind = iota
	// RestrictRange requires a numeric value within [Min, Max].
	RestrictRange
	// RestrictEnum requires the value's string form to be one of
	// Enum.
	RestrictEnum
	// RestrictRegex requires the value's string form to match Pattern.
	RestrictRegex
)

// validate is a single shared validator instance, mirroring how the
// teacher repository's restful layer shares one *validator.Validate.
// Range and enum restrictions are driven through it with tags built up
// at check time from the Restriction's own Min/Max/Enum fields, since
// those bounds are only known at runtime; a regex restriction has no
// equivalent dynamic tag in this library (its "regex"-adjacent tags are
// fixed built-ins, not free-form patterns) and is matched directly with
// the standard regexp package instead.
var validate = validator.New()

// Restriction narrows the acceptable values of a registered parameter
// beyond what its type alone implies: a numeric range, an enumeration
// of accepted string forms, or a regular expression the value's string
// form must match.
type Restriction struct {
	Kind    RestrictionKind
	Min     float64
	Max     float64
	Enum    []string
	Pattern string
}

// String renders r in a stable textual form suitable for strict
// metadata equivalence comparison.
func (r *Restriction) String() string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case RestrictRange:
		return fmt.Sprintf("range[%g,%g]", r.Min, r.Max)
	case RestrictEnum:
		return fmt.Sprintf("enum%v", r.Enum)
	case RestrictRegex:
		return fmt.Sprintf("regex(%s)", r.Pattern)
	default:
		return "none"
	}
}

// Check validates str, the string form of a FromString-parsed value,
// and numeric (the float64 conversion of that value when it is
// numeric; ignored otherwise) against r.
func (r *Restriction) Check(str string, numeric float64, isNumeric bool) error {
	if r == nil {
		return nil
	}
	switch r.Kind {
	case RestrictNone:
		return nil
	case RestrictRange:
		if !isNumeric {
			return fmt.Errorf("range restriction applied to non-numeric value %q", str)
		}
		tag := fmt.Sprintf("gte=%v,lte=%v", r.Min, r.Max)
		if err := validate.Var(numeric, tag); err != nil {
			return fmt.Errorf(
				"value %g outside allowed range [%g, %g]",
				numeric, r.Min, r.Max,
			)
		}
		return nil
	case RestrictEnum:
		tag := "oneof=" + strings.Join(r.Enum, " ")
		if err := validate.Var(str, tag); err != nil {
			return fmt.Errorf("value %q not among allowed values %v", str, r.Enum)
		}
		return nil
	case RestrictRegex:
		ok, err := matchPattern(r.Pattern, str)
		if err != nil {
			return fmt.Errorf("invalid restriction pattern %q: %w", r.Pattern, err)
		}
		if !ok {
			return fmt.Errorf("value %q does not match pattern %q", str, r.Pattern)
		}
		return nil
	default:
		return fmt.Errorf("unknown restriction kind %d", r.Kind)
	}
}

func matchPattern(pattern, str string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(str), nil
}
