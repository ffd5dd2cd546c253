// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package resolve implements the Resolution Engine (C5): the
// reference-expansion fixpoint that turns "$(name)"-concatenation
// reference elements into materialized parameters.
package resolve

import (
	"fmt"
	"strings"

	"github.com/avibit/avconfig2/pkg/core/location"
	"github.com/avibit/avconfig2/pkg/core/model"
	"github.com/avibit/avconfig2/pkg/core/store"
	"github.com/avibit/avconfig2/pkg/core/value"
)

// Diagnostic records one reference that could not be resolved once the
// loop reaches a fixpoint: either it targets a name that never
// appeared, it forms a cycle with other unresolved references, or a
// strict metadata check against its target failed.
type Diagnostic struct {
	Reference string
	Reason    string
}

// Run drives the resolution loop of §4.3 to a fixpoint against s,
// installing a RESOLVED_REFERENCE parameter for every reference that
// resolves, and returns a diagnostic for every reference that remains
// unresolved when no further progress is possible. At most
// len(unresolved) iterations run, per the termination bound of §4.3.
func Run(s *store.Store) []Diagnostic {
	unresolved := make(map[string]struct{})
	for _, name := range s.ReferenceNames() {
		r, _ := s.ReferenceByName(name)
		if !r.Resolved {
			unresolved[name] = struct{}{}
		}
	}

	reasons := make(map[string]string)
	limit := len(unresolved)
	for iter := 0; iter < limit && len(unresolved) > 0; iter++ {
		progressed := false
		for name := range unresolved {
			r, _ := s.ReferenceByName(name)
			concatenated, reason, ok := tryResolve(s, r, unresolved)
			if !ok {
				if reason != "" {
					reasons[name] = reason
				}
				continue
			}
			if err := installResolved(s, r, concatenated); err != nil {
				reasons[name] = err.Error()
				continue
			}
			r.Resolved = true
			delete(unresolved, name)
			delete(reasons, name)
			progressed = true
		}
		if !progressed {
			break
		}
	}

	var diags []Diagnostic
	for name := range unresolved {
		reason := reasons[name]
		if reason == "" {
			reason = "unresolved: missing target or dependency cycle"
		}
		diags = append(diags, Diagnostic{Reference: name, Reason: reason})
	}
	return diags
}

// installResolved installs a RESOLVED_REFERENCE parameter for r,
// unless a strictly higher-priority source already owns the name (in
// which case the reference is moot, not an error).
func installResolved(s *store.Store, r *store.Reference, concatenated string) error {
	if existing, has := s.ParameterByName(r.Name); has && !existing.Location.Source.Overridable() {
		return nil
	}
	loc := r.Location
	loc.Source = model.ResolvedReference
	loc.Format = location.FormatSynthetic
	return s.AddParameter(concatenated, r.Metadata, loc)
}

// tryResolve attempts to evaluate r's concatenation expression against
// s's current parameter set. ok is true when every part resolved; the
// returned reason explains a transient or permanent failure otherwise
// (a transient failure, referencing a name still in unresolved, is
// reported with an empty reason so the caller does not overwrite a
// more specific diagnostic from an earlier iteration).
func tryResolve(
	s *store.Store, r *store.Reference, unresolved map[string]struct{},
) (concatenated, reason string, ok bool) {
	expr := strings.TrimSpace(r.Expr)
	if strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]") {
		expr = expr[1 : len(expr)-1]
	} else if !strings.Contains(expr, "$(") {
		// Bare identifier sugar: NAME stands for [$(NAME)].
		expr = "$(" + expr + ")"
	}

	parts := value.TrimTopLevel(expr, ';')
	var b strings.Builder
	for _, part := range parts {
		if name, isRef := refTarget(part); isRef {
			if _, pending := unresolved[name]; pending {
				return "", "", false
			}
			target, has := s.ParameterByName(name)
			if !has {
				return "", fmt.Sprintf("target parameter %q does not exist", name), false
			}
			if requiresStrict(r, target) && !r.Metadata.StrictEquivalent(target.Metadata) {
				return "", fmt.Sprintf(
					"target %q metadata is not strict-equivalent", name,
				), false
			}
			b.WriteString(materialize(target.Value, target.Metadata.Type))
			continue
		}
		unquoted, err := value.UnquoteToken(part)
		if err != nil {
			return "", err.Error(), false
		}
		b.WriteString(unquoted)
	}
	return b.String(), "", true
}

// refTarget reports whether part is a "$(NAME)" substitution and, if
// so, returns NAME.
func refTarget(part string) (string, bool) {
	if !strings.HasPrefix(part, "$(") || !strings.HasSuffix(part, ")") {
		return "", false
	}
	return part[2 : len(part)-1], true
}

// materialize renders raw (a parameter's stored textual value) as the
// concatenation fragment contributed by a reference to it: string
// values are unquoted first, every other kind's canonical textual form
// is used as-is.
func materialize(raw string, kind value.Kind) string {
	if kind != value.KindString {
		return raw
	}
	if unquoted, err := value.UnquoteToken(raw); err == nil {
		return unquoted
	}
	return raw
}

// requiresStrict reports whether resolving r against target demands
// strict metadata equivalence (§4.3): both sides registered
// (non-Incomplete) and the target was loaded from a non-legacy file.
func requiresStrict(r *store.Reference, target *store.Parameter) bool {
	if target.Metadata.Legacy || target.Metadata.Incomplete {
		return false
	}
	if r.Metadata.Incomplete {
		return false
	}
	return true
}
