// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package store implements the Loaded-Data Store: an ordered, typed
// container of loaded elements (parameters, references, overrides,
// defines, includes, mappings, search paths, inheritance declarations,
// subconfig-template parameters), with precedence-aware merge rules.
package store

import (
	"fmt"
	"strings"

	"github.com/avibit/avconfig2/pkg/core/fact"
	"github.com/avibit/avconfig2/pkg/core/location"
	"github.com/avibit/avconfig2/pkg/core/meta"
	"github.com/avibit/avconfig2/pkg/core/model"
)

// Duplicate records a loaded-duplicate diagnostic: a second ingest of
// a parameter or reference whose existing source was not one of the
// overridable classes (§4.2 duplicate policy). Ingest never aborts for
// this; it is surfaced later through the refresh result.
type Duplicate struct {
	Name     string
	Existing location.Location
	Incoming location.Location
}

// Store is the Loaded-Data Store (C4). The zero value is not usable;
// construct one with New.
type Store struct {
	Facts fact.Map

	parameters         *ordered[*Parameter]
	references         *ordered[*Reference]
	overrides          *ordered[*Override]
	includes           *ordered[*Include]
	searchPaths        *ordered[*SearchPath]
	mappings           *ordered[*Mapping]
	defines            *ordered[*Define]
	inheritances       *ordered[*Inheritance]
	subconfigTemplates *ordered[*SubconfigTemplate]

	cmdlineSwitches map[string]string

	duplicates []Duplicate

	// totalOrder records every insertion across all element kinds, in
	// insertion order, so the exporter's total ordering (§3.2) can
	// group by fact condition using a single linear walk.
	totalOrder []TotalEntry
}

// TotalEntry names one entry in the store's total insertion order.
type TotalEntry struct {
	Kind ElementKind
	Name string
}

// ElementKind discriminates which ordered collection a TotalEntry
// refers to.
type ElementKind int

// The element kinds a loaded-data store tracks.
const (
	KindParameter ElementKind = iota
	KindReference
	KindOverride
	KindInclude
	KindSearchPath
	KindMapping
	KindDefine
	KindInheritance
	KindSubconfigTemplate
)

// New constructs an empty Store bound to the given process fact map.
func New(facts fact.Map) *Store {
	if facts == nil {
		facts = fact.Map{}
	}
	return &Store{
		Facts:              facts,
		parameters:         newOrdered[*Parameter](),
		references:         newOrdered[*Reference](),
		overrides:          newOrdered[*Override](),
		includes:           newOrdered[*Include](),
		searchPaths:        newOrdered[*SearchPath](),
		mappings:           newOrdered[*Mapping](),
		defines:            newOrdered[*Define](),
		inheritances:       newOrdered[*Inheritance](),
		subconfigTemplates: newOrdered[*SubconfigTemplate](),
		cmdlineSwitches:    make(map[string]string),
	}
}

// SetCmdlineSwitches records the switch-name to value assignments
// parsed from argv by the command-line parser (C11), so AddParameter
// can recognize when a registered parameter's metadata.CmdlineSwitch
// was given on the command line.
func (s *Store) SetCmdlineSwitches(switches map[string]string) {
	s.cmdlineSwitches = switches
}

// Duplicates returns the loaded-duplicate diagnostics accumulated so
// far.
func (s *Store) Duplicates() []Duplicate {
	return s.duplicates
}

func (s *Store) recordTotal(kind ElementKind, name string) {
	s.totalOrder = append(s.totalOrder, TotalEntry{Kind: kind, Name: name})
}

// TotalCount returns the number of elements inserted across every
// element kind.
func (s *Store) TotalCount() int {
	return len(s.totalOrder)
}

// ElementByTotalIndex returns the (kind, name) pair at position i of
// the total insertion order.
func (s *Store) ElementByTotalIndex(i int) (TotalEntry, bool) {
	if i < 0 || i >= len(s.totalOrder) {
		return TotalEntry{}, false
	}
	return s.totalOrder[i], true
}

// ---- Parameters --------------------------------------------------

// ParameterByName returns the parameter named name, if present.
func (s *Store) ParameterByName(name string) (*Parameter, bool) {
	return s.parameters.get(name)
}

// ParameterByIndex returns the parameter at position i of parameter
// insertion order.
func (s *Store) ParameterByIndex(i int) (*Parameter, bool) {
	return s.parameters.getByIndex(i)
}

// ParameterCount returns the number of loaded parameters.
func (s *Store) ParameterCount() int {
	return s.parameters.count()
}

// ParameterNames returns all parameter names in insertion order.
func (s *Store) ParameterNames() []string {
	return s.parameters.names()
}

// RemoveParameterByName deletes the parameter named name, if present.
func (s *Store) RemoveParameterByName(name string) {
	s.parameters.remove(name)
}

// switchValue reports whether md.CmdlineSwitch was captured on the
// command line and, if so, returns its value.
func (s *Store) switchValue(md meta.Metadata) (string, bool) {
	if md.CmdlineSwitch == "" {
		return "", false
	}
	v, ok := s.cmdlineSwitches[md.CmdlineSwitch]
	return v, ok
}

// AddParameter implements the add_parameter algorithm of §4.2.1.
func (s *Store) AddParameter(value string, md meta.Metadata, loc location.Location) error {
	if !loc.Satisfied(s.Facts) {
		return nil
	}
	existing, has := s.parameters.get(md.Name)

	if sw, ok := s.switchValue(md); ok {
		p := &Parameter{
			Name:     md.Name,
			Value:    sw,
			Metadata: md,
			Location: location.Location{
				Name: md.CmdlineSwitch, Source: model.CmdlineParam,
				Format: location.FormatCmdline,
			},
			HasOverride:    true,
			OverrideValue:  value,
			OverrideSource: loc,
		}
		s.parameters.add(md.Name, p)
		s.parameters.moveToBack(md.Name)
		if !has {
			s.recordTotal(KindParameter, md.Name)
		}
		return nil
	}

	if !has {
		s.parameters.add(md.Name, &Parameter{
			Name: md.Name, Value: value, Metadata: md, Location: loc,
		})
		s.recordTotal(KindParameter, md.Name)
		s.parameters.moveToBack(md.Name)
		return nil
	}

	switch existing.Location.Source {
	case model.InheritedParameter:
		if value == existing.Value && md.RelaxedEquivalent(existing.Metadata) {
			s.parameters.moveToBack(md.Name)
			return nil
		}
		if !md.RelaxedEquivalent(existing.Metadata) {
			return fmt.Errorf(
				"parameter %q: incompatible metadata replacing inherited value",
				md.Name,
			)
		}
		s.parameters.add(md.Name, &Parameter{
			Name: md.Name, Value: value, Metadata: md, Location: loc,
			HasOverride:    existing.HasOverride,
			OverrideValue:  existing.OverrideValue,
			OverrideSource: existing.OverrideSource,
		})
	case model.DefaultOptional:
		s.parameters.add(md.Name, &Parameter{
			Name: md.Name, Value: value, Metadata: md, Location: loc,
		})
	case model.CmdlineOverride, model.FileDevOverride:
		s.parameters.add(md.Name, &Parameter{
			Name:           md.Name,
			Value:          existing.Value,
			Metadata:       md,
			Location:       existing.Location,
			HasOverride:    true,
			OverrideValue:  value,
			OverrideSource: loc,
		})
	default:
		s.duplicates = append(s.duplicates, Duplicate{
			Name: md.Name, Existing: existing.Location, Incoming: loc,
		})
		s.parameters.moveToBack(md.Name)
		return nil
	}
	s.parameters.moveToBack(md.Name)
	return nil
}

// ---- References ----------------------------------------------------

// ReferenceByName returns the reference named name, if present.
func (s *Store) ReferenceByName(name string) (*Reference, bool) {
	return s.references.get(name)
}

// ReferenceByIndex returns the reference at position i of reference
// insertion order.
func (s *Store) ReferenceByIndex(i int) (*Reference, bool) {
	return s.references.getByIndex(i)
}

// ReferenceCount returns the number of loaded references.
func (s *Store) ReferenceCount() int {
	return s.references.count()
}

// ReferenceNames returns all reference names in insertion order.
func (s *Store) ReferenceNames() []string {
	return s.references.names()
}

// RemoveReferenceByName deletes the reference named name, if present.
func (s *Store) RemoveReferenceByName(name string) {
	s.references.remove(name)
}

// AddReference implements the add_reference algorithm of §4.2.2: it
// records the reference element and, if a cmdline switch or a
// dev-override/cmdline-override element already targets the same name,
// installs a parameter of the matching higher-precedence source
// immediately (since both classes outrank RESOLVED_REFERENCE) instead
// of leaving the reference for the resolution engine.
func (s *Store) AddReference(expr string, md meta.Metadata, loc location.Location) error {
	if !loc.Satisfied(s.Facts) {
		return nil
	}
	r := &Reference{Name: md.Name, Expr: expr, Metadata: md, Location: loc}
	_, existed := s.references.get(md.Name)
	s.references.add(md.Name, r)
	if !existed {
		s.recordTotal(KindReference, md.Name)
	}

	if sw, ok := s.switchValue(md); ok {
		s.parameters.add(md.Name, &Parameter{
			Name: md.Name, Value: sw, Metadata: md,
			Location: location.Location{
				Name: md.CmdlineSwitch, Source: model.CmdlineParam,
				Format: location.FormatCmdline,
			},
		})
		s.recordTotal(KindParameter, md.Name)
		r.Resolved = true
		return nil
	}
	if ov, ok := s.overrides.get(md.Name); ok {
		s.parameters.add(md.Name, &Parameter{
			Name: md.Name, Value: ov.Value, Metadata: md, Location: ov.Location,
		})
		s.recordTotal(KindParameter, md.Name)
		r.Resolved = true
	}
	return nil
}

// ---- Overrides -------------------------------------------------------

// OverrideByName returns the override named name, if present.
func (s *Store) OverrideByName(name string) (*Override, bool) {
	return s.overrides.get(name)
}

// OverrideCount returns the number of loaded overrides.
func (s *Store) OverrideCount() int {
	return s.overrides.count()
}

// AddOverride implements the add_override algorithm of §4.2.3.
func (s *Store) AddOverride(value string, loc location.Location) error {
	name := loc.Name
	if !loc.Satisfied(s.Facts) {
		return nil
	}
	existing, has := s.parameters.get(name)
	if has {
		switch existing.Location.Source {
		case model.DefaultOptional:
			s.parameters.add(name, &Parameter{
				Name: name, Value: value, Metadata: existing.Metadata,
				Location: loc,
			})
		case model.CmdlineParam, model.CmdlineOverride, model.FileDevOverride:
			// higher or equal priority already present; keep it.
		default:
			return fmt.Errorf(
				"override %q: a section-scoped declaration already exists", name,
			)
		}
	} else {
		s.parameters.add(name, &Parameter{
			Name: name, Value: value,
			Metadata: meta.Metadata{Name: name, Incomplete: true},
			Location: loc,
		})
		s.recordTotal(KindParameter, name)
	}
	_, existedOv := s.overrides.get(name)
	s.overrides.add(name, &Override{Name: name, Value: value, Location: loc})
	if !existedOv {
		s.recordTotal(KindOverride, name)
	}
	return nil
}

// ---- Inheritance -----------------------------------------------------

// AddInheritedSection implements the add_inherited_section algorithm of
// §4.2.4.
func (s *Store) AddInheritedSection(parent, child string, loc location.Location) error {
	if !loc.Satisfied(s.Facts) {
		return nil
	}
	prefix := parent + "."
	found := false
	for _, name := range s.parameters.names() {
		if strings.HasPrefix(name, prefix) {
			found = true
			break
		}
	}
	if !found {
		for _, name := range s.references.names() {
			if strings.HasPrefix(name, prefix) {
				found = true
				break
			}
		}
	}
	if !found {
		return fmt.Errorf("inherited section: no parameter under parent %q", parent)
	}

	for _, name := range append([]string{}, s.parameters.names()...) {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		p, _ := s.parameters.get(name)
		childName := child + name[len(parent):]
		if err := s.copyInherited(childName, name, p.Value, p.Metadata, loc); err != nil {
			return err
		}
	}
	for _, name := range append([]string{}, s.references.names()...) {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		r, _ := s.references.get(name)
		childName := child + name[len(parent):]
		if err := s.copyInherited(childName, name, r.Expr, r.Metadata, loc); err != nil {
			return err
		}
	}

	s.inheritances.add(child, &Inheritance{Parent: parent, Child: child, Location: loc})
	s.recordTotal(KindInheritance, child)
	return nil
}

func (s *Store) copyInherited(
	childName, originalName, value string, md meta.Metadata, loc location.Location,
) error {
	childLoc := loc
	childLoc.Source = model.InheritedParameter
	childLoc.InheritedParameterName = originalName
	md.Name = childName

	existing, has := s.parameters.get(childName)
	if has {
		switch existing.Location.Source {
		case model.CmdlineOverride, model.FileDevOverride, model.CmdlineParam:
			existing.Metadata = md
			existing.Location.InheritedParameterName = originalName
			return nil
		case model.FileOrdinary:
			return fmt.Errorf(
				"inherited parameter %q collides with an ordinary declaration",
				childName,
			)
		}
	}
	s.parameters.add(childName, &Parameter{
		Name: childName, Value: value, Metadata: md, Location: childLoc,
	})
	if !has {
		s.recordTotal(KindParameter, childName)
	}
	return nil
}

// ---- Includes, search paths, defines, mappings, subconfig templates --

// AddInclude appends an include element, subject to fact filtering.
func (s *Store) AddInclude(name string, loc location.Location) {
	if !loc.Satisfied(s.Facts) {
		return
	}
	s.includes.add(name, &Include{Name: name, Location: loc})
	s.recordTotal(KindInclude, name)
}

// Includes returns every include element in insertion order.
func (s *Store) Includes() []*Include {
	out := make([]*Include, 0, s.includes.count())
	for _, n := range s.includes.names() {
		v, _ := s.includes.get(n)
		out = append(out, v)
	}
	return out
}

// AddSearchPath appends a search-path element, subject to fact
// filtering.
func (s *Store) AddSearchPath(path string, loc location.Location) {
	if !loc.Satisfied(s.Facts) {
		return
	}
	s.searchPaths.add(path, &SearchPath{Path: path, Location: loc})
	s.recordTotal(KindSearchPath, path)
}

// SearchPaths returns every search-path element in insertion order.
func (s *Store) SearchPaths() []*SearchPath {
	out := make([]*SearchPath, 0, s.searchPaths.count())
	for _, n := range s.searchPaths.names() {
		v, _ := s.searchPaths.get(n)
		out = append(out, v)
	}
	return out
}

// AddDefine records a fact definition, appending the fact to the
// store's fact map (which may only grow) and the define element.
func (s *Store) AddDefine(factName, factValue string, loc location.Location) error {
	if err := s.Facts.Set(factName, factValue); err != nil {
		return fmt.Errorf("#define %s: %w", factName, err)
	}
	s.defines.add(factName, &Define{FactName: factName, FactValue: factValue, Location: loc})
	s.recordTotal(KindDefine, factName)
	return nil
}

// Defines returns every define element in insertion order.
func (s *Store) Defines() []*Define {
	out := make([]*Define, 0, s.defines.count())
	for _, n := range s.defines.names() {
		v, _ := s.defines.get(n)
		out = append(out, v)
	}
	return out
}

// AddMapping records a mapping element. Per invariant 5, mapping an
// unmapped name is idempotent: MapName returns the name itself and
// records (if not already present) an identity mapping tagged with
// location.Null so it is never re-saved.
func (s *Store) AddMapping(from, mappedDir, mappedName string, loc location.Location) {
	if !loc.Satisfied(s.Facts) {
		return
	}
	_, existed := s.mappings.get(from)
	s.mappings.add(from, &Mapping{
		From: from, MappedDir: mappedDir, MappedName: mappedName, Location: loc,
	})
	if !existed {
		s.recordTotal(KindMapping, from)
	}
}

// MapName resolves from through the mapping table, returning the
// mapped (dir, name) pair. An unmapped name maps to itself with an
// empty dir, and that identity mapping is recorded with a null
// location so the exporter never re-emits it.
func (s *Store) MapName(from string) (dir, name string) {
	if m, ok := s.mappings.get(from); ok {
		return m.MappedDir, m.MappedName
	}
	s.mappings.add(from, &Mapping{From: from, MappedName: from, Location: location.Null})
	s.recordTotal(KindMapping, from)
	return "", from
}

// Mappings returns every non-identity mapping element (i.e. those with
// a non-null location) in insertion order, suitable for export.
func (s *Store) Mappings() []*Mapping {
	out := make([]*Mapping, 0, s.mappings.count())
	for _, n := range s.mappings.names() {
		v, _ := s.mappings.get(n)
		if v.Location.IsNull() {
			continue
		}
		out = append(out, v)
	}
	return out
}

// AddSubconfigTemplate records a subconfig-template parameter. Template
// parameters participate in export but never in registered-parameter
// refresh.
func (s *Store) AddSubconfigTemplate(value string, md meta.Metadata, loc location.Location) {
	if !loc.Satisfied(s.Facts) {
		return
	}
	_, existed := s.subconfigTemplates.get(md.Name)
	s.subconfigTemplates.add(md.Name, &SubconfigTemplate{
		Name: md.Name, Value: value, Metadata: md, Location: loc,
	})
	if !existed {
		s.recordTotal(KindSubconfigTemplate, md.Name)
	}
}

// SubconfigTemplates returns every subconfig-template element in
// insertion order.
func (s *Store) SubconfigTemplates() []*SubconfigTemplate {
	out := make([]*SubconfigTemplate, 0, s.subconfigTemplates.count())
	for _, n := range s.subconfigTemplates.names() {
		v, _ := s.subconfigTemplates.get(n)
		out = append(out, v)
	}
	return out
}

// SubconfigNames returns the distinct second-level names N such that a
// parameter or reference of the form prefix+"."+N+".*" exists in the
// store, used by the refresh protocol to instantiate one child config
// object per concrete sibling under a registered subconfig prefix.
func (s *Store) SubconfigNames(prefix string) []string {
	seen := make(map[string]struct{})
	var out []string
	collect := func(name string) {
		full := prefix + "."
		if !strings.HasPrefix(name, full) {
			return
		}
		rest := name[len(full):]
		idx := strings.IndexByte(rest, '.')
		if idx < 0 {
			return
		}
		n := rest[:idx]
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	for _, name := range s.parameters.names() {
		collect(name)
	}
	for _, name := range s.references.names() {
		collect(name)
	}
	return out
}
