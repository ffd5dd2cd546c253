// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package refresh implements the Registered-Parameter Refresh (C10)
// and its post-refresh fixpoint (§4.6, §4.8): the pass that binds
// every registered typed variable to its loaded value, instantiates
// subconfig objects, and runs version translation.
package refresh

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avibit/avconfig2/pkg/core/cerr"
	"github.com/avibit/avconfig2/pkg/core/config"
	"github.com/avibit/avconfig2/pkg/core/location"
	"github.com/avibit/avconfig2/pkg/core/log"
	"github.com/avibit/avconfig2/pkg/core/model"
	"github.com/avibit/avconfig2/pkg/core/resolve"
	"github.com/avibit/avconfig2/pkg/core/store"
	"github.com/avibit/avconfig2/pkg/core/value"
)

// DeprecatedName records a diagnostic for a registered parameter that
// was found only under an earlier, deprecated fully-qualified name.
type DeprecatedName struct {
	CanonicalName  string
	DeprecatedName string
	Location       location.Location
}

// Result aggregates everything the refresh fixpoint reports, per
// spec.md §4.6 step 4 and §7's "a test harness can assert on error
// sets" policy.
type Result struct {
	MissingParams      []string
	MetadataMismatches []string
	Duplicates         []store.Duplicate
	UnresolvedRefs     []resolve.Diagnostic
	Deprecated         []DeprecatedName
	CmdlineErrors      []string
	ParseErrors        []string
	RestrictionErrors  []string

	// SaveRequired is set when a stored class version was translated
	// forward (in every checking mode), and under CM_AUTOSAVE when a
	// suggested default stood in for a missing parameter or a
	// registered parameter is missing, so the caller may choose to
	// invoke the exporter afterward (§E.4 of the expanded
	// specification this engine implements).
	SaveRequired bool
}

// HasFatal reports whether r carries any diagnostic that CM_STRICT
// must treat as fatal.
func (r *Result) HasFatal(mode model.CheckingMode) bool {
	if mode != model.CMStrict {
		return false
	}
	return len(r.MissingParams) > 0 || len(r.MetadataMismatches) > 0 ||
		len(r.ParseErrors) > 0 || len(r.RestrictionErrors) > 0 ||
		len(r.CmdlineErrors) > 0 || len(r.Duplicates) > 0 ||
		len(r.UnresolvedRefs) > 0 || len(r.Deprecated) > 0
}

// Registry drives the refresh fixpoint over a growing set of config
// objects, mirroring §4.8's "scheduler-like post-refresh" loop: new
// configs created while processing a round are processed in the next
// round, and post_refresh is only invoked once the pending set drains.
type Registry struct {
	Store *store.Store
	Mode  model.CheckingMode

	pending []*config.Config
	done    []*config.Config
}

// NewRegistry constructs a Registry bound to s, checking parameters
// under mode.
func NewRegistry(s *store.Store, mode model.CheckingMode) *Registry {
	return &Registry{Store: s, Mode: mode}
}

// Add enqueues c for its first refresh pass.
func (reg *Registry) Add(c *config.Config) {
	reg.pending = append(reg.pending, c)
}

// RefreshAll runs refresh_all_parameters() to a fixpoint (§4.6, §4.8):
// resolve references, process every pending config (binding
// parameters and instantiating subconfigs), then repeatedly invoke
// PostRefresh on every config once the pending set is empty, looping
// again if that creates new pending configs.
func (reg *Registry) RefreshAll() *Result {
	result := &Result{}
	first := true
	for {
		for first || len(reg.pending) > 0 {
			first = false
			unresolved := resolve.Run(reg.Store)
			result.UnresolvedRefs = append(result.UnresolvedRefs, unresolved...)
			result.Duplicates = append(result.Duplicates, reg.Store.Duplicates()...)

			batch := reg.pending
			reg.pending = nil
			for _, c := range batch {
				reg.refreshOne(c, result)
				reg.done = append(reg.done, c)
			}
		}
		if !reg.runPostRefresh() {
			break
		}
	}
	if reg.Mode == model.CMAutosave && (result.SaveRequired ||
		len(result.MissingParams) > 0) {
		result.SaveRequired = true
	}
	return result
}

// runPostRefresh invokes every done config's PostRefresh hook once and
// reports whether doing so enqueued any new pending configs.
func (reg *Registry) runPostRefresh() bool {
	before := len(reg.done)
	for _, c := range reg.done[:before] {
		if c.PostRefresh != nil {
			c.PostRefresh(c)
		}
	}
	return len(reg.pending) > 0
}

func (reg *Registry) refreshOne(c *config.Config, result *Result) {
	for prefix, factory := range c.SubconfigFactories() {
		for _, name := range reg.Store.SubconfigNames(prefix) {
			child := factory(name)
			c.AddChild(child)
			reg.Add(child)
			log.Info(context.Background(), "instantiated subconfig",
					slog.String("prefix", prefix), slog.String("name", name))
		}
	}

	for _, p := range c.Params() {
		reg.refreshParam(c, p, result)
	}

	reg.translateVersion(c, result)
}

func (reg *Registry) refreshParam(c *config.Config, p *config.Param, result *Result) {
	loc, ok := reg.lookup(p, result)
	if !ok {
		if !p.Optional {
			if p.Suggested == "" || reg.Mode == model.CMStrict {
				result.MissingParams = append(result.MissingParams, p.Name)
				return
			}
			if reg.Mode == model.CMAutosave {
				result.SaveRequired = true
			}
		}
		if p.Suggested == "" {
			return
		}
		// A registered parameter whose only source of truth is a
		// cmdline switch defaults to DEFAULT_PURE (spec.md §3.3 item
		// 7); every other optional registered parameter defaults to
		// DEFAULT_OPTIONAL (item 8), which the store's merge rules
		// (add_parameter/add_override) treat as unconditionally
		// replaceable.
		source := model.DefaultOptional
		if p.CmdlineSwitch != "" {
			source = model.DefaultPure
		}
		loc = location.Location{Source: source}
		if err := reg.Store.AddParameter(p.Suggested, p.Metadata(), loc); err != nil {
			result.ParseErrors = append(result.ParseErrors, err.Error())
			return
		}
	}

	pv, _ := reg.Store.ParameterByName(p.Name)
	parsed, err := value.FromString(p.Type, pv.Value)
	if err != nil {
		result.ParseErrors = append(result.ParseErrors,
			fmt.Sprintf("%s: %v", p.Name, err))
		return
	}

	numeric, isNumeric := asFloat(parsed)
	if err := p.Restriction.Check(pv.Value, numeric, isNumeric); err != nil {
		result.RestrictionErrors = append(result.RestrictionErrors,
			fmt.Sprintf("%s: %v", p.Name, err))
		return
	}

	if reg.needsStrictCheck(p, pv) && !p.Metadata().StrictEquivalent(pv.Metadata) {
		result.MetadataMismatches = append(result.MetadataMismatches, p.Name)
		return
	}

	p.Value = parsed
	p.Parsed = true
}

func (reg *Registry) lookup(p *config.Param, result *Result) (location.Location, bool) {
	if pv, ok := reg.Store.ParameterByName(p.Name); ok {
		return pv.Location, true
	}
	for _, old := range p.DeprecatedNames {
		if pv, ok := reg.Store.ParameterByName(old); ok {
			result.Deprecated = append(result.Deprecated, DeprecatedName{
				CanonicalName: p.Name, DeprecatedName: old, Location: pv.Location,
			})
			reg.Store.RemoveParameterByName(old)
			if err := reg.Store.AddParameter(pv.Value, p.Metadata(), pv.Location); err != nil {
				continue
			}
			return pv.Location, true
		}
	}
	return location.Location{}, false
}

func (reg *Registry) needsStrictCheck(p *config.Param, pv *store.Parameter) bool {
	if p.CmdlineSwitch != "" && pv.Location.Source == model.CmdlineParam {
		return false
	}
	if pv.Location.Source == model.DefaultOptional {
		return false
	}
	if pv.Metadata.Incomplete || pv.Metadata.Legacy {
		return false
	}
	return true
}

func (reg *Registry) translateVersion(c *config.Config, result *Result) {
	translators := c.Translators()
	if len(translators) == 0 {
		return
	}
	verName := c.Prefix + ".avconfig2_class_version"
	pv, ok := reg.Store.ParameterByName(verName)
	if !ok {
		return
	}
	var stored model.SemVer
	if err := stored.UnmarshalText([]byte(pv.Value)); err != nil {
		result.ParseErrors = append(result.ParseErrors,
			fmt.Sprintf("%s: %v", verName, err))
		return
	}
	target := c.Version
	cmp := stored.Compare(target)
	if cmp == 0 {
		return
	}
	if cmp > 0 {
		mismatch := cerr.MismatchingSemVerError{target, stored}
		result.ParseErrors = append(result.ParseErrors,
			fmt.Sprintf("%s: %s", c.Prefix, cerr.Load(&mismatch).Error()))
		return
	}
	for i := stored.Major(); i < target.Major(); i++ {
		t, has := translators[i]
		if !has {
			result.ParseErrors = append(result.ParseErrors, fmt.Sprintf(
				"%s: no translator registered from version %d", c.Prefix, i,
			))
			return
		}
		if err := t(i); err != nil {
			result.ParseErrors = append(result.ParseErrors,
				fmt.Sprintf("%s: translation from version %d failed: %v", c.Prefix, i, err))
			return
		}
	}
	next := model.SemVer{target.Major(), 0, 0}
	reg.Store.RemoveParameterByName(verName)
	_ = reg.Store.AddParameter(next.String(), pv.Metadata, pv.Location)
	result.SaveRequired = true
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}
