// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config implements the registered-parameter side of a config
// object: the typed variables an application registers against a
// fully-qualified namespace prefix, plus the registered subconfig
// prefixes that spawn child config objects once matching loaded data
// appears (§4.6 of the specification this engine implements).
package config

import (
	"github.com/avibit/avconfig2/pkg/core/meta"
	"github.com/avibit/avconfig2/pkg/core/model"
	"github.com/avibit/avconfig2/pkg/core/value"
)

// Param is one registered typed variable: its fully-qualified name,
// type, schema, and (after a successful refresh) its parsed value.
type Param struct {
	Name          string
	Type          value.Kind
	Help          string
	Suggested     string
	SuggestedRef  string
	Optional      bool
	CmdlineSwitch string
	Restriction   *meta.Restriction
	Comment       string

	// DeprecatedNames lists earlier fully-qualified names this
	// parameter was known by, most-recently-deprecated first, checked
	// in order when the canonical name is missing from the store.
	DeprecatedNames []string

	// Value holds the last successfully parsed value, valid only once
	// Parsed is true.
	Value  any
	Parsed bool
}

// Metadata renders p's schema as a meta.Metadata value, the form the
// loaded-data store and resolution engine reason about.
func (p *Param) Metadata() meta.Metadata {
	return meta.Metadata{
		Name: p.Name, Type: p.Type, Help: p.Help, Suggested: p.Suggested,
		SuggestedRef: p.SuggestedRef, Optional: p.Optional,
		CmdlineSwitch: p.CmdlineSwitch, Restriction: p.Restriction,
		Comment: p.Comment,
	}
}

// Translator upgrades a persisted config from version i to i+1,
// mutating loaded values in place as required. It returns an error to
// abort version translation fatally.
type Translator func(i uint) error

// Config is a registered config object: a namespace prefix, its
// registered parameters, the subconfig prefixes it may spawn children
// under, and (optionally) a declared schema version subject to
// translate-to-next-version migration (§4.6 "Version translation").
type Config struct {
	Prefix  string
	Version model.SemVer

	params           []*Param
	subconfigFactory map[string]func(name string) *Config
	translators      map[uint]Translator
	children         []*Config

	// PostRefresh, if set, is invoked once per fixpoint round; see
	// PostRefreshFunc.
	PostRefresh PostRefreshFunc
}

// New constructs a Config rooted at prefix.
func New(prefix string) *Config {
	return &Config{
		Prefix:           prefix,
		subconfigFactory: make(map[string]func(name string) *Config),
		translators:      make(map[uint]Translator),
	}
}

// Register adds a registered parameter named c.Prefix+"."+name.
func (c *Config) Register(name string, kind value.Kind, help string) *Param {
	p := &Param{Name: c.Prefix + "." + name, Type: kind, Help: help}
	c.params = append(c.params, p)
	return p
}

// RegisterSubconfig declares that names of the form
// c.Prefix+".prefix.N.*" should spawn a child Config via factory for
// each distinct second-level name N found in the store. An empty
// prefix matches names of the form c.Prefix+".N.*".
func (c *Config) RegisterSubconfig(prefix string, factory func(name string) *Config) {
	key := c.Prefix
	if prefix != "" {
		key += "." + prefix
	}
	c.subconfigFactory[key] = factory
}

// RegisterTranslator installs the migration step from version i to
// i+1.
func (c *Config) RegisterTranslator(i uint, t Translator) {
	c.translators[i] = t
}

// Params returns the registered parameters of c.
func (c *Config) Params() []*Param {
	return c.params
}

// Children returns the subconfig objects instantiated so far.
func (c *Config) Children() []*Config {
	return c.children
}

// AddChild records a freshly instantiated subconfig.
func (c *Config) AddChild(child *Config) {
	c.children = append(c.children, child)
}

// SubconfigFactories returns the registered subconfig prefix ->
// factory map.
func (c *Config) SubconfigFactories() map[string]func(name string) *Config {
	return c.subconfigFactory
}

// Translators returns the registered version -> translator map.
func (c *Config) Translators() map[uint]Translator {
	return c.translators
}

// PostRefreshFunc, if set, is invoked once per fixpoint round after
// every pending config (including c) has completed a refresh pass
// (§4.8's "scheduler-like post-refresh fixpoint"). It may register
// further subconfigs or parameters in response to newly-refreshed
// sibling state; the engine keeps iterating while any round creates
// new pending configs.
type PostRefreshFunc func(c *Config)
