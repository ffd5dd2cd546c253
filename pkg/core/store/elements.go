// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package store

import (
	"github.com/avibit/avconfig2/pkg/core/location"
	"github.com/avibit/avconfig2/pkg/core/meta"
)

// Parameter is (name, value, metadata, location), plus an optional
// override value/source/location retained so the exporter can
// reproduce both the current value and any shadowed override.
type Parameter struct {
	Name     string
	Value    string
	Metadata meta.Metadata
	Location location.Location

	HasOverride    bool
	OverrideValue  string
	OverrideSource location.Location
}

// Reference is (name, reference expression, metadata, location). Its
// Resolved flag is set once the resolution engine has installed a
// matching Parameter of source model.ResolvedReference.
type Reference struct {
	Name     string
	Expr     string
	Metadata meta.Metadata
	Location location.Location
	Resolved bool
}

// Override is (name, value, location): a value provided outside a
// namespace declaration (dev overlay file, cmdline "--") that takes
// effect only once a canonical declaration supplies the rest of the
// schema.
type Override struct {
	Name     string
	Value    string
	Location location.Location
}

// Include is (included name, location).
type Include struct {
	Name     string
	Location location.Location
}

// SearchPath is (path, location).
type SearchPath struct {
	Path     string
	Location location.Location
}

// Mapping is (from, mapped dir, mapped name, location). Identity
// mappings (From == MappedName and MappedDir == "") are recorded but
// carry location.Null so they are never re-emitted by the exporter.
type Mapping struct {
	From       string
	MappedDir  string
	MappedName string
	Location   location.Location
}

// Define is (fact name, fact value, location).
type Define struct {
	FactName  string
	FactValue string
	Location  location.Location
}

// Inheritance is (parent section, child section, location).
type Inheritance struct {
	Parent   string
	Child    string
	Location location.Location
}

// SubconfigTemplate is a parameter reserved for template expansion: it
// participates in export but never in registered-parameter refresh.
type SubconfigTemplate struct {
	Name     string
	Value    string
	Metadata meta.Metadata
	Location location.Location
}
