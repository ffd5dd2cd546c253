// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package meta_test

import (
	"testing"

	"github.com/avibit/avconfig2/pkg/core/meta"
	"github.com/avibit/avconfig2/pkg/core/value"
	"github.com/stretchr/testify/assert"
)

func TestRelaxedEquivalentIgnoresHelpAndDefaults(t *testing.T) {
	a := meta.Metadata{Name: "db.host", Type: value.KindString, Help: "one"}
	b := meta.Metadata{Name: "db.host", Type: value.KindString, Help: "two"}
	assert.True(t, a.RelaxedEquivalent(b))
}

func TestRelaxedEquivalentRequiresSameTypeAndName(t *testing.T) {
	a := meta.Metadata{Name: "db.host", Type: value.KindString}
	b := meta.Metadata{Name: "db.host", Type: value.KindInt32}
	assert.False(t, a.RelaxedEquivalent(b))

	c := meta.Metadata{Name: "db.port", Type: value.KindString}
	assert.False(t, a.RelaxedEquivalent(c))
}

func TestStrictEquivalentRequiresMatchingSchema(t *testing.T) {
	a := meta.Metadata{
		Name: "db.host", Type: value.KindString, Help: "database host",
		Suggested: `"localhost"`, Optional: true, CmdlineSwitch: "host",
	}
	b := a
	assert.True(t, a.StrictEquivalent(b))

	b.Help = "a different help string"
	assert.False(t, a.StrictEquivalent(b))
}

func TestStrictEquivalentComparesRestrictionText(t *testing.T) {
	a := meta.Metadata{
		Name: "db.port", Type: value.KindInt32,
		Restriction: &meta.Restriction{Kind: meta.RestrictRange, Min: 1, Max: 10},
	}
	b := meta.Metadata{
		Name: "db.port", Type: value.KindInt32,
		Restriction: &meta.Restriction{Kind: meta.RestrictRange, Min: 1, Max: 20},
	}
	assert.False(t, a.StrictEquivalent(b))

	b.Restriction.Max = 10
	assert.True(t, a.StrictEquivalent(b))
}

func TestRestrictionCheckRange(t *testing.T) {
	r := &meta.Restriction{Kind: meta.RestrictRange, Min: 1024, Max: 65535}
	assert.NoError(t, r.Check("5432", 5432, true))
	assert.Error(t, r.Check("80", 80, true))
	assert.Error(t, r.Check("x", 0, false))
}

func TestRestrictionCheckEnum(t *testing.T) {
	r := &meta.Restriction{Kind: meta.RestrictEnum, Enum: []string{"north", "south"}}
	assert.NoError(t, r.Check("north", 0, false))
	assert.Error(t, r.Check("east", 0, false))
}

func TestRestrictionCheckRegex(t *testing.T) {
	r := &meta.Restriction{Kind: meta.RestrictRegex, Pattern: `^[a-z]+$`}
	assert.NoError(t, r.Check("widget", 0, false))
	assert.Error(t, r.Check("Widget1", 0, false))
}

func TestRestrictionCheckRegexAllowsEmptyMatch(t *testing.T) {
	r := &meta.Restriction{Kind: meta.RestrictRegex, Pattern: `^.*$`}
	assert.NoError(t, r.Check("", 0, false))
}

func TestRestrictionCheckNilIsAlwaysSatisfied(t *testing.T) {
	var r *meta.Restriction
	assert.NoError(t, r.Check("anything", 0, false))
}

func TestRestrictionString(t *testing.T) {
	assert.Equal(t, "none", (&meta.Restriction{}).String())
	assert.Equal(t, "range[1,10]", (&meta.Restriction{Kind: meta.RestrictRange, Min: 1, Max: 10}).String())
	var nilR *meta.Restriction
	assert.Equal(t, "", nilR.String())
}
