// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package store_test

import (
	"testing"

	"github.com/avibit/avconfig2/pkg/core/fact"
	"github.com/avibit/avconfig2/pkg/core/location"
	"github.com/avibit/avconfig2/pkg/core/meta"
	"github.com/avibit/avconfig2/pkg/core/model"
	"github.com/avibit/avconfig2/pkg/core/store"
	"github.com/avibit/avconfig2/pkg/core/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ordinaryLoc(name string) location.Location {
	return location.Location{Dir: "cfg", Name: name, Format: location.FormatCstyle, Source: model.FileOrdinary}
}

func TestAddParameterFirstInsertion(t *testing.T) {
	s := store.New(fact.Map{})
	md := meta.Metadata{Name: "db.host", Type: value.KindString}
	require.NoError(t, s.AddParameter(`"localhost"`, md, ordinaryLoc("db.host")))

	p, ok := s.ParameterByName("db.host")
	require.True(t, ok)
	assert.Equal(t, `"localhost"`, p.Value)
	assert.Equal(t, model.FileOrdinary, p.Location.Source)
}

func TestAddParameterDevOverrideThenOrdinaryKeepsOverrideValue(t *testing.T) {
	s := store.New(fact.Map{})
	overrideLoc := ordinaryLoc("db.host")
	overrideLoc.Source = model.FileDevOverride
	require.NoError(t, s.AddParameter(`"override-host"`, meta.Metadata{Name: "db.host", Type: value.KindString, Incomplete: true}, overrideLoc))

	md := meta.Metadata{Name: "db.host", Type: value.KindString, Help: "database host"}
	require.NoError(t, s.AddParameter(`"localhost"`, md, ordinaryLoc("db.host")))

	p, ok := s.ParameterByName("db.host")
	require.True(t, ok)
	assert.Equal(t, `"override-host"`, p.Value, "the dev-override's value must remain current")
	assert.True(t, p.HasOverride)
	assert.Equal(t, `"localhost"`, p.OverrideValue, "the file declaration is kept as an annotation")
	assert.Equal(t, "database host", p.Metadata.Help, "metadata is backfilled from the file declaration")
}

func TestAddParameterDuplicateOrdinaryIsRecorded(t *testing.T) {
	s := store.New(fact.Map{})
	md := meta.Metadata{Name: "db.host", Type: value.KindString}
	require.NoError(t, s.AddParameter(`"first"`, md, ordinaryLoc("db.host")))
	require.NoError(t, s.AddParameter(`"second"`, md, ordinaryLoc("db.host")))

	dups := s.Duplicates()
	require.Len(t, dups, 1)
	assert.Equal(t, "db.host", dups[0].Name)

	p, _ := s.ParameterByName("db.host")
	assert.Equal(t, `"first"`, p.Value, "the first declaration wins; the second is only recorded")
}

func TestAddParameterCmdlineSwitchWins(t *testing.T) {
	s := store.New(fact.Map{})
	s.SetCmdlineSwitches(map[string]string{"port": "9090"})

	md := meta.Metadata{Name: "db.port", Type: value.KindInt32, CmdlineSwitch: "port"}
	require.NoError(t, s.AddParameter("5432", md, ordinaryLoc("db.port")))

	p, ok := s.ParameterByName("db.port")
	require.True(t, ok)
	assert.Equal(t, "9090", p.Value)
	assert.Equal(t, model.CmdlineParam, p.Location.Source)
	assert.True(t, p.HasOverride)
	assert.Equal(t, "5432", p.OverrideValue, "the file value survives as an override annotation")
}

func TestAddOverrideBeforeDeclarationInstallsIncompleteParameter(t *testing.T) {
	s := store.New(fact.Map{})
	loc := location.Location{Name: "db.host", Source: model.FileDevOverride}
	require.NoError(t, s.AddOverride(`"over"`, loc))

	p, ok := s.ParameterByName("db.host")
	require.True(t, ok)
	assert.True(t, p.Metadata.Incomplete)
	assert.Equal(t, `"over"`, p.Value)
}

func TestAddInheritedSectionCopiesUnderChildPrefix(t *testing.T) {
	s := store.New(fact.Map{})
	md := meta.Metadata{Name: "base.timeout", Type: value.KindInt32}
	require.NoError(t, s.AddParameter("30", md, ordinaryLoc("base.timeout")))

	require.NoError(t, s.AddInheritedSection("base", "child", ordinaryLoc("child")))

	p, ok := s.ParameterByName("child.timeout")
	require.True(t, ok)
	assert.Equal(t, "30", p.Value)
	assert.Equal(t, model.InheritedParameter, p.Location.Source)
	assert.Equal(t, "base.timeout", p.Location.InheritedParameterName)
}

func TestAddInheritedSectionMissingParentFails(t *testing.T) {
	s := store.New(fact.Map{})
	err := s.AddInheritedSection("missing", "child", ordinaryLoc("child"))
	assert.Error(t, err)
}

func TestMapNameIdentityIsNotExported(t *testing.T) {
	s := store.New(fact.Map{})
	dir, name := s.MapName("unmapped")
	assert.Equal(t, "", dir)
	assert.Equal(t, "unmapped", name)
	assert.Empty(t, s.Mappings(), "identity mappings must not be re-exported")
}

func TestAddMappingIsExported(t *testing.T) {
	s := store.New(fact.Map{})
	s.AddMapping("alias", "otherdir", "realname", ordinaryLoc("alias"))
	dir, name := s.MapName("alias")
	assert.Equal(t, "otherdir", dir)
	assert.Equal(t, "realname", name)
	assert.Len(t, s.Mappings(), 1)
}

func TestSubconfigNamesCollectsDistinctChildren(t *testing.T) {
	s := store.New(fact.Map{})
	require.NoError(t, s.AddParameter("1", meta.Metadata{Name: "workers.w1.count", Type: value.KindInt32}, ordinaryLoc("workers.w1.count")))
	require.NoError(t, s.AddParameter("2", meta.Metadata{Name: "workers.w2.count", Type: value.KindInt32}, ordinaryLoc("workers.w2.count")))
	require.NoError(t, s.AddParameter("3", meta.Metadata{Name: "workers.w1.retries", Type: value.KindInt32}, ordinaryLoc("workers.w1.retries")))

	names := s.SubconfigNames("workers")
	assert.ElementsMatch(t, []string{"w1", "w2"}, names)
}

func TestFactConditionSkipsUnsatisfiedElement(t *testing.T) {
	facts := fact.Map{}
	require.NoError(t, facts.Set("site", "north"))
	s := store.New(facts)

	loc := ordinaryLoc("db.host")
	loc.Facts = fact.Stack{fact.NewCondition("site", []string{"south"})}
	require.NoError(t, s.AddParameter(`"x"`, meta.Metadata{Name: "db.host", Type: value.KindString}, loc))

	_, ok := s.ParameterByName("db.host")
	assert.False(t, ok, "an element whose fact condition is unsatisfied must not be installed")
}
