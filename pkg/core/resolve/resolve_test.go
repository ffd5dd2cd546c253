// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package resolve_test

import (
	"testing"

	"github.com/avibit/avconfig2/pkg/core/fact"
	"github.com/avibit/avconfig2/pkg/core/location"
	"github.com/avibit/avconfig2/pkg/core/meta"
	"github.com/avibit/avconfig2/pkg/core/model"
	"github.com/avibit/avconfig2/pkg/core/resolve"
	"github.com/avibit/avconfig2/pkg/core/store"
	"github.com/avibit/avconfig2/pkg/core/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loc(name string) location.Location {
	return location.Location{Name: name, Source: model.FileOrdinary}
}

func TestRunResolvesBareIdentifierSugar(t *testing.T) {
	s := store.New(fact.Map{})
	md := meta.Metadata{Name: "app.title", Type: value.KindString, Incomplete: true}
	require.NoError(t, s.AddParameter(`"widget"`, md, loc("app.title")))

	refMd := meta.Metadata{Name: "app.window_title", Type: value.KindString, Incomplete: true}
	require.NoError(t, s.AddReference("app.title", refMd, loc("app.window_title")))

	diags := resolve.Run(s)
	assert.Empty(t, diags)

	p, ok := s.ParameterByName("app.window_title")
	require.True(t, ok)
	assert.Equal(t, "widget", p.Value)
	assert.Equal(t, model.ResolvedReference, p.Location.Source)
}

func TestRunConcatenatesMultipleParts(t *testing.T) {
	s := store.New(fact.Map{})
	require.NoError(t, s.AddParameter(`"left"`, meta.Metadata{Name: "a", Type: value.KindString, Incomplete: true}, loc("a")))
	require.NoError(t, s.AddParameter(`"right"`, meta.Metadata{Name: "b", Type: value.KindString, Incomplete: true}, loc("b")))

	refMd := meta.Metadata{Name: "c", Type: value.KindString, Incomplete: true}
	require.NoError(t, s.AddReference(`[$(a); "-"; $(b)]`, refMd, loc("c")))

	diags := resolve.Run(s)
	assert.Empty(t, diags)

	p, ok := s.ParameterByName("c")
	require.True(t, ok)
	assert.Equal(t, "left-right", p.Value)
}

func TestRunReportsMissingTarget(t *testing.T) {
	s := store.New(fact.Map{})
	refMd := meta.Metadata{Name: "c", Type: value.KindString, Incomplete: true}
	require.NoError(t, s.AddReference("nonexistent", refMd, loc("c")))

	diags := resolve.Run(s)
	require.Len(t, diags, 1)
	assert.Equal(t, "c", diags[0].Reference)
}

func TestRunReportsCycle(t *testing.T) {
	s := store.New(fact.Map{})
	require.NoError(t, s.AddReference("b", meta.Metadata{Name: "a", Type: value.KindString, Incomplete: true}, loc("a")))
	require.NoError(t, s.AddReference("a", meta.Metadata{Name: "b", Type: value.KindString, Incomplete: true}, loc("b")))

	diags := resolve.Run(s)
	assert.Len(t, diags, 2)
}
