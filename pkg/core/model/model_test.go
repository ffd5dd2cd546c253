// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"

	"github.com/avibit/avconfig2/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceClassPrecedenceOrdering(t *testing.T) {
	ordered := []model.SourceClass{
		model.DefaultPure, model.DefaultOptional, model.InheritedParameter,
		model.ResolvedReference, model.FileOrdinary, model.FileDevOverride,
		model.CmdlineOverride, model.CmdlineParam,
	}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, int(ordered[i]), int(ordered[i-1]))
	}
}

func TestSourceClassZeroValueIsInvalid(t *testing.T) {
	var zero model.SourceClass
	assert.Equal(t, "UNKNOWN_SOURCE_CLASS", zero.String())
	assert.NotEqual(t, model.DefaultPure, zero)
}

func TestSourceClassString(t *testing.T) {
	assert.Equal(t, "FILE_ORDINARY", model.FileOrdinary.String())
	assert.Equal(t, "CMDLINE_PARAM", model.CmdlineParam.String())
}

func TestSourceClassOverridable(t *testing.T) {
	assert.True(t, model.CmdlineParam.Overridable())
	assert.True(t, model.FileDevOverride.Overridable())
	assert.True(t, model.InheritedParameter.Overridable())
	assert.False(t, model.FileOrdinary.Overridable())
	assert.False(t, model.ResolvedReference.Overridable())
}

func TestCheckingModeString(t *testing.T) {
	assert.Equal(t, "strict", model.CMStrict.String())
	assert.Equal(t, "lenient", model.CMLenient.String())
	assert.Equal(t, "autosave", model.CMAutosave.String())
}

func TestSemVerRoundTripsThroughText(t *testing.T) {
	var v model.SemVer
	require.NoError(t, v.UnmarshalText([]byte("2.1.0")))
	assert.Equal(t, model.SemVer{2, 1, 0}, v)
	assert.Equal(t, "2.1.0", v.String())

	out, err := v.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", string(out))
}

func TestSemVerCompare(t *testing.T) {
	older := model.SemVer{1, 0, 0}
	newer := model.SemVer{2, 0, 0}
	assert.Negative(t, older.Compare(newer))
	assert.Positive(t, newer.Compare(older))
	assert.Zero(t, older.Compare(model.SemVer{1, 0, 0}))
}

func TestSemVerMajor(t *testing.T) {
	assert.Equal(t, uint(3), model.SemVer{3, 2, 1}.Major())
}
