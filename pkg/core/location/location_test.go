// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package location_test

import (
	"testing"

	"github.com/avibit/avconfig2/pkg/core/fact"
	"github.com/avibit/avconfig2/pkg/core/location"
	"github.com/avibit/avconfig2/pkg/core/model"
	"github.com/stretchr/testify/assert"
)

func TestNullIsNull(t *testing.T) {
	assert.True(t, location.Null.IsNull())
}

func TestIsNullFalseWhenAnyFieldSet(t *testing.T) {
	assert.False(t, location.Location{Name: "db.host"}.IsNull())
	assert.False(t, location.Location{Line: 3}.IsNull())
	assert.False(t, location.Location{InheritedParameterName: "base.host"}.IsNull())
}

func TestStringRendersDirNameLineAndSource(t *testing.T) {
	l := location.Location{
		Dir: "cfg", Name: "db.host", Line: 12, Source: model.FileOrdinary,
	}
	assert.Equal(t, "cfg/db.host:12 (FILE_ORDINARY)", l.String())
}

func TestStringRendersSyntheticWhenNoPath(t *testing.T) {
	l := location.Location{Source: model.DefaultOptional}
	assert.Equal(t, "<synthetic> (DEFAULT_OPTIONAL)", l.String())
}

func TestSatisfiedDelegatesToFactStack(t *testing.T) {
	l := location.Location{Facts: fact.Stack{fact.NewCondition("site", []string{"north"})}}
	assert.True(t, l.Satisfied(fact.Map{"site": "north"}))
	assert.False(t, l.Satisfied(fact.Map{"site": "south"}))
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "cstyle", location.FormatCstyle.String())
	assert.Equal(t, "xml", location.FormatXML.String())
	assert.Equal(t, "unknown", location.Format(99).String())
}
