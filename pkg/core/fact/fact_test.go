// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fact_test

import (
	"testing"

	"github.com/avibit/avconfig2/pkg/core/fact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSetRejectsEmptyValue(t *testing.T) {
	m := fact.Map{}
	assert.Error(t, m.Set("site", ""))
}

func TestMapSetRejectsRedefinition(t *testing.T) {
	m := fact.Map{}
	require.NoError(t, m.Set("site", "north"))
	assert.Error(t, m.Set("site", "south"))
}

func TestConditionSatisfiedRequiresAllowedValue(t *testing.T) {
	c := fact.NewCondition("site", []string{"north", "south"})
	assert.True(t, c.Satisfied(fact.Map{"site": "north"}))
	assert.False(t, c.Satisfied(fact.Map{"site": "east"}))
	assert.False(t, c.Satisfied(fact.Map{}))
}

func TestStackPushRejectsDuplicateFactName(t *testing.T) {
	s := fact.Stack{fact.NewCondition("site", []string{"north"})}
	_, err := s.Push(fact.NewCondition("site", []string{"south"}))
	assert.Error(t, err)
}

func TestStackSatisfiedRequiresEveryCondition(t *testing.T) {
	s, err := fact.Stack{}.Push(fact.NewCondition("site", []string{"north"}))
	require.NoError(t, err)
	s, err = s.Push(fact.NewCondition("role", []string{"primary"}))
	require.NoError(t, err)

	assert.True(t, s.Satisfied(fact.Map{"site": "north", "role": "primary"}))
	assert.False(t, s.Satisfied(fact.Map{"site": "north", "role": "backup"}))
}

func TestStackSatisfiedVacuouslyTrueWhenEmpty(t *testing.T) {
	var s fact.Stack
	assert.True(t, s.Satisfied(fact.Map{}))
}

func TestStackCloneIsIndependent(t *testing.T) {
	s := fact.Stack{fact.NewCondition("site", []string{"north"})}
	clone := s.Clone()
	clone[0] = fact.NewCondition("site", []string{"south"})
	assert.True(t, s[0].Satisfied(fact.Map{"site": "north"}))
	assert.False(t, clone[0].Satisfied(fact.Map{"site": "north"}))
}
