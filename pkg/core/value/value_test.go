// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package value_test

import (
	"testing"

	"github.com/avibit/avconfig2/pkg/core/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		kind value.Kind
		raw  string
	}{
		{value.KindString, `"hello; world"`},
		{value.KindBool, "true"},
		{value.KindInt32, "-42"},
		{value.KindUint64, "18446744073709551615"},
		{value.KindFloat64, "3.5"},
		{value.KindDate, "2026-07-30"},
		{value.KindTime, "13:45:00"},
		{value.KindUUID, "f47ac10b-58cc-0372-8567-0e02b2c3d479"},
		{value.KindRegexp, "^a+b$"},
	}
	for _, c := range cases {
		t.Run(string(c.kind), func(t *testing.T) {
			parsed, err := value.FromString(c.kind, c.raw)
			require.NoError(t, err)
			out, err := value.ToString(c.kind, parsed)
			require.NoError(t, err)
			assert.Equal(t, c.raw, out)
		})
	}
}

func TestFromStringStringUnquotesBareToken(t *testing.T) {
	v, err := value.FromString(value.KindString, "bare")
	require.NoError(t, err)
	assert.Equal(t, "bare", v)
}

func TestToStringStringQuotesWhenNeeded(t *testing.T) {
	out, err := value.ToString(value.KindString, "has; semicolon")
	require.NoError(t, err)
	assert.Equal(t, `"has; semicolon"`, out)

	out, err = value.ToString(value.KindString, "bare")
	require.NoError(t, err)
	assert.Equal(t, "bare", out)
}

func TestListRoundTrip(t *testing.T) {
	parsed, err := value.FromString(value.KindList, "[1; 2; 3]")
	require.NoError(t, err)
	l, ok := parsed.(value.List)
	require.True(t, ok)
	assert.Equal(t, value.List{"1", "2", "3"}, l)

	out, err := value.ToString(value.KindList, l)
	require.NoError(t, err)
	assert.Equal(t, "[1; 2; 3]", out)
}

func TestMapRoundTrip(t *testing.T) {
	parsed, err := value.FromString(value.KindMap, "[a : 1; b : 2]")
	require.NoError(t, err)
	m, ok := parsed.(value.MapValue)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, m.Keys)
	assert.Equal(t, []string{"1", "2"}, m.Values)

	out, err := value.ToString(value.KindMap, m)
	require.NoError(t, err)
	assert.Equal(t, "[a : 1; b : 2]", out)
}

func TestSplitTopLevelIgnoresNestedSeparators(t *testing.T) {
	parts := value.SplitTopLevel(`a;"b;c";[d;e]`, ';')
	assert.Equal(t, []string{"a", `"b;c"`, "[d;e]"}, parts)
}

func TestTrimTopLevelDropsEmpties(t *testing.T) {
	parts := value.TrimTopLevel("a; ; b ;", ';')
	assert.Equal(t, []string{"a", "b"}, parts)
}

func TestQuoteUnquoteRoundTrip(t *testing.T) {
	s := `has "quotes" and \backslash`
	q := value.QuoteString(s)
	out, err := value.UnquoteString(q)
	require.NoError(t, err)
	assert.Equal(t, s, out)
}

func TestUnquoteStringRejectsBareToken(t *testing.T) {
	_, err := value.UnquoteString("bare")
	assert.Error(t, err)
}
