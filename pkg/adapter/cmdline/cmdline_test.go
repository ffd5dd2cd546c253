// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cmdline_test

import (
	"testing"

	"github.com/avibit/avconfig2/pkg/adapter/cmdline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverridesAndSwitches(t *testing.T) {
	r, err := cmdline.Parse([]string{
		"--db.host", "localhost", "-debug", "3", "-coldstart", "--",
		"extra1", "extra2",
	})
	require.NoError(t, err)
	assert.Equal(t, "localhost", r.Overrides["db.host"])
	assert.Equal(t, "3", r.Builtins["debug"])
	_, hasColdstart := r.Builtins["coldstart"]
	assert.True(t, hasColdstart)
	assert.Equal(t, []string{"extra1", "extra2"}, r.Extra)
}

func TestParseValuelessSwitchBeforeAnotherSwitch(t *testing.T) {
	r, err := cmdline.Parse([]string{"-help", "-version"})
	require.NoError(t, err)
	_, hasHelp := r.Builtins["help"]
	assert.True(t, hasHelp)
	assert.Equal(t, "", r.Builtins["help"])
	_, hasVersion := r.Builtins["version"]
	assert.True(t, hasVersion)
}

func TestParseRegisteredSwitchTakesOptionalValue(t *testing.T) {
	r, err := cmdline.Parse([]string{"-port", "9090"})
	require.NoError(t, err)
	assert.Equal(t, "9090", r.Switches["port"])
}

func TestParseConflictingOverrideIsFatal(t *testing.T) {
	_, err := cmdline.Parse([]string{"--db.host", "a", "--db.host", "b"})
	assert.Error(t, err)
}

func TestParseConflictingSwitchIsFatal(t *testing.T) {
	_, err := cmdline.Parse([]string{"-port", "1", "-port", "2"})
	assert.Error(t, err)
}

func TestParseValueTakingBuiltinRequiresValue(t *testing.T) {
	_, err := cmdline.Parse([]string{"-cfgdir"})
	assert.Error(t, err)
}
