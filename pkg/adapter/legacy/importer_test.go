// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package legacy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avibit/avconfig2/pkg/adapter/legacy"
	"github.com/avibit/avconfig2/pkg/core/fact"
	"github.com/avibit/avconfig2/pkg/core/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `; a comment line
# another comment style

host=localhost

[database]
port=5432
name=widgets

`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.cfg")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func TestImportReadsSectionlessAndSectionedKeys(t *testing.T) {
	path := writeSample(t)
	s := store.New(fact.Map{})
	require.NoError(t, legacy.Import(path, s))

	top, ok := s.ParameterByName("host")
	require.True(t, ok)
	assert.Equal(t, "localhost", top.Value)
	assert.True(t, top.Metadata.Legacy)

	port, ok := s.ParameterByName("database.port")
	require.True(t, ok)
	assert.Equal(t, "5432", port.Value)

	name, ok := s.ParameterByName("database.name")
	require.True(t, ok)
	assert.Equal(t, "widgets", name.Value)
}

func TestImportRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.cfg")
	require.NoError(t, os.WriteFile(path, []byte("not-a-key-value-line\n"), 0o644))

	s := store.New(fact.Map{})
	assert.Error(t, legacy.Import(path, s))
}

func TestImportSkipsCommentsAndBlankLines(t *testing.T) {
	path := writeSample(t)
	s := store.New(fact.Map{})
	require.NoError(t, legacy.Import(path, s))
	assert.Equal(t, 3, s.TotalCount())
}
