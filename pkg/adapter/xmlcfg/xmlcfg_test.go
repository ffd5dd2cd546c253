// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package xmlcfg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avibit/avconfig2/pkg/adapter/xmlcfg"
	"github.com/avibit/avconfig2/pkg/core/fact"
	"github.com/avibit/avconfig2/pkg/core/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<avconfig2>
  <parameter name="db.host" type="string" value="localhost" help="database host" suggested="localhost"/>
  <parameter name="db.port" type="int32" value="5432"/>
</avconfig2>
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.xml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func TestImportParsesParameterAttributes(t *testing.T) {
	path := writeSample(t)
	s := store.New(fact.Map{})
	require.NoError(t, xmlcfg.Import(path, s))

	p, ok := s.ParameterByName("db.host")
	require.True(t, ok)
	assert.Equal(t, "localhost", p.Value)
	assert.Equal(t, "database host", p.Metadata.Help)
	assert.Equal(t, "localhost", p.Metadata.Suggested)

	port, ok := s.ParameterByName("db.port")
	require.True(t, ok)
	assert.Equal(t, "5432", port.Value)
}

func TestExportRoundTripsThroughImport(t *testing.T) {
	path := writeSample(t)
	s := store.New(fact.Map{})
	require.NoError(t, xmlcfg.Import(path, s))

	out, err := xmlcfg.Export(s)
	require.NoError(t, err)
	assert.Contains(t, out, `name="db.host"`)
	assert.Contains(t, out, `value="localhost"`)
	assert.Contains(t, out, `name="db.port"`)

	dir := t.TempDir()
	reExportedPath := filepath.Join(dir, "reexported.xml")
	require.NoError(t, os.WriteFile(reExportedPath, []byte(out), 0o644))

	reimported := store.New(fact.Map{})
	require.NoError(t, xmlcfg.Import(reExportedPath, reimported))
	p, ok := reimported.ParameterByName("db.host")
	require.True(t, ok)
	assert.Equal(t, "localhost", p.Value)
}
