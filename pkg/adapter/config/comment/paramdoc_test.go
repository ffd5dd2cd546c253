// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package comment_test

import (
	"testing"

	"github.com/avibit/avconfig2/pkg/adapter/config/comment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentedYAMLGraftsHelpAsHeadComments(t *testing.T) {
	out, err := comment.DocumentedYAML([]comment.Entry{
		{Name: "db.host", Value: "localhost", Help: "database host name"},
		{Name: "db.port", Value: "5432", Help: ""},
	})
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "# database host name")
	assert.Contains(t, text, "db.host: localhost")
	assert.Contains(t, text, "db.port: 5432")
}

func TestDocumentedYAMLEmptyEntriesProducesEmptyMapping(t *testing.T) {
	out, err := comment.DocumentedYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(out))
}
