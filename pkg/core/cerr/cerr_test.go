// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr_test

import (
	"errors"
	"testing"

	"github.com/avibit/avconfig2/pkg/core/cerr"
	"github.com/avibit/avconfig2/pkg/core/model"
	"github.com/stretchr/testify/assert"
)

func TestErrorCategorizesAndFormats(t *testing.T) {
	inner := errors.New("unbalanced #if")
	err := cerr.Ingest(inner)
	assert.Equal(t, "[ingest-fatal] unbalanced #if", err.Error())
	assert.Same(t, inner, errors.Unwrap(err))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "ingest-fatal", cerr.IngestFatal.String())
	assert.Equal(t, "load-time", cerr.LoadTime.String())
	assert.Equal(t, "runtime", cerr.Runtime.String())
	assert.Equal(t, "programmer", cerr.Programmer.String())
}

func TestMismatchingSemVerError(t *testing.T) {
	msve := cerr.MismatchingSemVerError{
		model.SemVer{2, 0, 0}, model.SemVer{3, 0, 0},
	}
	assert.Equal(t, "expected v2.0.0, but got v3.0.0", msve.Error())

	wrapped := cerr.Load(&msve)
	assert.Equal(t, cerr.LoadTime, wrapped.Category)
}
