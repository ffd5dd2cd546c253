// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config_test

import (
	"testing"

	"github.com/avibit/avconfig2/pkg/core/config"
	"github.com/avibit/avconfig2/pkg/core/model"
	"github.com/avibit/avconfig2/pkg/core/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterQualifiesNameWithPrefix(t *testing.T) {
	c := config.New("db")
	p := c.Register("host", value.KindString, "database host")
	assert.Equal(t, "db.host", p.Name)
	require.Len(t, c.Params(), 1)
	assert.Same(t, p, c.Params()[0])
}

func TestParamMetadataRendersRegisteredSchema(t *testing.T) {
	c := config.New("db")
	p := c.Register("port", value.KindInt32, "listening port")
	p.Optional = true
	p.Suggested = "5432"
	p.CmdlineSwitch = "port"

	md := p.Metadata()
	assert.Equal(t, "db.port", md.Name)
	assert.Equal(t, value.KindInt32, md.Type)
	assert.Equal(t, "listening port", md.Help)
	assert.True(t, md.Optional)
	assert.Equal(t, "5432", md.Suggested)
	assert.Equal(t, "port", md.CmdlineSwitch)
}

func TestRegisterSubconfigQualifiesPrefixWithParent(t *testing.T) {
	c := config.New("workers")
	c.RegisterSubconfig("pool", func(name string) *config.Config {
		return config.New("workers.pool." + name)
	})

	factories := c.SubconfigFactories()
	_, ok := factories["workers.pool"]
	require.True(t, ok)
}

func TestAddChildRecordsInstantiatedSubconfig(t *testing.T) {
	parent := config.New("workers")
	child := config.New("workers.w1")
	parent.AddChild(child)

	require.Len(t, parent.Children(), 1)
	assert.Same(t, child, parent.Children()[0])
}

func TestRegisterTranslatorIsKeyedByFromVersion(t *testing.T) {
	c := config.New("db")
	c.Version = model.SemVer{2, 0, 0}
	c.RegisterTranslator(1, func(i uint) error { return nil })

	translators := c.Translators()
	_, ok := translators[1]
	assert.True(t, ok)
	_, hasTwo := translators[2]
	assert.False(t, hasTwo)
}
