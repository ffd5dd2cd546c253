// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package envcfg implements the environment surface (§6.4): the
// checking-mode selector, the initial-config search path, additional
// process facts, and APP_HOME/config-driven config location.
package envcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avibit/avconfig2/pkg/core/fact"
	"github.com/avibit/avconfig2/pkg/core/model"
	"github.com/avibit/avconfig2/pkg/core/value"
)

// CheckingMode reads AVCONFIG2_NO_STRICT_CHECKING, delegating to
// model.CheckingModeFromEnv.
func CheckingMode() (model.CheckingMode, error) {
	return model.CheckingModeFromEnv()
}

// InitialSearchPath reads AVCONFIG2_INITIAL_CONFIG_PATH, a
// colon-separated list of directories, returning nil when unset.
func InitialSearchPath() []string {
	v, ok := os.LookupEnv("AVCONFIG2_INITIAL_CONFIG_PATH")
	if !ok || v == "" {
		return nil
	}
	return strings.Split(v, ":")
}

// AdditionalFacts reads AVCONFIG2_ADD_FACTS, parsing it as a universal
// "[k1 : v1; k2 : v2; ...]" map literal (§6.3), and returns the facts
// it names.
func AdditionalFacts() (fact.Map, error) {
	v, ok := os.LookupEnv("AVCONFIG2_ADD_FACTS")
	if !ok || v == "" {
		return fact.Map{}, nil
	}
	parsed, err := value.FromString(value.KindMap, v)
	if err != nil {
		return nil, fmt.Errorf("AVCONFIG2_ADD_FACTS: %w", err)
	}
	mv := parsed.(value.MapValue)
	m := fact.Map{}
	for i, k := range mv.Keys {
		if err := m.Set(k, mv.Values[i]); err != nil {
			return nil, fmt.Errorf("AVCONFIG2_ADD_FACTS: %w", err)
		}
	}
	return m, nil
}

// LocateConfig searches searchPaths, then APP_HOME/config, for a file
// named name+ext (one of ".cc", ".cfg", ".xml"), returning the first
// match.
func LocateConfig(name string, searchPaths []string, exts []string) (string, error) {
	candidates := append([]string{}, searchPaths...)
	if home, ok := os.LookupEnv("APP_HOME"); ok {
		candidates = append(candidates, filepath.Join(home, "config"))
	}
	for _, dir := range candidates {
		for _, ext := range exts {
			p := filepath.Join(dir, name+ext)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("config %q not found in any search path", name)
}
