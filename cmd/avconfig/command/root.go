// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the avconfig
// operator CLI, organized using the cobra library.
//
//	avconfig dump     [-c path/to/config.cc]
//	avconfig save     [-c path/to/config.cc] [-o out.cc]
//	avconfig validate [-c path/to/config.cc]
//	avconfig version
package command

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avibit/avconfig2/pkg/adapter/envcfg"
	"github.com/avibit/avconfig2/pkg/adapter/legacy"
	"github.com/avibit/avconfig2/pkg/adapter/xmlcfg"
	"github.com/avibit/avconfig2/pkg/core/fact"
	"github.com/avibit/avconfig2/pkg/core/store"
	"github.com/spf13/cobra"

	"github.com/avibit/avconfig2/pkg/adapter/cstyle"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "avconfig",
	Short: "Operator front-end for the layered configuration engine",
	Long: `avconfig loads a cstyle, legacy, or XML configuration file,
runs fact filtering, inheritance expansion and reference resolution,
and exposes the resulting loaded-data store for inspection or
re-export. It is not the application whose parameters it loads; it is
the same engine an application links in, run standalone for
diagnostics.`,
}

// Execute runs the rootCmd, which parses CLI arguments and flags and
// dispatches to the most specific cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path (.cc, .cfg, or .xml)",
	)
	rootCmd.AddCommand(dumpCmd, saveCmd, validateCmd, versionCmd)
}

// loadStore builds a Store from the environment's additional facts and
// the config named by cfgPath (or located via AVCONFIG2_INITIAL_CONFIG_PATH
// / APP_HOME/config when cfgPath is empty). It does not resolve
// references.
func loadStore() (*store.Store, error) {
	facts, err := envcfg.AdditionalFacts()
	if err != nil {
		return nil, err
	}

	path := cfgPath
	if path == "" {
		name := os.Getenv("AVCONFIG2_CONFIG_NAME")
		if name == "" {
			name = "app"
		}
		path, err = envcfg.LocateConfig(
			name, envcfg.InitialSearchPath(), []string{".cc", ".cfg", ".xml"},
		)
		if err != nil {
			return nil, err
		}
	}

	s := store.New(fact.Map(facts))
	if err := importPath(path, s); err != nil {
		return nil, err
	}
	return s, nil
}

func importPath(path string, s *store.Store) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cc":
		return cstyle.Import(path, s)
	case ".cfg":
		return legacy.Import(path, s)
	case ".xml":
		return xmlcfg.Import(path, s)
	default:
		return fmt.Errorf("unrecognized config extension in %q", path)
	}
}
