// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

// engineVersion is the version of the configuration engine itself, as
// distinct from any loaded config's "#avconfig_version" class version.
const engineVersion = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the avconfig engine version",
	Long: `version stands in for the "-version" builtin switch: it
prints the engine's own version and exits without loading a config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "avconfig %s\n", engineVersion)
		return nil
	},
}
