// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avibit/avconfig2/pkg/adapter/cstyle"
	"github.com/avibit/avconfig2/pkg/core/resolve"
)

var (
	saveOut     string
	saveVersion int
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Load, resolve, and re-export a config in cstyle format",
	Long: `save stands in for the "-save" builtin switch: it loads the
config, runs the resolution fixpoint, and writes the resulting
namespace tree back out in cstyle format. When -o names the same path
that was loaded, the original file is preserved as "<path>.bak" first
(§6.5 "Saving never destroys the previous on-disk copy").`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadStore()
		if err != nil {
			return err
		}
		resolve.Run(s)

		out, err := cstyle.Export(s, saveVersion)
		if err != nil {
			return err
		}

		if saveOut == "" || saveOut == "-" {
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}
		if saveOut == cfgPath {
			if err := os.Rename(saveOut, saveOut+".bak"); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("backing up %s: %w", saveOut, err)
			}
		}
		return os.WriteFile(saveOut, []byte(out), 0o644)
	},
}

func init() {
	saveCmd.Flags().StringVarP(&saveOut, "out", "o", "", "output path (default: stdout)")
	saveCmd.Flags().IntVar(&saveVersion, "avconfig-version", 2, "#avconfig_version to emit")
}
