// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avibit/avconfig2/pkg/adapter/envcfg"
	"github.com/avibit/avconfig2/pkg/core/refresh"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load a config and report resolution and duplicate diagnostics",
	Long: `validate runs the resolution fixpoint and an empty refresh
pass (no registered parameters of its own, since this CLI is the
engine run standalone rather than a linked application) and reports
every diagnostic the store accumulated: duplicate declarations and
unresolved references. Exit status is non-zero when the active
checking mode (AVCONFIG2_NO_STRICT_CHECKING) would treat any of them as
fatal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadStore()
		if err != nil {
			return err
		}
		mode, err := envcfg.CheckingMode()
		if err != nil {
			return err
		}

		reg := refresh.NewRegistry(s, mode)
		result := reg.RefreshAll()

		for _, d := range s.Duplicates() {
			fmt.Fprintf(cmd.OutOrStdout(), "duplicate %s: %s shadowed by %s\n",
				d.Name, d.Existing.Source, d.Incoming.Source)
		}
		for _, u := range result.UnresolvedRefs {
			fmt.Fprintf(cmd.OutOrStdout(), "unresolved reference %s: %s\n", u.Reference, u.Reason)
		}
		for _, dep := range result.Deprecated {
			fmt.Fprintf(cmd.OutOrStdout(), "deprecated name %s used for %s\n", dep.DeprecatedName, dep.CanonicalName)
		}

		if result.HasFatal(mode) {
			fmt.Fprintln(cmd.ErrOrStderr(), "validation failed under CM_STRICT")
			os.Exit(1)
		}
		return nil
	},
}
