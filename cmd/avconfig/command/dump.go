// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"
	"sort"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/avibit/avconfig2/pkg/adapter/config/comment"
	"github.com/avibit/avconfig2/pkg/core/resolve"
)

var dumpFormat string

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Load and resolve a config, printing the resulting parameters",
	Long: `dump stands in for the "-dump_config" builtin switch: it loads
the config, runs the resolution fixpoint, and prints every
non-incomplete parameter's current value, as plain text, JSON, or as a
YAML mapping with each parameter's help text as a head-comment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadStore()
		if err != nil {
			return err
		}
		diags := resolve.Run(s)
		for _, d := range diags {
			fmt.Fprintf(cmd.ErrOrStderr(), "unresolved reference %s: %s\n", d.Reference, d.Reason)
		}

		names := s.ParameterNames()
		sort.Strings(names)

		switch dumpFormat {
		case "json":
			type entry struct {
				Name  string `json:"name"`
				Type  string `json:"type"`
				Value string `json:"value"`
			}
			var entries []entry
			for _, name := range names {
				p, _ := s.ParameterByName(name)
				if p.Metadata.Incomplete {
					continue
				}
				entries = append(entries, entry{Name: p.Name, Type: string(p.Metadata.Type), Value: p.Value})
			}
			out, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
		case "yaml":
			var entries []comment.Entry
			for _, name := range names {
				p, _ := s.ParameterByName(name)
				if p.Metadata.Incomplete {
					continue
				}
				entries = append(entries, comment.Entry{Name: p.Name, Value: p.Value, Help: p.Metadata.Help})
			}
			out, err := comment.DocumentedYAML(entries)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
		default:
			for _, name := range names {
				p, _ := s.ParameterByName(name)
				if p.Metadata.Incomplete {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", p.Name, p.Value)
			}
		}
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "text", "output format: text, json, or yaml")
}
