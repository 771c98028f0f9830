// commands.go - the build and refs subcommands
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xiaoasen/sicp/build"
	"github.com/xiaoasen/sicp/xref"
)

var errOutput = errors.New("use either --out or --zip")

func newBuildCmd(opts *globalOptions) *cobra.Command {
	cfg := &build.Config{}
	noCache := false
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render all sections to JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (cfg.OutDir == "") == (cfg.ZipFile == "") {
				return errOutput
			}
			log, err := opts.logger()
			if err != nil {
				return err
			}
			cfg.TOCFile = opts.tocFile
			cfg.UseCache = !noCache
			cfg.Log = log
			_, err = build.Run(cmd.Context(), cfg)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&cfg.OutDir, "out", "o", "", "output directory")
	flags.StringVar(&cfg.ZipFile, "zip", "", "write a zip archive instead of a directory")
	flags.StringVar(&cfg.BookID, "id", build.DefaultBookID, "book identifier, used for section ids")
	flags.BoolVar(&cfg.Strict, "strict", false, "fail if labels are repeated or references are missing")
	flags.StringVar(&cfg.CacheDir, "cache-dir", "", "cache directory for rendered sections")
	flags.Int64Var(&cfg.CacheLimit, "cache-limit", 64<<20, "maximum cache size in bytes")
	flags.BoolVar(&noCache, "no-cache", false, "do not use the render cache")
	return cmd
}

func newRefsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refs",
		Short: "Print the reference table as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := opts.logger()
			if err != nil {
				return err
			}
			table, err := build.Scan(cmd.Context(), &build.Config{
				TOCFile: opts.tocFile,
				Log:     log,
			})
			if err != nil {
				return err
			}

			refs := make(map[string]xref.Ref, table.Len())
			for _, name := range table.Names() {
				refs[name], _ = table.Lookup(name)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			err = enc.Encode(refs)
			if err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
