// main.go - command line entry point
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
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

type globalOptions struct {
	tocFile  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:          "sicp",
		Short:        "Convert the SICP JS sources to JSON",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.tocFile, "toc", "toc.yaml",
		"table of contents of the book")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")

	root.AddCommand(newBuildCmd(opts), newRefsCmd(opts))
	return root
}

func (opts *globalOptions) logger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(opts.logLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
