// build.go - run the two phases of a book build
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

// Package build converts the XML sources listed in a table of contents
// into JSON files, with all cross-references resolved.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/xiaoasen/sicp/cache"
	"github.com/xiaoasen/sicp/site"
	"github.com/xiaoasen/sicp/toc"
	"github.com/xiaoasen/sicp/xref"
)

// DefaultBookID is used for the section ids when Config.BookID is empty.
const DefaultBookID = "sicpjs"

var (
	// ErrWarnings is returned in strict mode if any label or reference
	// problems were found.
	ErrWarnings = errors.New("reference warnings")

	// ErrNoOutput is returned if neither an output directory nor a zip
	// file is configured.
	ErrNoOutput = errors.New("no output location")
)

// Config describes one build.
type Config struct {
	TOCFile string

	// Exactly one of OutDir and ZipFile should be set.
	OutDir  string
	ZipFile string

	BookID string

	// CacheDir is used for rendered sections if UseCache is set.  See
	// cache.NewCache for the default location.
	UseCache   bool
	CacheDir   string
	CacheLimit int64

	// Strict turns warnings into a build failure.
	Strict bool

	Log zerolog.Logger
}

// Result summarises a build.
type Result struct {
	Sections  int
	Labels    int
	Repeated  int
	Missing   int
	CacheHits int
}

type converter struct {
	cfg      *Config
	log      zerolog.Logger
	toc      *toc.TOC
	sections []*section
	warn     *xref.CountingWarner
	table    *xref.Table
}

func newConverter(cfg *Config) (*converter, error) {
	contents, err := toc.Load(cfg.TOCFile)
	if err != nil {
		return nil, err
	}
	conv := &converter{
		cfg: cfg,
		log: cfg.Log,
		toc: contents,
		warn: &xref.CountingWarner{
			Next: xref.LogWarner{Log: cfg.Log},
		},
	}
	return conv, nil
}

// Scan reads all sections and returns the finished reference table,
// without rendering anything.
func Scan(ctx context.Context, cfg *Config) (*xref.Table, error) {
	conv, err := newConverter(cfg)
	if err != nil {
		return nil, err
	}
	err = conv.Load(ctx)
	if err != nil {
		return nil, err
	}
	err = conv.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return conv.table, nil
}

// Run performs a complete build.
func Run(ctx context.Context, cfg *Config) (res *Result, err error) {
	if cfg.OutDir == "" && cfg.ZipFile == "" {
		return nil, ErrNoOutput
	}
	conv, err := newConverter(cfg)
	if err != nil {
		return nil, err
	}

	conv.log.Info().Str("toc", cfg.TOCFile).Int("sections", len(conv.toc.Sections)).
		Msg("loading ...")
	err = conv.Load(ctx)
	if err != nil {
		return nil, err
	}

	conv.log.Info().Msg("phase 1: labels ...")
	err = conv.Scan(ctx)
	if err != nil {
		return nil, err
	}

	var c *cache.Cache
	if cfg.UseCache {
		c, err = cache.NewCache(cfg.CacheDir, conv.log)
		if err != nil {
			return nil, err
		}
		defer func() {
			e2 := c.Close(cfg.CacheLimit)
			if err == nil {
				err = e2
			}
		}()
	}

	out, closeOut, err := conv.openOutput()
	if err != nil {
		return nil, err
	}
	defer func() {
		failed := err
		if errors.Is(err, ErrWarnings) {
			// the output is complete
			failed = nil
		}
		e2 := closeOut(failed)
		if err == nil {
			err = e2
		}
	}()

	conv.log.Info().Msg("phase 2: rendering ...")
	hits, err := conv.Render(ctx, out, c)
	if err != nil {
		return nil, err
	}
	err = out.Flush()
	if err != nil {
		return nil, err
	}

	res = &Result{
		Sections:  len(conv.sections),
		Labels:    conv.table.Len(),
		Repeated:  conv.warn.Repeated,
		Missing:   conv.warn.Missing,
		CacheHits: hits,
	}
	conv.log.Info().Int("sections", res.Sections).Int("labels", res.Labels).
		Int("warnings", conv.warn.Total()).Int("cached", hits).Msg("done")
	if cfg.Strict && conv.warn.Total() > 0 {
		return res, fmt.Errorf("%w: %d repeated names, %d missing references",
			ErrWarnings, conv.warn.Repeated, conv.warn.Missing)
	}
	return res, nil
}

func (conv *converter) bookID() string {
	if conv.cfg.BookID != "" {
		return conv.cfg.BookID
	}
	return DefaultBookID
}

// openOutput returns the writer for the rendered sections, together
// with a function to release it once the build is over.  If the build
// failed, a partially written zip archive is removed.
func (conv *converter) openOutput() (site.Writer, func(failed error) error, error) {
	if conv.cfg.ZipFile == "" {
		return site.NewDirWriter(conv.cfg.OutDir, conv.bookID()),
			func(error) error { return nil }, nil
	}
	fd, err := os.Create(conv.cfg.ZipFile)
	if err != nil {
		return nil, nil, err
	}
	closeOut := func(failed error) error {
		err := fd.Close()
		if failed != nil {
			return os.Remove(conv.cfg.ZipFile)
		}
		return err
	}
	return site.NewZipWriter(fd, conv.bookID()), closeOut, nil
}
