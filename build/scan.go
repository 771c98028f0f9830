// scan.go - load section files, phase 1
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

package build

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/antchfx/xmlquery"

	"github.com/xiaoasen/sicp/doc"
	"github.com/xiaoasen/sicp/toc"
	"github.com/xiaoasen/sicp/xref"
)

type section struct {
	Entry  *toc.Entry
	Source []byte
	Root   *xmlquery.Node
}

// Load reads and parses all sections listed in the table of contents.
func (conv *converter) Load(ctx context.Context) error {
	for _, e := range conv.toc.Sections {
		if err := ctx.Err(); err != nil {
			return err
		}
		fileName := conv.toc.Path(e)
		src, err := os.ReadFile(fileName)
		if err != nil {
			return err
		}
		d, err := doc.Parse(bytes.NewReader(src), fileName)
		if err != nil {
			return err
		}
		conv.sections = append(conv.sections, &section{
			Entry:  e,
			Source: src,
			Root:   doc.Root(d),
		})
	}
	return nil
}

// Scan numbers the labels of all sections, in reading order.  Only after
// this has completed can references be resolved.
func (conv *converter) Scan(ctx context.Context) error {
	b := xref.NewBuilder(conv.toc, conv.toc.Ignore, conv.warn)
	for _, sec := range conv.sections {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := b.ScanSection(sec.Root, sec.Entry.Name)
		if err != nil {
			return fmt.Errorf("section %q: %w", sec.Entry.Name, err)
		}
	}
	conv.table = b.Finish()
	conv.log.Debug().Int("labels", conv.table.Len()).
		Str("digest", conv.table.Digest()).Msg("reference table complete")
	return nil
}
