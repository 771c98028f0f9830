// render.go - phase 2, render sections to JSON
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
	"context"
	"strings"

	"github.com/xiaoasen/sicp/cache"
	"github.com/xiaoasen/sicp/render"
	"github.com/xiaoasen/sicp/site"
)

// Render converts all sections to JSON and passes them to out.  If c is
// not nil, previously rendered sections are reused.  The number of
// sections taken from the cache is returned.
//
// A cached section is only reused if both its source and the complete
// reference table are unchanged.
func (conv *converter) Render(ctx context.Context, out site.Writer, c *cache.Cache) (int, error) {
	r := render.New(conv.table, conv.toc.Ignore)
	tableKey := []byte(conv.table.Digest())
	ignoreKey := []byte(strings.Join(conv.toc.Ignore, " "))

	hits := 0
	for _, sec := range conv.sections {
		if err := ctx.Err(); err != nil {
			return hits, err
		}

		var data []byte
		var key string
		if c != nil {
			key = cache.Key(sec.Source, tableKey, ignoreKey)
			if c.Has(key) {
				cached, err := c.Get(key)
				if err == nil {
					data = cached
					hits++
				}
			}
		}

		if data == nil {
			missing := conv.warn.Missing
			var err error
			data, err = r.Marshal(sec.Root)
			if err != nil {
				return hits, err
			}
			// sections with missing references are not cached, so
			// that the warnings are repeated on the next run
			if c != nil && conv.warn.Missing == missing {
				err = c.Put(key, data)
				if err != nil {
					conv.log.Warn().Err(err).Str("section", sec.Entry.Name).
						Msg("cannot store section in cache")
				}
			}
		}

		err := out.AddSection(sec.Entry, data)
		if err != nil {
			return hits, err
		}
	}
	return hits, nil
}
