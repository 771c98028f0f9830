// toc.go - the contents of index.json
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

package site

// TOCEntry is one line of the generated index.json.
type TOCEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Index string `json:"index"`
	Title string `json:"title,omitempty"`
	Path  string `json:"path"`
}

type index struct {
	Book     string     `json:"book"`
	Sections []TOCEntry `json:"sections"`
}
