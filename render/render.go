// render.go - convert XML trees to JSON
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

// Package render converts the XML tree of a section into JSON objects,
// with references replaced by their display names and links.
package render

import (
	"encoding/json"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/xiaoasen/sicp/doc"
	"github.com/xiaoasen/sicp/xref"
)

// TextTag is the tag of text objects.
const TextTag = "#text"

// Object is one node of the rendered output.
type Object = map[string]any

// Renderer converts section trees into Objects.
type Renderer struct {
	Table  *xref.Table
	Ignore map[string]bool
}

// New returns a Renderer which resolves references using table and drops
// elements with the given tags.
func New(table *xref.Table, ignore []string) *Renderer {
	r := &Renderer{
		Table:  table,
		Ignore: make(map[string]bool),
	}
	for _, tag := range ignore {
		r.Ignore[tag] = true
	}
	return r
}

// Section renders the document or element n.  The result is nil if
// nothing remains after dropping ignored elements.
func (r *Renderer) Section(n *xmlquery.Node) Object {
	if root := doc.Root(n); root != nil {
		n = root
	}
	obj, _ := r.convert(n)
	return obj
}

// Marshal renders n and encodes the result as indented JSON.
func (r *Renderer) Marshal(n *xmlquery.Node) ([]byte, error) {
	return json.MarshalIndent(r.Section(n), "", "  ")
}

func (r *Renderer) convert(n *xmlquery.Node) (Object, bool) {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil, false
		}
		return Object{"tag": TextTag, "body": n.Data}, true
	case xmlquery.ElementNode:
		// handled below
	default:
		return nil, false
	}

	switch {
	case r.Ignore[n.Data], n.Data == doc.TagLabel:
		return nil, false
	case n.Data == doc.TagRef:
		return r.reference(n), true
	}

	obj := Object{"tag": n.Data}
	if len(n.Attr) > 0 {
		attr := make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			attr[a.Name.Local] = a.Value
		}
		obj["attr"] = attr
	}
	if r.Table != nil {
		if id := r.Table.Anchor(n); id != "" {
			obj["id"] = id
		}
	}

	var children []any
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child, ok := r.convert(c); ok {
			children = append(children, child)
		}
	}
	if len(children) > 0 {
		obj["child"] = children
	}
	return obj, true
}

// reference renders a REF element.  Unknown references are shown as
// their name.
func (r *Renderer) reference(n *xmlquery.Node) Object {
	obj := Object{}
	if r.Table != nil && r.Table.ResolveNode(n, obj) {
		return obj
	}
	name, _ := doc.Attr(n, doc.AttrName)
	return Object{"tag": TextTag, "body": name}
}
