// query.go - XPath queries on section trees
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

package doc

import (
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Compiled queries, evaluated relative to a section node.  Results are in
// document order and never include the section node itself.
var (
	Labels    = xpath.MustCompile(".//" + TagLabel)
	Exercises = xpath.MustCompile(".//" + TagExercise)

	// Footnotes inside program listings are numbered by the listing,
	// not by the text.
	Footnotes = xpath.MustCompile(".//" + TagFootnote + "[not(ancestor::" + TagScheme + ")]")
)

// Find returns all nodes below top which match q.
func Find(top *xmlquery.Node, q *xpath.Expr) []*xmlquery.Node {
	return xmlquery.QuerySelectorAll(top, q)
}

// First returns the first node below top which matches q, or nil.
func First(top *xmlquery.Node, q *xpath.Expr) *xmlquery.Node {
	return xmlquery.QuerySelector(top, q)
}

// AncestorHasTag reports whether a proper ancestor of n is an element
// with the given tag.
func AncestorHasTag(n *xmlquery.Node, tag string) bool {
	return Ancestor(n, tag) != nil
}

// Ancestor returns the closest proper ancestor of n with the given tag,
// or nil.
func Ancestor(n *xmlquery.Node, tag string) *xmlquery.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == xmlquery.ElementNode && p.Data == tag {
			return p
		}
	}
	return nil
}

// AncestorInSet reports whether any proper ancestor of n has a tag
// contained in tags.
func AncestorInSet(n *xmlquery.Node, tags map[string]bool) bool {
	if len(tags) == 0 {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == xmlquery.ElementNode && tags[p.Data] {
			return true
		}
	}
	return false
}
