// table.go - the finished reference table
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

package xref

import (
	"encoding/base64"
	"sort"

	"github.com/antchfx/xmlquery"
	"golang.org/x/crypto/sha3"

	"github.com/xiaoasen/sicp/doc"
)

// RefTag is the tag of a resolved reference in the rendered output.
const RefTag = "REF"

// Ref describes the target of a label.
type Ref struct {
	Href         string `yaml:"href" json:"href"`
	DisplayName  string `yaml:"displayName" json:"displayName"`
	ChapterIndex string `yaml:"chapterIndex" json:"chapterIndex"`
}

// Table is the finished reference table.  A Table is never modified, so
// it can be shared between goroutines as long as the Warner permits
// concurrent calls.
type Table struct {
	refs    map[string]Ref
	anchors map[*xmlquery.Node]string
	names   []string
	warn    Warner
}

func newTable(refs map[string]Ref, anchors map[*xmlquery.Node]string, warn Warner) *Table {
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Table{
		refs:    refs,
		anchors: anchors,
		names:   names,
		warn:    warn,
	}
}

// Len returns the number of labels in the table.
func (t *Table) Len() int {
	return len(t.refs)
}

// Names returns the label names in sorted order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Lookup returns the target of the named label.
func (t *Table) Lookup(name string) (Ref, bool) {
	ref, ok := t.refs[name]
	return ref, ok
}

// Anchor returns the fragment identifier which links to the element n,
// or the empty string.
func (t *Table) Anchor(n *xmlquery.Node) string {
	return t.anchors[n]
}

// Resolve fills in the tag, body and href fields of obj for a reference
// to name.  If the name is unknown, a warning is issued, obj is left
// unchanged and false is returned.
func (t *Table) Resolve(name string, obj map[string]any) bool {
	ref, ok := t.refs[name]
	if !ok {
		t.warn.MissingReference(name)
		return false
	}
	obj["tag"] = RefTag
	obj["body"] = ref.DisplayName
	obj["href"] = ref.Href
	return true
}

// ResolveNode resolves the reference named by the NAME attribute of n.
func (t *Table) ResolveNode(n *xmlquery.Node, obj map[string]any) bool {
	name, _ := doc.Attr(n, doc.AttrName)
	return t.Resolve(name, obj)
}

// Digest returns a short fingerprint of the table contents.  Tables with
// the same labels and targets have the same digest.
func (t *Table) Digest() string {
	h := sha3.NewShake128()
	for _, name := range t.names {
		ref := t.refs[name]
		for _, s := range []string{name, ref.Href, ref.DisplayName, ref.ChapterIndex} {
			h.Write([]byte(s))
			h.Write([]byte{0})
		}
	}
	buf := make([]byte, 15)
	h.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}
