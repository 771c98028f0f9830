// builder.go - number labels and exercises of a section
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

// Package xref numbers the labels of the book and resolves references
// to them.
//
// Numbering happens in two phases.  First every section is passed to
// Builder.Scan, in book order.  Then Builder.Finish returns a Table,
// which is used to resolve references anywhere in the book.
package xref

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/antchfx/xmlquery"
	"github.com/rs/zerolog"

	"github.com/xiaoasen/sicp/doc"
)

// LinkPrefix is prepended to the chapter index to form a link.
const LinkPrefix = "/sicpjs/"

var (
	// ErrFinished is returned when a section is scanned after
	// Builder.Finish has been called.
	ErrFinished = errors.New("reference table already finished")

	// ErrUnknownSection is returned by Builder.ScanSection for
	// sections missing from the table of contents.
	ErrUnknownSection = errors.New("section not in table of contents")
)

// Index maps section names to chapter indices like "2.3".
type Index interface {
	ChapterIndex(section string) (string, bool)
}

// Builder collects labels section by section.  A Builder must not be
// used concurrently.
type Builder struct {
	index  Index
	ignore map[string]bool
	warn   Warner

	refs    map[string]Ref
	anchors map[*xmlquery.Node]string

	chapter        string
	figures        counterInfo
	exercises      counterInfo
	subsubsections counterInfo
	unlabeled      int

	finished bool
}

// NewBuilder returns a Builder which looks up chapter indices in index
// and does not number exercises inside elements with tags listed in
// ignore.  If warn is nil, warnings are discarded.
func NewBuilder(index Index, ignore []string, warn Warner) *Builder {
	if warn == nil {
		warn = LogWarner{Log: zerolog.Nop()}
	}
	b := &Builder{
		index:   index,
		ignore:  make(map[string]bool),
		warn:    warn,
		refs:    make(map[string]Ref),
		anchors: make(map[*xmlquery.Node]string),
	}
	for _, tag := range ignore {
		b.ignore[tag] = true
	}
	return b
}

// ScanSection looks up the chapter index of the named section and then
// scans the section.
func (b *Builder) ScanSection(section *xmlquery.Node, name string) error {
	if b.index == nil {
		return ErrUnknownSection
	}
	chapterIndex, ok := b.index.ChapterIndex(name)
	if !ok {
		return ErrUnknownSection
	}
	return b.Scan(section, chapterIndex)
}

// Scan numbers the labels and exercises below section.  The first
// character of chapterIndex is the chapter number.
func (b *Builder) Scan(section *xmlquery.Node, chapterIndex string) error {
	if b.finished {
		return ErrFinished
	}

	_, size := utf8.DecodeRuneInString(chapterIndex)
	chapter := chapterIndex[:size]
	b.subsubsections.Reset(chapterIndex + ".")
	if chapter != b.chapter {
		b.chapter = chapter
		b.figures.Reset(chapter + ".")
		b.exercises.Reset(chapter + ".")
	}

	footnotes := make(map[*xmlquery.Node]int)
	for i, fn := range doc.Find(section, doc.Footnotes) {
		footnotes[fn] = i + 1
		b.anchors[fn] = "footnote-" + strconv.Itoa(i+1)
	}

	for _, label := range doc.Find(section, doc.Labels) {
		raw, _ := doc.Attr(label, doc.AttrName)
		name := ParseName(raw)
		if b.has(name, chapterIndex) {
			continue
		}

		var ref Ref
		var target *xmlquery.Node
		var fragment string
		switch name.Kind {
		case KindChapter:
			ref.DisplayName = chapterIndex
		case KindSection:
			target = doc.Ancestor(label, doc.TagSubsubsection)
			if target != nil {
				ref.DisplayName = b.subsubsections.Inc()
				fragment = "subsubsection_" + strconv.Itoa(b.subsubsections.Value)
			} else {
				ref.DisplayName = chapterIndex
			}
		case KindFigure:
			ref.DisplayName = b.figures.Inc()
			fragment = "fig-" + ref.DisplayName
			target = label.Parent
		case KindFootnote:
			target = label.Parent
			n, ok := footnotes[target]
			if !ok {
				continue
			}
			ref.DisplayName = strconv.Itoa(n)
			fragment = "footnote-" + ref.DisplayName
		default:
			continue
		}
		b.add(name, ref, chapterIndex, fragment, target)
	}

	for _, ex := range doc.Find(section, doc.Exercises) {
		if doc.AncestorInSet(ex, b.ignore) {
			continue
		}

		var raw string
		if label := doc.First(ex, doc.Labels); label != nil {
			raw, _ = doc.Attr(label, doc.AttrName)
		} else {
			b.unlabeled++
			raw = "ex:unlabeled" + strconv.Itoa(b.unlabeled)
		}
		name := ParseName(raw)
		if name.Kind != KindExercise || b.has(name, chapterIndex) {
			continue
		}

		ref := Ref{DisplayName: b.exercises.Inc()}
		b.add(name, ref, chapterIndex, "ex-"+ref.DisplayName, ex)
	}

	return nil
}

// has reports whether name is already defined, and warns if it is.
func (b *Builder) has(name Name, chapterIndex string) bool {
	if _, dup := b.refs[name.Raw]; dup {
		b.warn.RepeatedName(name.Raw, chapterIndex)
		return true
	}
	return false
}

func (b *Builder) add(name Name, ref Ref, chapterIndex, fragment string, target *xmlquery.Node) {
	ref.ChapterIndex = chapterIndex
	ref.Href = LinkPrefix + chapterIndex
	if fragment != "" {
		ref.Href += "#" + fragment
		// an element keeps the id of its first label
		if _, seen := b.anchors[target]; target != nil && !seen {
			b.anchors[target] = fragment
		}
	}
	b.refs[name.Raw] = ref
}

// Finish ends the scanning phase and returns the completed table.
// Further calls to Scan fail.
func (b *Builder) Finish() *Table {
	b.finished = true
	return newTable(b.refs, b.anchors, b.warn)
}
