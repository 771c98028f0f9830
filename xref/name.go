// name.go - parse reference names
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

import "strings"

// Kind is the type of a label, given by the prefix of its name.
type Kind int

// The kinds of labels which are numbered.  Labels of any other type are
// passed through unchanged.
const (
	KindOther Kind = iota
	KindChapter
	KindSection
	KindFigure
	KindFootnote
	KindExercise
)

var kindPrefix = map[string]Kind{
	"chap": KindChapter,
	"sec":  KindSection,
	"fig":  KindFigure,
	"foot": KindFootnote,
	"ex":   KindExercise,
}

func (k Kind) String() string {
	for pfx, kind := range kindPrefix {
		if kind == k {
			return pfx
		}
	}
	return "other"
}

// Name is a parsed reference name like "fig:streams".
type Name struct {
	Raw  string
	Type string
	ID   string
	Kind Kind
}

// ParseName splits a reference name at the first colon.  A name without
// a colon is taken to consist of a type only.
func ParseName(raw string) Name {
	tp, id, _ := strings.Cut(raw, ":")
	return Name{
		Raw:  raw,
		Type: tp,
		ID:   id,
		Kind: kindPrefix[tp],
	}
}

func (n Name) String() string {
	return n.Raw
}
