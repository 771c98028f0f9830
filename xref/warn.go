// warn.go - report repeated and missing names
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

import "github.com/rs/zerolog"

// Warner is notified about problems with labels and references.  The
// calls are for reporting only and do not affect the result.
type Warner interface {
	// RepeatedName is called when a label name is defined a second
	// time.  The first definition is kept.
	RepeatedName(name, chapterIndex string)

	// MissingReference is called when a reference names a label
	// which was never defined.
	MissingReference(name string)
}

// LogWarner writes warnings to a zerolog logger.
type LogWarner struct {
	Log zerolog.Logger
}

func (w LogWarner) RepeatedName(name, chapterIndex string) {
	w.Log.Warn().Str("name", name).Str("chapter", chapterIndex).
		Msg("repeated reference name")
}

func (w LogWarner) MissingReference(name string) {
	w.Log.Warn().Str("name", name).Msg("missing reference")
}

// CountingWarner counts warnings and passes them on to Next, if set.
type CountingWarner struct {
	Next Warner

	Repeated int
	Missing  int
}

func (w *CountingWarner) RepeatedName(name, chapterIndex string) {
	w.Repeated++
	if w.Next != nil {
		w.Next.RepeatedName(name, chapterIndex)
	}
}

func (w *CountingWarner) MissingReference(name string) {
	w.Missing++
	if w.Next != nil {
		w.Next.MissingReference(name)
	}
}

// Total returns the number of warnings seen so far.
func (w *CountingWarner) Total() int {
	return w.Repeated + w.Missing
}
