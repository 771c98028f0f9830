// toc.go - read the table of contents
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

// Package toc reads the table of contents of the book.
//
// The table of contents is a YAML file listing the sections in reading
// order:
//
//	base: sections
//	ignore: [WEB_ONLY]
//	sections:
//	  - name: "1.1"
//	    file: "1.1.xml"
//	    index: "1.1"
//	    title: "The Elements of Programming"
//
// File names are relative to base, and base is relative to the
// directory containing the YAML file.
package toc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalid is wrapped by all validation errors.
	ErrInvalid = errors.New("invalid table of contents")

	// ErrNoSections is returned for a table of contents without sections.
	ErrNoSections = fmt.Errorf("%w: no sections", ErrInvalid)
)

// Entry describes one section of the book.
type Entry struct {
	Name  string `yaml:"name" json:"name"`
	File  string `yaml:"file" json:"file"`
	Index string `yaml:"index" json:"index"`
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
}

// TOC is the table of contents of the book.
type TOC struct {
	Base     string   `yaml:"base,omitempty"`
	Ignore   []string `yaml:"ignore,omitempty"`
	Sections []*Entry `yaml:"sections"`

	byName map[string]*Entry
}

// Load reads the table of contents from a YAML file.
func Load(fileName string) (*TOC, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(fileName)
	if err != nil {
		return nil, err
	}
	t, err := Parse(data, filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return t, nil
}

// Parse decodes a table of contents.  Relative paths are interpreted
// relative to baseDir.
func Parse(data []byte, baseDir string) (*TOC, error) {
	t := &TOC{}
	err := yaml.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(t.Base) {
		t.Base = filepath.Join(baseDir, t.Base)
	}
	err = t.index()
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TOC) index() error {
	if len(t.Sections) == 0 {
		return ErrNoSections
	}
	t.byName = make(map[string]*Entry, len(t.Sections))
	for i, e := range t.Sections {
		if e == nil || e.Name == "" {
			return fmt.Errorf("%w: section %d has no name", ErrInvalid, i+1)
		}
		if e.Index == "" {
			return fmt.Errorf("%w: section %q has no index", ErrInvalid, e.Name)
		}
		if _, dup := t.byName[e.Name]; dup {
			return fmt.Errorf("%w: duplicate section %q", ErrInvalid, e.Name)
		}
		if e.File == "" {
			e.File = e.Name + ".xml"
		}
		t.byName[e.Name] = e
	}
	return nil
}

// Lookup returns the entry for the named section.
func (t *TOC) Lookup(name string) (*Entry, bool) {
	e, ok := t.byName[name]
	return e, ok
}

// ChapterIndex returns the index of the named section, e.g. "2.3".
func (t *TOC) ChapterIndex(name string) (string, bool) {
	e, ok := t.byName[name]
	if !ok {
		return "", false
	}
	return e.Index, true
}

// Path returns the location of the source file of e.
func (t *TOC) Path(e *Entry) string {
	if filepath.IsAbs(e.File) {
		return e.File
	}
	return filepath.Join(t.Base, e.File)
}
