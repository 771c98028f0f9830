// writer.go - write the rendered book
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

// Package site writes the rendered sections of the book, either into a
// directory or into a zip archive.
package site

import (
	"archive/zip"
	"compress/flate"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/xiaoasen/sicp/toc"
)

const (
	baseNameSpaceURL = "https://sourceacademy.org/sicpjs/"

	indexName = "index"
	jsonExt   = ".json"
)

var (
	// ErrSiteClosed is returned by AddSection after Flush.
	ErrSiteClosed = errors.New("attempt to write to a closed site")

	// ErrDuplicateSection is returned when a section name is added twice.
	ErrDuplicateSection = errors.New("section written twice")
)

// Writer receives the rendered sections in reading order.
type Writer interface {
	AddSection(e *toc.Entry, data []byte) error

	// Flush writes index.json and closes the output.
	Flush() error
}

type site struct {
	UUID uuid.UUID

	Files    map[string]bool
	Sections map[string]bool
	Nav      []TOCEntry

	open   bool
	driver driver
}

// NewZipWriter returns a Writer which stores all files in a zip archive
// written to out.
func NewZipWriter(out io.Writer, identifier string) Writer {
	zipFile := zip.NewWriter(out)
	zipFile.RegisterCompressor(zip.Deflate,
		func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, flate.BestCompression)
		})
	return newWriter(&zipDriver{ZipFile: zipFile}, identifier)
}

// NewDirWriter returns a Writer which stores all files below baseDir.
func NewDirWriter(baseDir string, identifier string) Writer {
	return newWriter(&dirDriver{BaseDir: baseDir}, identifier)
}

func newWriter(driver driver, identifier string) *site {
	nameSpace := uuid.NewSHA1(uuid.NameSpaceURL, []byte(baseNameSpaceURL))
	w := &site{
		UUID:     uuid.NewSHA1(nameSpace, []byte(identifier)),
		Files:    make(map[string]bool),
		Sections: make(map[string]bool),
		open:     true,
		driver:   driver,
	}
	w.Files[indexName+jsonExt] = true
	return w
}

// SectionID returns the id which index.json lists for the named section
// of the book with the given identifier.
func SectionID(identifier, section string) string {
	nameSpace := uuid.NewSHA1(uuid.NameSpaceURL, []byte(baseNameSpaceURL))
	book := uuid.NewSHA1(nameSpace, []byte(identifier))
	return uuid.NewSHA1(book, []byte(section)).String()
}

func (w *site) AddSection(e *toc.Entry, data []byte) error {
	if !w.open {
		return ErrSiteClosed
	}
	if w.Sections[e.Name] {
		return ErrDuplicateSection
	}
	w.Sections[e.Name] = true

	path := w.uniqueName(e.Name, jsonExt)
	w.Files[path] = true
	err := w.writeFile(path, data)
	if err != nil {
		return err
	}

	w.Nav = append(w.Nav, TOCEntry{
		ID:    uuid.NewSHA1(w.UUID, []byte(e.Name)).String(),
		Name:  e.Name,
		Index: e.Index,
		Title: e.Title,
		Path:  path,
	})
	return nil
}

func (w *site) Flush() error {
	if !w.open {
		return nil
	}
	w.open = false

	data, err := json.MarshalIndent(index{
		Book:     w.UUID.String(),
		Sections: w.Nav,
	}, "", "  ")
	if err != nil {
		return err
	}
	err = w.writeFile(indexName+jsonExt, data)
	if err != nil {
		return err
	}
	return w.driver.Close()
}

func (w *site) writeFile(path string, data []byte) (err error) {
	out, err := w.driver.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		e2 := out.Close()
		if err == nil {
			err = e2
		}
	}()
	_, err = out.Write(data)
	return err
}

func (w *site) uniqueName(name, ext string) string {
	tryName := name + ext
	unique := 2
	for {
		_, clash := w.Files[tryName]
		if !clash {
			break
		}
		tryName = name + strconv.Itoa(unique) + ext
		unique++
	}
	return tryName
}
