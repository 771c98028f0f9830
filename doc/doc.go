// doc.go - load XML documents
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

// Package doc loads the XML sources of the book and provides the few
// tree queries needed for numbering labels.
package doc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Tag and attribute names used in the book sources.
const (
	TagLabel         = "LABEL"
	TagRef           = "REF"
	TagFootnote      = "FOOTNOTE"
	TagScheme        = "SCHEME"
	TagSubsubsection = "SUBSUBSECTION"
	TagExercise      = "EXERCISE"
	TagFigure        = "FIGURE"

	AttrName = "NAME"
)

// ErrEmptyDocument is returned when a source file contains no element.
var ErrEmptyDocument = errors.New("document has no root element")

// Load reads and parses the XML file fileName.
func Load(fileName string) (*xmlquery.Node, error) {
	fd, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return Parse(fd, filepath.Base(fileName))
}

// Parse reads an XML document from r.  The name is only used in error
// messages.
func Parse(r io.Reader, name string) (*xmlquery.Node, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, newParseError(name, err)
	}
	if Root(root) == nil {
		return nil, &ParseError{Name: name, Message: "no root element", Err: ErrEmptyDocument}
	}
	return root, nil
}

// Root returns the document element of a parsed document, or nil if
// there is none.
func Root(doc *xmlquery.Node) *xmlquery.Node {
	if doc == nil {
		return nil
	}
	if doc.Type == xmlquery.ElementNode {
		return doc
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

// ParseError describes a source file which could not be parsed.
type ParseError struct {
	Name    string
	Line    int
	Message string
	Err     error
}

func newParseError(name string, err error) *ParseError {
	res := &ParseError{
		Name:    name,
		Message: err.Error(),
		Err:     err,
	}
	var synErr *xml.SyntaxError
	if errors.As(err, &synErr) {
		res.Line = synErr.Line
		res.Message = synErr.Msg
	}
	return res
}

func (err *ParseError) Error() string {
	res := []string{err.Name}
	if err.Line > 0 {
		res = append(res, ", line ", strconv.Itoa(err.Line))
	}
	res = append(res, ": ", err.Message)
	return strings.Join(res, "")
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

// Attr returns the value of the attribute key on n, and whether it is
// present.
func Attr(n *xmlquery.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == key && a.Name.Space == "" {
			return a.Value, true
		}
	}
	return "", false
}

// Describe returns a short description of n for log messages.
func Describe(n *xmlquery.Node) string {
	if name, ok := Attr(n, AttrName); ok {
		return fmt.Sprintf("<%s %s=%q>", n.Data, AttrName, name)
	}
	return "<" + n.Data + ">"
}
