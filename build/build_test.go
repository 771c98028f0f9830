// build_test.go - unit tests for build.go
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

package build

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/xiaoasen/sicp/doc"
	"github.com/xiaoasen/sicp/site"
)

const tocYAML = `base: src
ignore: [WEB_ONLY]
sections:
  - name: "1.1"
    index: "1.1"
    title: The Elements of Programming
  - name: "1.2"
    index: "1.2"
  - name: "2.1"
    index: "2.1"
`

var sources = map[string]string{
	// references to later sections work, since all sections are
	// scanned before anything is rendered
	"1.1.xml": `<SECTION><LABEL NAME="sec:1.1"/>
  <TEXT>See <REF NAME="fig:later"/> and exercise <REF NAME="ex:unlabeled2"/>.</TEXT>
  <EXERCISE><TEXT>first</TEXT></EXERCISE>
</SECTION>`,
	"1.2.xml": `<SECTION>
  <FIGURE><LABEL NAME="fig:later"/></FIGURE>
  <WEB_ONLY><EXERCISE/></WEB_ONLY>
  <EXERCISE><TEXT>second</TEXT></EXERCISE>
</SECTION>`,
	"2.1.xml": `<SECTION>
  <FIGURE><LABEL NAME="fig:data"/></FIGURE>
  <TEXT><REF NAME="sec:1.1"/></TEXT>
</SECTION>`,
}

func writeBook(t *testing.T, extra map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "toc.yaml"), []byte(tocYAML), 0644))
	for name, body := range sources {
		if e, ok := extra[name]; ok {
			body = e
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, "src", name), []byte(body), 0644))
	}
	return dir
}

func readJSON(t *testing.T, fileName string) gjson.Result {
	t.Helper()
	data, err := os.ReadFile(fileName)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(data), fileName)
	return gjson.ParseBytes(data)
}

func TestRun(t *testing.T) {
	dir := writeBook(t, nil)
	out := filepath.Join(dir, "out")
	cfg := &Config{
		TOCFile: filepath.Join(dir, "toc.yaml"),
		OutDir:  out,
		Strict:  true,
		Log:     zerolog.Nop(),
	}
	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, &Result{Sections: 3, Labels: 5}, res)

	s11 := readJSON(t, filepath.Join(out, "1.1.json"))
	text := s11.Get("child.0.child")
	assert.Equal(t, "REF", text.Get("1.tag").String())
	assert.Equal(t, "1.1", text.Get("1.body").String())
	assert.Equal(t, "/sicpjs/1.2#fig-1.1", text.Get("1.href").String())
	assert.Equal(t, "1.2", text.Get("3.body").String())
	assert.Equal(t, "/sicpjs/1.2#ex-1.2", text.Get("3.href").String())
	assert.Equal(t, "ex-1.1", s11.Get("child.1.id").String())

	s21 := readJSON(t, filepath.Join(out, "2.1.json"))
	assert.Equal(t, "fig-2.1", s21.Get("child.0.id").String())
	assert.Equal(t, "/sicpjs/1.1", s21.Get("child.1.child.0.href").String())

	idx := readJSON(t, filepath.Join(out, "index.json"))
	assert.Equal(t, int64(3), idx.Get("sections.#").Int())
	assert.Equal(t, "The Elements of Programming", idx.Get("sections.0.title").String())
	assert.Equal(t, site.SectionID(DefaultBookID, "2.1"), idx.Get("sections.2.id").String())
}

func TestStrict(t *testing.T) {
	dir := writeBook(t, map[string]string{
		"2.1.xml": `<SECTION><FIGURE><LABEL NAME="fig:later"/></FIGURE>
  <REF NAME="fig:nowhere"/></SECTION>`,
	})
	cfg := &Config{
		TOCFile: filepath.Join(dir, "toc.yaml"),
		OutDir:  filepath.Join(dir, "out"),
		Log:     zerolog.Nop(),
	}

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err, "warnings are not errors by default")
	assert.Equal(t, 1, res.Repeated)
	assert.Equal(t, 1, res.Missing)

	cfg.Strict = true
	res, err = Run(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrWarnings)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Missing)
}

func TestCache(t *testing.T) {
	dir := writeBook(t, map[string]string{
		"2.1.xml": `<SECTION><REF NAME="fig:nowhere"/></SECTION>`,
	})
	cfg := &Config{
		TOCFile:    filepath.Join(dir, "toc.yaml"),
		OutDir:     filepath.Join(dir, "out"),
		UseCache:   true,
		CacheDir:   filepath.Join(dir, "cache"),
		CacheLimit: 1 << 20,
		Log:        zerolog.Nop(),
	}

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, res.CacheHits)

	res, err = Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CacheHits, "sections with missing references are rendered again")
	assert.Equal(t, 1, res.Missing)

	s12 := readJSON(t, filepath.Join(dir, "out", "1.2.json"))
	assert.Equal(t, "fig-1.1", s12.Get("child.0.id").String())
}

func TestZip(t *testing.T) {
	dir := writeBook(t, nil)
	zipName := filepath.Join(dir, "book.zip")
	cfg := &Config{
		TOCFile: filepath.Join(dir, "toc.yaml"),
		ZipFile: zipName,
		BookID:  "test",
		Log:     zerolog.Nop(),
	}
	_, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	zr, err := zip.OpenReader(zipName)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"1.1.json", "1.2.json", "2.1.json", "index.json"}, names)
}

func TestZipRemovedOnError(t *testing.T) {
	dir := writeBook(t, nil)
	zipName := filepath.Join(dir, "book.zip")
	conv, err := newConverter(&Config{
		TOCFile: filepath.Join(dir, "toc.yaml"),
		ZipFile: zipName,
		Log:     zerolog.Nop(),
	})
	require.NoError(t, err)

	out, closeOut, err := conv.openOutput()
	require.NoError(t, err)
	require.NoError(t, out.AddSection(conv.toc.Sections[0], []byte(`{}`)))
	require.NoError(t, closeOut(context.Canceled))
	_, err = os.Stat(zipName)
	assert.True(t, os.IsNotExist(err), "got %v", err)

	out, closeOut, err = conv.openOutput()
	require.NoError(t, err)
	require.NoError(t, out.Flush())
	require.NoError(t, closeOut(nil))
	_, err = os.Stat(zipName)
	assert.NoError(t, err)
}

func TestStrictZipKept(t *testing.T) {
	dir := writeBook(t, map[string]string{
		"2.1.xml": `<SECTION><REF NAME="fig:nowhere"/></SECTION>`,
	})
	zipName := filepath.Join(dir, "book.zip")
	_, err := Run(context.Background(), &Config{
		TOCFile: filepath.Join(dir, "toc.yaml"),
		ZipFile: zipName,
		Strict:  true,
		Log:     zerolog.Nop(),
	})
	require.ErrorIs(t, err, ErrWarnings)

	zr, err := zip.OpenReader(zipName)
	require.NoError(t, err)
	assert.Len(t, zr.File, 4)
	require.NoError(t, zr.Close())
}

func TestScan(t *testing.T) {
	dir := writeBook(t, nil)
	tab, err := Scan(context.Background(), &Config{TOCFile: filepath.Join(dir, "toc.yaml")})
	require.NoError(t, err)
	assert.Equal(t, []string{"ex:unlabeled1", "ex:unlabeled2", "fig:data", "fig:later", "sec:1.1"},
		tab.Names())
	ref, ok := tab.Lookup("fig:data")
	require.True(t, ok)
	assert.Equal(t, "2.1", ref.DisplayName)
}

func TestErrors(t *testing.T) {
	dir := writeBook(t, map[string]string{"1.2.xml": `<SECTION>`})
	cfg := &Config{TOCFile: filepath.Join(dir, "toc.yaml"), OutDir: filepath.Join(dir, "out")}

	_, err := Run(context.Background(), cfg)
	var perr *doc.ParseError
	assert.True(t, errors.As(err, &perr), "got %v", err)

	_, err = Run(context.Background(), &Config{TOCFile: cfg.TOCFile})
	assert.ErrorIs(t, err, ErrNoOutput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Scan(ctx, &Config{TOCFile: filepath.Join(writeBook(t, nil), "toc.yaml")})
	assert.ErrorIs(t, err, context.Canceled)
}
