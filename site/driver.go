// driver.go - directory and zip backends
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

package site

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
)

type zipDriver struct {
	ZipFile *zip.Writer
}

func (drv *zipDriver) Close() error {
	return drv.ZipFile.Close()
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func (drv *zipDriver) Create(path string) (io.WriteCloser, error) {
	out, err := drv.ZipFile.Create(path)
	if err != nil {
		return nil, err
	}
	return nopWriteCloser{out}, nil
}

type dirDriver struct {
	BaseDir string
}

func (drv *dirDriver) Close() error {
	return nil
}

func (drv *dirDriver) Create(path string) (io.WriteCloser, error) {
	outPath := filepath.Join(drv.BaseDir, filepath.FromSlash(path))
	outDir := filepath.Dir(outPath)
	err := os.MkdirAll(outDir, 0755)
	if err != nil {
		return nil, err
	}
	return os.Create(outPath)
}

type driver interface {
	Close() error
	Create(path string) (io.WriteCloser, error)
}
