// cache_test.go - unit tests for cache.go
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

package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "test")
	c, err := NewCache(dir, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, c.Put("A", []byte(`{"tag":"A"}`)))
	assert.True(t, c.Has("A"))
	assert.False(t, c.Has("B"), "non-existent key B found")

	data, err := c.Get("A")
	require.NoError(t, err)
	assert.Equal(t, `{"tag":"A"}`, string(data))
	_, err = c.Get("B")
	assert.True(t, os.IsNotExist(err), "wrong error for missing key: %v", err)

	require.NoError(t, c.Close(-1))
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "cache directory not removed")
}

func TestCacheReopen(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCache(dir, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, c.Put("A", []byte("1234")))
	require.NoError(t, c.Close(1<<20))

	c, err = NewCache(dir, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, c.Has("A"))
	// entries used in this session survive pruning
	require.NoError(t, c.Close(0))

	c, err = NewCache(dir, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, c.Has("A"))
	require.NoError(t, c.Close(-1))
}

func TestCacheEnv(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "env")
	t.Setenv(EnvDir, dir)
	c, err := NewCache("", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, c.Put("x", []byte("y")))
	_, err = os.Stat(dir)
	assert.NoError(t, err)
	require.NoError(t, c.Close(-1))
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key([]byte("a"), []byte("b")), Key([]byte("a"), []byte("b")))
	assert.NotEqual(t, Key([]byte("ab")), Key([]byte("a"), []byte("b")))
	assert.Len(t, Key(nil), 32)
}

func TestByteSize(t *testing.T) {
	assert.Equal(t, "512B", byteSize(512).String())
	assert.Equal(t, "1.5KiB", byteSize(1536).String())
	assert.Equal(t, "2.0MiB", byteSize(2<<20).String())
}
