// cache.go - implement the Cache object
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

// Package cache keeps rendered sections on disk, so that unchanged
// sections need not be rendered again.
package cache

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/sha3"
)

const fileExt = ".json"

// EnvDir names the environment variable which overrides the default
// cache location.
const EnvDir = "SICP_CACHE"

// Cache maps string keys to byte slices, stored as files in a
// directory.  A Cache must not be used concurrently.
type Cache struct {
	cacheDir string
	entries  map[string]*entry
	start    time.Time
	log      zerolog.Logger
}

// NewCache opens the cache in the given directory, creating it if
// needed.  If dir is empty, $SICP_CACHE is used, and then a
// subdirectory of the user cache directory.
func NewCache(dir string, log zerolog.Logger) (*Cache, error) {
	c := &Cache{
		entries: make(map[string]*entry),
		start:   time.Now(),
		log:     log,
	}

	if len(dir) == 0 {
		dir = os.Getenv(EnvDir)
	}
	if len(dir) == 0 {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "sicpjs")
	}
	c.cacheDir = dir
	err := os.MkdirAll(c.cacheDir, 0755)
	if err != nil {
		return nil, err
	}

	files, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, de := range files {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, fileExt) {
			c.log.Warn().Str("dir", c.cacheDir).Str("file", name).
				Msg("unexpected file in cache")
			continue
		}
		fi, err := de.Info()
		if err != nil {
			continue
		}
		e := &entry{
			Size: fi.Size(),
			Time: fi.ModTime(),
		}
		c.entries[strings.TrimSuffix(name, fileExt)] = e
		total += e.Size
	}
	c.log.Debug().Str("dir", c.cacheDir).Stringer("size", byteSize(total)).
		Int("objects", len(c.entries)).Msg("cache opened")

	return c, nil
}

// Close removes the least recently used entries until at most
// pruneLimit bytes remain.  Entries used since the cache was opened are
// kept.  A negative pruneLimit removes all entries and the cache
// directory.
func (c *Cache) Close(pruneLimit int64) error {
	var of oldestFirst
	var total int64
	for hash, e := range c.entries {
		of = append(of, pruneEntry{key: hash, entry: e})
		total += e.Size
	}
	sort.Sort(of)

	var err error
	var pruneCount int
	var pruneBytes int64
	for _, pe := range of {
		if total <= pruneLimit {
			break
		}
		if pruneLimit >= 0 && !pe.Time.Before(c.start) {
			break
		}
		e2 := os.Remove(c.filePath(pe.key))
		if err == nil {
			err = e2
		}
		pruneCount++
		pruneBytes += pe.Size
		total -= pe.Size
	}
	if pruneCount > 0 {
		c.log.Debug().Str("dir", c.cacheDir).Stringer("size", byteSize(pruneBytes)).
			Int("objects", pruneCount).Msg("cache pruned")
	}

	if pruneLimit < 0 {
		_ = os.Remove(c.cacheDir)
	}

	c.entries = nil
	return err
}

// Has reports whether key is in the cache.
func (c *Cache) Has(key string) bool {
	hash := hashKey(key)
	entry, ok := c.entries[hash]
	if ok {
		entry.Time = time.Now()
	}
	return ok
}

// Put stores data under key.
func (c *Cache) Put(key string, data []byte) error {
	hash := hashKey(key)
	path := c.filePath(hash)
	err := os.WriteFile(path, data, 0644)
	if err != nil {
		return err
	}
	c.entries[hash] = &entry{
		Size: int64(len(data)),
		Time: time.Now(),
	}
	return nil
}

// Get returns the data stored under key.  For missing keys the error
// satisfies os.IsNotExist.
func (c *Cache) Get(key string) ([]byte, error) {
	hash := hashKey(key)
	data, err := os.ReadFile(c.filePath(hash))
	if err != nil {
		return nil, err
	}
	if e, ok := c.entries[hash]; ok {
		e.Time = time.Now()
	}
	return data, nil
}

func (c *Cache) filePath(hash string) string {
	return filepath.Join(c.cacheDir, hash+fileExt)
}

// Key combines several parts into one cache key.
func Key(parts ...[]byte) string {
	h := sha3.NewShake128()
	for _, p := range parts {
		h.Write(p)
		h.Write([]byte{0})
	}
	buf := make([]byte, 24)
	h.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}

func hashKey(key string) string {
	h := sha3.NewShake128()
	h.Write([]byte(key))
	buf := make([]byte, 15)
	h.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}

type entry struct {
	Size int64
	Time time.Time
}

type pruneEntry struct {
	key string
	*entry
}

type oldestFirst []pruneEntry

func (of oldestFirst) Len() int { return len(of) }
func (of oldestFirst) Less(i, j int) bool {
	return of[i].Time.Before(of[j].Time)
}
func (of oldestFirst) Swap(i, j int) { of[i], of[j] = of[j], of[i] }
