// Package catalog loads the list of songs to rank.
//
// Two file formats are accepted. TOML catalogs list songs as tables:
//
//	name = "Abbey Road"
//
//	[[song]]
//	title = "Come Together"
//	artist = "The Beatles"
//
// Any other file is read as plain text with one title per line; blank lines
// and lines starting with "#" are ignored.
package catalog

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/songsort/pkg/errors"
)

// Song is one catalog entry.
type Song struct {
	Title  string `toml:"title"`
	Artist string `toml:"artist,omitempty"`
}

// Catalog is an ordered song list.
type Catalog struct {
	Name  string `toml:"name,omitempty"`
	Songs []Song `toml:"song"`
}

// Load reads a catalog from path, choosing the format by extension.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "read catalog %s", path)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}
	return ParseText(data)
}

// ParseTOML decodes a TOML catalog.
func ParseTOML(data []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode catalog")
	}
	for i, s := range c.Songs {
		c.Songs[i].Title = strings.TrimSpace(s.Title)
		c.Songs[i].Artist = strings.TrimSpace(s.Artist)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseText reads one title per line.
func ParseText(data []byte) (*Catalog, error) {
	var c Catalog
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c.Songs = append(c.Songs, Song{Title: line})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "read catalog")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Songs) == 0 {
		return errors.New(errors.ErrCodeInvalidCatalog, "catalog has no songs")
	}
	for i, s := range c.Songs {
		if s.Title == "" {
			return errors.New(errors.ErrCodeInvalidCatalog, "song %d has no title", i+1)
		}
	}
	return nil
}

// Items returns the distinct labels of the catalog in order. A title shared
// by songs from different artists is labelled "Title (Artist)"; exact
// repeats are dropped.
func (c *Catalog) Items() []string {
	titles := make(map[string]int, len(c.Songs))
	for _, s := range c.Songs {
		titles[s.Title]++
	}
	seen := make(map[string]bool, len(c.Songs))
	items := make([]string, 0, len(c.Songs))
	for _, s := range c.Songs {
		label := s.Title
		if titles[s.Title] > 1 && s.Artist != "" {
			label = s.Title + " (" + s.Artist + ")"
		}
		if seen[label] {
			continue
		}
		seen[label] = true
		items = append(items, label)
	}
	return items
}
