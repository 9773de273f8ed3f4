package refcache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/mtgban/tcg2deckbox/scryfall"
)

const (
	DefaultTTL = 7 * 24 * time.Hour

	MultiNamesFile = "multiple_names.json"
	BuyABoxFile    = "bab.json"
)

type LogCallbackFunc func(format string, a ...interface{})

// Table is a flat name lookup persisted as a JSON object.
type Table map[string]string

// Fetcher walks a paginated card search, see scryfall.Client.
type Fetcher interface {
	Search(ctx context.Context, link string, fn func(card *scryfall.Card)) error
}

// Extractor adds zero or more entries derived from card to table.
type Extractor func(card *scryfall.Card, table map[string]string)

type Cache struct {
	LogCallback LogCallbackFunc

	// Tables older than this are downloaded again
	TTL time.Duration

	dir     string
	fetcher Fetcher
	now     func() time.Time
}

func New(dir string, fetcher Fetcher) *Cache {
	cache := Cache{}
	cache.TTL = DefaultTTL
	cache.dir = dir
	cache.fetcher = fetcher
	cache.now = time.Now
	return &cache
}

func (c *Cache) printf(format string, a ...interface{}) {
	if c.LogCallback != nil {
		c.LogCallback("[CACHE] "+format, a...)
	}
}

// Path returns the location of the named table on disk.
func (c *Cache) Path(name string) string {
	return filepath.Join(c.dir, name)
}

// GetOrRefresh returns the named table. A table written less than TTL ago
// is loaded as is, anything else (missing, unreadable, stale) is rebuilt
// from link using extractor and written back to disk.
// Download failures are not fatal: whatever was collected before the
// failure is persisted and returned. A canceled ctx never writes to disk.
func (c *Cache) GetOrRefresh(ctx context.Context, name, link string, extractor Extractor) Table {
	path := c.Path(name)

	info, err := os.Stat(path)
	switch {
	case err != nil:
		c.printf("File %s not found - creating...", path)
	case c.now().Sub(info.ModTime()) > c.TTL:
		c.printf("%s last modified: %s", path, info.ModTime().Format(time.ANSIC))
		c.printf("File %s is stale - updating...", path)
	default:
		c.printf("%s last modified: %s", path, info.ModTime().Format(time.ANSIC))
		table, err := load(path)
		if err == nil {
			c.printf("Using existing %s file...", path)
			return table
		}
		c.printf("File %s is unreadable (%v) - updating...", path, err)
	}

	table := c.fetch(ctx, link, extractor)

	// An interrupted download is not worth a full TTL on disk
	if ctx.Err() != nil {
		c.printf("Download of %s interrupted, %s left untouched", link, path)
		previous, err := load(path)
		if err == nil {
			return previous
		}
		return table
	}

	err = store(path, table)
	if err != nil {
		c.printf("Unable to write %s: %v", path, err)
	}
	c.printf("Done! %d entries in %s", len(table), path)

	return table
}

func (c *Cache) fetch(ctx context.Context, link string, extractor Extractor) Table {
	table := Table{}
	if c.fetcher == nil {
		return table
	}

	err := c.fetcher.Search(ctx, link, func(card *scryfall.Card) {
		extractor(card, table)
	})
	if err != nil {
		c.printf("Exception: was unable to download %s: %v", link, err)
	}

	return table
}

func load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	table := Table{}
	err = json.Unmarshal(data, &table)
	if err != nil {
		return nil, err
	}
	return table, nil
}

func store(path string, table Table) error {
	data, err := json.Marshal(table)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
