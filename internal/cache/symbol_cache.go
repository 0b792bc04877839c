// Package cache implements a disk-backed symbol-summary cache keyed by
// (content hash, language), so a file whose bytes haven't changed never
// pays for a second tree-sitter parse and complexity walk.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	_ "github.com/mattn/go-sqlite3"
	"github.com/maypok86/otter"

	"github.com/cortexcore/cortexcore/internal/symbol"
)

const schema = `
CREATE TABLE IF NOT EXISTS symbol_cache (
	content_hash TEXT NOT NULL,
	language     TEXT NOT NULL,
	summary_json TEXT NOT NULL,
	PRIMARY KEY (content_hash, language)
);
`

// memCapacity bounds the in-memory L1 layer in front of sqlite; a summary
// cache hit is cheap enough that there is little value caching more
// entries than a typical project's file count.
const memCapacity = 20_000

// SymbolCache is a two-level cache: an in-process otter LRU backed by a
// sqlite table for persistence across process restarts.
type SymbolCache struct {
	db  *sql.DB
	mem otter.Cache[string, *symbol.FileSummary]
}

// Open opens (creating if needed) the sqlite-backed cache at path.
func Open(path string) (*SymbolCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	mem, err := otter.MustBuilder[string, *symbol.FileSummary](memCapacity).Build()
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SymbolCache{db: db, mem: mem}, nil
}

func (c *SymbolCache) Close() error { return c.db.Close() }

func cacheKey(contentHash, language string) string {
	return contentHash + "|" + language
}

// Get returns the cached summary for (contentHash, language), if any.
func (c *SymbolCache) Get(ctx context.Context, contentHash, language string) (*symbol.FileSummary, bool, error) {
	key := cacheKey(contentHash, language)
	if v, ok := c.mem.Get(key); ok {
		return v, true, nil
	}

	row := c.db.QueryRowContext(ctx,
		`SELECT summary_json FROM symbol_cache WHERE content_hash = ? AND language = ?`,
		contentHash, language)

	var blob string
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var summary symbol.FileSummary
	if err := json.Unmarshal([]byte(blob), &summary); err != nil {
		return nil, false, err
	}
	c.mem.Set(key, &summary)
	return &summary, true, nil
}

// Put stores summary for (contentHash, language), replacing any existing
// entry — content hashes are stable, so an overwrite only happens if the
// extraction logic itself changed between runs.
func (c *SymbolCache) Put(ctx context.Context, contentHash, language string, summary *symbol.FileSummary) error {
	blob, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO symbol_cache (content_hash, language, summary_json) VALUES (?, ?, ?)
		 ON CONFLICT(content_hash, language) DO UPDATE SET summary_json = excluded.summary_json`,
		contentHash, language, string(blob))
	if err != nil {
		return err
	}

	c.mem.Set(cacheKey(contentHash, language), summary)
	return nil
}
