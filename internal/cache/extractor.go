// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/pdiddy/spec-assembler/internal/extract"
)

// Extractor is a caching wrapper around extract.ParseFile. Only successful
// results are stored; a failing file is scanned again on every call.
type Extractor struct {
	store     *Store
	delimiter string
	parse     func(delimiter, path string) (string, error)
	log       *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewExtractor returns an Extractor that reads through store.
func NewExtractor(store *Store, delimiter string, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{
		store:     store,
		delimiter: delimiter,
		parse:     extract.ParseFile,
		log:       log,
	}
}

// Extract returns the cached text for path when the file is unchanged and
// runs the extractor otherwise.
func (e *Extractor) Extract(path string) (string, error) {
	ctx := context.Background()

	info, err := os.Stat(path)
	if err != nil {
		// Let the extractor produce its own error for missing files.
		return e.parse(e.delimiter, path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: is a directory", path)
	}

	hash, err := hashFile(path)
	if err != nil {
		return e.parse(e.delimiter, path)
	}

	k := Key{Path: path, Delimiter: e.delimiter, ModTime: info.ModTime(), Size: info.Size(), Hash: hash}
	content, ok, err := e.store.Get(ctx, k)
	if err != nil {
		e.log.Warn("cache lookup failed", "path", path, "err", err)
	} else if ok {
		e.hits.Add(1)
		e.log.Debug("cache hit", "path", path)
		return content, nil
	}

	e.misses.Add(1)
	content, err = e.parse(e.delimiter, path)
	if err != nil {
		return "", err
	}
	if err := e.store.Put(ctx, k, content); err != nil {
		e.log.Warn("cache store failed", "path", path, "err", err)
	}
	return content, nil
}

// hashFile returns the hex SHA-256 of the file at path.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Hits returns the number of results served from the cache.
func (e *Extractor) Hits() int64 { return e.hits.Load() }

// Misses returns the number of files that had to be extracted.
func (e *Extractor) Misses() int64 { return e.misses.Load() }
