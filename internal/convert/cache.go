// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedConverter memoises page text in memory. Entries are keyed on the
// path, size and modification time of the file, so an edited report is
// read again. Errors are never cached.
type CachedConverter struct {
	next  Converter
	cache *gocache.Cache
}

// NewCachedConverter wraps next with a cache whose entries expire after ttl.
func NewCachedConverter(next Converter, ttl time.Duration) *CachedConverter {
	return &CachedConverter{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Pages returns cached page text when the file is unchanged, otherwise it
// delegates to the wrapped converter.
func (c *CachedConverter) Pages(pdfPath string) ([]string, error) {
	key, err := cacheKey(pdfPath)
	if err != nil {
		return c.next.Pages(pdfPath)
	}

	if v, found := c.cache.Get(key); found {
		return append([]string(nil), v.([]string)...), nil
	}

	pages, err := c.next.Pages(pdfPath)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, append([]string(nil), pages...))
	return pages, nil
}

// Len returns the number of cached documents.
func (c *CachedConverter) Len() int {
	return c.cache.ItemCount()
}

func cacheKey(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	id := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	sum := sha256.Sum256([]byte(id))
	return "pioc:pages:v1:" + hex.EncodeToString(sum[:]), nil
}
