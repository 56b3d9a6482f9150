package tts

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	slugRE       = regexp.MustCompile(`[^a-z_]`)
)

// NormalizeText collapses whitespace so equivalent phrasings share one cache
// entry.
func NormalizeText(text string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}

// CacheFileName builds the cache file name for a (voice, text) pair: a short
// readable slug, the voice, and a sha1 of the exact text.
func CacheFileName(voice, text string) string {
	if voice == "" {
		voice = "-"
	}
	sum := sha1.Sum([]byte(text))

	slug := strings.ReplaceAll(strings.ToLower(norm.NFD.String(text)), " ", "_")
	slug = norm.NFC.String(slugRE.ReplaceAllString(slug, ""))
	if len(slug) > 32 {
		slug = slug[:32]
	}
	return fmt.Sprintf("%s_%s_%s.mp3", slug, voice, hex.EncodeToString(sum[:]))
}

// Cache is a voice+text keyed MP3 cache directory with cached duration
// probing.
type Cache struct {
	rootDir string
	prober  Prober

	mu        sync.Mutex
	durations map[string]float64
}

// NewCache creates a cache rooted at rootDir. The directory is created on
// first write.
func NewCache(rootDir string, prober Prober) *Cache {
	return &Cache{
		rootDir:   rootDir,
		prober:    prober,
		durations: map[string]float64{},
	}
}

// Path returns the cache location for a (voice, text) pair.
func (c *Cache) Path(voice, text string) string {
	return filepath.Join(c.rootDir, CacheFileName(voice, NormalizeText(text)))
}

// Has reports whether a clip is already cached.
func (c *Cache) Has(voice, text string) bool {
	_, err := os.Stat(c.Path(voice, text))
	return err == nil
}

// EnsureDir creates the cache directory.
func (c *Cache) EnsureDir() error {
	if err := os.MkdirAll(c.rootDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", c.rootDir, err)
	}
	return nil
}

// Duration returns the clip duration, probing the file once and memoizing
// the result.
func (c *Cache) Duration(ctx context.Context, path string) (float64, error) {
	c.mu.Lock()
	if duration, ok := c.durations[path]; ok {
		c.mu.Unlock()
		return duration, nil
	}
	c.mu.Unlock()

	duration, err := c.prober.Probe(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("prober.Probe > %w", err)
	}

	c.mu.Lock()
	c.durations[path] = duration
	c.mu.Unlock()
	return duration, nil
}
