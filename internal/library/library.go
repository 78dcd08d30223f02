// Package library discovers media files on disk and pairs them with their proxies
package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/PizzaHomicide/koma/internal/log"
)

// Item is a media file that can be opened, with its proxy when one exists next to it
type Item struct {
	// Name is the path relative to the library directory
	Name  string
	Path  string
	Proxy string
}

// HasProxy reports whether a proxy was found for the item
func (i Item) HasProxy() bool {
	return i.Proxy != ""
}

// Options controls which files are listed
type Options struct {
	// Extensions are the accepted file extensions including the dot.  Matching ignores case.
	Extensions []string
	// ProxySuffix marks proxy files: "clip_proxy.mp4" is the proxy of "clip.mov" for the suffix "_proxy".
	ProxySuffix string
}

// Scan walks dir and returns its media files sorted by name.  Proxy files are not listed on their own, they are
// attached to the item sharing their base name.
func Scan(dir string, opts Options) ([]Item, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read library: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library path %s is not a directory", dir)
	}

	accepted := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		accepted[strings.ToLower(ext)] = true
	}

	var media []string
	proxies := make(map[string]string)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug("Skipping unreadable library entry", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !accepted[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		if stem, ok := proxyStem(path, opts.ProxySuffix); ok {
			// First proxy found wins when several containers share a stem
			if _, exists := proxies[stem]; !exists {
				proxies[stem] = path
			}
			return nil
		}
		media = append(media, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan library: %w", err)
	}

	items := make([]Item, 0, len(media))
	for _, path := range media {
		name, err := filepath.Rel(dir, path)
		if err != nil {
			name = filepath.Base(path)
		}
		items = append(items, Item{
			Name:  name,
			Path:  path,
			Proxy: proxies[stem(path)],
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})

	log.Debug("Library scanned", "dir", dir, "items", len(items), "proxies", len(proxies))
	return items, nil
}

// FindProxy looks next to a media file for its proxy.  Returns an empty string when there is none.
func FindProxy(path string, opts Options) string {
	if _, ok := proxyStem(path, opts.ProxySuffix); ok || opts.ProxySuffix == "" {
		return ""
	}

	base := stem(path)
	for _, ext := range opts.Extensions {
		for _, candidate := range []string{base + opts.ProxySuffix + ext, base + opts.ProxySuffix + strings.ToUpper(ext)} {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}

// Filter returns the items whose name fuzzily matches the query, best matches first.  An empty query keeps every item.
func Filter(items []Item, query string) []Item {
	if query == "" {
		return items
	}

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}

	matches := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(matches)

	filtered := make([]Item, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, items[m.OriginalIndex])
	}
	return filtered
}

// stem is the path without its extension
func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// proxyStem reports whether path names a proxy file and, if so, the stem of the media it belongs to
func proxyStem(path, suffix string) (string, bool) {
	if suffix == "" {
		return "", false
	}
	s := stem(path)
	if !strings.HasSuffix(s, suffix) || len(s) == len(suffix) {
		return "", false
	}
	return strings.TrimSuffix(s, suffix), true
}
