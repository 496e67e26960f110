// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// Discover expands patterns into an ordered list of files. Patterns are
// processed in the order given; the matches of one pattern are sorted, and
// a file matched twice keeps its first position. Patterns support "**".
// A pattern without glob syntax names a file that must exist.
func Discover(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		var matches []string
		if isGlob(pattern) {
			m, err := doublestar.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("expanding pattern %s: %w", pattern, err)
			}
			sort.Strings(m)
			for _, p := range m {
				info, err := os.Stat(p)
				if err != nil {
					return nil, fmt.Errorf("reading source %s: %w", p, err)
				}
				if !info.IsDir() {
					matches = append(matches, p)
				}
			}
		} else {
			info, err := os.Stat(pattern)
			if err != nil {
				return nil, fmt.Errorf("reading source %s: %w", pattern, err)
			}
			if info.IsDir() {
				return nil, fmt.Errorf("source %s is a directory; use a pattern such as %s", pattern, filepath.Join(pattern, "**", "*"))
			}
			matches = []string{pattern}
		}

		for _, p := range matches {
			key := filepath.Clean(p)
			if seen[key] {
				continue
			}
			seen[key] = true
			files = append(files, p)
		}
	}

	return files, nil
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
