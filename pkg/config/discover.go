package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vanderheijden86/connections/pkg/model"
)

// DiscoverDocuments scans the configured paths for document files and
// returns them sorted, without duplicates.
func DiscoverDocuments(cfg Config) []string {
	seen := make(map[string]bool)
	var result []string
	for _, root := range cfg.ScanPaths {
		for _, f := range scanForDocuments(root, cfg.MaxDepth) {
			if !seen[f] {
				seen[f] = true
				result = append(result, f)
			}
		}
	}
	sort.Strings(result)
	return result
}

// scanForDocuments walks root up to maxDepth directories deep collecting
// files with the document extension. Hidden directories and directories
// ignored by the root's .gitignore are skipped.
func scanForDocuments(root string, maxDepth int) []string {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	root = filepath.Clean(expandHome(root))
	var results []string

	rootDepth := strings.Count(root, string(filepath.Separator))
	rules := loadIgnoreRules(root)

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
			if depth > maxDepth {
				return filepath.SkipDir
			}
			if path != root && (strings.HasPrefix(d.Name(), ".") || rules.skip(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == model.Extension {
			results = append(results, path)
		}
		return nil
	})

	return results
}
