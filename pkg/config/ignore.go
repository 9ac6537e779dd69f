package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// alwaysSkipped are directory names never worth scanning for documents.
var alwaysSkipped = []string{"node_modules", "vendor", "__pycache__"}

// ignoreRules are the directory patterns of a scan root's .gitignore.
// Only directory-level rules matter to discovery: negations and file
// patterns are ignored.
type ignoreRules struct {
	root     string
	anchored []string // relative to root, from patterns starting with "/"
	anywhere []string // matched against each directory name
}

// loadIgnoreRules reads root/.gitignore. A missing file yields the
// built-in rules only.
func loadIgnoreRules(root string) ignoreRules {
	r := ignoreRules{root: root, anywhere: append([]string(nil), alwaysSkipped...)}

	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return r
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "/**"), "/")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") || strings.Contains(line, "/") {
			r.anchored = append(r.anchored, strings.TrimPrefix(line, "/"))
			continue
		}
		r.anywhere = append(r.anywhere, line)
	}
	return r
}

// skip reports whether the directory at path should not be scanned.
func (r ignoreRules) skip(path string) bool {
	name := filepath.Base(path)
	for _, p := range r.anywhere {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range r.anchored {
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
	}
	return false
}
