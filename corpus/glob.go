package corpus

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

const globMeta = `*?[{\`

func hasMeta(s string) bool {
	return strings.ContainsAny(s, globMeta)
}

// matcher holds compiled pattern. Since "**" in the middle of the pattern
// must also match zero directories, the pattern with "**" segments collapsed
// is compiled as an alternative.
type matcher struct {
	globs []glob.Glob
	// how deep walk may descend below base, negative means unlimited
	depth int
	// pattern segments starting with dot, only names matching them may be
	// hidden
	dots []glob.Glob
}

func newMatcher(pattern string, rest []string) (*matcher, error) {
	variants := []string{pattern}
	if strings.Contains(pattern, "**") {
		collapsed := strings.ReplaceAll(pattern, "/**/", "/")
		if strings.HasPrefix(collapsed, "**/") {
			collapsed = strings.TrimPrefix(collapsed, "**/")
		}
		if collapsed != pattern {
			variants = append(variants, collapsed)
		}
	}

	m := &matcher{depth: len(rest) - 1}
	if strings.Contains(pattern, "**") {
		m.depth = -1
	}
	for _, seg := range rest {
		if !strings.HasPrefix(seg, ".") || seg == "." || seg == ".." {
			continue
		}
		g, err := glob.Compile(seg)
		if err != nil {
			return nil, err
		}
		m.dots = append(m.dots, g)
	}
	for _, v := range variants {
		g, err := glob.Compile(v, '/')
		if err != nil {
			return nil, err
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// hidden reports dot entry which pattern does not name explicitly. Such
// entries are neither walked into nor matched.
func (m *matcher) hidden(base string) bool {
	if !strings.HasPrefix(base, ".") {
		return false
	}
	for _, g := range m.dots {
		if g.Match(base) {
			return false
		}
	}
	return true
}

func (m *matcher) match(name string) bool {
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// splitPattern separates leading path segments without glob meta characters
// (directory to start walking from) and the rest of the pattern.
func splitPattern(pattern string) (string, []string) {
	segments := strings.Split(pattern, "/")

	i := 0
	for ; i < len(segments)-1 && !hasMeta(segments[i]); i++ {
	}
	base := strings.Join(segments[:i], "/")
	switch {
	case i > 0 && base == "":
		base = "/"
	case base == "":
		base = "."
	}
	return base, segments[i:]
}

// expand returns regular files matching glob pattern in the order directory
// walk visits them (lexical within directory).
func expand(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, nil
	}

	slashed := path.Clean(filepath.ToSlash(pattern))
	if !hasMeta(slashed) {
		info, err := os.Stat(pattern)
		if err != nil || !info.Mode().IsRegular() {
			return nil, nil
		}
		return []string{pattern}, nil
	}

	base, rest := splitPattern(slashed)

	m, err := newMatcher(slashed, rest)
	if err != nil {
		return nil, err
	}

	var files []string
	root := filepath.FromSlash(base)
	err = filepath.WalkDir(root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable or absent directories simply do not match
			if d != nil && d.IsDir() && name != root {
				return fs.SkipDir
			}
			return nil
		}

		slashedName := filepath.ToSlash(name)
		if name != root && m.hidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if m.depth >= 0 && depthBelow(base, slashedName) > m.depth {
				return fs.SkipDir
			}
			return nil
		}

		if !m.match(slashedName) {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(name); err != nil || !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, name)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return files, nil
}

func depthBelow(base, name string) int {
	if base == "." {
		if name == "." {
			return 0
		}
		return strings.Count(name, "/") + 1
	}
	rel := strings.TrimPrefix(strings.TrimPrefix(name, base), "/")
	if rel == "" {
		return 0
	}
	return strings.Count(rel, "/") + 1
}
