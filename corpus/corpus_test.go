package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// writeTree creates files relative to dir and returns dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func slashed(dir string, names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, filepath.Join(dir, filepath.FromSlash(n)))
	}
	return out
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   []string
		wantOK bool
	}{
		{"nil", nil, nil, false},
		{"scalar", "lorem", nil, false},
		{"number", 42, nil, false},
		{"mapping", map[string]any{"a": "b"}, nil, false},
		{"empty", []any{}, []string{}, true},
		{"flat strings", []string{"a", "b"}, []string{"a", "b"}, true},
		{"flat any", []any{"a", "b"}, []string{"a", "b"}, true},
		{"nested", []any{"a", []any{"b", []any{"c"}}, []string{"d"}, "e"}, []string{"a", "b", "c", "d", "e"}, true},
		{"nil items", []any{nil, "a"}, []string{"a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Flatten(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("Flatten() ok = %v, want %v", ok, tt.wantOK)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Flatten() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitPattern(t *testing.T) {
	tests := []struct {
		pattern string
		base    string
		rest    []string
	}{
		{"*.html", ".", []string{"*.html"}},
		{"src/*.js", "src", []string{"*.js"}},
		{"src/app/**/*.vue", "src/app", []string{"**", "*.vue"}},
		{"/srv/www/*.html", "/srv/www", []string{"*.html"}},
		{"/*.html", "/", []string{"*.html"}},
		{"a/{b,c}/index.html", "a", []string{"{b,c}", "index.html"}},
	}
	for _, tt := range tests {
		base, rest := splitPattern(tt.pattern)
		if base != tt.base || !slices.Equal(rest, tt.rest) {
			t.Errorf("splitPattern(%q) = %q %v, want %q %v", tt.pattern, base, rest, tt.base, tt.rest)
		}
	}
}

func TestBuilder_Expand(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"index.html":              "",
		"about.html":              "",
		"app.js":                  "",
		"templates/a.html":        "",
		"templates/b.tmpl":        "",
		"templates/deep/c.html":   "",
		"vendor/lib.js":           "",
		".hidden.html":            "",
		".git/x.html":             "",
		"templates/.cache/d.html": "",
	})
	b := NewBuilder(zaptest.NewLogger(t), false, nil)

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{"single level", "*.html", []string{"about.html", "index.html"}},
		{"literal file", "app.js", []string{"app.js"}},
		{"missing literal", "nope.js", nil},
		{"directory literal", "templates", nil},
		{"no matches", "*.php", nil},
		{"subdirectory", "templates/*.html", []string{"templates/a.html"}},
		{"recursive", "**/*.html", []string{"about.html", "index.html", "templates/a.html", "templates/deep/c.html"}},
		{"recursive below", "templates/**/*.html", []string{"templates/a.html", "templates/deep/c.html"}},
		{"alternatives", "templates/*.{html,tmpl}", []string{"templates/a.html", "templates/b.tmpl"}},
		{"question mark", "app.j?", []string{"app.js"}},
		{"class", "[ai]*.html", []string{"about.html", "index.html"}},
		{"missing base", "nothing/*.html", nil},
		{"hidden file named", ".*.html", []string{".hidden.html"}},
		{"hidden directory named", "**/.cache/*.html", []string{"templates/.cache/d.html"}},
		{"hidden base", ".git/*.html", []string{".git/x.html"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Expand(filepath.Join(dir, filepath.FromSlash(tt.pattern)))
			if err != nil {
				t.Fatalf("Expand() error = %v", err)
			}
			want := slashed(dir, tt.want...)
			if !slices.Equal(got, want) {
				t.Errorf("Expand() = %v, want %v", got, want)
			}
		})
	}
}

func TestBuilder_ExpandBadPattern(t *testing.T) {
	b := NewBuilder(nil, false, nil)
	if _, err := b.Expand("src/[a-.html"); err == nil {
		t.Error("Expected error for malformed pattern")
	}
}

func TestBuilder_Exclude(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src/app.js":         "",
		"src/app.min.js":     "",
		"src/vendor/lib.js":  "",
		"src/widgets/tab.js": "",
	})
	b := NewBuilder(zaptest.NewLogger(t), false, []string{"# comment", "", "vendor/", "*.min.js"})

	got, err := b.Expand(filepath.Join(dir, "src", "**", "*.js"))
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	want := slashed(dir, "src/app.js", "src/widgets/tab.js")
	if !slices.Equal(got, want) {
		t.Errorf("Expand() = %v, want %v", got, want)
	}
}

func TestBuilder_Build(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"b.html":     `<p class="b">`,
		"a.html":     `<div class="a">`,
		"js/main.js": `el.classList.add("main")`,
	})
	b := NewBuilder(zaptest.NewLogger(t), false, nil)

	// pattern order outer, match order inner
	got, err := b.Build([]string{
		filepath.Join(dir, "js", "*.js"),
		filepath.Join(dir, "missing", "*.html"),
		filepath.Join(dir, "*.html"),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := strings.Join([]string{`el.classList.add("main")`, `<div class="a">`, `<p class="b">`}, "\n")
	if got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestBuilder_BuildNothing(t *testing.T) {
	b := NewBuilder(zaptest.NewLogger(t), false, nil)

	got, err := b.Build(nil)
	if err != nil || got != "" {
		t.Errorf("Build(nil) = %q, %v", got, err)
	}
	got, err = b.Build([]string{filepath.Join(t.TempDir(), "*.html")})
	if err != nil || got != "" {
		t.Errorf("Build() with no matches = %q, %v", got, err)
	}
}

func TestBuilder_BuildReadFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permissions are not enforced")
	}
	if os.Geteuid() == 0 {
		t.Skip("root can read anything")
	}

	dir := writeTree(t, map[string]string{"a.html": "a", "b.html": "b"})
	if err := os.Chmod(filepath.Join(dir, "b.html"), 0); err != nil {
		t.Fatal(err)
	}

	got, err := NewBuilder(zaptest.NewLogger(t), false, nil).Build([]string{filepath.Join(dir, "*.html")})
	if !errors.Is(err, ErrReadSource) {
		t.Fatalf("Build() error = %v, want %v", err, ErrReadSource)
	}
	if got != "" {
		t.Errorf("partial corpus returned: %q", got)
	}
}

func TestBuilder_Listing(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.html": "a", "b.html": "b"})

	core, logs := observer.New(zapcore.InfoLevel)
	b := NewBuilder(zap.New(core), true, nil)
	if _, err := b.Build([]string{filepath.Join(dir, "*.html"), filepath.Join(dir, "a.html")}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var got []string
	for _, e := range logs.All() {
		got = append(got, e.Message)
	}
	want := append([]string{SourcesHeader}, slashed(dir, "a.html", "b.html", "a.html")...)
	if !slices.Equal(got, want) {
		t.Errorf("listing = %v, want %v", got, want)
	}
}

func TestBuilder_NoListing(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.html": "a"})

	core, logs := observer.New(zapcore.InfoLevel)
	if _, err := NewBuilder(zap.New(core), false, nil).Build([]string{filepath.Join(dir, "*.html")}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("expected no informational output, got %d entries", logs.Len())
	}
}
