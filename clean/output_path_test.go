package clean

import (
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"csscleaner/cleaner"
	"csscleaner/config"
	"csscleaner/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Output.Transliterate = transliterate
	cfg.Output.NameTemplate = template

	return &state.LocalEnv{
		Log:    zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		Cfg:    cfg,
		NoDirs: noDirs,
	}
}

func TestBuildOutputPath(t *testing.T) {
	stats := cleaner.Stats{RemovedSelectors: 7, RemovedRules: 3, IgnoredSelectors: 2}

	tests := []struct {
		name          string
		noDirs        bool
		transliterate bool
		template      string
		src           string
		want          string
	}{
		{"no dirs", true, false, "", "assets/css/site.css", filepath.Join("/out", "site.css")},
		{"keep dirs", false, false, "", "assets/css/site.css", filepath.Join("/out", "assets", "css", "site.css")},
		{"single file", false, false, "", "site.css", filepath.Join("/out", "site.css")},
		{"other extension", true, false, "", "site.scss", filepath.Join("/out", "site.css")},
		{"hidden name", true, false, "", ".site.css", filepath.Join("/out", "site.css")},
		{"transliterate", true, true, "", "Книга.css", filepath.Join("/out", "kniga.css")},
		{"template", true, false, "{{ .SourceFile }}.min", "a/site.css", filepath.Join("/out", "site.min.css")},
		{"template with stats", true, false, "{{ .SourceFile }}-{{ .Removed }}-{{ .RemovedRules }}-{{ .Ignored }}", "site.css", filepath.Join("/out", "site-7-3-2.css")},
		{"template with subdirs", true, false, "{{ .Dir }}/clean/{{ .SourceFile }}", "a/b/site.css", filepath.Join("/out", "a", "b", "clean", "site.css")},
		{"template with sprig", true, false, "{{ .SourceFile | upper }}", "site.css", filepath.Join("/out", "SITE.css")},
		{"template keeps dirs", false, false, "{{ .SourceFile }}.min", "a/site.css", filepath.Join("/out", "a", "site.min.css")},
		{"template cannot escape", true, false, "../{{ .SourceFile }}", "site.css", filepath.Join("/out", "_bad_file_name_", "site.css")},
		{"broken template", true, false, "{{ .SourceFile ", "site.css", filepath.Join("/out", "site.css")},
		{"unknown field", true, false, "{{ .Title }}", "site.css", filepath.Join("/out", "site.css")},
		{"empty expansion", true, false, "{{ if false }}x{{ end }}", "site.css", filepath.Join("/out", "site.css")},
		{"template transliterated", true, true, "Автор/{{ .SourceFile }}", "site.css", filepath.Join("/out", "avtor", "site.css")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, tt.transliterate, tt.template)
			got := buildOutputPath(filepath.FromSlash(tt.src), filepath.FromSlash("/out"), stats, env)
			if want := filepath.FromSlash(tt.want); got != want {
				t.Errorf("buildOutputPath() = %q, want %q", got, want)
			}
		})
	}
}

func TestPathSegments(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a", []string{"a"}},
		{filepath.Join("a", "b", "c"), []string{"a", "b", "c"}},
		{"a" + string(filepath.Separator), []string{"a"}},
		{string(filepath.Separator) + "a", []string{"a"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := pathSegments(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("pathSegments(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
