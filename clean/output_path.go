package clean

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"csscleaner/cleaner"
	"csscleaner/config"
	"csscleaner/state"
)

const outputExt = ".css"

// buildOutputPath decides where cleaned stylesheet goes. "src" is the
// stylesheet path relative to processed source, "dst" is destination
// directory. Name is either derived from the source or expanded from
// configured template, each path segment is cleaned and, if requested,
// transliterated.
func buildOutputPath(src, dst string, stats cleaner.Stats, env *state.LocalEnv) string {
	outDir := dst
	if !env.NoDirs {
		outDir = filepath.Join(dst, filepath.Dir(src))
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	defaultName := filepath.Join(outDir, cleanSegment(base, env)+outputExt)

	tmpl := env.Cfg.Output.NameTemplate
	if tmpl == "" {
		return defaultName
	}

	dir := filepath.ToSlash(filepath.Dir(src))
	if dir == "." {
		dir = ""
	}
	expanded, err := expandTemplate(config.OutputNameTemplateFieldName, tmpl, Values{
		SourceFile:   base,
		Dir:          dir,
		Removed:      stats.RemovedSelectors,
		RemovedRules: stats.RemovedRules,
		Ignored:      stats.IgnoredSelectors,
	})
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return defaultName
	}

	segments := pathSegments(filepath.FromSlash(expanded))
	if len(segments) == 0 {
		return defaultName
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for i, s := range segments {
		s = cleanSegment(s, env)
		if i == len(segments)-1 {
			s += outputExt
		}
		parts = append(parts, s)
	}
	return filepath.Join(parts...)
}

// pathSegments splits path into its non empty elements.
func pathSegments(path string) []string {
	var segments []string
	for head, tail := filepath.Split(path); ; head, tail = filepath.Split(head) {
		if tail != "" {
			segments = slices.Insert(segments, 0, tail)
		}
		head = strings.TrimRight(head, string(filepath.Separator))
		if head == "" || head == filepath.VolumeName(head) {
			break
		}
	}
	return segments
}

func cleanSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Output.Transliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
