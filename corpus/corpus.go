// Package corpus assembles usage sources (markup, templates, scripts) into a
// single text which is later searched for selector fragments.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
)

// ErrReadSource is returned when a matched source file cannot be read.
var ErrReadSource = errors.New("unable to read source file")

// SourcesHeader is logged once before visited source files are listed.
const SourcesHeader = "=== Source files ==="

// Builder expands glob patterns and concatenates matched files.
type Builder struct {
	log     *zap.Logger
	listing bool
	exclude *ignore.GitIgnore
}

// NewBuilder creates corpus builder. When listing is requested every visited
// file is logged. Exclude lines use gitignore syntax and are applied to
// matched paths before files are read.
func NewBuilder(log *zap.Logger, listing bool, exclude []string) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Builder{log: log.Named("corpus"), listing: listing}

	lines := make([]string, 0, len(exclude))
	for _, line := range exclude {
		if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	if len(lines) > 0 {
		b.exclude = ignore.CompileIgnoreLines(lines...)
	}
	return b
}

// Build reads all files matched by patterns, pattern order outer and match
// order inner, and joins their content with new lines. Pattern which does not
// match anything contributes nothing. Any read failure aborts the build.
func (b *Builder) Build(patterns []string) (string, error) {
	if b.listing {
		b.log.Info(SourcesHeader)
	}

	var parts []string
	for _, pattern := range patterns {
		files, err := b.Expand(pattern)
		if err != nil {
			return "", err
		}
		if len(files) == 0 {
			b.log.Debug("Pattern does not match any files", zap.String("pattern", pattern))
			continue
		}
		for _, file := range files {
			if b.listing {
				b.log.Info(file)
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return "", fmt.Errorf("%w '%s': %w", ErrReadSource, file, err)
			}
			parts = append(parts, string(data))
		}
	}

	corpus := strings.Join(parts, "\n")
	b.log.Debug("Corpus assembled", zap.Int("files", len(parts)), zap.Int("bytes", len(corpus)))
	return corpus, nil
}

// Expand returns regular files matching pattern without excluded ones.
func (b *Builder) Expand(pattern string) ([]string, error) {
	files, err := expand(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad source pattern '%s': %w", pattern, err)
	}
	if b.exclude == nil {
		return files, nil
	}

	kept := files[:0]
	for _, file := range files {
		if b.exclude.MatchesPath(file) {
			b.log.Debug("Excluding source file", zap.String("file", file))
			continue
		}
		kept = append(kept, file)
	}
	return kept, nil
}
