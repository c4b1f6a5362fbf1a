// Package cleaner removes stylesheet selectors which are not referenced by
// usage sources.
package cleaner

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"csscleaner/config"
	"csscleaner/corpus"
	"csscleaner/css"
)

// ErrNoCorpus is reported as a warning when there is nothing to check
// selectors against. Stylesheet is left unmodified in this case.
var ErrNoCorpus = errors.New("array of sources or raw source is necessary to clean stylesheet")

// Result of processing single stylesheet.
type Result struct {
	Warnings []error
	Stats    Stats
}

// Cleaner holds corpus and ignore rules prepared once and applied to any
// number of stylesheets.
type Cleaner struct {
	log    *zap.Logger
	cfg    config.CleanerConfig
	corpus string
	rules  []IgnoreRule
}

// New prepares cleaner. When sources are configured as a list corpus is
// assembled from matched files, otherwise raw text is used. Failure to read
// any matched file is fatal.
func New(cfg *config.CleanerConfig, log *zap.Logger) (*Cleaner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Cleaner{log: log, cfg: *cfg}

	var err error
	if patterns, ok := corpus.Flatten(cfg.Sources); ok {
		b := corpus.NewBuilder(log, cfg.Log.SourcesList, cfg.Exclude)
		if c.corpus, err = b.Build(patterns); err != nil {
			return nil, fmt.Errorf("unable to build corpus: %w", err)
		}
	} else {
		if cfg.Sources != nil {
			log.Debug("Sources are not a list, using raw corpus", zap.Any("sources", cfg.Sources))
		}
		c.corpus = cfg.Raw
	}

	if c.rules, err = ParseIgnoreRules(cfg.Ignore); err != nil {
		return nil, err
	}
	return c, nil
}

// Corpus returns text selectors are looked up in.
func (c *Cleaner) Corpus() string {
	return c.corpus
}

// Process filters stylesheet in place. Filter state never leaks between
// stylesheets.
func (c *Cleaner) Process(sheet *css.Stylesheet) Result {
	if len(c.corpus) == 0 {
		return Result{Warnings: []error{ErrNoCorpus}}
	}
	f := NewFilter(c.corpus, c.rules, c.log,
		WithLiteralMatch(c.cfg.LiteralMatch),
		WithLogging(c.cfg.Log))
	return Result{Stats: f.Apply(sheet)}
}

// Clean parses stylesheet, processes it and returns serialized result. When
// there is no corpus input is returned as is.
func (c *Cleaner) Clean(data []byte, source string) ([]byte, Result, error) {
	if len(c.corpus) == 0 {
		return data, Result{Warnings: []error{ErrNoCorpus}}, nil
	}
	sheet, err := css.NewParser(c.log).Parse(data, source)
	if err != nil {
		return nil, Result{}, fmt.Errorf("unable to parse stylesheet: %w", err)
	}
	res := c.Process(sheet)
	return []byte(sheet.String()), res, nil
}
