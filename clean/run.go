// Package clean implements "clean" command: stylesheets are read, filtered
// against usage sources and written to destination.
package clean

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"csscleaner/archive"
	"csscleaner/cleaner"
	"csscleaner/config"
	"csscleaner/css"
	"csscleaner/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("clean")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if err := applyFlags(cmd, &env.Cfg.Cleaner); err != nil {
		return err
	}
	env.NoDirs, env.Overwrite, env.ToStdout = cmd.Bool("nodirs"), cmd.Bool("overwrite"), cmd.Bool("stdout")

	// zip does not define file name encoding, old archives may need code
	// page to be forced
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		env.CodePage = codePage(cp, log)
	}

	c, err := cleaner.New(&env.Cfg.Cleaner, env.Log)
	if err != nil {
		return err
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("corpus.txt", []byte(c.Corpus()))
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, c, src, dst, log)
}

// codePage resolves IANA character set name, unknown names are ignored.
func codePage(name string, log *zap.Logger) encoding.Encoding {
	cp, err := ianaindex.IANA.Encoding(name)
	if err != nil || cp == nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", name), zap.Error(err))
		return nil
	}
	n, _ := ianaindex.IANA.Name(cp)
	log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
	return cp
}

// applyFlags superimposes command line on top of configuration.
func applyFlags(cmd *cli.Command, cfg *config.CleanerConfig) error {
	if cmd.IsSet("source") {
		sources := make([]any, 0, len(cmd.StringSlice("source")))
		for _, s := range cmd.StringSlice("source") {
			sources = append(sources, s)
		}
		cfg.Sources = sources
	}
	if cmd.IsSet("exclude") {
		cfg.Exclude = append(cfg.Exclude, cmd.StringSlice("exclude")...)
	}
	if name := cmd.String("raw"); len(name) > 0 {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("unable to read raw corpus from %q: %w", name, err)
		}
		cfg.Raw = string(data)
	}
	if cmd.IsSet("ignore") {
		cfg.Ignore = append(cfg.Ignore, cmd.StringSlice("ignore")...)
	}
	if cmd.Bool("exact-ignore") {
		cfg.LiteralMatch = config.LiteralMatchModeExact
	}
	cfg.Log.SourcesList = cfg.Log.SourcesList || cmd.Bool("log-sources")
	cfg.Log.RemovedRules = cfg.Log.RemovedRules || cmd.Bool("log-removed")
	cfg.Log.IgnoredRules = cfg.Log.IgnoredRules || cmd.Bool("log-ignored")
	return nil
}

// process handles the core logic independently of CLI framework. Source is
// a single stylesheet, a directory to look for stylesheets in or zip archive,
// optionally followed by path inside it.
func process(ctx context.Context, c *cleaner.Cleaner, src, dst string, log *zap.Logger) error {
	toStdout := state.EnvFromContext(ctx).ToStdout

	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exist - probably path in archive
			continue
		}

		if fi.IsDir() {
			if len(tail) != 0 {
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if toStdout {
				return errors.New("output to STDOUT requires single stylesheet as input source")
			}
			return processDir(ctx, c, head, dst, log)
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isZip, err := archive.IsArchive(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isZip {
			inner := filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			return processArchive(ctx, c, head, inner, dst, log)
		}
		if len(tail) != 0 {
			return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}
		return processFile(ctx, c, head, filepath.Base(head), dst, log)
	}
	return fmt.Errorf("input source was not found (%s)", src)
}

// processDir finds all stylesheets under directory and processes them one by
// one. Files are collected before processing, so results written under the
// same directory are never picked up.
func processDir(ctx context.Context, c *cleaner.Cleaner, dir, dst string, log *zap.Logger) error {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() || !strings.EqualFold(filepath.Ext(path), outputExt) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
		return nil
	}

	var errs error
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := processFile(ctx, c, path, rel, dst, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", rel, err))
		}
	}
	return errs
}

// maxEntrySize limits uncompressed size of stylesheet taken from archive.
var maxEntrySize uint64 = 64 << 20

// processArchive cleans all stylesheets inside archive located under "inner"
// path. Entries are written to destination using their path in archive.
func processArchive(ctx context.Context, c *cleaner.Cleaner, path, inner, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	// first pass only looks at archive directory
	count := 0
	seen := make(map[string]bool)
	err := archive.Walk(path, inner, outputExt, func(e archive.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !seen[e.Name] {
			seen[e.Name] = true
			count++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to process archive: %w", err)
	}
	if count == 0 {
		log.Debug("Nothing to process", zap.String("archive", path), zap.String("path", inner))
		return nil
	}
	if env.ToStdout && count > 1 {
		return fmt.Errorf("output to STDOUT requires single stylesheet as input source, archive has %d under (%s)", count, inner)
	}

	var errs error
	done := make(map[string]bool, count)
	err = archive.Walk(path, inner, outputExt, func(e archive.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if done[e.Name] {
			log.Warn("Skipping duplicate entry in archive", zap.String("archive", path), zap.String("file", e.Name))
			return nil
		}
		done[e.Name] = true

		name := entryName(e, env.CodePage, log)
		if err := processEntry(ctx, c, e, name, dst, log); err != nil {
			log.Error("Unable to process file in archive", zap.String("archive", path), zap.String("file", name), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return nil
	})
	if err != nil {
		return multierr.Append(errs, fmt.Errorf("unable to process archive: %w", err))
	}
	return errs
}

func processEntry(ctx context.Context, c *cleaner.Cleaner, e archive.Entry, name, dst string, log *zap.Logger) error {
	if size := e.Size(); size > maxEntrySize {
		return fmt.Errorf("stylesheet is too large (%d bytes, limit %d)", size, maxEntrySize)
	}
	data, err := e.Read()
	if err != nil {
		return fmt.Errorf("unable to read stylesheet: %w", err)
	}
	if rpt := state.EnvFromContext(ctx).Rpt; rpt != nil {
		rpt.StoreData("input/"+name, data)
	}
	return cleanStylesheet(ctx, c, data, name, dst, log)
}

// entryName returns name of archive entry, decoding it with forced code page
// when archive does not mark it as UTF-8.
func entryName(e archive.Entry, cp encoding.Encoding, log *zap.Logger) string {
	if cp == nil || !e.NonUTF8 {
		return e.Name
	}
	n, err := cp.NewDecoder().String(e.Name)
	if err != nil {
		charset, _ := ianaindex.IANA.Name(cp)
		log.Warn("Unable to convert archive name from specified encoding",
			zap.String("charset", charset), zap.String("path", e.Name), zap.Error(err))
		return e.Name
	}
	return n
}

// processFile reads single stylesheet from disk and cleans it. "src" is
// stylesheet path relative to processed source (just base name when single
// file was requested).
func processFile(ctx context.Context, c *cleaner.Cleaner, path, src, dst string, log *zap.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet: %w", err)
	}
	if rpt := state.EnvFromContext(ctx).Rpt; rpt != nil {
		if err := rpt.StoreCopy("input/"+filepath.ToSlash(src), path); err != nil {
			log.Warn("Unable to store stylesheet in report", zap.String("file", path), zap.Error(err))
		}
	}
	return cleanStylesheet(ctx, c, data, src, dst, log)
}

// cleanStylesheet parses, filters and writes single stylesheet, "dst" is
// destination directory.
func cleanStylesheet(ctx context.Context, c *cleaner.Cleaner, data []byte, src, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	var (
		outputName string
		res        cleaner.Result
	)

	log.Info("Cleaning starting", zap.String("from", src))
	defer func(start time.Time) {
		log.Info("Cleaning completed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("to", outputName),
			zap.Int("removed selectors", res.Stats.RemovedSelectors),
			zap.Int("removed rules", res.Stats.RemovedRules),
			zap.Int("ignored selectors", res.Stats.IgnoredSelectors))
	}(time.Now())

	name := filepath.ToSlash(src)

	sheet, err := css.NewParser(log).Parse(data, src)
	if err != nil {
		return fmt.Errorf("unable to parse stylesheet (%s): %w", src, err)
	}

	out := data
	res = c.Process(sheet)
	for _, w := range res.Warnings {
		log.Warn("Stylesheet left unchanged", zap.String("file", src), zap.Error(w))
	}
	if len(res.Warnings) == 0 {
		out = []byte(sheet.String())
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("tree/"+name+".txt", []byte(sheet.Dump()))
	}

	if env.ToStdout {
		outputName = "STDOUT"
		if _, err := env.Out.Write(out); err != nil {
			return fmt.Errorf("unable to write stylesheet: %w", err)
		}
		return nil
	}

	outputName = buildOutputPath(src, dst, res.Stats, env)

	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(outputName, out, 0644); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	if env.Rpt != nil {
		env.Rpt.Store("result/"+name, outputName)
	}
	return nil
}
