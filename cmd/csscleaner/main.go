package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"csscleaner/clean"
	"csscleaner/misc"
	"csscleaner/state"
)

func main() {
	// interrupt stops processing between stylesheets
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "removes unused selectors from stylesheets",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "clean",
				Usage:        "Removes selectors not used by application sources from stylesheet(s)",
				OnUsageError: usageErrorHandler,
				Action:       clean.Run,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "source", Aliases: []string{"s"},
						Usage: "glob `PATTERN` of usage sources (markup, templates, scripts), may be repeated, replaces configured sources"},
					&cli.StringSliceFlag{Name: "exclude", Aliases: []string{"x"},
						Usage: "skip matched sources using gitignore `PATTERN`, may be repeated"},
					&cli.StringFlag{Name: "raw", Usage: "use content of `FILE` as corpus when no sources are specified"},
					&cli.StringSliceFlag{Name: "ignore", Aliases: []string{"i"},
						Usage: "never remove selectors containing `TEXT` (or matching /REGEXP/), may be repeated"},
					&cli.BoolFlag{Name: "exact-ignore", Usage: "ignore text must be equal to selector (leading . or # is not significant)"},
					&cli.BoolFlag{Name: "log-sources", Usage: "list source files as they are read"},
					&cli.BoolFlag{Name: "log-removed", Usage: "report every removed selector"},
					&cli.BoolFlag{Name: "log-ignored", Usage: "report every selector kept because of ignore rules"},
					&cli.BoolFlag{Name: "nodirs", Aliases: []string{"nd"}, Usage: "when producing output do not keep input directory structure"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
					&cli.BoolFlag{Name: "stdout", Usage: "write cleaned stylesheet to STDOUT instead of DESTINATION"},
					&cli.StringFlag{Name: "force-zip-cp",
						Usage: "force `ENCODING` for ALL non UTF-8 file names in processed archives (see IANA.org for character set names)"},
				},
				ArgsUsage: "SOURCE [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to stylesheet(s) to process:
        path to a file: "[path_to_file]file.css"
        path to a directory: "[path_to_directory]directory" - recursively process all css files under directory (symbolic links are not followed)
        path to a zip archive with optional path inside archive: "[path_to_archive]archive.zip[path_in_archive]"
            process all css files in archive under path_in_archive, if present

DESTINATION:
    always a path, output file name(s) will be derived from source names or output name template
    if absent - current working directory

Selectors are checked against corpus assembled from files matched by sources
patterns (or raw text when there are none). Regions of stylesheet between
"/* postcss-cleaner:ignore on */" and "/* postcss-cleaner:ignore off */"
comments are left untouched.

When --stdout is used informational messages are written to STDOUT as well,
set console logging level to "none" to get stylesheet only.
`, cli.CommandHelpTemplate),
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Writes configuration in effect: embedded defaults with values from
configuration file applied on top. Use --default flag to get embedded
configuration template as is.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// os.Exit skips deferred calls, this one must stay the only one
	defer func() {
		stop()
		if err != nil {
			// logging may be not ready yet or already closed
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}
