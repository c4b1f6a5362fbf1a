// Package misc keeps build time information about the program.
package misc

// set by linker
var (
	version = "dev"
	githash = "unknown"
	appname = "csscleaner"
)

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns git commit the program was built from.
func GetGitHash() string {
	return githash
}

// GetAppName returns program name used for logs, reports and help.
func GetAppName() string {
	return appname
}
