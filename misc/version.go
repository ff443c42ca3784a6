package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Set at build time with -ldflags "-X fontswap/misc.version=... -X fontswap/misc.githash=...".
var (
	version = "dev"
	githash = "unknown"
)

const appName = "fontswap"

// GetAppName returns program name, falling back to executable name.
func GetAppName() string {
	if appName != "" {
		return appName
	}
	return strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return githash
}
