//go:build !windows

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/term"
)

// CleanFileName drops path separators and leading dots, so produced name
// always stays in destination directory and is not hidden.
func CleanFileName(in string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if sym == 0 || strings.ContainsRune(string(os.PathSeparator)+string(os.PathListSeparator), sym) {
			return -1
		}
		return sym
	}, in), ".")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}

// FontDirs returns directories fonts are usually installed to, system wide
// ones first.
func FontDirs() []string {
	var dirs []string
	if runtime.GOOS == "darwin" {
		dirs = []string{"/System/Library/Fonts", "/Library/Fonts"}
	} else {
		dirs = []string{"/usr/share/fonts", "/usr/local/share/fonts"}
	}
	home, err := os.UserHomeDir()
	if err != nil || len(home) == 0 {
		return dirs
	}
	if runtime.GOOS == "darwin" {
		return append(dirs, filepath.Join(home, "Library", "Fonts"))
	}
	if data := os.Getenv("XDG_DATA_HOME"); len(data) > 0 {
		dirs = append(dirs, filepath.Join(data, "fonts"))
	} else {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"))
	}
	return append(dirs, filepath.Join(home, ".fonts"))
}
