// Package misc holds build time information.
package misc

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// set by linker
var (
	version = "dev"
	gitHash = ""
)

const appName = "kshim"

// GetAppName returns program name used for logs, reports and temporary files.
func GetAppName() string {
	if len(os.Args) > 0 {
		if name := strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0])); name == appName {
			return name
		}
	}
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns commit hash program was built from, falling back to
// module build information when linker did not provide it.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
