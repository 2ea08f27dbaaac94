package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun reports whether the process runs via `go run` or `go test`.
// Both build their binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolvePath returns the directory the fs adapter should use.
// With forceTemp, paths outside the system temp directory are re-rooted
// under <tmp>/quicknotes-dev/<base name>.
func ResolvePath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	tempRoot := os.TempDir()
	if rel, err := filepath.Rel(tempRoot, clean); err == nil && filepath.IsAbs(clean) && !strings.HasPrefix(rel, "..") {
		return clean
	}

	sub := filepath.Base(clean)
	if userPath == "" || sub == "." || sub == string(os.PathSeparator) {
		sub = "default"
	}
	return filepath.Join(tempRoot, "quicknotes-dev", sub)
}
