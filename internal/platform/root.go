package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrRootNotFound is returned by FindRoot when no marker exists up to the
// filesystem root.
var ErrRootNotFound = errors.New("notes root not found")

// rootMarkers identify a directory holding notes.
var rootMarkers = []string{".quicknotes", "quicknotes.yaml"}

// FindRoot looks upwards from startDir for a directory containing a
// .quicknotes directory or a quicknotes.yaml file and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, m := range rootMarkers {
			if hasFile(dir, m) {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
