package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// TempFilePrefix marks half-written collection files, which Keys skips.
const TempFilePrefix = "quicknotes-tmp-"

// writeFileAtomic replaces filename with data. Readers see either the old
// file or the new one, never a partial write.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	staged, err := stage(dir, data, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(staged, filename); err != nil {
		_ = os.Remove(staged)
		return fmt.Errorf("failed to move %s into place: %w", filepath.Base(filename), err)
	}
	syncDir(dir)
	return nil
}

// stage writes data to a synced temp file in dir and returns its path.
// The rename that follows must stay on one filesystem, hence dir.
func stage(dir string, data []byte, perm os.FileMode) (string, error) {
	f, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return "", fmt.Errorf("failed to stage write: %w", err)
	}
	name := f.Name()

	err = f.Chmod(perm)
	if err == nil {
		_, err = f.Write(data)
	}
	if err == nil {
		err = f.Sync()
	}
	err = errors.Join(err, f.Close())
	if err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("failed to stage write: %w", err)
	}
	return name, nil
}

// syncDir flushes the directory entry of a rename. Not every platform can
// open a directory for syncing; those keep the rename unsynced.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
