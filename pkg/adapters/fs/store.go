// Package fs provides a core.ByteStore that keeps one file per key,
// optionally versioned with Git.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/quicknotes/pkg/core"
	"github.com/aretw0/quicknotes/pkg/git"
)

// DefaultSystemDir is the hidden directory reserved for store internals.
const DefaultSystemDir = ".quicknotes"

// DefaultExtension is appended to keys to form file names.
const DefaultExtension = ".json"

// Store implements core.ByteStore on the filesystem.
type Store struct {
	Path   string
	git    *git.Client
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
}

// Config holds the configuration for the filesystem store.
type Config struct {
	Path         string
	Extension    string // e.g. ".json" or ".yaml". Defaults to DefaultExtension.
	AutoInit     bool   // Create the directory (and git repo when versioned) if missing.
	MustExist    bool   // Fail Initialize if the directory does not exist.
	Versioned    bool   // Commit every write to Git.
	ReadOnly     bool   // Reject writes with core.ErrReadOnly.
	SystemDir    string // e.g. ".quicknotes"
	Logger       *slog.Logger
	ErrorHandler func(error) // Receives watcher errors. Optional.
}

// NewStore creates a new filesystem-backed store. It does no I/O until
// Initialize or the first operation.
func NewStore(config Config) *Store {
	if config.Extension == "" {
		config.Extension = DefaultExtension
	}
	if !strings.HasPrefix(config.Extension, ".") {
		config.Extension = "." + config.Extension
	}
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		Path:   config.Path,
		git:    git.NewClient(config.Path, config.SystemDir+".lock", config.Logger),
		config: config,
	}
}

// Initialize performs the necessary setup (mkdir, git init).
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.ReadOnly {
		return nil
	}

	// 1. Directory
	info, err := os.Stat(s.Path)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("store path is not a directory: %s", s.Path)
	case os.IsNotExist(err) && s.config.MustExist:
		return fmt.Errorf("store path does not exist: %s", s.Path)
	case os.IsNotExist(err):
		if err := os.MkdirAll(s.Path, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to stat store directory: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(s.Path, s.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create system directory: %w", err)
	}

	// 2. Git
	if !s.config.Versioned {
		return nil
	}
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}
	if !s.git.IsRepo() {
		if !s.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", s.Path)
		}
		if err := s.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		s.config.Logger.Info("initialized git repository", "path", s.Path)
	}

	mod, err := s.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}
	if mod {
		if err := s.commit(ctx, git.FormatMessage(git.CommitTypeChore, "", "ignore "+s.config.SystemDir, ""), ".gitignore"); err != nil {
			return err
		}
	}
	return nil
}

// ensureIgnore keeps the system directory out of version control.
func (s *Store) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(s.Path, ".gitignore")
	entries := []string{s.config.SystemDir + "/", s.config.SystemDir + ".lock"}

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(strings.Join(missing, "\n") + "\n"); err != nil {
		return false, err
	}
	return true, nil
}

// filename maps a key to its path relative to the store root.
func (s *Store) filename(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if clean != key || strings.HasPrefix(clean, "/") || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	first := strings.SplitN(clean, "/", 2)[0]
	if first == s.config.SystemDir || first == ".git" {
		return "", fmt.Errorf("reserved key %q", key)
	}
	return filepath.FromSlash(clean) + s.config.Extension, nil
}

// keyOf maps a path relative to the store root back to its key.
func (s *Store) keyOf(rel string) (string, bool) {
	rel = filepath.ToSlash(rel)
	if !strings.HasSuffix(rel, s.config.Extension) {
		return "", false
	}
	first := strings.SplitN(rel, "/", 2)[0]
	if first == s.config.SystemDir || first == ".git" {
		return "", false
	}
	if strings.HasPrefix(filepath.Base(rel), TempFilePrefix) {
		return "", false
	}
	return strings.TrimSuffix(rel, s.config.Extension), true
}

// Get reads the file stored for key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	name, err := s.filename(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(filepath.Join(s.Path, name))
	if errors.Is(err, iofs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), true, nil
}

// Set writes value atomically and commits it when versioned.
//
// Workflow:
//  1. Validate the key and map it to a file name.
//  2. Create parent directories.
//  3. Write through a temp file + rename.
//  4. (If versioned) 'git add' and 'git commit'.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	name, err := s.filename(key)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(s.Path, name)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := writeFileAtomic(fullPath, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	s.recordWrite()

	if s.config.Versioned {
		return s.commit(ctx, git.FormatMessage(git.CommitTypeFeat, key, "update notes", ""), name)
	}
	return nil
}

// Remove deletes the file stored for key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	name, err := s.filename(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.Path, name))
	if errors.Is(err, iofs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	s.recordWrite()

	if s.config.Versioned {
		return s.commit(ctx, git.FormatMessage(git.CommitTypeChore, key, "remove notes", ""), name)
	}
	return nil
}

// Keys walks the store and returns the sorted keys matching pattern.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	var keys []string
	err := filepath.WalkDir(s.Path, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(s.Path, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel == s.config.SystemDir || rel == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		key, ok := s.keyOf(rel)
		if ok && matches(pattern, key) {
			keys = append(keys, key)
		}
		return nil
	})
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// History returns up to limit commit summaries for key, newest first.
// It requires a versioned store.
func (s *Store) History(ctx context.Context, key string, limit int) ([]string, error) {
	if !s.config.Versioned {
		return nil, fmt.Errorf("history requires a versioned store")
	}
	name, err := s.filename(key)
	if err != nil {
		return nil, err
	}
	return s.git.Log(ctx, filepath.ToSlash(name), limit)
}

func (s *Store) commit(ctx context.Context, msg string, files ...string) error {
	unlock, err := s.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	for _, f := range files {
		if _, err := os.Stat(filepath.Join(s.Path, f)); err == nil {
			if err := s.git.Add(ctx, f); err != nil {
				return fmt.Errorf("failed to git add: %w", err)
			}
		} else if err := s.git.Rm(ctx, f); err != nil {
			return fmt.Errorf("failed to git rm: %w", err)
		}
	}
	if err := s.git.Commit(ctx, msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

func (s *Store) recordWrite() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastWrite = &now
}

func matches(pattern, key string) bool {
	if pattern == "" {
		return true
	}
	ok, err := doublestar.Match(pattern, key)
	return err == nil && ok
}

var _ core.ByteStore = (*Store)(nil)
