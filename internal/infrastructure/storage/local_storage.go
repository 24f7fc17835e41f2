// Package storage resolves artifact paths inside per-user sandbox
// directories on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// ErrDisabled is returned when no storage root is configured. Callers
	// fall back to metadata-only responses.
	ErrDisabled = errors.New("artifact storage is not configured; set ARTIFACTS_STORAGE_DIR to enable")

	// ErrOutsideRoot is returned when a resolved path escapes the owner's
	// sandbox. Callers surface it as not found, never as a distinct status.
	ErrOutsideRoot = errors.New("path resolves outside the storage sandbox")

	// ErrNotFound is returned when the resolved path does not exist on disk.
	ErrNotFound = errors.New("file not found in storage")
)

// LocalStorage confines all path resolution to <root>/<ownerID>/. Every
// resolved path is canonicalized and checked against the sandbox before use.
type LocalStorage struct {
	root     string
	log      zerolog.Logger
	disabled bool
}

// NewLocalStorage creates the storage backend. An empty root disables it
// rather than failing startup; the gateway then serves artifact metadata
// without file access.
func NewLocalStorage(root string, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	root = strings.TrimSpace(root)
	if root == "" {
		logger.Warn().Msg("ARTIFACTS_STORAGE_DIR is not set; artifact file access will be disabled")
		return &LocalStorage{
			log:      logger,
			disabled: true,
		}, nil
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}

	storage := &LocalStorage{
		root: abs,
		log:  logger,
	}

	logger.Info().Str("path", abs).Msg("artifact storage initialized")
	return storage, nil
}

// Enabled reports whether a storage root is configured.
func (l *LocalStorage) Enabled() bool {
	return !l.disabled
}

// EnsureUserDir creates the owner's sandbox directory if missing and returns
// its absolute path.
func (l *LocalStorage) EnsureUserDir(ownerID string) (string, error) {
	if l.disabled {
		return "", ErrDisabled
	}

	base, err := l.userBase(ownerID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(base, 0755); err != nil {
		return "", fmt.Errorf("failed to create user storage directory: %w", err)
	}
	return base, nil
}

// Resolve maps an artifact path, plus an optional sub-path into a folder
// artifact, to an absolute path inside the owner's sandbox. Both stages are
// canonicalized and verified to stay under the sandbox; any escape yields
// ErrOutsideRoot.
func (l *LocalStorage) Resolve(ownerID, artifactPath, subPath string) (string, error) {
	if l.disabled {
		return "", ErrDisabled
	}

	base, err := l.userBase(ownerID)
	if err != nil {
		return "", err
	}

	resolved := filepath.Clean(filepath.Join(base, filepath.FromSlash(artifactPath)))
	if !isWithin(base, resolved) {
		return "", ErrOutsideRoot
	}

	if subPath != "" {
		if filepath.IsAbs(subPath) || strings.HasPrefix(subPath, "/") {
			return "", ErrOutsideRoot
		}
		for _, segment := range strings.Split(filepath.ToSlash(subPath), "/") {
			if segment == ".." {
				return "", ErrOutsideRoot
			}
		}
		resolved = filepath.Clean(filepath.Join(resolved, filepath.FromSlash(subPath)))
		if !isWithin(base, resolved) {
			return "", ErrOutsideRoot
		}
	}

	return resolved, nil
}

// Open resolves the path and opens the file for reading, returning the
// content type guessed from the extension.
func (l *LocalStorage) Open(ownerID, artifactPath, subPath string) (io.ReadCloser, string, error) {
	resolved, err := l.Resolve(ownerID, artifactPath, subPath)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, "", fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, "", ErrNotFound
	}

	l.log.Debug().
		Str("owner_id", ownerID).
		Str("path", artifactPath).
		Msg("artifact file opened")

	return file, contentTypeFromPath(resolved), nil
}

// ListFolder resolves a folder artifact and returns the names of its
// immediate regular files matching the optional prefix and suffix, sorted.
// Subdirectories are not descended into.
func (l *LocalStorage) ListFolder(ownerID, artifactPath, prefix, suffix string) ([]string, error) {
	resolved, err := l.Resolve(ownerID, artifactPath, "")
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	names := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		if suffix != "" && !strings.HasSuffix(name, suffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (l *LocalStorage) userBase(ownerID string) (string, error) {
	if ownerID == "" || strings.ContainsAny(ownerID, `/\`) || ownerID == ".." {
		return "", ErrOutsideRoot
	}
	return filepath.Join(l.root, ownerID), nil
}

// isWithin reports whether path equals base or sits underneath it, by
// lexical comparison of cleaned absolute paths.
func isWithin(base, path string) bool {
	if path == base {
		return true
	}
	return strings.HasPrefix(path, base+string(filepath.Separator))
}

func contentTypeFromPath(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
