// Package local stores uploaded files on the local filesystem under a
// configured directory and serves them by public URL path.
package local

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-]+`)

type Store struct {
	dir        string
	publicBase string
}

func NewStore(dir, publicBase string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	if publicBase == "" {
		publicBase = "/uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %q: %w", dir, err)
	}
	return &Store{dir: dir, publicBase: strings.TrimSuffix(publicBase, "/")}, nil
}

// Dir returns the root directory files are written into.
func (s *Store) Dir() string { return s.dir }

// Save writes the file contents to disk and returns the public URL path.
// Stored filenames are prefixed with a millisecond timestamp so repeated
// uploads of the same file never collide.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	name := sanitizeFilename(originalName)
	if name == "" {
		return "", fmt.Errorf("filename %q is empty after sanitizing", originalName)
	}

	stored := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), name)
	dst := filepath.Join(s.dir, stored)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", dst, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write %q: %w", dst, err)
	}

	return path.Join(s.publicBase, stored), nil
}

// Remove deletes a previously stored file given its public URL path.
// Missing files are not an error.
func (s *Store) Remove(publicPath string) error {
	stored := path.Base(publicPath)
	if stored == "" || stored == "." || stored == "/" {
		return fmt.Errorf("invalid public path %q", publicPath)
	}
	err := os.Remove(filepath.Join(s.dir, stored))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %q: %w", stored, err)
	}
	return nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	base = unsafeChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-.")
	return base
}
