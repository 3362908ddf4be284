// Package security guards the paths the tools write figures, reports and
// databases to.
package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/banshee-data/centerout/internal/fsutil"
)

// ErrPathEscape is returned when a path resolves outside its directory.
var ErrPathEscape = errors.New("path escapes output directory")

const maxNameLen = 128

// canonical resolves symlinks on the longest existing prefix of path so a
// file that does not exist yet is still checked against where its parent
// really lives.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			rest, _ := filepath.Rel(dir, abs)
			return filepath.Join(resolved, rest), nil
		}
		if dir == filepath.Dir(dir) {
			return abs, nil
		}
	}
}

// WithinDir reports an error unless path, after cleaning and symlink
// resolution, lies inside dir.
func WithinDir(path, dir string) error {
	p, err := canonical(path)
	if err != nil {
		return err
	}
	d, err := canonical(dir)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(d, p)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPathEscape, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %s is not under %s", ErrPathEscape, path, dir)
	}
	return nil
}

// OutputPath joins a file name built from session identifiers onto dir,
// sanitising the name and refusing anything that lands outside dir.
func OutputPath(dir, name string) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, SanitizeFilename(name))
	if err := WithinDir(path, dir); err != nil {
		return "", err
	}
	return path, nil
}

// EnsureOutputDir creates dir in fsys if needed and returns it cleaned. An
// existing file at dir is an error.
func EnsureOutputDir(fsys fsutil.FileSystem, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	dir = filepath.Clean(dir)
	if info, err := fsys.Stat(dir); err == nil && !info.IsDir() {
		return "", fmt.Errorf("output directory %s is a file", dir)
	}
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return dir, nil
}

// SanitizeFilename replaces every rune that is not an ASCII letter, digit,
// dot, underscore or dash with a single underscore and caps the length.
// Session identifiers such as "2024-02-02_H2_CL_5" pass through unchanged.
func SanitizeFilename(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxNameLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '_':
			b.WriteRune(r)
			lastUnderscore = true
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "unknown"
	}
	return out
}
