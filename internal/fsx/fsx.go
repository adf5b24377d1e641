// Package fsx provides the sandboxed filesystem access the include
// resolver needs: path resolution relative to a base directory,
// rejection of absolute paths and base-escaping paths, and a swappable
// afero.Fs backing so resolution is testable against an in-memory
// filesystem instead of the real disk.
package fsx

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrEscapesBase is returned when a requested path would resolve outside
// its sandbox's base directory.
var ErrEscapesBase = errors.New("fsx: path escapes base directory")

// ErrAbsolutePath is returned when a requested path is absolute; Resolve
// rejects such paths unconditionally.
var ErrAbsolutePath = errors.New("fsx: absolute paths are not allowed")

// Sandbox resolves paths relative to a fixed base directory and denies
// any path that would escape it, backed by an afero.Fs so callers can
// swap in afero.NewMemMapFs() for tests.
type Sandbox struct {
	fs   afero.Fs
	base string
}

// NewSandbox returns a Sandbox rooted at base on fs. If fs is nil, the
// real OS filesystem is used.
func NewSandbox(fs afero.Fs, base string) *Sandbox {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Sandbox{fs: fs, base: filepath.Clean(base)}
}

// Resolve validates and joins rel against the sandbox base, returning the
// resolved path (base joined with rel, suitable for passing back to fs).
// It never returns a path outside base.
func (s *Sandbox) Resolve(rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", ErrAbsolutePath
	}
	joined := filepath.Join(s.base, rel)
	cleanBase := filepath.Clean(s.base)
	if joined != cleanBase && !hasPrefixDir(joined, cleanBase) {
		return "", ErrEscapesBase
	}
	return joined, nil
}

func hasPrefixDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 2 && rel[:2] == ".." &&
		(len(rel) == 2 || rel[2] == filepath.Separator)
}

// ReadFile resolves rel against the sandbox and reads its contents.
func (s *Sandbox) ReadFile(rel string) (string, string, error) {
	resolved, err := s.Resolve(rel)
	if err != nil {
		return "", "", err
	}
	data, err := afero.ReadFile(s.fs, resolved)
	if err != nil {
		return "", "", err
	}
	return resolved, string(data), nil
}

// Dir returns a new Sandbox rooted at rel beneath s, used when an include
// target has its own directory that further nested includes should
// resolve relative to.
func (s *Sandbox) Dir(rel string) *Sandbox {
	return &Sandbox{fs: s.fs, base: filepath.Dir(filepath.Join(s.base, rel))}
}

// WriteFile resolves rel against the sandbox and writes data to it via
// the underlying fs's WriteFile. The write is not atomic.
func (s *Sandbox) WriteFile(rel string, data []byte, perm os.FileMode) error {
	resolved, err := s.Resolve(rel)
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, resolved, data, perm)
}
