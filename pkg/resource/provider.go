// ABOUTME: Resource provider interface and fs.FS implementation
// ABOUTME: Resolves sound names to readable streams from embedded or on-disk files
package resource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

// Provider resolves resource names to byte streams
type Provider interface {
	// Exists reports whether name can be opened. Blank names never exist.
	Exists(name string) bool

	// Open returns a stream for name; the caller closes it
	Open(name string) (io.ReadCloser, error)
}

// FS serves resources from a directory of an fs.FS
type FS struct {
	fsys fs.FS
	dir  string
}

// NewFS creates a provider rooted at dir within fsys ("." for the root)
func NewFS(fsys fs.FS, dir string) *FS {
	if dir == "" {
		dir = "."
	}
	return &FS{fsys: fsys, dir: dir}
}

// Exists reports whether name is a regular file
func (p *FS) Exists(name string) bool {
	full, err := p.resolve(name)
	if err != nil {
		return false
	}
	info, err := fs.Stat(p.fsys, full)
	return err == nil && !info.IsDir()
}

// Open opens name for reading
func (p *FS) Open(name string) (io.ReadCloser, error) {
	full, err := p.resolve(name)
	if err != nil {
		return nil, err
	}

	f, err := p.fsys.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Name: name}
		}
		return nil, fmt.Errorf("failed to open resource %s: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat resource %s: %w", name, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, &NotFoundError{Name: name}
	}
	return f, nil
}

// resolve validates name and joins it onto the provider's directory
func (p *FS) resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrInvalidName
	}
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return path.Join(p.dir, name), nil
}
