// Package workspace manages the on-disk artifact tree for generated
// projects. Every project owns one namespace directory under the configured
// root; stage executors write their artifacts and generated files there
// before reporting success.
package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/vibeworks/forge/internal/errors"
)

// Manager provides namespaced file access under a single root directory.
type Manager struct {
	root string
}

// NewManager creates a manager rooted at dir, creating it if needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &errors.StorageError{Op: "mkdir", Path: dir, Err: err}
	}
	return &Manager{root: dir}, nil
}

// Root returns the root directory.
func (m *Manager) Root() string { return m.root }

// Path returns the absolute path of a namespace, or of a file inside it.
func (m *Manager) Path(namespace string, rel ...string) string {
	parts := append([]string{m.root, namespace}, rel...)
	return filepath.Join(parts...)
}

// Init creates a clean namespace directory, removing any previous content.
func (m *Manager) Init(namespace string) error {
	dir := m.Path(namespace)
	if err := os.RemoveAll(dir); err != nil {
		return &errors.StorageError{Op: "clean", Path: dir, Err: err}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &errors.StorageError{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

// Exists reports whether the namespace directory is present.
func (m *Manager) Exists(namespace string) bool {
	info, err := os.Stat(m.Path(namespace))
	return err == nil && info.IsDir()
}

// WriteFile writes content to rel inside the namespace, creating parent
// directories as needed.
func (m *Manager) WriteFile(namespace, rel, content string) error {
	path := m.Path(namespace, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &errors.StorageError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return &errors.StorageError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// WriteJSON marshals v with indentation and writes it to rel.
func (m *Manager) WriteJSON(namespace, rel string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &errors.StorageError{Op: "marshal", Path: rel, Err: err}
	}
	return m.WriteFile(namespace, rel, string(data)+"\n")
}

// ReadJSON reads rel and unmarshals it into v.
func (m *Manager) ReadJSON(namespace, rel string, v interface{}) error {
	path := m.Path(namespace, rel)
	data, err := os.ReadFile(path)
	if err != nil {
		return &errors.StorageError{Op: "read", Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &errors.StorageError{Op: "unmarshal", Path: path, Err: err}
	}
	return nil
}

// ListFiles returns the relative paths of all regular files in the
// namespace, in lexical walk order.
func (m *Manager) ListFiles(namespace string) ([]string, error) {
	dir := m.Path(namespace)
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, &errors.StorageError{Op: "list", Path: dir, Err: err}
	}
	return files, nil
}

// Remove deletes the namespace directory and everything under it.
func (m *Manager) Remove(namespace string) error {
	dir := m.Path(namespace)
	if err := os.RemoveAll(dir); err != nil {
		return &errors.StorageError{Op: "remove", Path: dir, Err: err}
	}
	return nil
}

// Slug converts a human-supplied project name into a filesystem-safe
// directory component.
func Slug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
