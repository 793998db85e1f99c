package fsys

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/neatstep/neatstep/internal/model"
)

// MemFile is the content of one file inside a MockFileSystem.
type MemFile struct {
	ModifiedAt time.Time
	MIMEType   string
	Contents   []byte
}

// MoveCall records one MoveAndRename invocation for assertions.
type MoveCall struct {
	Source    string
	TargetDir string
	NewName   string
}

// MockFileSystem is an in-memory FileSystem for tests. It supports failure
// injection per directory and per file, and records every move attempt.
type MockFileSystem struct {
	PermissionErr error
	MoveErr       error
	EnumerateErrs map[string]error
	ReadErrs      map[string]error
	files         map[string]MemFile
	dirs          map[string]bool
	moveCalls     []MoveCall
	mu            sync.Mutex
}

// NewMockFileSystem creates an empty in-memory filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:         make(map[string]MemFile),
		dirs:          map[string]bool{".": true},
		EnumerateErrs: make(map[string]error),
		ReadErrs:      make(map[string]error),
	}
}

type memHandle struct {
	path string
	name string
}

func (h memHandle) Name() string { return h.name }

func normalize(p string) string {
	cleaned := path.Clean(p)
	if cleaned == "" || cleaned == "/" {
		return "."
	}
	return strings.TrimPrefix(cleaned, "/")
}

// AddFile places a file at the given root-relative path, creating parents.
func (m *MockFileSystem) AddFile(p string, f MemFile) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = normalize(p)
	for dir := path.Dir(p); dir != "."; dir = path.Dir(dir) {
		m.dirs[dir] = true
	}
	m.files[p] = f
}

// AddDir creates an (initially empty) directory.
func (m *MockFileSystem) AddDir(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = normalize(p)
	for ; p != "."; p = path.Dir(p) {
		m.dirs[p] = true
	}
}

// RemoveFile deletes a file outright, simulating it disappearing between
// scan and execution.
func (m *MockFileSystem) RemoveFile(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, normalize(p))
}

// HasFile reports whether a file currently exists at the given path.
func (m *MockFileSystem) HasFile(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[normalize(p)]
	return ok
}

// HasDir reports whether the given directory exists.
func (m *MockFileSystem) HasDir(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirs[normalize(p)]
}

// MoveCalls returns a copy of every recorded move attempt.
func (m *MockFileSystem) MoveCalls() []MoveCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MoveCall, len(m.moveCalls))
	copy(out, m.moveCalls)
	return out
}

// RequestPermission returns the injected permission error, if any.
func (m *MockFileSystem) RequestPermission(_ context.Context, _ Mode) error {
	return m.PermissionErr
}

// EnumerateChildren lists the immediate children of dir in sorted order.
func (m *MockFileSystem) EnumerateChildren(_ context.Context, dir string) ([]DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir = normalize(dir)
	if err := m.EnumerateErrs[dir]; err != nil {
		return nil, err
	}
	if !m.dirs[dir] {
		return nil, fmt.Errorf("no such directory: %s", dir)
	}

	var entries []DirEntry
	seen := make(map[string]bool)

	for p := range m.files {
		if path.Dir(p) == dir {
			entries = append(entries, DirEntry{
				Name:   path.Base(p),
				Kind:   KindFile,
				Handle: memHandle{path: p, name: path.Base(p)},
			})
		}
	}
	for d := range m.dirs {
		if d != "." && path.Dir(d) == dir && !seen[path.Base(d)] {
			seen[path.Base(d)] = true
			entries = append(entries, DirEntry{Name: path.Base(d), Kind: KindDirectory})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// ReadFile returns the stored metadata and a bounded prefix of contents.
func (m *MockFileSystem) ReadFile(_ context.Context, h model.FileHandle, limit int64) (FileContents, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	handle, ok := h.(memHandle)
	if !ok {
		return FileContents{}, fmt.Errorf("foreign file handle %T", h)
	}
	// ReadErrs simulates content-read failures; metadata stays readable.
	if err := m.ReadErrs[handle.path]; err != nil && limit > 0 {
		return FileContents{}, err
	}

	f, ok := m.files[handle.path]
	if !ok {
		return FileContents{}, fmt.Errorf("no such file: %s", handle.path)
	}

	contents := FileContents{
		Size:       int64(len(f.Contents)),
		ModifiedAt: f.ModifiedAt,
		MIMEType:   f.MIMEType,
	}
	if limit > 0 {
		n := limit
		if n > int64(len(f.Contents)) {
			n = int64(len(f.Contents))
		}
		contents.Bytes = f.Contents[:n]
	}

	return contents, nil
}

// CreateSubdirectory creates name under dir; prior existence is fine.
func (m *MockFileSystem) CreateSubdirectory(_ context.Context, dir, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rel := normalize(path.Join(dir, name))
	m.dirs[rel] = true
	return rel, nil
}

// MoveAndRename relocates a file, recording the attempt.
func (m *MockFileSystem) MoveAndRename(_ context.Context, h model.FileHandle, targetDir, newName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	handle, ok := h.(memHandle)
	if !ok {
		return fmt.Errorf("foreign file handle %T", h)
	}

	m.moveCalls = append(m.moveCalls, MoveCall{
		Source:    handle.path,
		TargetDir: normalize(targetDir),
		NewName:   newName,
	})

	if m.MoveErr != nil {
		return m.MoveErr
	}

	f, ok := m.files[handle.path]
	if !ok {
		return fmt.Errorf("stale handle: %s", handle.path)
	}

	delete(m.files, handle.path)
	m.files[normalize(path.Join(targetDir, newName))] = f
	return nil
}

// RemoveEntry deletes a file or an empty directory.
func (m *MockFileSystem) RemoveEntry(_ context.Context, dir, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rel := normalize(path.Join(dir, name))
	if _, ok := m.files[rel]; ok {
		delete(m.files, rel)
		return nil
	}
	if m.dirs[rel] {
		for p := range m.files {
			if strings.HasPrefix(p, rel+"/") {
				return fmt.Errorf("directory not empty: %s", rel)
			}
		}
		for d := range m.dirs {
			if strings.HasPrefix(d, rel+"/") {
				return fmt.Errorf("directory not empty: %s", rel)
			}
		}
		delete(m.dirs, rel)
		return nil
	}
	return fmt.Errorf("no such entry: %s", rel)
}
