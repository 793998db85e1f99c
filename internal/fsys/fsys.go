// Package fsys defines the filesystem capability consumed by the scanner and
// the reorganization executor, plus the operating-system implementation of it.
// All paths crossing this boundary are slash-separated and relative to the
// scan root; file handles are opaque to every caller.
package fsys

import (
	"context"
	"time"

	"github.com/neatstep/neatstep/internal/model"
)

// Mode is the permission level requested on the scan root.
type Mode string

// Permission modes.
const (
	ModeRead      Mode = "read"
	ModeReadWrite Mode = "readwrite"
)

// EntryKind distinguishes files from directories during enumeration.
type EntryKind int

// Entry kinds.
const (
	KindFile EntryKind = iota
	KindDirectory
)

// DirEntry is one child of an enumerated directory. Handle is populated for
// file entries only.
type DirEntry struct {
	Handle model.FileHandle
	Name   string
	Kind   EntryKind
}

// FileContents carries a file's metadata and, when requested, a bounded
// prefix of its bytes.
type FileContents struct {
	ModifiedAt time.Time
	MIMEType   string
	Bytes      []byte
	Size       int64
}

// FileSystem is the host capability the scanner reads through and the
// executor mutates through. Implementations are rooted at the scan target;
// nothing outside the root is reachable.
type FileSystem interface {
	// RequestPermission verifies the requested access level on the root.
	// Denial is fatal to the scan and reported as ErrPermissionDenied.
	RequestPermission(ctx context.Context, mode Mode) error

	// EnumerateChildren lists the immediate children of dir ("" or "." for
	// the root). Enumeration order is host-dependent.
	EnumerateChildren(ctx context.Context, dir string) ([]DirEntry, error)

	// ReadFile returns the file's metadata and at most limit bytes of
	// content. A non-positive limit reads no bytes.
	ReadFile(ctx context.Context, h model.FileHandle, limit int64) (FileContents, error)

	// CreateSubdirectory creates name under dir and returns the new
	// directory's path relative to the root. Creating an existing
	// directory is not an error.
	CreateSubdirectory(ctx context.Context, dir, name string) (string, error)

	// MoveAndRename atomically relocates the file behind h into targetDir
	// under newName. Hosts without an atomic move primitive report
	// ErrMoveNotSupported.
	MoveAndRename(ctx context.Context, h model.FileHandle, targetDir, newName string) error

	// RemoveEntry deletes the named child of dir. Used by the empty-folder
	// cleanup pass; directories must be empty.
	RemoveEntry(ctx context.Context, dir, name string) error
}
