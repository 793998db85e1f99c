// Package model defines the core domain models used throughout the application.
package model

import (
	"path"
	"strings"
	"time"
)

// FileHandle is an opaque capability token for a discovered file. It is
// produced by the filesystem collaborator and handed back to it for reads
// and moves; no other component inspects its contents.
type FileHandle interface {
	// Name returns the base name of the file the handle refers to.
	Name() string
}

// FileDescriptor represents one file discovered during a scan. Descriptors
// are immutable after creation and replaced wholesale on every re-scan; the
// only identity that survives a re-scan is Path+Name equality.
type FileDescriptor struct {
	ModifiedAt     time.Time
	Handle         FileHandle
	Name           string
	MIMEType       string
	Path           string // slash-separated, relative to the scan root
	ContentSnippet string // populated only for text-like files, <= 200 chars
	Size           int64
}

// Ext returns the lowercased extension of the file, including the dot.
func (f FileDescriptor) Ext() string {
	return strings.ToLower(path.Ext(f.Name))
}

// Dir returns the directory portion of the descriptor's path, relative to
// the scan root. "." means the file sits directly under the root.
func (f FileDescriptor) Dir() string {
	return path.Dir(f.Path)
}
