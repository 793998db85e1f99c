// Package scanner walks a rooted directory tree and produces the flat list
// of file descriptors the rest of the pipeline operates on.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/neatstep/neatstep/internal/fsys"
	"github.com/neatstep/neatstep/internal/model"
)

// Scanner recursively discovers files through a filesystem capability.
type Scanner struct {
	fs fsys.FileSystem
}

// New creates a scanner over the given filesystem.
func New(fs fsys.FileSystem) *Scanner {
	return &Scanner{fs: fs}
}

// Scan verifies read-write permission on the root, then visits every
// reachable directory depth-first. Enumeration failures inside one subtree
// contribute zero entries and never abort siblings or the scan as a whole.
// Traversal order follows host enumeration order and is not a contract.
func (s *Scanner) Scan(ctx context.Context) ([]model.FileDescriptor, error) {
	if err := s.fs.RequestPermission(ctx, fsys.ModeReadWrite); err != nil {
		return nil, fmt.Errorf("scan aborted: %w", err)
	}

	return s.walk(ctx, "."), nil
}

func (s *Scanner) walk(ctx context.Context, dir string) []model.FileDescriptor {
	entries, err := s.fs.EnumerateChildren(ctx, dir)
	if err != nil {
		slog.Warn("Skipping unreadable subtree", "dir", dir, "error", err)
		return nil
	}

	var files []model.FileDescriptor
	for _, entry := range entries {
		rel := entry.Name
		if dir != "." {
			rel = path.Join(dir, entry.Name)
		}

		switch entry.Kind {
		case fsys.KindDirectory:
			files = append(files, s.walk(ctx, rel)...)
		case fsys.KindFile:
			desc, ok := s.describe(ctx, rel, entry.Handle)
			if ok {
				files = append(files, desc)
			}
		}
	}

	return files
}

// describe turns one enumerated file into a descriptor, sampling content for
// text-like files. Metadata failures skip the file; snippet read failures
// fall back to the unreadable sentinel.
func (s *Scanner) describe(ctx context.Context, rel string, handle model.FileHandle) (model.FileDescriptor, bool) {
	meta, err := s.fs.ReadFile(ctx, handle, 0)
	if err != nil {
		slog.Warn("Skipping unreadable file", "path", rel, "error", err)
		return model.FileDescriptor{}, false
	}

	ext := strings.ToLower(path.Ext(handle.Name()))

	mimeType := meta.MIMEType
	if mimeType == "" {
		mimeType = ext
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	desc := model.FileDescriptor{
		Name:       handle.Name(),
		Size:       meta.Size,
		MIMEType:   mimeType,
		ModifiedAt: meta.ModifiedAt,
		Path:       rel,
		Handle:     handle,
	}

	if shouldSample(ext, meta.MIMEType) {
		head, err := s.fs.ReadFile(ctx, handle, snippetReadLimit)
		if err != nil {
			desc.ContentSnippet = UnreadableSnippet
		} else {
			desc.ContentSnippet = makeSnippet(head.Bytes)
		}
	}

	return desc, true
}
