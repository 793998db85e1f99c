package fsys

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/neatstep/neatstep/internal/common"
	"github.com/neatstep/neatstep/internal/model"
)

// OSFileSystem implements FileSystem against the local disk, rooted at a
// single directory.
type OSFileSystem struct {
	root string
}

// NewOSFileSystem creates a filesystem capability rooted at root. The root
// must exist and be a directory.
func NewOSFileSystem(root string) (*OSFileSystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", abs)
	}

	return &OSFileSystem{root: abs}, nil
}

// Root returns the absolute path of the scan root.
func (o *OSFileSystem) Root() string {
	return o.root
}

// osHandle is the concrete file handle: the file's absolute path at scan time.
type osHandle struct {
	abs  string
	name string
}

func (h osHandle) Name() string { return h.name }

// resolve maps a root-relative slash path onto the disk, rejecting escapes.
func (o *OSFileSystem) resolve(rel string) (string, error) {
	cleaned := path.Clean("/" + rel)
	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("path %q escapes the scan root", rel)
	}
	return filepath.Join(o.root, filepath.FromSlash(cleaned)), nil
}

// RequestPermission probes the root for the requested access level.
func (o *OSFileSystem) RequestPermission(ctx context.Context, mode Mode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := os.Open(o.root)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPermissionDenied, err)
	}
	_ = dir.Close()

	if mode != ModeReadWrite {
		return nil
	}

	// Write probe: the one reliable, portable way to know whether moves
	// into this tree will be permitted.
	probe, err := os.CreateTemp(o.root, ".neatstep-probe-*")
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPermissionDenied, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return nil
}

// EnumerateChildren lists the immediate children of dir. Irregular entries
// (sockets, devices, symlinks) are skipped.
func (o *OSFileSystem) EnumerateChildren(ctx context.Context, dir string) ([]DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := o.resolve(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", dir, err)
	}

	children := make([]DirEntry, 0, len(entries))
	for _, entry := range entries {
		switch {
		case entry.IsDir():
			children = append(children, DirEntry{Name: entry.Name(), Kind: KindDirectory})
		case entry.Type().IsRegular():
			children = append(children, DirEntry{
				Name: entry.Name(),
				Kind: KindFile,
				Handle: osHandle{
					abs:  filepath.Join(abs, entry.Name()),
					name: entry.Name(),
				},
			})
		}
	}

	return children, nil
}

// ReadFile returns metadata and at most limit bytes of content.
func (o *OSFileSystem) ReadFile(ctx context.Context, h model.FileHandle, limit int64) (FileContents, error) {
	if err := ctx.Err(); err != nil {
		return FileContents{}, err
	}

	handle, ok := h.(osHandle)
	if !ok {
		return FileContents{}, fmt.Errorf("foreign file handle %T", h)
	}

	info, err := os.Stat(handle.abs)
	if err != nil {
		return FileContents{}, fmt.Errorf("failed to stat %s: %w", handle.name, err)
	}

	contents := FileContents{
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
		MIMEType:   mime.TypeByExtension(strings.ToLower(filepath.Ext(handle.name))),
	}

	if limit <= 0 {
		return contents, nil
	}

	f, err := os.Open(handle.abs)
	if err != nil {
		return contents, fmt.Errorf("failed to open %s: %w", handle.name, err)
	}
	defer func() { _ = f.Close() }()

	head, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return contents, fmt.Errorf("failed to read %s: %w", handle.name, err)
	}
	contents.Bytes = head

	return contents, nil
}

// CreateSubdirectory creates name under dir, tolerating prior existence.
func (o *OSFileSystem) CreateSubdirectory(ctx context.Context, dir, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := path.Join(dir, name)
	abs, err := o.resolve(rel)
	if err != nil {
		return "", err
	}

	if err := os.Mkdir(abs, 0750); err != nil && !errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("failed to create directory %s: %w", rel, err)
	}

	return rel, nil
}

// MoveAndRename relocates the file behind h into targetDir under newName
// using rename, which is atomic within a volume. Cross-device renames are
// reported as ErrMoveNotSupported so the caller can distinguish them from
// ordinary move failures.
func (o *OSFileSystem) MoveAndRename(ctx context.Context, h model.FileHandle, targetDir, newName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	handle, ok := h.(osHandle)
	if !ok {
		return fmt.Errorf("foreign file handle %T", h)
	}

	dst, err := o.resolve(path.Join(targetDir, newName))
	if err != nil {
		return err
	}

	if err := os.Rename(handle.abs, dst); err != nil {
		if errors.Is(err, syscall.EXDEV) {
			return fmt.Errorf("%w: %s spans filesystems", common.ErrMoveNotSupported, handle.name)
		}
		return fmt.Errorf("%w: %v", common.ErrMoveFailed, err)
	}

	return nil
}

// RemoveEntry deletes the named child of dir.
func (o *OSFileSystem) RemoveEntry(ctx context.Context, dir, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	abs, err := o.resolve(path.Join(dir, name))
	if err != nil {
		return err
	}

	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path.Join(dir, name), err)
	}

	return nil
}
