// Package archive retires the current snapshot into the previous snapshot slot.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// DefaultReservedName is the marker file each snapshot directory keeps.
const DefaultReservedName = "README.md"

// Archivist moves the "after" snapshot into the "before" directory.
type Archivist struct {
	beforeDir string
	afterDir  string
	reserved  string
	logger    *slog.Logger

	removeAll func(string) error
	rename    func(string, string) error
}

// Result counts what a sync did.
type Result struct {
	Removed int
	Moved   int
	Failed  int
}

// New creates an Archivist. An empty reserved name uses DefaultReservedName.
func New(beforeDir, afterDir, reserved string, logger *slog.Logger) *Archivist {
	if reserved == "" {
		reserved = DefaultReservedName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Archivist{
		beforeDir: beforeDir,
		afterDir:  afterDir,
		reserved:  reserved,
		logger:    logger,
		removeAll: os.RemoveAll,
		rename:    os.Rename,
	}
}

// Sync empties the before directory (marker excepted) and moves every entry of the after
// directory (marker excepted) into it. When after holds nothing to move, before is left
// untouched. Item failures are logged and counted, never returned; an error is returned only
// when a directory cannot be listed or ctx is done.
func (a *Archivist) Sync(ctx context.Context) (Result, error) {
	var res Result

	fresh, err := a.entries(a.afterDir)
	if err != nil {
		return res, err
	}
	if len(fresh) == 0 {
		a.logger.Info("nothing to archive", "dir", a.afterDir)
		return res, nil
	}

	stale, err := a.entries(a.beforeDir)
	if err != nil {
		return res, err
	}
	for _, name := range stale {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		path := filepath.Join(a.beforeDir, name)
		if err := a.removeAll(path); err != nil {
			res.Failed++
			a.logger.Warn("failed to delete", "path", path, "err", err)
			continue
		}
		res.Removed++
	}

	for _, name := range fresh {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		src := filepath.Join(a.afterDir, name)
		dst := filepath.Join(a.beforeDir, name)
		if err := a.move(src, dst); err != nil {
			res.Failed++
			a.logger.Warn("failed to move", "from", src, "to", dst, "err", err)
			continue
		}
		res.Moved++
	}

	a.logger.Info("snapshots archived", "removed", res.Removed, "moved", res.Moved, "failed", res.Failed)
	return res, nil
}

// move renames src to dst. When the directories live on different filesystems it copies src
// and then removes it.
func (a *Archivist) move(src, dst string) error {
	err := a.rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	a.logger.Debug("cross-device move, copying", "from", src, "to", dst)

	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("failed to copy %s across devices: %w", src, os.ErrExist)
	}

	if err := copyEntry(src, dst); err != nil {
		_ = os.RemoveAll(dst)
		return fmt.Errorf("failed to copy %s across devices: %w", src, err)
	}
	return a.removeAll(src)
}

func copyEntry(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	switch {
	case info.IsDir():
		return os.CopyFS(dst, os.DirFS(src))
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dst)
	default:
		return copyFile(src, dst, info.Mode().Perm())
	}
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// entries lists dir without the reserved marker (matched case-insensitively).
func (a *Archivist) entries(dir string) ([]string, error) {
	list, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	names := make([]string, 0, len(list))
	for _, e := range list {
		if strings.EqualFold(e.Name(), a.reserved) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
