// Package local implements the filesystem client for local disks.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/forons/fsutil/internal/configuration"
	"github.com/forons/fsutil/internal/filesystem"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const (
	dirPerms  = 0o755
	filePerms = 0o644
)

// Client is the [filesystem.Client] for a local (or in-memory) filesystem.
type Client struct {
	FSOps afero.Fs
}

// NewClient returns a pointer to a new [Client] operating on fsOps.
func NewClient(fsOps afero.Fs) *Client {
	return &Client{
		FSOps: fsOps,
	}
}

// NewFactory returns a [filesystem.Factory] building clients on fsOps. All
// clients built by the factory share the same fsOps.
func NewFactory(fsOps afero.Fs) filesystem.Factory {
	return func(_ context.Context, _ *filesystem.Path, _ *configuration.Configuration) (filesystem.Client, error) {
		return NewClient(fsOps), nil
	}
}

// Factory is the [filesystem.Factory] for the operating system filesystem.
func Factory(ctx context.Context, p *filesystem.Path, conf *configuration.Configuration) (filesystem.Client, error) { //nolint:ireturn
	return NewFactory(afero.NewOsFs())(ctx, p, conf)
}

func (c *Client) Exists(_ context.Context, name string) (bool, error) {
	exists, err := afero.Exists(c.FSOps, name)
	if err != nil {
		return false, fmt.Errorf("(fs-local) failed to check existence: %w", err)
	}

	return exists, nil
}

func (c *Client) Stat(_ context.Context, name string) (*filesystem.FileInfo, error) {
	info, err := c.FSOps.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("(fs-local) failed to stat: %w", err)
	}

	return &filesystem.FileInfo{
		Path:    name,
		Size:    info.Size(),
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
	}, nil
}

func (c *Client) Open(_ context.Context, name string) (io.ReadCloser, error) {
	info, err := c.FSOps.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("(fs-local) failed to stat: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("(fs-local) %w: %s", filesystem.ErrIsDirectory, name)
	}

	f, err := c.FSOps.Open(name)
	if err != nil {
		return nil, fmt.Errorf("(fs-local) failed to open: %w", err)
	}

	return f, nil
}

// Create returns a writer to a temporary sibling of name, which replaces name
// once the writer is closed. Missing parent directories are created.
func (c *Client) Create(_ context.Context, name string) (io.WriteCloser, error) {
	if info, err := c.FSOps.Stat(name); err == nil && info.IsDir() {
		return nil, fmt.Errorf("(fs-local) %w: %s", filesystem.ErrIsDirectory, name)
	}

	if err := c.FSOps.MkdirAll(filepath.Dir(name), dirPerms); err != nil {
		return nil, fmt.Errorf("(fs-local) failed to create parent dirs: %w", err)
	}

	tmpPath := name + "." + uuid.NewString() + ".tmp"

	f, err := c.FSOps.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, filePerms)
	if err != nil {
		return nil, fmt.Errorf("(fs-local) failed to open temporary file %s: %w", tmpPath, err)
	}

	return &fileWriter{
		file:    f,
		fsOps:   c.FSOps,
		tmpPath: tmpPath,
		dstPath: name,
	}, nil
}

func (c *Client) Delete(_ context.Context, name string, recursive bool) error {
	info, err := c.FSOps.Stat(name)
	if err != nil {
		return fmt.Errorf("(fs-local) failed to stat: %w", err)
	}

	if recursive {
		if err := c.FSOps.RemoveAll(name); err != nil {
			return fmt.Errorf("(fs-local) failed to remove recursively: %w", err)
		}

		return nil
	}

	if info.IsDir() {
		empty, err := afero.IsEmpty(c.FSOps, name)
		if err != nil {
			return fmt.Errorf("(fs-local) failed to readdir: %w", err)
		}
		if !empty {
			return fmt.Errorf("(fs-local) %w: %s", filesystem.ErrNotEmpty, name)
		}
	}

	if err := c.FSOps.Remove(name); err != nil {
		return fmt.Errorf("(fs-local) failed to remove: %w", err)
	}

	return nil
}

func (c *Client) Mkdirs(_ context.Context, name string) error {
	if err := c.FSOps.MkdirAll(name, dirPerms); err != nil {
		return fmt.Errorf("(fs-local) failed to mkdirs: %w", err)
	}

	return nil
}

// Close is a no-op, a local client holds no resources between operations.
func (c *Client) Close() error {
	return nil
}

type fileWriter struct {
	file     afero.File
	fsOps    afero.Fs
	tmpPath  string
	dstPath  string
	closed   bool
	writeErr error
}

func (w *fileWriter) Write(p []byte) (int, error) {
	n, err := w.file.Write(p)
	if err != nil && w.writeErr == nil {
		w.writeErr = err
	}

	return n, err //nolint:wrapcheck
}

// Close syncs and closes the temporary file and renames it over the
// destination. After a failed write, or on any failure of its own, the
// temporary file is removed and the destination is left untouched.
func (w *fileWriter) Close() (err error) {
	if w.writeErr != nil {
		return w.CloseWithError(w.writeErr)
	}

	if w.closed {
		return nil
	}
	w.closed = true

	defer func() {
		if err != nil {
			_ = w.fsOps.Remove(w.tmpPath)
		}
	}()

	if err := w.file.Sync(); err != nil {
		_ = w.file.Close()

		return fmt.Errorf("(fs-local) failed to sync: %w", err)
	}

	if err := w.file.Close(); err != nil {
		return fmt.Errorf("(fs-local) failed to close: %w", err)
	}

	if err := w.fsOps.Rename(w.tmpPath, w.dstPath); err != nil {
		return fmt.Errorf("(fs-local) failed to rename temporary file to destination file: %w", err)
	}

	return nil
}

// CloseWithError discards everything written so far and removes the
// temporary file. The destination is never touched.
func (w *fileWriter) CloseWithError(cause error) error {
	if w.closed {
		return nil
	}
	w.closed = true

	_ = w.file.Close()

	if err := w.fsOps.Remove(w.tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("(fs-local) failed to remove temporary file: %w", err)
	}

	if cause != nil {
		return fmt.Errorf("(fs-local) write aborted: %w", cause)
	}

	return nil
}

var _ filesystem.Client = (*Client)(nil)
