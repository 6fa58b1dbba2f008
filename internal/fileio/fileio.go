// Package fileio provides path-addressed file operations on top of the
// pluggable filesystem clients. Every operation resolves a fresh client for
// its path, acts on it and releases it again before returning.
package fileio

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/forons/fsutil/internal/configuration"
	"github.com/forons/fsutil/internal/filesystem"
	"github.com/zeebo/blake3"
)

type resolver interface {
	Resolve(ctx context.Context, raw string, conf *configuration.Configuration) (filesystem.Client, *filesystem.Path, error)
}

// Handler performs file operations against the filesystem a path resolves
// to. It holds no per-operation state and is safe for concurrent use.
type Handler struct {
	FSOps  resolver
	Config *configuration.Configuration
}

// NewHandler returns a pointer to a new [Handler]. A nil conf selects the
// process-wide [configuration.Default].
func NewHandler(fsOps resolver, conf *configuration.Configuration) *Handler {
	if conf == nil {
		conf = configuration.Default()
	}

	return &Handler{
		FSOps:  fsOps,
		Config: conf,
	}
}

type options struct {
	conf      *configuration.Configuration
	overwrite bool
	recursive bool
}

// Option modifies a single operation of a [Handler].
type Option func(*options)

// WithConfiguration resolves the path against conf instead of the
// configuration of the [Handler].
func WithConfiguration(conf *configuration.Configuration) Option {
	return func(o *options) {
		o.conf = conf
	}
}

// WithOverwrite sets whether [Handler.WriteFile] replaces an existing file.
// The default is true.
func WithOverwrite(overwrite bool) Option {
	return func(o *options) {
		o.overwrite = overwrite
	}
}

// WithRecursive sets whether [Handler.DeleteFile] removes directories
// together with their contents. The default is true.
func WithRecursive(recursive bool) Option {
	return func(o *options) {
		o.recursive = recursive
	}
}

func (h *Handler) options(opts []Option) *options {
	o := &options{
		conf:      h.Config,
		overwrite: true,
		recursive: true,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.conf == nil {
		o.conf = configuration.Default()
	}

	return o
}

// acquire resolves a new client for path. The caller must release it.
func (h *Handler) acquire(ctx context.Context, path string, o *options) (filesystem.Client, *filesystem.Path, error) { //nolint:ireturn
	client, p, err := h.FSOps.Resolve(ctx, path, o.conf)
	if err != nil {
		return nil, nil, fmt.Errorf("(fileio) %w", err)
	}

	return client, p, nil
}

// release closes client, keeping the first error of the operation. A close
// error only surfaces when the operation itself succeeded.
func release(client filesystem.Client, path string, retErr *error) {
	if err := client.Close(); err != nil {
		if *retErr == nil {
			*retErr = fmt.Errorf("(fileio) failed to release client for %s: %w", path, err)

			return
		}
		slog.Debug("Failed to release client after failed operation",
			"err", err,
			"path", path,
		)
	}
}

// ReadFile returns the content of path with its lines joined by "\n". Line
// terminators "\n", "\r\n" and "\r" are recognized, the last line carries no
// terminator. A missing path is reported as found being false.
func (h *Handler) ReadFile(ctx context.Context, path string, opts ...Option) (content string, found bool, retErr error) {
	client, p, err := h.acquire(ctx, path, h.options(opts))
	if err != nil {
		return "", false, err
	}
	defer release(client, path, &retErr)

	exists, err := client.Exists(ctx, p.Name)
	if err != nil {
		return "", false, fmt.Errorf("(fileio) failed to check %s: %w", path, err)
	}
	if !exists {
		slog.Debug("File to read does not exist",
			"path", path,
		)

		return "", false, nil
	}

	r, err := client.Open(ctx, p.Name)
	if err != nil {
		return "", false, fmt.Errorf("(fileio) failed to open %s: %w", path, err)
	}
	defer r.Close()

	content, err = joinLines(r)
	if err != nil {
		return "", false, fmt.Errorf("(fileio) failed to read %s: %w", path, err)
	}

	return content, true, nil
}

// WriteFile writes content verbatim to path. With overwrite disabled an
// existing path is left untouched and written is false.
func (h *Handler) WriteFile(ctx context.Context, content string, path string, opts ...Option) (written bool, retErr error) {
	o := h.options(opts)

	client, p, err := h.acquire(ctx, path, o)
	if err != nil {
		return false, err
	}
	defer release(client, path, &retErr)

	if !o.overwrite {
		exists, err := client.Exists(ctx, p.Name)
		if err != nil {
			return false, fmt.Errorf("(fileio) failed to check %s: %w", path, err)
		}
		if exists {
			slog.Debug("File to write exists and overwrite is disabled",
				"path", path,
			)

			return false, nil
		}
	}

	w, err := client.Create(ctx, p.Name)
	if err != nil {
		return false, fmt.Errorf("(fileio) failed to create %s: %w", path, err)
	}

	if _, err := io.WriteString(w, content); err != nil {
		abort(w, err)

		return false, fmt.Errorf("(fileio) failed to write %s: %w", path, err)
	}

	if err := w.Close(); err != nil {
		return false, fmt.Errorf("(fileio) failed to finish %s: %w", path, err)
	}

	return true, nil
}

// aborter is implemented by writers that can discard a partial write
// instead of committing it on Close.
type aborter interface {
	CloseWithError(err error) error
}

// abort ends w after a failed write. Writers without an abort path are
// closed, so they at least release their resources.
func abort(w io.WriteCloser, cause error) {
	if a, ok := w.(aborter); ok {
		_ = a.CloseWithError(cause)

		return
	}

	_ = w.Close()
}

// DeleteFile removes path, including its contents unless recursion is
// disabled. A missing path is reported as deleted being false.
func (h *Handler) DeleteFile(ctx context.Context, path string, opts ...Option) (deleted bool, retErr error) {
	o := h.options(opts)

	client, p, err := h.acquire(ctx, path, o)
	if err != nil {
		return false, err
	}
	defer release(client, path, &retErr)

	exists, err := client.Exists(ctx, p.Name)
	if err != nil {
		return false, fmt.Errorf("(fileio) failed to check %s: %w", path, err)
	}
	if !exists {
		slog.Debug("File to delete does not exist",
			"path", path,
		)

		return false, nil
	}

	if err := client.Delete(ctx, p.Name, o.recursive); err != nil {
		return false, fmt.Errorf("(fileio) failed to delete %s: %w", path, err)
	}

	return true, nil
}

// Exists reports whether path exists.
func (h *Handler) Exists(ctx context.Context, path string, opts ...Option) (exists bool, retErr error) {
	client, p, err := h.acquire(ctx, path, h.options(opts))
	if err != nil {
		return false, err
	}
	defer release(client, path, &retErr)

	exists, err = client.Exists(ctx, p.Name)
	if err != nil {
		return false, fmt.Errorf("(fileio) failed to check %s: %w", path, err)
	}

	return exists, nil
}

// Mkdir creates the directory path along with any missing parents. An
// existing path is left as it is.
func (h *Handler) Mkdir(ctx context.Context, path string, opts ...Option) (retErr error) {
	client, p, err := h.acquire(ctx, path, h.options(opts))
	if err != nil {
		return err
	}
	defer release(client, path, &retErr)

	exists, err := client.Exists(ctx, p.Name)
	if err != nil {
		return fmt.Errorf("(fileio) failed to check %s: %w", path, err)
	}
	if exists {
		slog.Debug("Directory to create already exists",
			"path", path,
		)

		return nil
	}

	if err := client.Mkdirs(ctx, p.Name); err != nil {
		return fmt.Errorf("(fileio) failed to create directory %s: %w", path, err)
	}

	return nil
}

// Stat returns the status of path. A missing path is reported as found
// being false.
func (h *Handler) Stat(ctx context.Context, path string, opts ...Option) (info *filesystem.FileInfo, found bool, retErr error) {
	client, p, err := h.acquire(ctx, path, h.options(opts))
	if err != nil {
		return nil, false, err
	}
	defer release(client, path, &retErr)

	info, err = client.Stat(ctx, p.Name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("File to stat does not exist",
				"path", path,
			)

			return nil, false, nil
		}

		return nil, false, fmt.Errorf("(fileio) failed to stat %s: %w", path, err)
	}
	info.Path = p.String()

	return info, true, nil
}

// Checksum returns the hex encoded BLAKE3 digest of the content of path. A
// missing path is reported as found being false.
func (h *Handler) Checksum(ctx context.Context, path string, opts ...Option) (sum string, found bool, retErr error) {
	client, p, err := h.acquire(ctx, path, h.options(opts))
	if err != nil {
		return "", false, err
	}
	defer release(client, path, &retErr)

	r, err := client.Open(ctx, p.Name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("File to checksum does not exist",
				"path", path,
			)

			return "", false, nil
		}

		return "", false, fmt.Errorf("(fileio) failed to open %s: %w", path, err)
	}
	defer r.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", false, fmt.Errorf("(fileio) failed to read %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), true, nil
}

// joinLines reads r to the end and joins its lines with "\n".
func joinLines(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	return strings.TrimSuffix(content, "\n"), nil
}
