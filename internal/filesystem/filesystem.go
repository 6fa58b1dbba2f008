package filesystem

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/forons/fsutil/internal/configuration"
)

// Client is a handle to one filesystem instance (scheme and authority). It is
// acquired for a single operation and closed at its end. Names passed to a
// Client are the [Path.Name] part of a resolved [Path]. Targets which do not
// exist are reported by errors wrapping [io/fs.ErrNotExist].
type Client interface {
	Exists(ctx context.Context, name string) (bool, error)
	Stat(ctx context.Context, name string) (*FileInfo, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Create(ctx context.Context, name string) (io.WriteCloser, error)
	Delete(ctx context.Context, name string, recursive bool) error
	Mkdirs(ctx context.Context, name string) error
	Close() error
}

// FileInfo is the status of a file or directory.
type FileInfo struct {
	Path    string
	Size    int64
	IsDir   bool
	ModTime time.Time
	Owner   string
	Group   string
}

// Factory builds a new [Client] for the filesystem instance addressed by p.
type Factory func(ctx context.Context, p *Path, conf *configuration.Configuration) (Client, error)

// Registry maps implementation identifiers to the [Factory] building their
// clients. It resolves paths to freshly built clients and is safe for
// concurrent use.
type Registry struct {
	sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a pointer to a new, empty [Registry].
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds or replaces the [Factory] of an implementation.
func (r *Registry) Register(impl string, factory Factory) {
	r.Lock()
	defer r.Unlock()

	r.factories[impl] = factory
}

// Impls returns the identifiers of all registered implementations.
func (r *Registry) Impls() []string {
	r.RLock()
	defer r.RUnlock()

	impls := make([]string, 0, len(r.factories))
	for impl := range r.factories {
		impls = append(impls, impl)
	}

	return impls
}

// Resolve parses raw, qualifies it against the default filesystem of conf
// and returns a new [Client] for it along with the qualified [Path]. The
// caller owns the returned [Client] and must close it.
func (r *Registry) Resolve(ctx context.Context, raw string, conf *configuration.Configuration) (Client, *Path, error) { //nolint:ireturn
	p, err := ParsePath(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("(fs-resolve) %w", err)
	}

	p, err = p.Qualify(conf.DefaultFS)
	if err != nil {
		return nil, nil, fmt.Errorf("(fs-resolve) %w", err)
	}

	impl, ok := conf.Impl(p.Scheme)
	if !ok {
		return nil, nil, fmt.Errorf("(fs-resolve) %w: %s", ErrUnsupportedScheme, p.Scheme)
	}

	r.RLock()
	factory, ok := r.factories[impl]
	r.RUnlock()

	if !ok {
		return nil, nil, fmt.Errorf("(fs-resolve) %w: %s (scheme %s)", ErrUnknownImpl, impl, p.Scheme)
	}

	client, err := factory(ctx, p, conf)
	if err != nil {
		return nil, nil, fmt.Errorf("(fs-resolve) failed to establish %s client: %w", impl, err)
	}

	return client, p, nil
}
