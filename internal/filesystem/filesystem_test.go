package filesystem_test

import (
	"context"
	"errors"
	"testing"

	"github.com/forons/fsutil/internal/configuration"
	"github.com/forons/fsutil/internal/filesystem"
	"github.com/forons/fsutil/internal/filesystem/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistryResolve_Success verifies that a path is qualified and handed to
// the factory of the implementation configured for its scheme.
func TestRegistryResolve_Success(t *testing.T) {
	t.Parallel()

	client := mocks.NewClient(t)

	var got *filesystem.Path
	registry := filesystem.NewRegistry()
	registry.Register("memory", func(_ context.Context, p *filesystem.Path, _ *configuration.Configuration) (filesystem.Client, error) {
		got = p

		return client, nil
	})

	conf := configuration.New().WithImpl("file", "memory")

	resolved, p, err := registry.Resolve(context.Background(), "/tmp/a.txt", conf)
	require.NoError(t, err)

	assert.Same(t, client, resolved)
	assert.Equal(t, "file:///tmp/a.txt", p.String())
	assert.Equal(t, p, got)
}

// TestRegistryResolve_FreshClients verifies that every resolution builds a
// new client.
func TestRegistryResolve_FreshClients(t *testing.T) {
	t.Parallel()

	calls := 0
	registry := filesystem.NewRegistry()
	registry.Register("memory", func(_ context.Context, _ *filesystem.Path, _ *configuration.Configuration) (filesystem.Client, error) {
		calls++

		return mocks.NewClient(t), nil
	})

	conf := configuration.New().WithImpl("file", "memory")

	first, _, err := registry.Resolve(context.Background(), "file:///a", conf)
	require.NoError(t, err)

	second, _, err := registry.Resolve(context.Background(), "file:///a", conf)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.NotSame(t, first, second)
}

// TestRegistryResolve_UnsupportedScheme verifies the failure for schemes
// without a configured implementation.
func TestRegistryResolve_UnsupportedScheme(t *testing.T) {
	t.Parallel()

	registry := filesystem.NewRegistry()

	_, _, err := registry.Resolve(context.Background(), "ftp://host/file", configuration.New())
	require.ErrorIs(t, err, filesystem.ErrUnsupportedScheme)
}

// TestRegistryResolve_RelativePath verifies that relative bare paths are not
// qualified against the default filesystem.
func TestRegistryResolve_RelativePath(t *testing.T) {
	t.Parallel()

	registry := filesystem.NewRegistry()

	_, _, err := registry.Resolve(context.Background(), "a.txt", configuration.New())
	require.ErrorIs(t, err, filesystem.ErrRelativeURI)
}

// TestRegistryResolve_UnknownImpl verifies the failure for configured
// implementations without a registered factory.
func TestRegistryResolve_UnknownImpl(t *testing.T) {
	t.Parallel()

	registry := filesystem.NewRegistry()

	_, _, err := registry.Resolve(context.Background(), "hdfs://nn/file", configuration.New())
	require.ErrorIs(t, err, filesystem.ErrUnknownImpl)
}

// TestRegistryResolve_FactoryFailure verifies that factory errors propagate.
func TestRegistryResolve_FactoryFailure(t *testing.T) {
	t.Parallel()

	factoryErr := errors.New("no route to namenode")

	registry := filesystem.NewRegistry()
	registry.Register(configuration.ImplWebHDFS, func(_ context.Context, _ *filesystem.Path, _ *configuration.Configuration) (filesystem.Client, error) {
		return nil, factoryErr
	})

	_, _, err := registry.Resolve(context.Background(), "hdfs://nn/file", configuration.New())
	require.ErrorIs(t, err, factoryErr)
}

// TestRegistryResolve_InvalidPath verifies that parse failures propagate.
func TestRegistryResolve_InvalidPath(t *testing.T) {
	t.Parallel()

	_, _, err := filesystem.NewRegistry().Resolve(context.Background(), "", configuration.New())
	require.ErrorIs(t, err, filesystem.ErrEmptyPath)
}

// TestRegistryImpls verifies the listing of registered implementations.
func TestRegistryImpls(t *testing.T) {
	t.Parallel()

	registry := filesystem.NewRegistry()
	registry.Register("a", nil)
	registry.Register("b", nil)

	assert.ElementsMatch(t, []string{"a", "b"}, registry.Impls())
}
