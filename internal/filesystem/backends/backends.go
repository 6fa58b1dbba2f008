// Package backends wires the built-in filesystem clients into a registry.
package backends

import (
	"github.com/forons/fsutil/internal/configuration"
	"github.com/forons/fsutil/internal/filesystem"
	"github.com/forons/fsutil/internal/filesystem/local"
	"github.com/forons/fsutil/internal/filesystem/s3"
	"github.com/forons/fsutil/internal/filesystem/webhdfs"
)

// NewRegistry returns a pointer to a new [filesystem.Registry] with the
// local, WebHDFS and S3 clients registered under their implementation ids.
func NewRegistry() *filesystem.Registry {
	reg := filesystem.NewRegistry()

	reg.Register(configuration.ImplLocal, local.Factory)
	reg.Register(configuration.ImplWebHDFS, webhdfs.Factory)
	reg.Register(configuration.ImplS3, s3.Factory)

	return reg
}
