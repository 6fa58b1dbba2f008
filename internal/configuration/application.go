package configuration

import (
	"maps"
	"strings"
	"sync"
	"time"
)

const (
	// ImplLocal identifies the local filesystem implementation.
	ImplLocal = "local"

	// ImplWebHDFS identifies the WebHDFS (Hadoop) implementation.
	ImplWebHDFS = "webhdfs"

	// ImplS3 identifies the S3-compatible object store implementation.
	ImplS3 = "s3"

	// DefaultFS is the filesystem bare paths are resolved against.
	DefaultFS = "file:///"

	// DefaultWebHDFSPort is the namenode HTTP port of Hadoop 3.
	DefaultWebHDFSPort = 9870

	// DefaultWebHDFSUser is the user name sent with WebHDFS requests.
	DefaultWebHDFSUser = "hdfs"

	// DefaultWebHDFSTimeout bounds connecting to WebHDFS and waiting for a
	// response, but not the transfer of file content.
	DefaultWebHDFSTimeout = 30 * time.Second
)

// WebHDFSConfiguration holds the settings of the WebHDFS implementation.
type WebHDFSConfiguration struct {
	Address string // overrides the address derived from the hdfs URI
	Port    int
	User    string
	Timeout time.Duration
}

// S3Configuration holds the settings of the S3 implementation.
type S3Configuration struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// Configuration maps URI schemes to filesystem implementations and carries
// the settings those implementations need. A Configuration must not be
// modified once it is shared, use [Configuration.Clone] or
// [Configuration.WithImpl] to derive a changed one.
type Configuration struct {
	DefaultFS string
	Impls     map[string]string // map[scheme]implementation
	WebHDFS   WebHDFSConfiguration
	S3        S3Configuration
}

//nolint:gochecknoglobals
var defaultConfiguration = sync.OnceValue(New)

// New returns a pointer to a new [Configuration] holding the defaults.
func New() *Configuration {
	return &Configuration{
		DefaultFS: DefaultFS,
		Impls: map[string]string{
			"hdfs":    ImplWebHDFS,
			"webhdfs": ImplWebHDFS,
			"file":    ImplLocal,
			"s3":      ImplS3,
		},
		WebHDFS: WebHDFSConfiguration{
			Port:    DefaultWebHDFSPort,
			User:    DefaultWebHDFSUser,
			Timeout: DefaultWebHDFSTimeout,
		},
	}
}

// Default returns the process-wide default [Configuration]. It is constructed
// on first use and shared by all later callers, who must treat it as
// read-only.
func Default() *Configuration {
	return defaultConfiguration()
}

// Clone returns a deep copy of the [Configuration].
func (c *Configuration) Clone() *Configuration {
	clone := *c
	clone.Impls = maps.Clone(c.Impls)

	if clone.Impls == nil {
		clone.Impls = make(map[string]string)
	}

	return &clone
}

// WithImpl returns a copy of the [Configuration] with scheme mapped to impl.
func (c *Configuration) WithImpl(scheme string, impl string) *Configuration {
	clone := c.Clone()
	clone.Impls[strings.ToLower(scheme)] = impl

	return clone
}

// Impl returns the implementation identifier registered for a scheme.
func (c *Configuration) Impl(scheme string) (string, bool) {
	impl, ok := c.Impls[strings.ToLower(scheme)]

	return impl, ok
}
