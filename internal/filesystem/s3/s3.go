// Package s3 implements the filesystem client for S3-compatible object
// stores. The authority of an s3:// path names the bucket, directories are
// key prefixes optionally marked by an empty "<dir>/" object.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/forons/fsutil/internal/configuration"
	"github.com/forons/fsutil/internal/filesystem"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	uploadPartSize = 16 << 20
	contentType    = "application/octet-stream"
)

var (
	// ErrNoEndpoint is an error that occurs when no S3 endpoint is configured.
	ErrNoEndpoint = errors.New("no s3 endpoint configured")

	// ErrNoBucket is an error that occurs when an s3:// path names no bucket.
	ErrNoBucket = errors.New("no bucket in path")

	// ErrRootOperation is an error that occurs when an operation is not
	// possible on the root of a bucket.
	ErrRootOperation = errors.New("operation not supported on bucket root")
)

type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// minioStore adapts a [minio.Client] to the objectStore interface.
type minioStore struct {
	*minio.Client
}

func (s minioStore) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return s.Client.GetObject(ctx, bucket, key, opts) //nolint:wrapcheck
}

// Client is the [filesystem.Client] for one bucket.
type Client struct {
	store     objectStore
	transport *http.Transport
	bucket    string
	region    string
}

// Factory is the [filesystem.Factory] for S3-compatible object stores.
func Factory(_ context.Context, p *filesystem.Path, conf *configuration.Configuration) (filesystem.Client, error) { //nolint:ireturn
	return NewClient(conf.S3, p.Authority)
}

// NewClient returns a pointer to a new [Client] for bucket.
func NewClient(conf configuration.S3Configuration, bucket string) (*Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("(fs-s3) %w", ErrNoBucket)
	}

	endpoint, secure, err := parseEndpoint(conf.Endpoint, conf.UseSSL)
	if err != nil {
		return nil, err
	}

	transport, err := minio.DefaultTransport(secure)
	if err != nil {
		return nil, fmt.Errorf("(fs-s3) failed to create transport: %w", err)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(conf.AccessKeyID, conf.SecretAccessKey, ""),
		Secure:    secure,
		Region:    conf.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("(fs-s3) failed to create minio client: %w", err)
	}

	return &Client{
		store:     minioStore{Client: client},
		transport: transport,
		bucket:    bucket,
		region:    conf.Region,
	}, nil
}

// parseEndpoint accepts both host:port and http(s)://host:port endpoints. An
// https URL enables TLS regardless of useSSL.
func parseEndpoint(endpoint string, useSSL bool) (string, bool, error) {
	if endpoint == "" {
		return "", false, fmt.Errorf("(fs-s3) %w", ErrNoEndpoint)
	}

	if !strings.Contains(endpoint, "://") {
		return endpoint, useSSL, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("(fs-s3) invalid endpoint: %w", err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("(fs-s3) %w: %s", ErrNoEndpoint, endpoint)
	}

	return u.Host, useSSL || u.Scheme == "https", nil
}

// objectKey maps a path name to the object key, "" for the bucket root.
func objectKey(name string) string {
	return strings.Trim(name, "/")
}

func dirPrefix(key string) string {
	return key + "/"
}

func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	if _, err := c.Stat(ctx, name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (c *Client) Stat(ctx context.Context, name string) (*filesystem.FileInfo, error) {
	key := objectKey(name)

	if key == "" {
		exists, err := c.store.BucketExists(ctx, c.bucket)
		if err != nil {
			return nil, mapError(err)
		}
		if !exists {
			return nil, fmt.Errorf("(fs-s3) %w: bucket %s", fs.ErrNotExist, c.bucket)
		}

		return &filesystem.FileInfo{Path: name, IsDir: true}, nil
	}

	info, err := c.store.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return &filesystem.FileInfo{
			Path:    name,
			Size:    info.Size,
			ModTime: info.LastModified,
			Owner:   info.Owner.DisplayName,
		}, nil
	}

	if mapped := mapError(err); !errors.Is(mapped, fs.ErrNotExist) {
		return nil, mapped
	}

	isDir, err := c.hasPrefix(ctx, dirPrefix(key))
	if err != nil {
		return nil, err
	}
	if !isDir {
		return nil, fmt.Errorf("(fs-s3) %w: %s", fs.ErrNotExist, name)
	}

	return &filesystem.FileInfo{Path: name, IsDir: true}, nil
}

func (c *Client) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	info, err := c.Stat(ctx, name)
	if err != nil {
		return nil, err
	}
	if info.IsDir {
		return nil, fmt.Errorf("(fs-s3) %w: %s", filesystem.ErrIsDirectory, name)
	}

	obj, err := c.store.GetObject(ctx, c.bucket, objectKey(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err)
	}

	return obj, nil
}

// Create returns a writer streaming into a new object. The object replaces
// any existing one once the writer is closed.
func (c *Client) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	key := objectKey(name)
	if key == "" {
		return nil, fmt.Errorf("(fs-s3) %w: create", ErrRootOperation)
	}

	return filesystem.NewStreamWriter(func(r io.Reader) error {
		_, err := c.store.PutObject(ctx, c.bucket, key, r, -1, minio.PutObjectOptions{
			ContentType: contentType,
			PartSize:    uploadPartSize,
		})

		return mapError(err)
	}), nil
}

// Delete removes the object name or, for a directory, the objects below it.
// A non-recursive delete of a directory only succeeds if it is empty.
func (c *Client) Delete(ctx context.Context, name string, recursive bool) error {
	key := objectKey(name)
	if key == "" {
		return fmt.Errorf("(fs-s3) %w: delete", ErrRootOperation)
	}

	info, err := c.Stat(ctx, name)
	if err != nil {
		return err
	}

	if !info.IsDir {
		if err := c.store.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return mapError(err)
		}

		return nil
	}

	keys, err := c.listPrefix(ctx, dirPrefix(key))
	if err != nil {
		return err
	}

	if !recursive {
		for _, k := range keys {
			if k != dirPrefix(key) {
				return fmt.Errorf("(fs-s3) %w: %s", filesystem.ErrNotEmpty, name)
			}
		}
	}

	for _, k := range keys {
		if err := c.store.RemoveObject(ctx, c.bucket, k, minio.RemoveObjectOptions{}); err != nil {
			return mapError(err)
		}
	}

	return nil
}

// Mkdirs writes an empty directory marker object. For the bucket root it
// creates the bucket if necessary.
func (c *Client) Mkdirs(ctx context.Context, name string) error {
	key := objectKey(name)

	if key == "" {
		exists, err := c.store.BucketExists(ctx, c.bucket)
		if err != nil {
			return mapError(err)
		}
		if exists {
			return nil
		}
		if err := c.store.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
			return mapError(err)
		}

		return nil
	}

	_, err := c.store.PutObject(ctx, c.bucket, dirPrefix(key), strings.NewReader(""), 0, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return mapError(err)
	}

	return nil
}

// Close releases the idle connections of the client.
func (c *Client) Close() error {
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}

	return nil
}

func (c *Client) hasPrefix(ctx context.Context, prefix string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for obj := range c.store.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
		MaxKeys:   1,
	}) {
		if obj.Err != nil {
			return false, mapError(obj.Err)
		}

		return true, nil
	}

	return false, nil
}

func (c *Client) listPrefix(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var keys []string

	for obj := range c.store.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, mapError(obj.Err)
		}
		keys = append(keys, obj.Key)
	}

	return keys, nil
}

// mapError converts minio-go errors, mapping missing keys and buckets to
// [fs.ErrNotExist].
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("(fs-s3) %w: %w", fs.ErrNotExist, err)
	case "AccessDenied":
		return fmt.Errorf("(fs-s3) %w: %w", fs.ErrPermission, err)
	}

	return fmt.Errorf("(fs-s3) %w", err)
}

var _ filesystem.Client = (*Client)(nil)
