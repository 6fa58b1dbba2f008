package s3

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/forons/fsutil/internal/configuration"
	"github.com/forons/fsutil/internal/filesystem"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory objectStore for a single bucket. listErr fails
// full listings only, bounded existence checks still succeed.
type fakeStore struct {
	sync.Mutex
	bucket   string
	exists   bool
	objects  map[string]string
	listErr  error
	listCtxs []context.Context
}

func newFakeStore(bucket string) *fakeStore {
	return &fakeStore{
		bucket:  bucket,
		exists:  true,
		objects: make(map[string]string),
	}
}

func noSuchKey(key string) error {
	return minio.ErrorResponse{Code: "NoSuchKey", Key: key, Message: "The specified key does not exist."}
}

func (s *fakeStore) BucketExists(_ context.Context, bucket string) (bool, error) {
	s.Lock()
	defer s.Unlock()

	return s.exists && bucket == s.bucket, nil
}

func (s *fakeStore) MakeBucket(_ context.Context, _ string, _ minio.MakeBucketOptions) error {
	s.Lock()
	defer s.Unlock()

	s.exists = true

	return nil
}

func (s *fakeStore) StatObject(_ context.Context, _ string, key string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	s.Lock()
	defer s.Unlock()

	content, ok := s.objects[key]
	if !ok {
		return minio.ObjectInfo{}, noSuchKey(key)
	}

	return minio.ObjectInfo{
		Key:          key,
		Size:         int64(len(content)),
		LastModified: time.Unix(1700000000, 0),
	}, nil
}

func (s *fakeStore) GetObject(_ context.Context, _ string, key string, _ minio.GetObjectOptions) (io.ReadCloser, error) {
	s.Lock()
	defer s.Unlock()

	content, ok := s.objects[key]
	if !ok {
		return nil, noSuchKey(key)
	}

	return io.NopCloser(strings.NewReader(content)), nil
}

func (s *fakeStore) PutObject(_ context.Context, _ string, key string, reader io.Reader, _ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}

	s.Lock()
	defer s.Unlock()

	s.objects[key] = string(data)

	return minio.UploadInfo{Key: key, Size: int64(len(data))}, nil
}

func (s *fakeStore) RemoveObject(_ context.Context, _ string, key string, _ minio.RemoveObjectOptions) error {
	s.Lock()
	defer s.Unlock()

	delete(s.objects, key)

	return nil
}

func (s *fakeStore) ListObjects(ctx context.Context, _ string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	s.Lock()
	defer s.Unlock()

	s.listCtxs = append(s.listCtxs, ctx)

	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, opts.Prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	ch := make(chan minio.ObjectInfo, len(keys)+1)
	if s.listErr != nil && opts.MaxKeys == 0 {
		ch <- minio.ObjectInfo{Err: s.listErr}
	}
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k, Size: int64(len(s.objects[k]))}
	}
	close(ch)

	return ch
}

func (s *fakeStore) keys() []string {
	s.Lock()
	defer s.Unlock()

	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

func newTestClient(store *fakeStore) *Client {
	return &Client{store: store, bucket: store.bucket}
}

// TestParseEndpoint verifies the accepted endpoint notations.
func TestParseEndpoint(t *testing.T) {
	t.Parallel()

	endpoint, secure, err := parseEndpoint("minio:9000", false)
	require.NoError(t, err)
	assert.Equal(t, "minio:9000", endpoint)
	assert.False(t, secure)

	endpoint, secure, err = parseEndpoint("minio:9000", true)
	require.NoError(t, err)
	assert.Equal(t, "minio:9000", endpoint)
	assert.True(t, secure)

	endpoint, secure, err = parseEndpoint("https://s3.amazonaws.com", false)
	require.NoError(t, err)
	assert.Equal(t, "s3.amazonaws.com", endpoint)
	assert.True(t, secure)

	endpoint, secure, err = parseEndpoint("http://localhost:9000", false)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", endpoint)
	assert.False(t, secure)

	_, _, err = parseEndpoint("", false)
	require.ErrorIs(t, err, ErrNoEndpoint)

	_, _, err = parseEndpoint("http://", false)
	require.ErrorIs(t, err, ErrNoEndpoint)
}

// TestObjectKey verifies the mapping of path names to object keys.
func TestObjectKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a/b", objectKey("/a/b"))
	assert.Equal(t, "a/b", objectKey("/a/b/"))
	assert.Empty(t, objectKey("/"))
	assert.Equal(t, "a/b/", dirPrefix(objectKey("/a/b")))
}

// TestNewClient verifies the validation of the client settings.
func TestNewClient(t *testing.T) {
	t.Parallel()

	conf := configuration.S3Configuration{Endpoint: "localhost:9000", AccessKeyID: "key", SecretAccessKey: "secret"}

	_, err := NewClient(conf, "")
	require.ErrorIs(t, err, ErrNoBucket)

	_, err = NewClient(configuration.S3Configuration{}, "bucket")
	require.ErrorIs(t, err, ErrNoEndpoint)

	c, err := NewClient(conf, "bucket")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	conf2 := configuration.New()
	conf2.S3 = conf

	client, err := Factory(context.Background(), &filesystem.Path{Scheme: "s3", Authority: "bucket", Name: "/a"}, conf2)
	require.NoError(t, err)
	require.NoError(t, client.Close())
}

// TestMapError verifies the classification of minio-go errors.
func TestMapError(t *testing.T) {
	t.Parallel()

	require.NoError(t, mapError(nil))

	err := mapError(noSuchKey("a"))
	require.ErrorIs(t, err, fs.ErrNotExist)

	err = mapError(minio.ErrorResponse{Code: "NoSuchBucket"})
	require.ErrorIs(t, err, fs.ErrNotExist)

	err = mapError(minio.ErrorResponse{Code: "AccessDenied"})
	require.ErrorIs(t, err, fs.ErrPermission)

	errOther := errors.New("connection reset")
	err = mapError(errOther)
	require.ErrorIs(t, err, errOther)
	require.NotErrorIs(t, err, fs.ErrNotExist)
}

// TestCreateStat verifies the streamed upload and the metadata of the object.
func TestCreateStat(t *testing.T) {
	t.Parallel()

	store := newFakeStore("bucket")
	c := newTestClient(store)
	ctx := context.Background()

	w, err := c.Create(ctx, "/dir/a.txt")
	require.NoError(t, err)

	_, err = io.WriteString(w, "hello\nworld")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, []string{"dir/a.txt"}, store.keys())

	info, err := c.Stat(ctx, "/dir/a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(11), info.Size)
	assert.False(t, info.IsDir)

	info, err = c.Stat(ctx, "/dir")
	require.NoError(t, err)
	assert.True(t, info.IsDir)

	info, err = c.Stat(ctx, "/")
	require.NoError(t, err)
	assert.True(t, info.IsDir)

	_, err = c.Stat(ctx, "/other")
	require.ErrorIs(t, err, fs.ErrNotExist)

	_, err = c.Create(ctx, "/")
	require.ErrorIs(t, err, ErrRootOperation)
}

// TestCreateOpen_RoundTrip verifies that an uploaded object reads back
// unchanged.
func TestCreateOpen_RoundTrip(t *testing.T) {
	t.Parallel()

	store := newFakeStore("bucket")
	c := newTestClient(store)
	ctx := context.Background()

	w, err := c.Create(ctx, "/dir/a.txt")
	require.NoError(t, err)

	_, err = io.WriteString(w, "hello\nworld")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := c.Open(ctx, "/dir/a.txt")
	require.NoError(t, err)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	assert.Equal(t, "hello\nworld", string(data))
}

// TestExists verifies existence checks of objects, prefixes and buckets.
func TestExists(t *testing.T) {
	t.Parallel()

	store := newFakeStore("bucket")
	store.objects["a/b.txt"] = "b"
	c := newTestClient(store)
	ctx := context.Background()

	for name, want := range map[string]bool{
		"/a/b.txt": true,
		"/a":       true,
		"/a/c.txt": false,
		"/":        true,
	} {
		exists, err := c.Exists(ctx, name)
		require.NoError(t, err, name)
		assert.Equal(t, want, exists, name)
	}

	store.exists = false

	exists, err := c.Exists(ctx, "/")
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestOpen_Directory verifies that directories cannot be opened.
func TestOpen_Directory(t *testing.T) {
	t.Parallel()

	store := newFakeStore("bucket")
	store.objects["a/b.txt"] = "b"
	c := newTestClient(store)

	_, err := c.Open(context.Background(), "/a")
	require.ErrorIs(t, err, filesystem.ErrIsDirectory)

	_, err = c.Open(context.Background(), "/missing")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

// TestDelete verifies object and prefix deletion.
func TestDelete(t *testing.T) {
	t.Parallel()

	store := newFakeStore("bucket")
	store.objects["tree/"] = ""
	store.objects["tree/a.txt"] = "a"
	store.objects["tree/sub/b.txt"] = "b"
	store.objects["keep.txt"] = "k"
	c := newTestClient(store)
	ctx := context.Background()

	err := c.Delete(ctx, "/tree", false)
	require.ErrorIs(t, err, filesystem.ErrNotEmpty)

	require.NoError(t, c.Delete(ctx, "/tree", true))
	assert.Equal(t, []string{"keep.txt"}, store.keys())

	require.NoError(t, c.Delete(ctx, "/keep.txt", false))
	assert.Empty(t, store.keys())

	err = c.Delete(ctx, "/keep.txt", false)
	require.ErrorIs(t, err, fs.ErrNotExist)

	err = c.Delete(ctx, "/", true)
	require.ErrorIs(t, err, ErrRootOperation)
}

// TestDelete_EmptyDirectory verifies that a bare directory marker can be
// removed without recursion.
func TestDelete_EmptyDirectory(t *testing.T) {
	t.Parallel()

	store := newFakeStore("bucket")
	store.objects["empty/"] = ""
	c := newTestClient(store)

	require.NoError(t, c.Delete(context.Background(), "/empty", false))
	assert.Empty(t, store.keys())
}

// TestDelete_ListFailure verifies that listing errors abort the deletion.
func TestDelete_ListFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore("bucket")
	store.objects["tree/a.txt"] = "a"
	c := newTestClient(store)

	store.listErr = minio.ErrorResponse{Code: "AccessDenied"}

	err := c.Delete(context.Background(), "/tree", true)
	require.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, []string{"tree/a.txt"}, store.keys())

	store.Lock()
	defer store.Unlock()

	require.Len(t, store.listCtxs, 2)
	for _, ctx := range store.listCtxs {
		require.ErrorIs(t, ctx.Err(), context.Canceled, "listing must be cancelled on return")
	}
}

// TestMkdirs verifies directory markers and bucket creation.
func TestMkdirs(t *testing.T) {
	t.Parallel()

	store := newFakeStore("bucket")
	store.exists = false
	c := newTestClient(store)
	ctx := context.Background()

	require.NoError(t, c.Mkdirs(ctx, "/"))
	assert.True(t, store.exists)

	require.NoError(t, c.Mkdirs(ctx, "/a/b"))
	assert.Equal(t, []string{"a/b/"}, store.keys())

	info, err := c.Stat(ctx, "/a/b")
	require.NoError(t, err)
	assert.True(t, info.IsDir)
}
