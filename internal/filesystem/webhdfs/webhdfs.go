// Package webhdfs implements the filesystem client for HDFS, talking to the
// namenode and datanodes through the WebHDFS REST API.
package webhdfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/forons/fsutil/internal/configuration"
	"github.com/forons/fsutil/internal/filesystem"
)

const maxErrorBody = 1 << 16

// Client is the [filesystem.Client] for one HDFS namenode.
type Client struct {
	baseURL    *url.URL
	user       string
	transport  *http.Transport
	httpClient *http.Client
	noRedirect *http.Client
}

// Factory is the [filesystem.Factory] for HDFS. The namenode is taken from
// the WebHDFS address of the configuration or, if unset, from the authority
// of the path combined with the configured WebHDFS port.
func Factory(_ context.Context, p *filesystem.Path, conf *configuration.Configuration) (filesystem.Client, error) { //nolint:ireturn
	address, err := nameNodeAddress(p, conf.WebHDFS)
	if err != nil {
		return nil, err
	}

	return NewClient(address, conf.WebHDFS.User, conf.WebHDFS.Timeout)
}

// NewClient returns a pointer to a new [Client] for the namenode at address,
// e.g. http://namenode:9870. A positive timeout bounds connecting and waiting
// for response headers, never the streaming of a body; zero disables it.
func NewClient(address string, user string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("(fs-webhdfs) invalid namenode address: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("(fs-webhdfs) %w: %s", ErrNoNameNode, address)
	}

	if user == "" {
		user = configuration.DefaultWebHDFSUser
	}

	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert
	if timeout > 0 {
		transport.DialContext = (&net.Dialer{Timeout: timeout}).DialContext
		transport.TLSHandshakeTimeout = timeout
		transport.ResponseHeaderTimeout = timeout
	}

	return &Client{
		baseURL:   u,
		user:      user,
		transport: transport,
		httpClient: &http.Client{
			Transport: transport,
		},
		noRedirect: &http.Client{
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

func nameNodeAddress(p *filesystem.Path, conf configuration.WebHDFSConfiguration) (string, error) {
	if conf.Address != "" {
		return conf.Address, nil
	}

	if p.Authority == "" {
		return "", fmt.Errorf("(fs-webhdfs) %w: %s", ErrNoNameNode, p)
	}

	host := p.Authority
	if h, _, err := net.SplitHostPort(p.Authority); err == nil {
		host = h
	}

	port := conf.Port
	if port <= 0 {
		port = configuration.DefaultWebHDFSPort
	}

	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)), nil
}

func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	if _, err := c.getFileStatus(ctx, name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (c *Client) Stat(ctx context.Context, name string) (*filesystem.FileInfo, error) {
	status, err := c.getFileStatus(ctx, name)
	if err != nil {
		return nil, err
	}

	return &filesystem.FileInfo{
		Path:    name,
		Size:    status.Length,
		IsDir:   status.Type == typeDirectory,
		ModTime: time.UnixMilli(status.ModificationTime),
		Owner:   status.Owner,
		Group:   status.Group,
	}, nil
}

// Open returns the content of name, following the namenode redirect to the
// datanode serving it.
func (c *Client) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, c.httpClient, http.MethodGet, c.buildURL(name, OpOpen, nil), nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()

		return nil, decodeError(resp)
	}

	return resp.Body, nil
}

// Create asks the namenode for a datanode location and returns a writer
// streaming into it. The upload is complete once the writer is closed.
func (c *Client) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	params := url.Values{}
	params.Set("overwrite", "true")

	resp, err := c.do(ctx, c.noRedirect, http.MethodPut, c.buildURL(name, OpCreate, params), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusTemporaryRedirect {
		return nil, decodeError(resp)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return nil, fmt.Errorf("(fs-webhdfs) %w: create without datanode location", ErrRemote)
	}

	return filesystem.NewStreamWriter(func(r io.Reader) error {
		return c.upload(ctx, location, r)
	}), nil
}

func (c *Client) upload(ctx context.Context, location string, body io.Reader) error {
	resp, err := c.do(ctx, c.httpClient, http.MethodPut, location, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	return nil
}

func (c *Client) Delete(ctx context.Context, name string, recursive bool) error {
	params := url.Values{}
	params.Set("recursive", strconv.FormatBool(recursive))

	ok, err := c.booleanOp(ctx, http.MethodDelete, c.buildURL(name, OpDelete, params))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("(fs-webhdfs) %w: %s", fs.ErrNotExist, name)
	}

	return nil
}

func (c *Client) Mkdirs(ctx context.Context, name string) error {
	ok, err := c.booleanOp(ctx, http.MethodPut, c.buildURL(name, OpMkdirs, nil))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("(fs-webhdfs) %w: mkdirs %s", ErrNotPerformed, name)
	}

	return nil
}

// Close releases the idle connections of the client.
func (c *Client) Close() error {
	c.transport.CloseIdleConnections()

	return nil
}

func (c *Client) buildURL(name string, op string, params url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(c.baseURL.Path, "/") + apiPrefix + name

	q := url.Values{}
	q.Set("op", op)
	q.Set("user.name", c.user)
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()

	return u.String()
}

func (c *Client) do(ctx context.Context, client *http.Client, method string, reqURL string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("(fs-webhdfs) failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/octet-stream")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("(fs-webhdfs) %s request failed: %w", method, err)
	}

	return resp, nil
}

func (c *Client) getFileStatus(ctx context.Context, name string) (*FileStatus, error) {
	resp, err := c.do(ctx, c.httpClient, http.MethodGet, c.buildURL(name, OpGetFileStatus, nil), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var result FileStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("(fs-webhdfs) failed to decode file status: %w", err)
	}

	return &result.FileStatus, nil
}

func (c *Client) booleanOp(ctx context.Context, method string, reqURL string) (bool, error) {
	resp, err := c.do(ctx, c.httpClient, method, reqURL, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, decodeError(resp)
	}

	var result BooleanResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("(fs-webhdfs) failed to decode response: %w", err)
	}

	return result.Boolean, nil
}

// decodeError turns an unexpected response into an error, mapping the
// RemoteException of missing paths to [fs.ErrNotExist].
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var remote RemoteExceptionResponse
	if err := json.Unmarshal(body, &remote); err == nil && remote.RemoteException.Exception != "" {
		ex := remote.RemoteException

		switch ex.Exception {
		case exceptionFileNotFound:
			return fmt.Errorf("(fs-webhdfs) %w: %s", fs.ErrNotExist, ex.Message)
		case exceptionNotEmpty:
			return fmt.Errorf("(fs-webhdfs) %w: %s", filesystem.ErrNotEmpty, ex.Message)
		case exceptionAlreadyExists:
			return fmt.Errorf("(fs-webhdfs) %w: %s", fs.ErrExist, ex.Message)
		}

		return fmt.Errorf("(fs-webhdfs) %w %d: %s: %s", ErrRemote, resp.StatusCode, ex.Exception, ex.Message)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("(fs-webhdfs) %w: %s", fs.ErrNotExist, resp.Request.URL.Path)
	}

	return fmt.Errorf("(fs-webhdfs) %w %d: %s", ErrRemote, resp.StatusCode, strings.TrimSpace(string(body)))
}

var _ filesystem.Client = (*Client)(nil)
