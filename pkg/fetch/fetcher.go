package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mwantia/bingwall/pkg/errs"
)

// ChunkSize is the read size used when buffering a response body.
const ChunkSize = 1024

// Fetcher retrieves the raw bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
	headers http.Header
}

type Option func(*HTTPFetcher)

// WithClient replaces the default client; the fetcher timeout still applies per request.
func WithClient(client *http.Client) Option {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

func WithHeader(key, value string) Option {
	return func(f *HTTPFetcher) {
		f.headers.Set(key, value)
	}
}

func NewHTTPFetcher(timeout time.Duration, opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:  http.DefaultClient,
		timeout: timeout,
		headers: http.Header{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch issues a GET and returns the whole body. Any transport error, non-2xx
// status or interrupted body read is returned as a network error and no bytes.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := f.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var buf bytes.Buffer
	chunk := make([]byte, ChunkSize)
	for {
		n, err := body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.NewNetwork("read response body", err)
		}
	}

	return buf.Bytes(), nil
}

// Open returns the streaming body of a successful GET. The request deadline
// stays armed until the body is closed.
func (f *HTTPFetcher) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	cancel := context.CancelFunc(func() {})
	if f.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, errs.NewNetwork("build request", err)
	}
	for key, values := range f.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		cancel()
		return nil, errs.NewNetwork("request "+url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		cancel()
		return nil, errs.NewNetwork("request "+url, fmt.Errorf("unexpected status %s", resp.Status))
	}

	return &cancelBody{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}
