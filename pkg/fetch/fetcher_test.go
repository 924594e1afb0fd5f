package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mwantia/bingwall/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the full body across chunks", func(t *testing.T) {
		payload := bytes.Repeat([]byte("wallpaper"), 3*ChunkSize)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(payload)
		}))
		defer srv.Close()

		data, err := NewHTTPFetcher(time.Second).Fetch(ctx, srv.URL)
		require.NoError(t, err)
		assert.Equal(t, payload, data)
	})

	t.Run("sends configured headers", func(t *testing.T) {
		var agent string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agent = r.Header.Get("User-Agent")
		}))
		defer srv.Close()

		_, err := NewHTTPFetcher(time.Second, WithHeader("User-Agent", "bingwall-test")).Fetch(ctx, srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "bingwall-test", agent)
	})

	t.Run("non-2xx is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		data, err := NewHTTPFetcher(time.Second).Fetch(ctx, srv.URL)
		require.Error(t, err)
		assert.Nil(t, data)
		assert.True(t, errs.Is(err, errs.Network))
	})

	t.Run("timeout is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		_, err := NewHTTPFetcher(50 * time.Millisecond).Fetch(ctx, srv.URL)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.Network))
	})

	t.Run("unreachable host is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewHTTPFetcher(time.Second).Fetch(ctx, url)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.Network))
	})
}
