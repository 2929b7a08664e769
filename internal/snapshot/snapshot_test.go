// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package snapshot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sightassist/sightctl/internal/api"
)

func TestFetch_HTTPWritesThroughDiskCache(t *testing.T) {
	t.Setenv("SIGHTCTL_CACHE_DIR", t.TempDir())
	t.Setenv("SIGHTCTL_CACHE", "1")

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("jpeg bytes"))
	}))
	defer srv.Close()

	f := NewFetcher(api.New(srv.URL, ""))
	imageURL := srv.URL + "/snapshots/101.jpg"

	data, path, err := f.Fetch(context.Background(), "dev-1", imageURL)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)
	assert.NotEmpty(t, path)

	// Second fetch is served from disk, no request.
	data, _, err = f.Fetch(context.Background(), "dev-1", imageURL)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetch_CacheDisabledAlwaysFetches(t *testing.T) {
	t.Setenv("SIGHTCTL_CACHE_DIR", t.TempDir())
	t.Setenv("SIGHTCTL_CACHE", "0")

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	f := NewFetcher(api.New(srv.URL, ""))
	imageURL := srv.URL + "/snapshots/101.jpg"

	_, path, err := f.Fetch(context.Background(), "dev-1", imageURL)
	require.NoError(t, err)
	assert.Empty(t, path)

	_, _, err = f.Fetch(context.Background(), "dev-1", imageURL)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestFetch_HTTPErrorPropagates(t *testing.T) {
	t.Setenv("SIGHTCTL_CACHE_DIR", t.TempDir())
	t.Setenv("SIGHTCTL_CACHE", "1")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(api.New(srv.URL, "", api.WithRetryMax(0)))
	_, _, err := f.Fetch(context.Background(), "dev-1", srv.URL+"/missing.jpg")
	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestFetchS3_RejectsMalformedURLs(t *testing.T) {
	f := NewFetcher(api.New("http://unused", ""))

	_, err := f.fetchS3(context.Background(), "s3://bucket-only")
	assert.ErrorContains(t, err, "need s3://bucket/key")

	_, err = f.fetchS3(context.Background(), "s3:///key-only")
	assert.ErrorContains(t, err, "need s3://bucket/key")
}
