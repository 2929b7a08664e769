// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON_SendsAuthAndRequestID(t *testing.T) {
	var gotAuth, gotReqID, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sekret")
	body, err := c.GetJSON(context.Background(), "/health", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, "Bearer sekret", gotAuth)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, "application/json", gotAccept)
}

func TestGetJSON_NoTokenOmitsAuthHeader(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.GetJSON(context.Background(), "/health", nil)
	require.NoError(t, err)
	assert.False(t, sawAuth)
}

func TestGetJSON_JoinsPathAndQuery(t *testing.T) {
	var gotPath, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"detections":[]}`))
	}))
	defer srv.Close()

	// Trailing and leading slashes collapse to one.
	c := New(srv.URL+"/", "")
	_, err := c.GetJSON(context.Background(), "/detections/recent", url.Values{"limit": {"25"}})
	require.NoError(t, err)
	assert.Equal(t, "/detections/recent", gotPath)
	assert.Equal(t, "25", gotLimit)
}

func TestGetRaw_NonOKBecomesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "", WithRetryMax(0))
	_, err := c.GetRaw(context.Background(), srv.URL+"/users")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Code)
	assert.Contains(t, se.Error(), "403")
}

func TestGetRaw_RetriesOnServerError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", WithRetryMax(2), WithTimeout(5*time.Second))
	body, err := c.GetRaw(context.Background(), srv.URL+"/health")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
