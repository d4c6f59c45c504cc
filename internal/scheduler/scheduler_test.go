package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meteoci/regress/internal/config"
)

func TestNewFromConfig_NilDocumentUnavailable(t *testing.T) {
	_, err := NewFromConfig(nil)

	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.Contains(t, err.Error(), "no configuration bound")
}

func TestNewFromConfig_MissingURLUnavailable(t *testing.T) {
	doc, err := config.Parse(`
[scheduler]
timeout = 30
`)
	require.NoError(t, err)

	_, err = NewFromConfig(doc)

	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestNewFromConfig_BindsHTTPServer(t *testing.T) {
	doc, err := config.Parse(`
[scheduler]
url = "http://ecflow.local:8080"
`)
	require.NoError(t, err)

	server, err := NewFromConfig(doc)

	require.NoError(t, err)
	hs, ok := server.(*HTTPServer)
	require.True(t, ok)
	assert.Equal(t, "http://ecflow.local:8080", hs.BaseURL)
}

func TestRemoveSuites_PostsRequest(t *testing.T) {
	var got removeSuitesRequest
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	s := &HTTPServer{BaseURL: ts.URL, Client: &http.Client{Timeout: time.Second}}
	err := s.RemoveSuites(context.Background(), []string{"alaro", "arome"}, true)

	require.NoError(t, err)
	assert.Equal(t, "/suites/remove", path)
	assert.Equal(t, []string{"alaro", "arome"}, got.Suites)
	assert.True(t, got.CheckIfComplete)
}

func TestRemoveSuites_AcceptedIsSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	s := &HTTPServer{BaseURL: ts.URL, Client: ts.Client()}
	assert.NoError(t, s.RemoveSuites(context.Background(), []string{"alaro"}, false))
}

func TestRemoveSuites_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	s := &HTTPServer{BaseURL: ts.URL, Client: ts.Client()}
	err := s.RemoveSuites(context.Background(), []string{"alaro"}, false)

	require.Error(t, err)
	assert.False(t, IsUnavailable(err), "a reachable backend that fails is not unavailability")
}

func TestRemoveSuites_TransportErrorIsUnavailable(t *testing.T) {
	s := &HTTPServer{
		BaseURL: "http://127.0.0.1:1",
		Client:  &http.Client{Timeout: 200 * time.Millisecond},
	}

	err := s.RemoveSuites(context.Background(), []string{"alaro"}, false)

	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}
