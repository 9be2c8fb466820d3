package clients

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_AppliesDefaultHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	session := NewSession(5 * time.Second)
	defer session.Close()
	session.SetHeader("Authorization", "token secret")

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := session.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "token secret", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "Tributary/1.0", got.Get("User-Agent"))
}

func TestSession_PerRequestHeadersWin(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	session := NewSession(5 * time.Second)
	defer session.Close()
	session.SetHeader("Accept", "application/xml")

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/plain")

	resp, err := session.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "text/plain", got.Get("Accept"))
}

func TestSession_CloseIdempotent(t *testing.T) {
	session := NewSession(time.Second)

	require.NoError(t, session.Close())
	require.NoError(t, session.Close())
}
