package clients

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveDataURL(t *testing.T) {
	got, err := LiveDataURL("192.168.1.50", "8080", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.1.50:8080/?GetLiveData&APIKey=abc123", got)

	got, err = LiveDataURL("sib.lan", "80", "a b&c")
	require.NoError(t, err)
	assert.Equal(t, "http://sib.lan:80/?GetLiveData&APIKey=a+b%26c", got)

	_, err = LiveDataURL("", "80", "k")
	assert.Error(t, err)
	_, err = LiveDataURL("h", "", "k")
	assert.Error(t, err)
}

func TestURLWithoutKey(t *testing.T) {
	client, err := NewMultiSIBClient("10.1.1.1", "80", "topsecret", http.DefaultClient)
	require.NoError(t, err)

	assert.Equal(t, "http://10.1.1.1:80/?GetLiveData&APIKey=topsecret", client.URL())
	assert.Equal(t, "http://10.1.1.1:80/?GetLiveData&APIKey=***", client.URLWithoutKey())
}

func newServerClient(t *testing.T, handler http.HandlerFunc) *MultiSIBClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)

	client, err := NewMultiSIBClient(host, port, "key-1", NewDefaultHTTPClient(time.Second))
	require.NoError(t, err)
	return client
}

func TestFetchLiveData_OK(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/", r.URL.Path)
		_, hasFlag := r.URL.Query()["GetLiveData"]
		assert.True(t, hasFlag)
		assert.Equal(t, "key-1", r.URL.Query().Get("APIKey"))
		_, _ = w.Write([]byte("<p>ok</p>"))
	})

	data, err := client.FetchLiveData(context.Background())
	require.NoError(t, err)
	assert.True(t, data.OK())
	assert.Equal(t, "<p>ok</p>", string(data.Body))
}

func TestFetchLiveData_NonOK(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	data, err := client.FetchLiveData(context.Background())
	require.NoError(t, err)
	assert.False(t, data.OK())
	assert.Equal(t, http.StatusForbidden, data.StatusCode)
}

func TestFetchLiveData_TransportError(t *testing.T) {
	client, err := NewMultiSIBClient("127.0.0.1", "1", "k", NewDefaultHTTPClient(time.Second))
	require.NoError(t, err)

	_, err = client.FetchLiveData(context.Background())
	assert.Error(t, err)
}
