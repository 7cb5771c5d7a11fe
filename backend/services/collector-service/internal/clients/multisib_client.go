package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// LiveData is the raw answer of the controller.
type LiveData struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the page loaded.
func (d LiveData) OK() bool {
	return d.StatusCode == http.StatusOK
}

// MultiSIBClient reads the live data page of a MultiSIB controller.
type MultiSIBClient struct {
	url    string
	client HTTPDoer
}

// NewMultiSIBClient builds a client for http://address:port.
func NewMultiSIBClient(address, port, apiKey string, client HTTPDoer) (*MultiSIBClient, error) {
	liveURL, err := LiveDataURL(address, port, apiKey)
	if err != nil {
		return nil, err
	}
	return &MultiSIBClient{url: liveURL, client: client}, nil
}

// LiveDataURL renders the GetLiveData request URL. The controller expects the
// bare GetLiveData flag before the APIKey parameter.
func LiveDataURL(address, port, apiKey string) (string, error) {
	address = strings.TrimSpace(address)
	port = strings.TrimSpace(port)
	if address == "" {
		return "", errors.New("clients: empty controller address")
	}
	if port == "" {
		return "", errors.New("clients: empty controller port")
	}

	u := url.URL{
		Scheme:   "http",
		Host:     net.JoinHostPort(address, port),
		Path:     "/",
		RawQuery: "GetLiveData&APIKey=" + url.QueryEscape(apiKey),
	}
	return u.String(), nil
}

// URL returns the request URL.
func (c *MultiSIBClient) URL() string {
	return c.url
}

// URLWithoutKey returns the request URL with the API key masked, for logs.
func (c *MultiSIBClient) URLWithoutKey() string {
	if i := strings.Index(c.url, "APIKey="); i >= 0 {
		return c.url[:i] + "APIKey=***"
	}
	return c.url
}

// FetchLiveData performs one GET. A non-200 status is returned in LiveData,
// not as an error; only transport failures are errors.
func (c *MultiSIBClient) FetchLiveData(ctx context.Context) (LiveData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return LiveData{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return LiveData{}, fmt.Errorf("clients: get live data: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return LiveData{StatusCode: resp.StatusCode}, fmt.Errorf("clients: read live data: %w", err)
	}
	return LiveData{StatusCode: resp.StatusCode, Body: body}, nil
}

// NewDefaultHTTPClient returns *http.Client with timeout. Zero disables it.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
