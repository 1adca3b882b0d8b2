package fetch

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gojek/heimdall/v7/httpclient"
)

// ErrProfileTooLarge indicates the remote profile exceeded the configured
// size limit.
var ErrProfileTooLarge = errors.New("remote profile exceeds the size limit")

// Client downloads raw profiles from a remote URL, the load-from-URL
// ingestion path. Requests retry on transient failures.
type Client struct {
	http    *httpclient.Client
	maxSize int64
}

func NewClient(timeout time.Duration, retryCount int, maxSize int64) *Client {
	return &Client{
		http: httpclient.NewClient(
			httpclient.WithHTTPTimeout(timeout),
			httpclient.WithRetryCount(retryCount),
		),
		maxSize: maxSize,
	}
}

// Profile fetches the profile at url and returns its raw bytes.
func (c *Client) Profile(url string) ([]byte, error) {
	resp, err := c.http.Get(url, http.Header{})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error while fetching profile: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxSize {
		return nil, ErrProfileTooLarge
	}
	return body, nil
}
