package httpclient

import (
	"bytes"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/roomkangali/payloadgen/internal/logger"
)

// Client is a small HTTP client wrapper with retries, used for polling
// callback servers for recorded interactions.
type Client struct {
	httpClient   *http.Client
	logger       *logger.Logger
	userAgent    string
	maxRetries   int
	requestDelay time.Duration
}

// ClientOptions holds configuration parameters for initializing the Client.
type ClientOptions struct {
	Timeout            time.Duration // Timeout for HTTP requests.
	InsecureSkipVerify bool          // Whether to skip TLS certificate verification.
	UserAgent          string        // Custom User-Agent string.
	MaxRetries         int           // Maximum number of retries for requests.
	RequestDelay       time.Duration // Delay between retries.
}

// NewClient creates and returns a new HTTP client instance.
func NewClient(log *logger.Logger, opts ClientOptions) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = "payloadgen/1.0"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: opts.InsecureSkipVerify},
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		logger:       log,
		userAgent:    opts.UserAgent,
		maxRetries:   opts.MaxRetries,
		requestDelay: opts.RequestDelay,
	}
}

// Do performs an HTTP request with retries. Rate-limited (429) and 5xx
// responses are retried; anything else is returned as-is.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Trace("Sending request: %s %s", req.Method, req.URL.String())

	var resp *http.Response
	var err error

	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			time.Sleep(c.requestDelay)
		}

		// Clone the request so a retry gets a fresh body.
		var reqClone *http.Request
		if req.Body != nil {
			bodyBytes, _ := io.ReadAll(req.Body)
			req.Body.Close()
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			reqClone = req.Clone(req.Context())
			reqClone.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		} else {
			reqClone = req.Clone(req.Context())
		}

		resp, err = c.httpClient.Do(reqClone)

		if err == nil {
			if resp.StatusCode != http.StatusTooManyRequests && (resp.StatusCode < 500 || resp.StatusCode > 599) {
				return resp, nil
			}

			if resp.StatusCode == http.StatusTooManyRequests {
				backoffDuration := 5 * time.Second
				c.logger.Warn("Rate limit detected (429 Too Many Requests). Waiting for %v before retrying...", backoffDuration)
				time.Sleep(backoffDuration)
				resp.Body.Close()
				continue
			}
		}

		// Other errors and 5xx responses fall through to the next retry.
		if resp != nil {
			resp.Body.Close()
		}
	}

	return resp, err
}
