package callback

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/roomkangali/payloadgen/internal/httpclient"
	"github.com/roomkangali/payloadgen/internal/logger"

	"golang.org/x/crypto/sha3"
)

// ServerClient talks to a token-recording callback server. Payloads contact
// <address>:<port>/<token>; the server records the interaction under the
// SHA3-224 hash of the token, and the polling endpoint is queried with that
// hash so the raw token never crosses the polling link.
type ServerClient struct {
	log        *logger.Logger
	httpClient *httpclient.Client
	address    string
	port       int
	pollingURI string
}

// pollResponse is the polling endpoint's record for one token.
type pollResponse struct {
	HasDNSInteraction  bool `json:"has_dns_interaction"`
	HasHTTPInteraction bool `json:"has_http_interaction"`
}

// NewServerClient creates a client for the callback server at the given
// payload-facing address/port, polled via pollingURI.
func NewServerClient(log *logger.Logger, hc *httpclient.Client, address string, port int, pollingURI string) *ServerClient {
	return &ServerClient{
		log:        log,
		httpClient: hc,
		address:    address,
		port:       port,
		pollingURI: strings.TrimSuffix(pollingURI, "/"),
	}
}

// Configured reports whether both the payload-facing address and the polling
// endpoint are set.
func (c *ServerClient) Configured() bool {
	return c.address != "" && c.pollingURI != ""
}

// TokenURL returns the URL a payload embeds so the interaction is recorded
// for the token.
func (c *ServerClient) TokenURL(token string) string {
	if c.port == 80 {
		return fmt.Sprintf("http://%s/%s", c.address, token)
	}
	return fmt.Sprintf("http://%s:%d/%s", c.address, c.port, token)
}

// HasInteraction asks the polling endpoint whether the server recorded a DNS
// or HTTP interaction for the token. Any transport failure or unexpected
// response reports no interaction.
func (c *ServerClient) HasInteraction(ctx context.Context, token string) (bool, error) {
	hash := sha3.Sum224([]byte(token))
	pollURL := fmt.Sprintf("%s/?secret=%s", c.pollingURI, hex.EncodeToString(hash[:]))

	req, err := http.NewRequestWithContext(ctx, "GET", pollURL, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("polling callback server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Trace("Callback server returned %d for token %s", resp.StatusCode, token)
		return false, nil
	}

	var record pollResponse
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return false, fmt.Errorf("decoding callback server response: %w", err)
	}

	return record.HasDNSInteraction || record.HasHTTPInteraction, nil
}

// Host returns the payload-facing callback host.
func (c *ServerClient) Host() string {
	return c.address
}

// Port returns the payload-facing callback port.
func (c *ServerClient) Port() int {
	return c.port
}

// Close is a no-op; the client holds no connections of its own.
func (c *ServerClient) Close() error {
	return nil
}
