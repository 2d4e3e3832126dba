package callback

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/roomkangali/payloadgen/internal/httpclient"
	"github.com/roomkangali/payloadgen/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

func testLog() *logger.Logger {
	log := logger.NewLogger(logger.ERROR)
	log.SetOutput(io.Discard)
	return log
}

func testHTTPClient() *httpclient.Client {
	return httpclient.NewClient(testLog(), httpclient.ClientOptions{Timeout: 2 * time.Second})
}

func TestServerClient_TokenURL(t *testing.T) {
	tests := []struct {
		name    string
		address string
		port    int
		token   string
		want    string
	}{
		{
			name:    "non-default port",
			address: "cb.example.com",
			port:    8881,
			token:   "ffffffffffffffff",
			want:    "http://cb.example.com:8881/ffffffffffffffff",
		},
		{
			name:    "port 80 omitted",
			address: "cb.example.com",
			port:    80,
			token:   "ffffffffffffffff",
			want:    "http://cb.example.com/ffffffffffffffff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewServerClient(testLog(), testHTTPClient(), tt.address, tt.port, "http://poll.example.com")
			assert.Equal(t, tt.want, c.TokenURL(tt.token))
		})
	}
}

func TestServerClient_Configured(t *testing.T) {
	assert.True(t, NewServerClient(testLog(), testHTTPClient(), "cb.example.com", 8881, "http://poll.example.com").Configured())
	assert.False(t, NewServerClient(testLog(), testHTTPClient(), "", 8881, "http://poll.example.com").Configured())
	assert.False(t, NewServerClient(testLog(), testHTTPClient(), "cb.example.com", 8881, "").Configured())
}

func TestServerClient_HasInteraction(t *testing.T) {
	const token = "ffffffffffffffff"
	hash := sha3.Sum224([]byte(token))
	wantSecret := hex.EncodeToString(hash[:])

	tests := []struct {
		name     string
		response string
		status   int
		want     bool
	}{
		{
			name:     "http interaction recorded",
			response: `{"has_dns_interaction":false,"has_http_interaction":true}`,
			status:   http.StatusOK,
			want:     true,
		},
		{
			name:     "dns interaction recorded",
			response: `{"has_dns_interaction":true,"has_http_interaction":false}`,
			status:   http.StatusOK,
			want:     true,
		},
		{
			name:     "no interaction recorded",
			response: `{"has_dns_interaction":false,"has_http_interaction":false}`,
			status:   http.StatusOK,
			want:     false,
		},
		{
			name:     "unknown token",
			response: "not found",
			status:   http.StatusNotFound,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSecret string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSecret = r.URL.Query().Get("secret")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.response)
			}))
			defer ts.Close()

			c := NewServerClient(testLog(), testHTTPClient(), "cb.example.com", 8881, ts.URL)
			got, err := c.HasInteraction(context.Background(), token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, wantSecret, gotSecret)
		})
	}
}

func TestServerClient_HasInteraction_TrimsPollingSlash(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"has_dns_interaction":false,"has_http_interaction":false}`)
	}))
	defer ts.Close()

	c := NewServerClient(testLog(), testHTTPClient(), "cb.example.com", 8881, ts.URL+"/")
	_, err := c.HasInteraction(context.Background(), "ffffffffffffffff")
	require.NoError(t, err)
	assert.Equal(t, "/", gotPath)
}

func TestServerClient_HasInteraction_MalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{broken json")
	}))
	defer ts.Close()

	c := NewServerClient(testLog(), testHTTPClient(), "cb.example.com", 8881, ts.URL)
	got, err := c.HasInteraction(context.Background(), "ffffffffffffffff")
	assert.False(t, got)
	assert.ErrorContains(t, err, "decoding callback server response")
}

func TestServerClient_HasInteraction_ServerUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	c := NewServerClient(testLog(), testHTTPClient(), "cb.example.com", 8881, ts.URL)
	got, err := c.HasInteraction(context.Background(), "ffffffffffffffff")
	assert.False(t, got)
	assert.ErrorContains(t, err, "polling callback server")
}
