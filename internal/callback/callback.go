// Package callback provides the out-of-band channels a payload can use to
// prove execution: a client for a token-recording callback server and an
// adapter for the public interactsh service.
package callback

import "context"

// Channel is an out-of-band interaction channel. Payloads embed the URL
// returned by TokenURL; verification asks HasInteraction whether the tested
// system contacted it.
type Channel interface {
	// TokenURL returns the URL a payload should make the tested system
	// contact, correlated to the given token.
	TokenURL(token string) string
	// HasInteraction reports whether an interaction correlated to the token
	// has been observed.
	HasInteraction(ctx context.Context, token string) (bool, error)
	// Configured reports whether the channel is usable. Generation falls
	// back to in-band payloads when it is not.
	Configured() bool
	// Host and Port describe the endpoint payloads call back to.
	Host() string
	Port() int
	// Close releases channel resources.
	Close() error
}
