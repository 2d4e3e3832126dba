package callback

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/roomkangali/payloadgen/internal/logger"

	"github.com/projectdiscovery/interactsh/pkg/client"
	"github.com/projectdiscovery/interactsh/pkg/server"
)

// InteractshChannel verifies callbacks through the public interactsh
// infrastructure. The token is embedded as the leftmost DNS label of the
// session's correlation domain, so both DNS lookups and HTTP requests for a
// payload URL surface as interactions carrying the token.
type InteractshChannel struct {
	log          *logger.Logger
	client       *client.Client
	domain       string
	mu           sync.Mutex
	interactions []*server.Interaction
}

// NewInteractshChannel registers a new interactsh session and starts polling
// for interactions in the background.
func NewInteractshChannel(log *logger.Logger, pollInterval time.Duration) (*InteractshChannel, error) {
	c, err := client.New(client.DefaultOptions)
	if err != nil {
		return nil, fmt.Errorf("creating interactsh client: %w", err)
	}

	ch := &InteractshChannel{
		log:    log,
		client: c,
		domain: c.URL(),
	}
	log.Info("Callback domain for this session: %s", ch.domain)

	c.StartPolling(pollInterval, func(interaction *server.Interaction) {
		ch.mu.Lock()
		ch.interactions = append(ch.interactions, interaction)
		ch.mu.Unlock()
		log.Debug("Interaction received: %s from %s", interaction.Protocol, interaction.RemoteAddress)
	})

	return ch, nil
}

// Configured reports true; a session that failed to register never produces
// a channel.
func (ch *InteractshChannel) Configured() bool {
	return ch.client != nil
}

// TokenURL returns a URL under the session domain with the token as the
// leftmost label.
func (ch *InteractshChannel) TokenURL(token string) string {
	return fmt.Sprintf("http://%s.%s", token, ch.domain)
}

// HasInteraction reports whether any recorded interaction carries the token.
func (ch *InteractshChannel) HasInteraction(ctx context.Context, token string) (bool, error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for _, interaction := range ch.interactions {
		if strings.Contains(interaction.FullId, token) {
			ch.log.Debug("Correlated %s interaction from %s to token %s",
				interaction.Protocol, interaction.RemoteAddress, token)
			return true, nil
		}
	}
	return false, nil
}

// Host returns the session's correlation domain.
func (ch *InteractshChannel) Host() string {
	return ch.domain
}

// Port returns 80; interactsh payload URLs use the default HTTP port.
func (ch *InteractshChannel) Port() int {
	return 80
}

// Close stops polling and deregisters the session.
func (ch *InteractshChannel) Close() error {
	if ch.client == nil {
		return nil
	}
	ch.client.StopPolling()
	return ch.client.Close()
}
