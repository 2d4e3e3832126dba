package payload

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/roomkangali/payloadgen/internal/callback"
	"github.com/roomkangali/payloadgen/internal/logger"
)

const (
	defaultPollTimeout  = 60 * time.Second
	defaultPollInterval = 5 * time.Second
)

// Generator builds verifiable payloads. Collaborators (randomness, callback
// channel, clock, template catalog) are swappable through options; the zero
// configuration uses crypto/rand, no channel, and the built-in catalog.
type Generator struct {
	log          *logger.Logger
	rand         io.Reader
	channel      callback.Channel
	registry     *registry
	pollTimeout  time.Duration
	pollInterval time.Duration
	now          func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithRandomSource replaces the token randomness source.
func WithRandomSource(r io.Reader) Option {
	return func(g *Generator) { g.rand = r }
}

// WithChannel attaches a callback channel. Without one, every request is
// served by in-band templates.
func WithChannel(ch callback.Channel) Option {
	return func(g *Generator) { g.channel = ch }
}

// WithDefinitions replaces the built-in template catalog.
func WithDefinitions(defs []Definition) Option {
	return func(g *Generator) { g.registry = newRegistry(defs) }
}

// WithPollTimeout bounds how long channel verification waits overall.
func WithPollTimeout(d time.Duration) Option {
	return func(g *Generator) { g.pollTimeout = d }
}

// WithPollInterval sets the pause between channel polls.
func WithPollInterval(d time.Duration) Option {
	return func(g *Generator) { g.pollInterval = d }
}

// WithNowFunc replaces the clock used for poll deadlines.
func WithNowFunc(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a Generator with the given options applied.
func NewGenerator(log *logger.Logger, opts ...Option) *Generator {
	g := &Generator{
		log:          log,
		rand:         rand.Reader,
		registry:     newRegistry(BuiltinDefinitions()),
		pollTimeout:  defaultPollTimeout,
		pollInterval: defaultPollInterval,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// channelUsable reports whether callback templates may be selected at all.
func (g *Generator) channelUsable() bool {
	return g.channel != nil && g.channel.Configured()
}

// Generate validates the request, draws a fresh token, resolves a template
// and binds the token (and, for callback templates, the token URL) into it.
// Unsupported or incomplete requests return an error wrapping
// ErrNotImplemented.
func (g *Generator) Generate(cfg Config) (*Payload, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	token, err := newToken(g.rand)
	if err != nil {
		return nil, err
	}

	def, err := g.registry.resolve(cfg, g.channelUsable())
	if err != nil {
		return nil, err
	}
	g.log.Debug("Selected template %s for %s in %s/%s (callback: %t)",
		def.Name, cfg.VulnerabilityType, cfg.InterpretationEnvironment,
		cfg.ExecutionEnvironment, def.RequiresCallback)

	// TokenURL first: the token placeholder is a prefix of the URL one.
	value := def.Template
	if def.RequiresCallback {
		value = strings.Replace(value, TokenURLPlaceholder, g.channel.TokenURL(token), -1)
	}
	value = strings.Replace(value, TokenPlaceholder, token, -1)

	p := &Payload{
		log:          g.log,
		value:        value,
		token:        token,
		templateName: def.Name,
		usesChannel:  def.RequiresCallback,
		channel:      g.channel,
		pollTimeout:  g.pollTimeout,
		pollInterval: g.pollInterval,
		now:          g.now,
	}

	if !def.RequiresCallback {
		pattern := def.ValidationRegex
		if pattern == "" {
			pattern = defaultValidationRegex
		}
		pattern = strings.Replace(pattern, TokenPlaceholder, regexp.QuoteMeta(token), -1)
		matcher, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling validation pattern for %s: %w", def.Name, err)
		}
		p.matcher = matcher
	}

	return p, nil
}
