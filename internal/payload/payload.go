package payload

import (
	"context"
	"regexp"
	"time"

	"github.com/roomkangali/payloadgen/internal/callback"
	"github.com/roomkangali/payloadgen/internal/logger"
)

// Payload is one generated payload together with everything needed to verify
// its execution. Verification is fail-closed: every ambiguous situation
// (missing output, channel errors, timeouts, cancelled contexts) reports
// not-executed.
type Payload struct {
	log          *logger.Logger
	value        string
	token        string
	templateName string
	usesChannel  bool
	matcher      *regexp.Regexp
	channel      callback.Channel
	pollTimeout  time.Duration
	pollInterval time.Duration
	now          func() time.Time
}

// String returns the payload text to inject.
func (p *Payload) String() string {
	return p.value
}

// TemplateName returns the name of the template the payload was built from.
func (p *Payload) TemplateName() string {
	return p.templateName
}

// UsesChannel reports whether execution is verified through the callback
// channel rather than by inspecting output.
func (p *Payload) UsesChannel() bool {
	return p.usesChannel
}

// CheckExecuted reports whether the payload demonstrably executed. In
// channel mode the output argument is ignored and the callback channel is
// polled until an interaction arrives or the poll timeout passes. In
// in-band mode the captured output is searched for the token marker; nil
// output reports false.
func (p *Payload) CheckExecuted(ctx context.Context, output []byte) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	if p.usesChannel {
		return p.awaitInteraction(ctx)
	}
	if output == nil {
		return false
	}
	return p.matcher.Match(output)
}

// awaitInteraction polls the channel for an interaction correlated to the
// payload's token, bounded by the poll timeout and the context.
func (p *Payload) awaitInteraction(ctx context.Context) bool {
	deadline := p.now().Add(p.pollTimeout)
	for {
		ok, err := p.channel.HasInteraction(ctx, p.token)
		if err != nil {
			p.log.Debug("Callback poll for template %s failed: %v", p.templateName, err)
		}
		if ok {
			return true
		}
		if !p.now().Before(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(p.pollInterval):
		}
	}
}
