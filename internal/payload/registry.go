package payload

import "fmt"

// BuiltinDefinitions returns a copy of the built-in template catalog.
func BuiltinDefinitions() []Definition {
	defs := make([]Definition, 0, len(rceDefinitions)+len(ssrfDefinitions))
	defs = append(defs, rceDefinitions...)
	defs = append(defs, ssrfDefinitions...)
	return defs
}

// registry resolves payload requests against a template catalog.
type registry struct {
	defs []Definition
}

func newRegistry(defs []Definition) *registry {
	return &registry{defs: defs}
}

// resolve picks the definition for a request. When the caller wants the
// callback channel and one is usable, callback templates win; in every
// other case only in-band templates are considered, so an unusable channel
// degrades the request instead of failing it. Templates that exist only in
// callback form (blind RCE, SSRF) have nothing to degrade to and resolve to
// ErrNotImplemented without a channel.
func (r *registry) resolve(cfg Config, channelUsable bool) (Definition, error) {
	if cfg.UseCallbackChannel && channelUsable {
		for _, d := range r.defs {
			if d.RequiresCallback && d.matches(cfg) {
				return d, nil
			}
		}
	}
	for _, d := range r.defs {
		if !d.RequiresCallback && d.matches(cfg) {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: no template for %s in %s/%s",
		ErrNotImplemented, cfg.VulnerabilityType,
		cfg.InterpretationEnvironment, cfg.ExecutionEnvironment)
}
