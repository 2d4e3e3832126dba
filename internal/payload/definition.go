package payload

// Placeholders substituted into templates at generation time. TokenURL must
// be substituted before Token: the token placeholder is a prefix substring
// of the token URL placeholder.
const (
	TokenPlaceholder    = "$TSUNAMI_PAYLOAD_TOKEN"
	TokenURLPlaceholder = "$TSUNAMI_PAYLOAD_TOKEN_URL"
)

// Markers framing the token in in-band payload output. Verification looks
// for the exact contiguous sequence start marker, token, end marker.
const (
	StartMarker = "TSUNAMI_PAYLOAD_START"
	EndMarker   = "TSUNAMI_PAYLOAD_END"
)

// defaultValidationRegex matches the framed token and nothing looser. The
// payload command text itself never matches it: there the marker words are
// separated by spaces or quotes.
const defaultValidationRegex = StartMarker + TokenPlaceholder + EndMarker

// Definition describes one payload template.
type Definition struct {
	// Name identifies the template in logs and load errors.
	Name string
	// VulnerabilityTypes lists the classes this template can confirm.
	VulnerabilityTypes []VulnerabilityType
	// InterpretationEnvironment and ExecutionEnvironment say where the
	// template applies. AnyInterpretation and ExecAny act as wildcards.
	InterpretationEnvironment InterpretationEnvironment
	ExecutionEnvironment      ExecutionEnvironment
	// RequiresCallback marks templates that only prove execution through
	// the callback channel.
	RequiresCallback bool
	// Template is the payload text with placeholders.
	Template string
	// ValidationRegex overrides the default marker framing for in-band
	// verification. Placeholders are substituted before compiling.
	ValidationRegex string
}

// matches reports whether the definition serves the requested combination.
// Wildcards apply on the definition side only: a caller requesting a
// concrete environment accepts wildcard definitions, but a caller
// requesting "any" wants an environment-independent template.
func (d Definition) matches(cfg Config) bool {
	typeOK := false
	for _, vt := range d.VulnerabilityTypes {
		if vt == cfg.VulnerabilityType {
			typeOK = true
			break
		}
	}
	if !typeOK {
		return false
	}
	if d.InterpretationEnvironment != cfg.InterpretationEnvironment &&
		d.InterpretationEnvironment != AnyInterpretation {
		return false
	}
	if d.ExecutionEnvironment != cfg.ExecutionEnvironment &&
		d.ExecutionEnvironment != ExecAny {
		return false
	}
	return true
}
