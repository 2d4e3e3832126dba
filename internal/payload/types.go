// Package payload selects payload templates, binds fresh random tokens into
// them, and verifies afterwards whether a payload actually executed, either
// through an out-of-band callback channel or by finding a token marker in
// captured output.
package payload

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotImplemented is returned when no payload exists for a requested
// combination of vulnerability type and environments, or when the request
// itself is incomplete.
var ErrNotImplemented = errors.New("no payload implemented")

// VulnerabilityType is the class of vulnerability a payload is built to
// confirm.
type VulnerabilityType int

const (
	VulnerabilityTypeUnspecified VulnerabilityType = iota
	ReflectiveRCE                                  // command execution whose output is reflected back
	BlindRCE                                       // command execution with no visible output
	SSRF                                           // server-side request forgery
)

// String returns the wire name used in flags, YAML files and logs.
func (v VulnerabilityType) String() string {
	switch v {
	case ReflectiveRCE:
		return "reflective_rce"
	case BlindRCE:
		return "blind_rce"
	case SSRF:
		return "ssrf"
	default:
		return "unspecified"
	}
}

// ParseVulnerabilityType converts a wire name into a VulnerabilityType.
func ParseVulnerabilityType(s string) (VulnerabilityType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reflective_rce":
		return ReflectiveRCE, nil
	case "blind_rce":
		return BlindRCE, nil
	case "ssrf":
		return SSRF, nil
	default:
		return VulnerabilityTypeUnspecified, fmt.Errorf("unknown vulnerability type %q", s)
	}
}

// InterpretationEnvironment describes where the injected payload text is
// interpreted (a shell command line, a Java expression, ...).
type InterpretationEnvironment int

const (
	InterpretationEnvironmentUnspecified InterpretationEnvironment = iota
	LinuxShell
	Java
	AnyInterpretation // environment-independent payloads (plain URLs)
)

// String returns the wire name used in flags, YAML files and logs.
func (e InterpretationEnvironment) String() string {
	switch e {
	case LinuxShell:
		return "linux_shell"
	case Java:
		return "java"
	case AnyInterpretation:
		return "any"
	default:
		return "unspecified"
	}
}

// ParseInterpretationEnvironment converts a wire name into an
// InterpretationEnvironment.
func ParseInterpretationEnvironment(s string) (InterpretationEnvironment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux_shell":
		return LinuxShell, nil
	case "java":
		return Java, nil
	case "any":
		return AnyInterpretation, nil
	default:
		return InterpretationEnvironmentUnspecified, fmt.Errorf("unknown interpretation environment %q", s)
	}
}

// ExecutionEnvironment describes where the interpreted payload runs.
type ExecutionEnvironment int

const (
	ExecutionEnvironmentUnspecified ExecutionEnvironment = iota
	ExecInterpretation                                   // runs inside the interpretation environment itself
	ExecAny
)

// String returns the wire name used in flags, YAML files and logs.
func (e ExecutionEnvironment) String() string {
	switch e {
	case ExecInterpretation:
		return "exec_interpretation_environment"
	case ExecAny:
		return "exec_any"
	default:
		return "unspecified"
	}
}

// ParseExecutionEnvironment converts a wire name into an
// ExecutionEnvironment.
func ParseExecutionEnvironment(s string) (ExecutionEnvironment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exec_interpretation_environment":
		return ExecInterpretation, nil
	case "exec_any":
		return ExecAny, nil
	default:
		return ExecutionEnvironmentUnspecified, fmt.Errorf("unknown execution environment %q", s)
	}
}

// Config describes one payload request: what vulnerability class is being
// confirmed, where the payload text is interpreted and executed, and whether
// the caller wants out-of-band verification.
type Config struct {
	VulnerabilityType         VulnerabilityType
	InterpretationEnvironment InterpretationEnvironment
	ExecutionEnvironment      ExecutionEnvironment

	// UseCallbackChannel asks for a callback-verified payload. It is a wish,
	// not a guarantee: with no usable channel, generation falls back to an
	// in-band payload.
	UseCallbackChannel bool
}

// validateConfig rejects requests with unset dimensions. Every dimension
// must be chosen explicitly; a zero value means the caller did not decide.
func validateConfig(cfg Config) error {
	if cfg.VulnerabilityType == VulnerabilityTypeUnspecified {
		return fmt.Errorf("%w: vulnerability type not set", ErrNotImplemented)
	}
	if cfg.InterpretationEnvironment == InterpretationEnvironmentUnspecified {
		return fmt.Errorf("%w: interpretation environment not set", ErrNotImplemented)
	}
	if cfg.ExecutionEnvironment == ExecutionEnvironmentUnspecified {
		return fmt.Errorf("%w: execution environment not set", ErrNotImplemented)
	}
	return nil
}
