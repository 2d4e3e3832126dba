package payload

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// definitionFile is the on-disk shape of an external template catalog.
type definitionFile struct {
	Payloads []definitionEntry `yaml:"payloads"`
}

type definitionEntry struct {
	Name                      string   `yaml:"name"`
	VulnerabilityTypes        []string `yaml:"vulnerability_types"`
	InterpretationEnvironment string   `yaml:"interpretation_environment"`
	ExecutionEnvironment      string   `yaml:"execution_environment"`
	UsesCallback              bool     `yaml:"uses_callback"`
	PayloadString             string   `yaml:"payload_string"`
	ValidationRegex           string   `yaml:"validation_regex"`
}

// LoadDefinitions reads a template catalog from a YAML file. The loaded
// catalog replaces the built-in one entirely.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definitions file: %w", err)
	}

	var file definitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing definitions file %s: %w", path, err)
	}
	if len(file.Payloads) == 0 {
		return nil, fmt.Errorf("definitions file %s contains no payloads", path)
	}

	defs := make([]Definition, 0, len(file.Payloads))
	for _, entry := range file.Payloads {
		def, err := entry.toDefinition()
		if err != nil {
			return nil, fmt.Errorf("definition %q: %w", entry.Name, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (e definitionEntry) toDefinition() (Definition, error) {
	if e.Name == "" {
		return Definition{}, fmt.Errorf("missing name")
	}
	if e.PayloadString == "" {
		return Definition{}, fmt.Errorf("missing payload_string")
	}
	if len(e.VulnerabilityTypes) == 0 {
		return Definition{}, fmt.Errorf("missing vulnerability_types")
	}

	var types []VulnerabilityType
	for _, name := range e.VulnerabilityTypes {
		vt, err := ParseVulnerabilityType(name)
		if err != nil {
			return Definition{}, err
		}
		types = append(types, vt)
	}

	interp, err := ParseInterpretationEnvironment(e.InterpretationEnvironment)
	if err != nil {
		return Definition{}, err
	}
	exec, err := ParseExecutionEnvironment(e.ExecutionEnvironment)
	if err != nil {
		return Definition{}, err
	}

	// An in-band template has no token URL to bind.
	if !e.UsesCallback && strings.Contains(e.PayloadString, TokenURLPlaceholder) {
		return Definition{}, fmt.Errorf("payload_string uses %s but uses_callback is false", TokenURLPlaceholder)
	}

	return Definition{
		Name:                      e.Name,
		VulnerabilityTypes:        types,
		InterpretationEnvironment: interp,
		ExecutionEnvironment:      exec,
		RequiresCallback:          e.UsesCallback,
		Template:                  e.PayloadString,
		ValidationRegex:           e.ValidationRegex,
	}, nil
}
