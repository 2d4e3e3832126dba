package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CallbackConfig holds the settings for the out-of-band callback channel.
type CallbackConfig struct {
	Enabled  bool   `yaml:"enabled"`  // Enable the callback channel for verification.
	Provider string `yaml:"provider"` // Channel provider: "interactsh" or "tcs".

	// Settings for the "tcs" provider (a token-recording callback server).
	Address    string `yaml:"address"`     // Host the generated payloads call back to.
	HTTPPort   int    `yaml:"http_port"`   // Port the generated payloads call back to.
	PollingURI string `yaml:"polling_uri"` // Base URI queried for recorded interactions.

	PollIntervalSeconds int `yaml:"poll_interval_seconds"` // Seconds between interaction polls.
	TimeoutSeconds      int `yaml:"timeout_seconds"`       // Maximum seconds to wait for a callback.
}

// GeneratorConfig holds settings for payload generation.
type GeneratorConfig struct {
	DefinitionsFile string `yaml:"definitions_file"` // Optional YAML file replacing the built-in payload catalog.
}

// OutputConfig holds configuration settings related to output and logging.
type OutputConfig struct {
	JSONFile string `yaml:"json_file"` // Path to save the session report in JSON format.
	Verbose  bool   `yaml:"verbose"`   // Enable verbose logging.
}

// Config is the main struct holding all configuration data from the YAML file.
type Config struct {
	Callback    CallbackConfig  `yaml:"callback"`
	Generator   GeneratorConfig `yaml:"generator"`
	Output      OutputConfig    `yaml:"output"`
	Concurrency int             `yaml:"concurrency"` // Number of concurrent workers in batch mode.
	MaxRetries  int             `yaml:"max_retries"` // Maximum number of retries for polling HTTP requests.
	UserAgent   string          `yaml:"user_agent"`  // User-Agent for polling HTTP requests.
}

// LoadConfig reads the configuration from a YAML file and returns a Config
// struct. It returns a default configuration if the file does not exist.
func LoadConfig(filePath string) (*Config, error) {
	config := &Config{
		Callback: CallbackConfig{
			Provider:            "interactsh",
			HTTPPort:            8881,
			PollIntervalSeconds: 5,
			TimeoutSeconds:      60,
		},
		Concurrency: 5,
		MaxRetries:  2,
	}

	yamlFile, err := os.ReadFile(filePath)
	if err != nil {
		// A missing file is not an error; the defaults apply.
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(yamlFile, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}

	return config, nil
}
