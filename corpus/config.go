package corpus

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SuiteConfig is the optional YAML suite configuration. CLI flags take
// precedence over everything declared here.
type SuiteConfig struct {
	// IgnoreFields are stripped from both sequences before comparison,
	// in addition to the fields given on the command line.
	IgnoreFields []string
	// Timeout overrides the default per-case decoder timeout.
	Timeout time.Duration
	// SkipGroups lists protocol groups excluded from the run.
	SkipGroups []string
}

// suiteConfigYAML is the on-disk shape; the timeout is a duration string.
type suiteConfigYAML struct {
	IgnoreFields []string `yaml:"ignore_fields,omitempty"`
	Timeout      string   `yaml:"timeout,omitempty"`
	SkipGroups   []string `yaml:"skip_groups,omitempty"`
}

// LoadSuiteConfig reads and parses a suite configuration file.
func LoadSuiteConfig(path string) (*SuiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading suite config %s", path)
	}
	var raw suiteConfigYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parsing suite config %s", path)
	}

	cfg := &SuiteConfig{
		IgnoreFields: raw.IgnoreFields,
		SkipGroups:   raw.SkipGroups,
	}
	if raw.Timeout != "" {
		timeout, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid timeout in suite config %s", path)
		}
		cfg.Timeout = timeout
	}
	return cfg, nil
}

// Skips reports whether the given protocol group is excluded.
func (c *SuiteConfig) Skips(protocol string) bool {
	if c == nil {
		return false
	}
	for _, g := range c.SkipGroups {
		if g == protocol {
			return true
		}
	}
	return false
}
