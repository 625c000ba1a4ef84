package core

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config maps profile names to connection profiles.
type Config struct {
	profiles map[string]*Profile
}

// LoadConfig reads and parses a profile file. Profiles are validated lazily
// in Resolve, so a single broken profile does not make the whole file
// unusable.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	return ParseConfig(raw)
}

// ParseConfig parses profile definitions from yaml. The top level document
// is a map of profile name to profile fields.
func ParseConfig(raw []byte) (*Config, error) {
	profiles := make(map[string]*Profile)
	if err := yaml.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	for name, profile := range profiles {
		if profile == nil {
			profile = &Profile{}
			profiles[name] = profile
		}
		profile.Name = name
	}

	return &Config{profiles: profiles}, nil
}

// Resolve looks up a profile by name, expands environment references and
// validates that exactly one authentication method is configured.
func (c *Config) Resolve(name string) (*Profile, error) {
	profile, ok := c.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrProfileNotFound)
	}

	profile.expand()
	if err := profile.validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// ProfileNames returns the sorted names of all defined profiles.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.profiles))
	for name := range c.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
