// Package config loads the CLI's optional default-flags file,
// .httprunner.yaml, so a project can pin its usual verbosity/profile/report
// settings without repeating them on every invocation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults holds the subset of CLI flags a .httprunner.yaml file may
// pre-set; explicit command-line flags always override these.
type Defaults struct {
	Verbose    bool   `yaml:"verbose"`
	Insecure   bool   `yaml:"insecure"`
	Env        string `yaml:"env"`
	Report     string `yaml:"report"`
	Pretty     bool   `yaml:"pretty"`
	NoBanner   bool   `yaml:"no_banner"`
	WirelogDir string `yaml:"wirelog_dir"`
}

// Load reads path (typically ".httprunner.yaml"). A missing file yields zero
// Defaults and no error; a malformed file is an error.
func Load(path string) (Defaults, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Defaults{}, nil
	}
	if err != nil {
		return Defaults{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return d, nil
}
