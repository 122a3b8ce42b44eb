// Package rules holds the contract parameters the ledger evaluates claims
// against. Defaults are embedded; deployments may override them with a YAML
// file.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Rules are the contract parameters in force.
type Rules struct {
	PassiveAcceptance PassiveAcceptance `yaml:"passive_acceptance"`
	Acceleration      Acceleration      `yaml:"acceleration"`
}

// PassiveAcceptance configures the deemed-acceptance rule for basis notices.
type PassiveAcceptance struct {
	Enabled    bool   `yaml:"enabled"`
	WindowDays int    `yaml:"window_days"`
	Clause     string `yaml:"clause"`
}

// DeemedAt returns the instant a basis notified at notice is deemed
// accepted when unanswered.
func (p PassiveAcceptance) DeemedAt(notice time.Time) time.Time {
	return notice.UTC().AddDate(0, 0, p.WindowDays)
}

// Acceleration configures the acceleration cost cap.
type Acceleration struct {
	CapPercent int `yaml:"cap_percent"`
}

// Default returns the embedded rules.
func Default() Rules {
	r, err := Parse(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rules are invalid: %v", err))
	}
	return r
}

// Load reads rules from path on top of the defaults. An empty path returns
// the defaults.
func Load(path string) (Rules, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	r := Default()
	if err := yaml.Unmarshal(b, &r); err != nil {
		return Rules{}, fmt.Errorf("parse rules %s: %w", path, err)
	}
	if err := r.Validate(); err != nil {
		return Rules{}, fmt.Errorf("rules %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a complete rules document.
func Parse(b []byte) (Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(b, &r); err != nil {
		return Rules{}, fmt.Errorf("parse rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

// Validate checks the parameters are usable.
func (r Rules) Validate() error {
	if r.PassiveAcceptance.Enabled {
		if r.PassiveAcceptance.WindowDays <= 0 {
			return fmt.Errorf("passive_acceptance.window_days must be positive")
		}
		if r.PassiveAcceptance.Clause == "" {
			return fmt.Errorf("passive_acceptance.clause is required")
		}
	}
	if r.Acceleration.CapPercent < 100 {
		return fmt.Errorf("acceleration.cap_percent must be at least 100")
	}
	return nil
}
