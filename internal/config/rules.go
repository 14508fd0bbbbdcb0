package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleEntry is one routing rule from the YAML rules file. Exactly one of
// Intent or Pattern must be set.
type RuleEntry struct {
	Intent  string `yaml:"intent,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
	Dialog  string `yaml:"dialog,omitempty"`
	Reset   bool   `yaml:"reset,omitempty"`
}

// RulesFile is the YAML routing table:
//
//	fallback: "Sorry, I didn't get that."
//	rules:
//	  - intent: BookHaircut
//	    dialog: book-haircut
//	  - pattern: "^(start over|reset)$"
//	    reset: true
type RulesFile struct {
	Fallback string      `yaml:"fallback,omitempty"`
	Rules    []RuleEntry `yaml:"rules"`
}

// LoadRules parses the routing table at path.
func LoadRules(path string) (*RulesFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rf RulesFile
	if err := yaml.Unmarshal(raw, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	for i, rule := range rf.Rules {
		if rule.Intent == "" && rule.Pattern == "" {
			return nil, fmt.Errorf("rule %d: either intent or pattern is required", i)
		}
		if rule.Intent != "" && rule.Pattern != "" {
			return nil, fmt.Errorf("rule %d: intent and pattern are mutually exclusive", i)
		}
		if rule.Dialog == "" && !rule.Reset {
			return nil, fmt.Errorf("rule %d: dialog is required for non-reset rules", i)
		}
	}
	return &rf, nil
}
