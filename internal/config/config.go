// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"patronpipe/internal/model"
)

// DefaultNonCompanyValues are company-column entries that are certainly
// not companies. Overridable via classifier.non_company_values.
var DefaultNonCompanyValues = []string{
	"none",
	"n/a",
	"na",
	"-",
	"--",
	"used to work here",
}

// Rules holds the externally configurable business tables: the raw-to-
// canonical tag mapping and the non-company placeholder set.
type Rules struct {
	TagMapping       model.TagMapping
	NonCompanyValues []string
}

// LoadRules builds the rule set from Viper configuration. It follows this
// precedence:
// 1. Viper configuration (from config file or PATRONPIPE_ env vars)
// 2. Compiled-in defaults
// A missing mapping file path yields an empty mapping, not an error; every
// tag then passes through unmapped.
func LoadRules() (*Rules, error) {
	rules := &Rules{
		TagMapping:       model.TagMapping{},
		NonCompanyValues: DefaultNonCompanyValues,
	}

	if path := viper.GetString("tags.mapping_file"); path != "" {
		mapping, err := LoadTagMapping(ExpandPath(path))
		if err != nil {
			return nil, fmt.Errorf("failed to load tag mapping: %w", err)
		}
		rules.TagMapping = mapping
	}

	if values := viper.GetStringSlice("classifier.non_company_values"); len(values) > 0 {
		rules.NonCompanyValues = values
	}

	return rules, nil
}

// NonCompanySet returns the placeholder values as a lowercased lookup set.
func (r *Rules) NonCompanySet() map[string]bool {
	set := make(map[string]bool, len(r.NonCompanyValues))
	for _, v := range r.NonCompanyValues {
		set[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return set
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
