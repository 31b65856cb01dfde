package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"patronpipe/internal/model"
)

// tagEntry mirrors one entry of the upstream tag table.
type tagEntry struct {
	Name       string `json:"name"       yaml:"name"`
	MappedName string `json:"mapped_name" yaml:"mapped_name"`
}

// LoadTagMapping reads a tag mapping file (YAML or JSON, by extension)
// holding a list of {name, mapped_name} entries. Names are trimmed before
// use as lookup keys; mapped names are kept verbatim, so a mapped value
// with stray whitespace survives exactly as the table specifies it. Later
// entries win when a name repeats.
func LoadTagMapping(path string) (model.TagMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tag mapping file: %w", err)
	}

	var entries []tagEntry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse tag mapping JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse tag mapping YAML: %w", err)
		}
	}

	mapping := make(model.TagMapping, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		mapping[name] = e.MappedName
	}

	return mapping, nil
}
