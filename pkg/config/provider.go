package config

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlProvider implements Source for YAML files. A missing file is treated as
// an empty source.
type yamlProvider struct {
	path string
}

// NewYAMLProvider creates a new YAML file configuration source.
func NewYAMLProvider(path string) Source {
	return &yamlProvider{path: path}
}

func (y *yamlProvider) Load() (map[string]any, error) {
	data, err := os.ReadFile(y.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}
	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file: %w", err)
	}
	return filterNilValues(config), nil
}

func (y *yamlProvider) Type() SourceType {
	return SourceYAML
}

// filterNilValues recursively removes nil values from a map
// This prevents koanf from overriding existing values with nil
func filterNilValues(m map[string]any) map[string]any {
	result := make(map[string]any)
	for k, v := range m {
		if v == nil {
			continue
		}
		if nestedMap, ok := v.(map[string]any); ok {
			if filtered := filterNilValues(nestedMap); len(filtered) > 0 {
				result[k] = filtered
			}
			continue
		}
		result[k] = v
	}
	return result
}

// mapProvider implements Source for values supplied by the host in code.
type mapProvider struct {
	data map[string]any
}

// NewMapProvider creates a source from a nested map such as
// {"normalization": {"key_policy": "none"}}.
func NewMapProvider(data map[string]any) Source {
	return &mapProvider{data: maps.Clone(data)}
}

func (m *mapProvider) Load() (map[string]any, error) {
	if m.data == nil {
		return make(map[string]any), nil
	}
	return filterNilValues(m.data), nil
}

func (m *mapProvider) Type() SourceType {
	return SourceMap
}
