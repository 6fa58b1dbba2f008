package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLProvider is an implementation reading flat YAML mappings.
type YAMLProvider struct{}

// Read reads flat YAML files into a map (map[key]value). Scalar values of any
// type are kept in their textual form, later files override earlier ones.
func (*YAMLProvider) Read(filenames ...string) (map[string]string, error) {
	envMap := make(map[string]string)

	for _, filename := range filenames {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("(config-yaml) %w", err)
		}

		var doc map[string]yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("(config-yaml) failed to parse %s: %w", filename, err)
		}

		for key, node := range doc {
			if node.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("(config-yaml) %w: %s", ErrNotScalar, key)
			}
			envMap[key] = node.Value
		}
	}

	return envMap, nil
}

// ProviderFor returns the provider matching the extension of filename:
// [YAMLProvider] for .yaml and .yml, [GodotenvProvider] otherwise.
func ProviderFor(filename string) Provider { //nolint:ireturn
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return &YAMLProvider{}
	default:
		return &GodotenvProvider{}
	}
}
