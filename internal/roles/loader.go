package roles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// roleFile is the on-disk shape of a role override file.
type roleFile struct {
	Roles []Role `yaml:"roles"`
}

// LoadFromFile loads roles from a YAML file. Roles in the file replace the
// built-in role with the same id and new ids are appended. If the path is
// empty or the file doesn't exist, the built-in registry is returned.
func LoadFromFile(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read roles file: %w", err)
	}

	return LoadFromYAML(data)
}

// LoadFromYAML parses role overrides and merges them over the built-ins.
func LoadFromYAML(data []byte) (*Registry, error) {
	var f roleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse roles YAML: %w", err)
	}

	merged := make([]Role, len(builtin))
	copy(merged, builtin)
	index := make(map[string]int, len(merged))
	for i, r := range merged {
		index[r.ID] = i
	}

	seen := make(map[string]bool, len(f.Roles))
	for _, r := range f.Roles {
		if seen[r.ID] {
			return nil, fmt.Errorf("invalid roles configuration: duplicate role id %q", r.ID)
		}
		seen[r.ID] = true

		if i, ok := index[r.ID]; ok {
			merged[i] = r
			continue
		}
		index[r.ID] = len(merged)
		merged = append(merged, r)
	}

	reg, err := NewRegistry(merged)
	if err != nil {
		return nil, fmt.Errorf("invalid roles configuration: %w", err)
	}
	return reg, nil
}

// ToYAML returns the registry as a YAML document accepted by LoadFromYAML.
func (r *Registry) ToYAML() (string, error) {
	data, err := yaml.Marshal(roleFile{Roles: r.All()})
	if err != nil {
		return "", fmt.Errorf("failed to marshal roles: %w", err)
	}
	return string(data), nil
}
