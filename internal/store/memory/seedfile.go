package memory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSeedFile reads a YAML seed with top-level catalog, inventory and
// dashboard keys.
func LoadSeedFile(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return seed, nil
}

func NewFromFile(path string) (*Store, error) {
	seed, err := LoadSeedFile(path)
	if err != nil {
		return nil, err
	}
	return New(seed)
}
