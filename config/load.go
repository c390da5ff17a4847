package config

import (
	"fmt"
	"os"

	"github.com/naoina/toml"
)

var tomlSettings = toml.Config{
	NormFieldName: func(rt toml.RawType, key string) string { return key },
	FieldToKey:    func(rt toml.RawType, field string) string { return field },
}

// LoadFile reads a TOML config file into a copy of Defaults, matching
// geth's own --config convention (naoina/toml, §3.3).
func LoadFile(path string) (Config, error) {
	cfg := Defaults
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	if err := tomlSettings.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
