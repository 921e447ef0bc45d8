package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the full run configuration: the fleet, the dispatch strategy
// defaults, the market inputs and every output the run feeds.
type Config struct {
	Fleet    FleetConfig    `json:"fleet"`
	Strategy StrategyConfig `json:"strategy"`
	Market   MarketConfig   `json:"market"`
	Outputs  OutputsConfig  `json:"outputs"`
	Logging  LoggingConfig  `json:"logging"`
}

// Load reads the configuration file (yaml or json by extension), applies
// FLEETSIM_-prefixed environment overrides (double underscore nests keys),
// fills defaults and validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("FLEETSIM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fleetsim_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Strategy.SetDefaults()
	cfg.Market.SetDefaults()
	cfg.Outputs.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Fleet.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Strategy.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Market.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Outputs.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
