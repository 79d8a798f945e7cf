package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the network registry from
// networks.yml
func LoadAppConfig() error {
	paths := []string{"networks.yml", "./config/networks.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	Config = *cfg
	return nil
}

// Parse unmarshals and validates a registry document.
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	v := validator.New()
	if err := v.Struct(cfg.Client); err != nil {
		return nil, err
	}
	for _, n := range cfg.Networks {
		if err := v.Struct(n); err != nil {
			return nil, err
		}
		// fail on bad tables at load time, not mid-query
		if _, err := n.ModeTable(); err != nil {
			return nil, err
		}
		if _, err := n.Resolver(); err != nil {
			return nil, err
		}
	}
	if cfg.Client.TimeoutMS == 0 {
		cfg.Client.TimeoutMS = 30000
	}
	return &cfg, nil
}

// SelectNetwork chooses a network by name; fallback to first.
func SelectNetwork(name string) (Network, error) {
	if name != "" {
		for _, n := range Config.Networks {
			if n.Name == name {
				return n, nil
			}
		}
		return Network{}, fmt.Errorf("config: network %q is not configured", name)
	}
	if len(Config.Networks) > 0 {
		return Config.Networks[0], nil
	}
	return Network{}, fmt.Errorf("config: no networks configured")
}
