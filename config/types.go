package config

import (
	"fmt"

	"github.com/theoremus-urban-solutions/pt-client/pt"
	"github.com/theoremus-urban-solutions/pt-client/resolver"
)

// ClientConfig contains shared HTTP client configuration
type ClientConfig struct {
	UserAgent string `yaml:"userAgent"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// EFAConfig contains the endpoints of an XML-family network
type EFAConfig struct {
	BaseURL                  string `yaml:"baseURL" validate:"omitempty,url"`
	TripEndpoint             string `yaml:"tripEndpoint"`
	DepartureMonitorEndpoint string `yaml:"departureMonitorEndpoint"`
	StopFinderEndpoint       string `yaml:"stopFinderEndpoint"`
	CoordEndpoint            string `yaml:"coordEndpoint"`
	UseProxFootSearch        bool   `yaml:"useProxFootSearch"`
}

// HCIConfig contains the endpoint and session parameters of a
// JSON-family network. APIClient and APIAuth hold the verbatim JSON
// objects the deployment expects in the request envelope. The salts are
// opaque deployment secrets; a non-empty salt switches the matching URL
// signing scheme on.
type HCIConfig struct {
	Endpoint     string `yaml:"endpoint" validate:"omitempty,url"`
	APIVersion   string `yaml:"apiVersion"`
	APIClient    string `yaml:"apiClient"`
	APIAuth      string `yaml:"apiAuth"`
	APIExt       string `yaml:"apiExt"`
	ChecksumSalt string `yaml:"checksumSalt"`
	MicMacSalt   string `yaml:"micMacSalt"`
}

// Network represents a single transit network configuration. Products is
// the network's mode table as a product-code string, one character per
// bit position, '-' for a bit without a product.
type Network struct {
	Name     string `yaml:"name" validate:"required"`
	Kind     string `yaml:"kind" validate:"required,oneof=efa hci"`
	Timezone string `yaml:"timezone"`

	EFA EFAConfig `yaml:"efa"`
	HCI HCIConfig `yaml:"hci"`

	Products     string `yaml:"products"`
	SplitStation string `yaml:"splitStation"`
	SplitPOI     string `yaml:"splitPOI"`
	SplitAddress string `yaml:"splitAddress"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Client   ClientConfig `yaml:"client"`
	Networks []Network    `yaml:"networks"`
}

// ModeTable decodes the product-code string into the network's bitmask
// table.
func (n Network) ModeTable() (pt.ModeTable, error) {
	table := make(pt.ModeTable, 0, len(n.Products))
	for i := 0; i < len(n.Products); i++ {
		c := n.Products[i]
		if c == '-' {
			table = append(table, pt.SkipMode())
			continue
		}
		p, err := pt.ProductFromCode(c)
		if err != nil {
			return nil, fmt.Errorf("config: network %s: %w", n.Name, err)
		}
		table = append(table, pt.Mode(p))
	}
	return table, nil
}

// Resolver builds the network's location resolver from the configured
// splitting conventions and mode table.
func (n Network) Resolver() (*resolver.Resolver, error) {
	modes, err := n.ModeTable()
	if err != nil {
		return nil, err
	}
	for _, s := range []struct{ key, field string }{
		{n.SplitStation, "splitStation"},
		{n.SplitPOI, "splitPOI"},
		{n.SplitAddress, "splitAddress"},
	} {
		if resolver.ByName(s.key) == nil {
			return nil, fmt.Errorf("config: network %s: unknown %s pattern %q", n.Name, s.field, s.key)
		}
	}
	return &resolver.Resolver{
		SplitStation: resolver.ByName(n.SplitStation),
		SplitPOI:     resolver.ByName(n.SplitPOI),
		SplitAddress: resolver.ByName(n.SplitAddress),
		Modes:        modes,
	}, nil
}
