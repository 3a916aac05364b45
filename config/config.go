// Package config loads speadgen's configuration using viper. The YAML
// file uses a "spead:" root key; environment variables override it with
// a SPEAD_ prefix (e.g. SPEAD_TRANSPORT_MTU).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level static configuration for the speadgen tool.
type Config struct {
	Flavour   FlavourConfig   `mapstructure:"flavour"`
	Transport TransportConfig `mapstructure:"transport"`
	Heap      HeapConfig      `mapstructure:"heap"`
	Log       LogConfig       `mapstructure:"log"`
}

// FlavourConfig maps to flavour.New's constructor arguments.
type FlavourConfig struct {
	Version         uint8 `mapstructure:"version"`
	ItemPointerBits uint8 `mapstructure:"item_pointer_bits"`
	HeapAddressBits uint8 `mapstructure:"heap_address_bits"`
	BugCompat       uint8 `mapstructure:"bug_compat"`
}

// TransportConfig configures where generated packets are written.
type TransportConfig struct {
	Mode      string `mapstructure:"mode"` // "udp" | "pcap"
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Interface string `mapstructure:"interface"` // source interface name; the pcap sink does not record it
	PcapPath  string `mapstructure:"pcap_path"`
	MTU       int    `mapstructure:"mtu"`
}

// HeapConfig configures heap assembly defaults.
type HeapConfig struct {
	DescriptorCacheTTL int `mapstructure:"descriptor_cache_ttl"`
}

// LogConfig configures the logging package.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

type configRoot struct {
	Spead Config `mapstructure:"spead"`
}

// Load reads configuration from the YAML file at path, applies
// SPEAD_-prefixed environment variable overrides, and validates the
// result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Spead

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("spead.flavour.version", 4)
	v.SetDefault("spead.flavour.item_pointer_bits", 64)
	v.SetDefault("spead.flavour.heap_address_bits", 48)
	v.SetDefault("spead.flavour.bug_compat", 0)

	v.SetDefault("spead.transport.mode", "udp")
	v.SetDefault("spead.transport.host", "")
	v.SetDefault("spead.transport.port", 0)
	v.SetDefault("spead.transport.interface", "")
	v.SetDefault("spead.transport.pcap_path", "")
	v.SetDefault("spead.transport.mtu", 1472)

	v.SetDefault("spead.heap.descriptor_cache_ttl", 1)

	v.SetDefault("spead.log.level", "info")
}

func (cfg *Config) validate() error {
	switch cfg.Transport.Mode {
	case "udp", "pcap":
	default:
		return fmt.Errorf("invalid transport mode: %s (must be udp/pcap)", cfg.Transport.Mode)
	}

	if cfg.Transport.Mode == "udp" && cfg.Transport.Host == "" {
		return fmt.Errorf("transport.host is required in udp mode")
	}

	if cfg.Transport.Mode == "pcap" && cfg.Transport.PcapPath == "" {
		return fmt.Errorf("transport.pcap_path is required in pcap mode")
	}

	if cfg.Transport.MTU < 1 {
		return fmt.Errorf("transport.mtu must be positive, got %d", cfg.Transport.MTU)
	}

	if cfg.Heap.DescriptorCacheTTL < 1 {
		return fmt.Errorf("heap.descriptor_cache_ttl must be >= 1, got %d", cfg.Heap.DescriptorCacheTTL)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", cfg.Log.Level)
	}

	return nil
}
