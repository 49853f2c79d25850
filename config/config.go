// Package config holds the thumbdis tool configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds listing and text cache settings.
type Config struct {
	// CacheSets is the number of sets in the rendered-text cache.
	// Default: 64.
	CacheSets int `json:"cache_sets"`

	// CacheWays is the associativity of the rendered-text cache.
	// Default: 4.
	CacheWays int `json:"cache_ways"`

	// CacheBlockSize is the number of halfwords rendered and cached
	// together on a miss. Must be a power of two. Default: 16.
	CacheBlockSize int `json:"cache_block_size"`

	// ShowWords prints the raw instruction word next to its text.
	// Default: true.
	ShowWords bool `json:"show_words"`

	// AddressWidth is the number of hex digits in the address column.
	// Default: 8.
	AddressWidth int `json:"address_width"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		CacheSets:      64,
		CacheWays:      4,
		CacheBlockSize: 16,
		ShowWords:      true,
		AddressWidth:   8,
	}
}

// Load loads a Config from a JSON file. Fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// Save writes the Config to a JSON file.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the cache geometry and column widths are usable.
func (c *Config) Validate() error {
	if c.CacheSets <= 0 {
		return fmt.Errorf("cache_sets must be > 0")
	}
	if c.CacheWays <= 0 {
		return fmt.Errorf("cache_ways must be > 0")
	}
	if c.CacheBlockSize <= 0 || c.CacheBlockSize&(c.CacheBlockSize-1) != 0 {
		return fmt.Errorf("cache_block_size must be a power of two")
	}
	if c.AddressWidth < 1 || c.AddressWidth > 16 {
		return fmt.Errorf("address_width must be between 1 and 16")
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
