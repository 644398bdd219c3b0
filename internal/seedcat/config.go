package seedcat

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GeneratorConfig controls matchup candidate generation and seed validation.
type GeneratorConfig struct {
	// Modes lists the matchup modes to generate for, e.g. "1v1", "2v2".
	Modes []string `yaml:"modes"`
	// NeighborWindow is how many sorted neighbors each asset is paired
	// against in the 1v1 pass.
	NeighborWindow int `yaml:"neighbor_window"`
	// MinPairsPerAsset is the coverage floor enforced by the outward pass.
	MinPairsPerAsset int `yaml:"min_pairs_per_asset"`
	// TeamPairsPerMode caps how many candidates each team mode keeps.
	TeamPairsPerMode int `yaml:"team_pairs_per_mode"`
	// MaxSampleAttempts bounds team-mode sampling so generation terminates
	// even when the pool cannot fill the target count.
	MaxSampleAttempts int `yaml:"max_sample_attempts"`
	// TierSpreadCap is the maximum tier-index spread across all assets
	// participating in one team matchup.
	TierSpreadCap int `yaml:"tier_spread_cap"`
	// FeaturedCount is how many closest matchups get the featured flag.
	FeaturedCount int `yaml:"featured_count"`
	// MinAssets/MinPairs are the seed validation thresholds: below either,
	// the seed is rejected and the live catalog is left untouched.
	MinAssets int `yaml:"min_assets"`
	MinPairs  int `yaml:"min_pairs"`
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Modes:             []string{"1v1", "1v2", "2v1", "2v2"},
		NeighborWindow:    8,
		MinPairsPerAsset:  2,
		TeamPairsPerMode:  150,
		MaxSampleAttempts: 5000,
		TierSpreadCap:     3,
		FeaturedCount:     24,
		MinAssets:         4,
		MinPairs:          4,
	}
}

// LoadGeneratorConfig overlays a YAML file onto the defaults. A missing path
// returns the defaults unchanged.
func LoadGeneratorConfig(path string) (GeneratorConfig, error) {
	cfg := DefaultGeneratorConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read generator config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse generator config: %w", err)
	}
	return cfg, nil
}
