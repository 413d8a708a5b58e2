package export

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BuyerConfig describes one authorized buyer: which biomes it may receive
// data from, its clearance level, and whether its exports always require
// ethics-board approval.
type BuyerConfig struct {
	// ID is the buyer identifier.
	ID string `yaml:"id" json:"id"`

	// Biomes lists the biome ids this buyer may receive data from.
	Biomes []string `yaml:"biomes" json:"biomes"`

	// ClassificationLevel is the buyer's clearance on the lattice.
	// Default: UNCLASSIFIED
	ClassificationLevel Clearance `yaml:"classification_level" json:"classification_level"`

	// EthicsBoardApproval forces every export to this buyer into human
	// review regardless of batch size.
	// Default: false
	EthicsBoardApproval bool `yaml:"ethics_board_approval" json:"ethics_board_approval"`
}

// AllowsBiome reports whether the buyer may receive data from the biome.
func (b *BuyerConfig) AllowsBiome(biomeID string) bool {
	for _, id := range b.Biomes {
		if id == biomeID {
			return true
		}
	}
	return false
}

// BuyerRegistry is the authorized-buyer registry. It is read-only after
// construction and requires no synchronization.
type BuyerRegistry struct {
	buyers map[string]*BuyerConfig
}

// NewBuyerRegistry builds a registry from buyer configurations. Duplicate
// ids and missing fields are configuration errors surfaced at startup.
func NewBuyerRegistry(configs []BuyerConfig) (*BuyerRegistry, error) {
	buyers := make(map[string]*BuyerConfig, len(configs))
	for i := range configs {
		b := configs[i]
		if b.ID == "" {
			return nil, fmt.Errorf("%w: buyer at index %d has no id", ErrInvalidBuyerConfig, i)
		}
		if _, dup := buyers[b.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate buyer id %q", ErrInvalidBuyerConfig, b.ID)
		}
		if b.ClassificationLevel == "" {
			b.ClassificationLevel = ClearanceUnclassified
		}
		if _, known := clearanceRanks[b.ClassificationLevel]; !known {
			return nil, fmt.Errorf("%w: buyer %q has unknown classification level %q",
				ErrInvalidBuyerConfig, b.ID, b.ClassificationLevel)
		}
		buyers[b.ID] = &b
	}
	return &BuyerRegistry{buyers: buyers}, nil
}

// LoadBuyerRegistry reads buyer configurations from a YAML file.
func LoadBuyerRegistry(path string) (*BuyerRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading buyer config %s: %w", path, err)
	}
	var file struct {
		Buyers []BuyerConfig `yaml:"buyers"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing buyer config %s: %w", path, err)
	}
	return NewBuyerRegistry(file.Buyers)
}

// Get returns the buyer configuration, or nil for an unknown buyer.
// Unknown buyers are unauthorized by definition.
func (r *BuyerRegistry) Get(buyerID string) *BuyerConfig {
	return r.buyers[buyerID]
}

// BuyerIDs returns the registered buyer ids.
func (r *BuyerRegistry) BuyerIDs() []string {
	ids := make([]string, 0, len(r.buyers))
	for id := range r.buyers {
		ids = append(ids, id)
	}
	return ids
}
