package biome

import (
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// DefaultBiomeID is the id of the implicit default biome returned for unknown
// biome ids. Unknown biomes fall back to the global rules rather than failing.
const DefaultBiomeID = "default"

// RegistryConfig is the on-disk shape of the biome registry.
type RegistryConfig struct {
	// Global is the baseline rule configuration all biomes compose against.
	Global GlobalRules `yaml:"global"`

	// Biomes lists per-biome rule sets.
	Biomes []RuleSet `yaml:"biomes"`
}

// Registry holds the composed effective rules for every configured biome.
// It is immutable after construction and safe for concurrent readers without
// synchronization; hot reload swaps whole registries (see Provider).
type Registry struct {
	global    GlobalRules
	effective map[string]EffectiveRules
	fallback  EffectiveRules
}

// NewRegistry validates the configuration and pre-composes effective rules
// for every biome. Invariant violations (unknown rule names, loosening
// attempts) are rejected here, at load time, never per request.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	global := cfg.Global
	if global.EthicsLevel == "" {
		global.EthicsLevel = EthicsNormal
	}
	if global.Classification == "" {
		global.Classification = ClassStandard
	}
	if !global.EthicsLevel.Valid() {
		return nil, fmt.Errorf("%w: unknown ethics level %q", ErrInvalidGlobalRules, global.EthicsLevel)
	}
	if !global.Classification.Valid() {
		return nil, fmt.Errorf("%w: unknown classification %q", ErrInvalidGlobalRules, global.Classification)
	}
	for name := range global.Blocks {
		if !KnownBlockRules[name] {
			return nil, fmt.Errorf("%w: unknown rule %q", ErrInvalidGlobalRules, name)
		}
	}
	for name := range global.Thresholds {
		if _, ok := thresholdDirections[name]; !ok {
			return nil, fmt.Errorf("%w: unregistered threshold %q", ErrInvalidGlobalRules, name)
		}
	}

	r := &Registry{
		global:    global,
		effective: make(map[string]EffectiveRules, len(cfg.Biomes)),
		fallback:  Compose(global, NewRuleSet(RuleSet{ID: DefaultBiomeID})),
	}

	for _, raw := range cfg.Biomes {
		rs := NewRuleSet(raw)
		if err := validateRuleSet(global, rs); err != nil {
			return nil, err
		}
		if _, dup := r.effective[rs.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate biome id %q", ErrInvalidRuleSet, rs.ID)
		}
		r.effective[rs.ID] = Compose(global, rs)
	}

	return r, nil
}

// LoadRegistry reads a registry configuration from a YAML file and builds the
// registry. Used both at startup and by the hot-reload watcher.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %q: %w", path, err)
	}

	var cfg RegistryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %q: %w", path, err)
	}

	return NewRegistry(cfg)
}

// Get returns the effective rules for the given biome id. Unknown ids resolve
// to the default rule set (global rules only) rather than failing; action
// evaluation must always be able to proceed under the global baseline.
func (r *Registry) Get(biomeID string) EffectiveRules {
	if eff, ok := r.effective[biomeID]; ok {
		return eff
	}
	return r.fallback
}

// Known reports whether the biome id is explicitly configured.
func (r *Registry) Known(biomeID string) bool {
	_, ok := r.effective[biomeID]
	return ok
}

// Global returns the global baseline rules.
func (r *Registry) Global() GlobalRules {
	return r.global
}

// BiomeIDs returns the configured biome ids in sorted order.
func (r *Registry) BiomeIDs() []string {
	ids := make([]string, 0, len(r.effective))
	for id := range r.effective {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Provider hands out the current registry and supports atomic replacement on
// hot reload. Readers never block writers and vice versa.
type Provider struct {
	current atomic.Pointer[Registry]
}

// NewProvider creates a provider serving the given registry.
func NewProvider(r *Registry) *Provider {
	p := &Provider{}
	p.current.Store(r)
	return p
}

// Registry returns the current registry.
func (p *Provider) Registry() *Registry {
	return p.current.Load()
}

// Replace swaps in a new registry. In-flight evaluations keep the registry
// they started with.
func (p *Provider) Replace(r *Registry) {
	p.current.Store(r)
}
