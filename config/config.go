package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/dungeonnav/navgraph"
	"github.com/milk9111/dungeonnav/navigation"
)

// ErrInvalidConfig is wrapped by validation errors.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds navigation tuning loaded from YAML.
type Config struct {
	BudgetPerTick       int         `yaml:"budget_per_tick"`
	CacheMaxEntryCells  int         `yaml:"cache_max_entry_cells"`
	CacheMaxEntries     int         `yaml:"cache_max_entries"`
	MaxExpansions       int         `yaml:"max_expansions"`
	CellSize            float64     `yaml:"cell_size"`
	CellCenterOffset    float64     `yaml:"cell_center_offset"`
	NearTargetDistance  float64     `yaml:"near_target_distance"`
	LongRangeDistance   float64     `yaml:"long_range_distance"`
	DefaultSimplifyStep int         `yaml:"default_simplify_step"`
	Graph               GraphConfig `yaml:"graph"`
}

type GraphConfig struct {
	Spacing         int     `yaml:"spacing"`
	MaxLinkDistance float64 `yaml:"max_link_distance"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BudgetPerTick:       navigation.DefaultBudget,
		CacheMaxEntryCells:  navigation.DefaultMaxEntryCells,
		CellSize:            1,
		CellCenterOffset:    navigation.DefaultCellCenterOffset,
		NearTargetDistance:  navigation.DefaultNearTargetDistance,
		LongRangeDistance:   navigation.DefaultLongRangeDistance,
		DefaultSimplifyStep: 1,
		Graph: GraphConfig{
			Spacing:         navgraph.DefaultSpacing,
			MaxLinkDistance: navgraph.DefaultMaxLinkDistance,
		},
	}
}

// Load reads a settings file by name: the copy under Dir wins over the
// embedded one. Fields missing from the file keep their defaults.
func Load(name string) (Config, error) {
	data, err := Read(name)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", name, err)
	}
	return Parse(name, data)
}

// LoadFile reads settings from an explicit path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(path, data)
}

func Parse(name string, data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", name, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.BudgetPerTick < 0:
		return fmt.Errorf("%w: budget_per_tick %d", ErrInvalidConfig, c.BudgetPerTick)
	case c.CacheMaxEntryCells <= 0:
		return fmt.Errorf("%w: cache_max_entry_cells %d", ErrInvalidConfig, c.CacheMaxEntryCells)
	case c.CacheMaxEntries < 0:
		return fmt.Errorf("%w: cache_max_entries %d", ErrInvalidConfig, c.CacheMaxEntries)
	case c.MaxExpansions < 0:
		return fmt.Errorf("%w: max_expansions %d", ErrInvalidConfig, c.MaxExpansions)
	case c.CellSize <= 0:
		return fmt.Errorf("%w: cell_size %v", ErrInvalidConfig, c.CellSize)
	case c.DefaultSimplifyStep < 1:
		return fmt.Errorf("%w: default_simplify_step %d", ErrInvalidConfig, c.DefaultSimplifyStep)
	case c.Graph.Spacing < 1:
		return fmt.Errorf("%w: graph.spacing %d", ErrInvalidConfig, c.Graph.Spacing)
	case c.Graph.MaxLinkDistance <= 0:
		return fmt.Errorf("%w: graph.max_link_distance %v", ErrInvalidConfig, c.Graph.MaxLinkDistance)
	}
	return nil
}

// Transform returns the cell transform described by CellSize.
func (c Config) Transform() navigation.UniformTransform {
	return navigation.NewUniformTransform(c.CellSize)
}

// ServiceOptions translates the settings into navigation service options.
func (c Config) ServiceOptions() []navigation.Option {
	return []navigation.Option{
		navigation.WithTransform(c.Transform()),
		navigation.WithBudget(c.BudgetPerTick),
		navigation.WithCache(c.CacheMaxEntryCells, c.CacheMaxEntries),
		navigation.WithMaxExpansions(c.MaxExpansions),
		navigation.WithCellCenterOffset(c.CellCenterOffset),
		navigation.WithNearTargetDistance(c.NearTargetDistance),
		navigation.WithLongRangeDistance(c.LongRangeDistance),
	}
}

// GraphOptions returns the waypoint graph generation settings.
func (c Config) GraphOptions() navgraph.Options {
	return navgraph.Options{
		Spacing:          c.Graph.Spacing,
		MaxLinkDistance:  c.Graph.MaxLinkDistance,
		CellCenterOffset: c.CellCenterOffset,
	}
}
