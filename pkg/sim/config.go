package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the immutable parameter bundle for one trial. One Config fully
// determines the trial's random sequence and dynamics through its seed.
type Config struct {
	Seed     int64 `yaml:"seed"`
	Steps    int   `yaml:"steps"`
	StartMid int   `yaml:"start_mid"`

	// external order flow
	LimitQty        int     `yaml:"limit_qty"`
	MarketQty       int     `yaml:"market_qty"`
	ProbMarketOrder float64 `yaml:"prob_market_order"`

	// mid dynamics
	ProbMidMove  float64 `yaml:"prob_mid_move"`
	MidMoveTicks int     `yaml:"mid_move_ticks"`

	// external resting liquidity placement
	ExtLimitMinOffset int `yaml:"ext_limit_min_offset"`
	ExtLimitMaxOffset int `yaml:"ext_limit_max_offset"`

	// probability a market order continues the last mid move (toxic flow)
	MomentumBias float64 `yaml:"momentum_bias"`

	// volatility model feeding the dynamic spread
	VolWindow       int     `yaml:"vol_window"`
	VolK            float64 `yaml:"vol_k"`
	BaseSpreadFloor int     `yaml:"base_spread_floor"`

	// short-horizon contrarian quoting bias
	AlphaStrength int `yaml:"alpha_strength"`

	Maker MakerConfig `yaml:"market_maker"`
}

// MakerConfig holds the market maker parameters carried inside a trial
// config. The per-step spread is derived by the loop, not configured here.
type MakerConfig struct {
	InventorySkew float64 `yaml:"inventory_skew"`
	OrderSize     int     `yaml:"order_size"`
	MaxInventory  int     `yaml:"max_inventory"`
	RefreshTicks  int     `yaml:"refresh_ticks"`
}

// DefaultConfig returns the reference trial parameters.
func DefaultConfig() Config {
	return Config{
		Seed:     42,
		Steps:    5000,
		StartMid: 10000,

		LimitQty:        10,
		MarketQty:       5,
		ProbMarketOrder: 0.30,

		ProbMidMove:  0.20,
		MidMoveTicks: 1,

		ExtLimitMinOffset: 8,
		ExtLimitMaxOffset: 20,

		MomentumBias: 0.60,

		VolWindow:       50,
		VolK:            3.0,
		BaseSpreadFloor: 3,

		AlphaStrength: 2,

		Maker: MakerConfig{
			InventorySkew: 0.6,
			OrderSize:     5,
			MaxInventory:  200,
			RefreshTicks:  2,
		},
	}
}

// LoadConfig reads a YAML file over the defaults, so a partial file only
// overrides the fields it names.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config for values the simulator cannot run with.
func (c Config) Validate() error {
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.LimitQty <= 0 || c.MarketQty <= 0 {
		return fmt.Errorf("order quantities must be positive, got limit_qty=%d market_qty=%d", c.LimitQty, c.MarketQty)
	}
	if c.ProbMarketOrder < 0 || c.ProbMarketOrder > 1 {
		return fmt.Errorf("prob_market_order must be in [0,1], got %v", c.ProbMarketOrder)
	}
	if c.ProbMidMove < 0 || c.ProbMidMove > 1 {
		return fmt.Errorf("prob_mid_move must be in [0,1], got %v", c.ProbMidMove)
	}
	if c.MomentumBias < 0 || c.MomentumBias > 1 {
		return fmt.Errorf("momentum_bias must be in [0,1], got %v", c.MomentumBias)
	}
	if c.MidMoveTicks <= 0 {
		return fmt.Errorf("mid_move_ticks must be positive, got %d", c.MidMoveTicks)
	}
	if c.ExtLimitMinOffset <= 0 || c.ExtLimitMaxOffset < c.ExtLimitMinOffset {
		return fmt.Errorf("limit offsets must satisfy 0 < min <= max, got [%d,%d]", c.ExtLimitMinOffset, c.ExtLimitMaxOffset)
	}
	if c.VolWindow <= 0 {
		return fmt.Errorf("vol_window must be positive, got %d", c.VolWindow)
	}
	if c.VolK < 0 {
		return fmt.Errorf("vol_k must be non-negative, got %v", c.VolK)
	}
	if c.BaseSpreadFloor <= 0 {
		return fmt.Errorf("base_spread_floor must be positive, got %d", c.BaseSpreadFloor)
	}
	if c.AlphaStrength < 0 {
		return fmt.Errorf("alpha_strength must be non-negative, got %d", c.AlphaStrength)
	}
	if c.Maker.OrderSize <= 0 {
		return fmt.Errorf("market_maker.order_size must be positive, got %d", c.Maker.OrderSize)
	}
	if c.Maker.MaxInventory <= 0 {
		return fmt.Errorf("market_maker.max_inventory must be positive, got %d", c.Maker.MaxInventory)
	}
	if c.Maker.RefreshTicks <= 0 {
		return fmt.Errorf("market_maker.refresh_ticks must be positive, got %d", c.Maker.RefreshTicks)
	}
	return nil
}
