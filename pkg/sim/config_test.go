package sim

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestLoadConfig_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	content := []byte("seed: 7\nsteps: 100\nmarket_maker:\n  order_size: 2\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Seed)
	}
	if cfg.Steps != 100 {
		t.Errorf("Steps = %d, want 100", cfg.Steps)
	}
	if cfg.Maker.OrderSize != 2 {
		t.Errorf("Maker.OrderSize = %d, want 2", cfg.Maker.OrderSize)
	}

	// untouched fields keep their defaults
	def := DefaultConfig()
	if cfg.StartMid != def.StartMid {
		t.Errorf("StartMid = %d, want default %d", cfg.StartMid, def.StartMid)
	}
	if cfg.Maker.MaxInventory != def.Maker.MaxInventory {
		t.Errorf("Maker.MaxInventory = %d, want default %d", cfg.Maker.MaxInventory, def.Maker.MaxInventory)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig(absent) = nil error, want failure")
	}
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("steps: -5\n"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig with negative steps succeeded, want error")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"negative market qty", func(c *Config) { c.MarketQty = -1 }},
		{"probability above one", func(c *Config) { c.ProbMidMove = 1.5 }},
		{"momentum bias below zero", func(c *Config) { c.MomentumBias = -0.1 }},
		{"inverted offsets", func(c *Config) { c.ExtLimitMinOffset = 20; c.ExtLimitMaxOffset = 8 }},
		{"zero vol window", func(c *Config) { c.VolWindow = 0 }},
		{"zero spread floor", func(c *Config) { c.BaseSpreadFloor = 0 }},
		{"zero maker size", func(c *Config) { c.Maker.OrderSize = 0 }},
		{"zero refresh ticks", func(c *Config) { c.Maker.RefreshTicks = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
