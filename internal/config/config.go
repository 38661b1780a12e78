package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Registry RegistryConfig `toml:"registry"`
	Game     GameConfig     `toml:"game"`
	Data     DataConfig     `toml:"data"`
	Logging  LoggingConfig  `toml:"logging"`
}

type RegistryConfig struct {
	MaxEntities int `toml:"max_entities"`
}

type GameConfig struct {
	TickRate       time.Duration `toml:"tick_rate"`
	Ticks          int           `toml:"ticks"` // 0 = run until signalled
	BeatsPerMinute float64       `toml:"bpm"`
	CellSize       float32       `toml:"cell_size"` // spatial grid cell edge
}

type DataConfig struct {
	PrefabFile string   `toml:"prefab_file"`
	ScriptsDir string   `toml:"scripts_dir"`
	Spawn      []string `toml:"spawn"` // prefab names spawned at boot
	Watch      bool     `toml:"watch"` // hot-reload prefabs and scripts
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults(), nil
	}
	return cfg, err
}

func (c *Config) validate() error {
	if c.Registry.MaxEntities <= 0 {
		return fmt.Errorf("registry.max_entities must be positive, got %d", c.Registry.MaxEntities)
	}
	if c.Game.TickRate <= 0 {
		return fmt.Errorf("game.tick_rate must be positive, got %s", c.Game.TickRate)
	}
	if c.Game.CellSize <= 0 {
		return fmt.Errorf("game.cell_size must be positive, got %v", c.Game.CellSize)
	}
	if c.Game.Ticks < 0 {
		return fmt.Errorf("game.ticks must not be negative, got %d", c.Game.Ticks)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Registry: RegistryConfig{
			MaxEntities: 256,
		},
		Game: GameConfig{
			TickRate:       50 * time.Millisecond,
			Ticks:          0,
			BeatsPerMinute: 120,
			CellSize:       16,
		},
		Data: DataConfig{
			PrefabFile: "data/prefabs.yaml",
			ScriptsDir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
