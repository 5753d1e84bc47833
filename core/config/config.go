package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Ledger struct {
	Difficulty    int    `yaml:"difficulty"`
	MiningReward  uint64 `yaml:"mining_reward"`
	Workers       int    `yaml:"workers"`        // 1 mines on the caller's goroutine
	CheckInterval uint64 `yaml:"check_interval"` // nonces tried between cancellation checks
}

type Node struct {
	Addr          string        `yaml:"addr"`
	Mine          bool          `yaml:"mine"`
	RewardAddress string        `yaml:"reward_address"`
	RoundTimeout  time.Duration `yaml:"round_timeout"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Config struct {
	Ledger Ledger `yaml:"ledger"`
	Node   Node   `yaml:"node"`
	Log    Log    `yaml:"log"`
}

func Default() Config {
	return Config{
		Ledger: Ledger{
			Difficulty:    4,
			MiningReward:  100,
			Workers:       1,
			CheckInterval: 1024,
		},
		Node: Node{
			Addr:         "localhost:8080",
			RoundTimeout: 5 * time.Minute,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads a YAML config from path on top of Default().
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Ledger.Difficulty <= 0 {
		return fmt.Errorf("ledger.difficulty must be positive, got %d", c.Ledger.Difficulty)
	}
	if c.Ledger.MiningReward == 0 {
		return errors.New("ledger.mining_reward must be positive")
	}
	if c.Ledger.MiningReward > math.MaxInt64 {
		return fmt.Errorf("ledger.mining_reward must not exceed %d", int64(math.MaxInt64))
	}
	if c.Ledger.Workers <= 0 {
		return fmt.Errorf("ledger.workers must be positive, got %d", c.Ledger.Workers)
	}
	if c.Ledger.CheckInterval == 0 {
		return errors.New("ledger.check_interval must be positive")
	}
	if c.Node.Mine && c.Node.RewardAddress == "" {
		return errors.New("node.reward_address is required when mining is enabled")
	}
	return nil
}
