// Package config loads and validates the server's YAML configuration file
// (spec.md 6). A missing file falls back to defaults; an unparseable or
// out-of-range file is a fatal startup error, matching the teacher's
// fail-fast flag parsing in main.go generalized to a config file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig carries the listening address and disconnect grace period.
type ServerConfig struct {
	Address              string `yaml:"address"`
	DisconnectTimeoutMs   int   `yaml:"disconnect_timeout_ms"`
}

// SnakeConfig bounds what a lobby may configure for Snake (spec.md 4.7.1).
type SnakeConfig struct {
	MaxPlayers          int     `yaml:"max_players"`
	MinGridSize         int     `yaml:"min_grid_size"`
	MaxGridSize         int     `yaml:"max_grid_size"`
	MinTickIntervalMs    int    `yaml:"min_tick_interval_ms"`
	MaxTickIntervalMs    int    `yaml:"max_tick_interval_ms"`
}

// TicTacToeConfig bounds board size and win-count (spec.md 4.7.2).
type TicTacToeConfig struct {
	MinBoardSize int `yaml:"min_board_size"`
	MaxBoardSize int `yaml:"max_board_size"`
}

// NumbersMatchConfig bounds refill/hint behavior (spec.md 4.7.3).
type NumbersMatchConfig struct {
	DefaultRefills int `yaml:"default_refills"`
}

// StackAttackConfig carries the fixed field dimensions and tick cadence
// (spec.md 4.7.5). The field size is fixed by the game rules, not
// configurable, but the tick interval is exposed for parity with Snake.
type StackAttackConfig struct {
	MaxPlayers     int `yaml:"max_players"`
	TickIntervalMs int `yaml:"tick_interval_ms"`
}

// Puzzle2048Config bounds board size and target value (spec.md 4.7.4).
type Puzzle2048Config struct {
	MinBoardSize int `yaml:"min_board_size"`
	MaxBoardSize int `yaml:"max_board_size"`
	TargetValue  int `yaml:"target_value"`
}

// GamesConfig groups every per-game lobby config.
type GamesConfig struct {
	Snake        SnakeConfig        `yaml:"snake"`
	TicTacToe    TicTacToeConfig    `yaml:"tictactoe"`
	NumbersMatch NumbersMatchConfig `yaml:"numbers_match"`
	StackAttack  StackAttackConfig  `yaml:"stack_attack"`
	Puzzle2048   Puzzle2048Config   `yaml:"puzzle2048"`
}

// ReplaysConfig controls whether replays are persisted to disk and where.
type ReplaysConfig struct {
	Save     bool   `yaml:"save"`
	Location string `yaml:"location"`
}

// Config is the root configuration document (spec.md 6).
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Games    GamesConfig   `yaml:"games"`
	Replays  ReplaysConfig `yaml:"replays"`
	ClientId string        `yaml:"client_id,omitempty"`
}

// Default returns the built-in defaults used when no config file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:             "0.0.0.0:5000",
			DisconnectTimeoutMs: 200,
		},
		Games: GamesConfig{
			Snake: SnakeConfig{
				MaxPlayers:        10,
				MinGridSize:       10,
				MaxGridSize:       100,
				MinTickIntervalMs: 50,
				MaxTickIntervalMs: 5000,
			},
			TicTacToe: TicTacToeConfig{
				MinBoardSize: 3,
				MaxBoardSize: 20,
			},
			NumbersMatch: NumbersMatchConfig{
				DefaultRefills: 3,
			},
			StackAttack: StackAttackConfig{
				MaxPlayers:     4,
				TickIntervalMs: 200,
			},
			Puzzle2048: Puzzle2048Config{
				MinBoardSize: 2,
				MaxBoardSize: 10,
				TargetValue:  2048,
			},
		},
		Replays: ReplaysConfig{
			Save:     false,
			Location: "./replays",
		},
	}
}

// Load reads and validates the YAML file at path. A missing file yields
// Default() with no error, matching spec.md 6's "Missing file -> defaults".
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	// Unmarshal onto the defaults so omitted keys keep their default value.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the ranges named in spec.md 4.7.
func (c Config) Validate() error {
	s := c.Games.Snake
	if s.MaxPlayers < 1 || s.MaxPlayers > 10 {
		return fmt.Errorf("games.snake.max_players must be in 1..=10, got %d", s.MaxPlayers)
	}
	if s.MinGridSize < 10 || s.MaxGridSize > 100 || s.MinGridSize > s.MaxGridSize {
		return fmt.Errorf("games.snake grid bounds must fall within 10..=100, got %d..%d", s.MinGridSize, s.MaxGridSize)
	}
	if s.MinTickIntervalMs < 50 || s.MaxTickIntervalMs > 5000 || s.MinTickIntervalMs > s.MaxTickIntervalMs {
		return fmt.Errorf("games.snake tick interval bounds must fall within 50..=5000ms, got %d..%d", s.MinTickIntervalMs, s.MaxTickIntervalMs)
	}

	t := c.Games.TicTacToe
	if t.MinBoardSize < 3 || t.MaxBoardSize > 20 || t.MinBoardSize > t.MaxBoardSize {
		return fmt.Errorf("games.tictactoe board bounds must fall within 3..=20, got %d..%d", t.MinBoardSize, t.MaxBoardSize)
	}

	sa := c.Games.StackAttack
	if sa.MaxPlayers < 1 || sa.MaxPlayers > 4 {
		return fmt.Errorf("games.stack_attack.max_players must be in 1..=4, got %d", sa.MaxPlayers)
	}

	p := c.Games.Puzzle2048
	if p.MinBoardSize < 2 || p.MaxBoardSize > 10 || p.MinBoardSize > p.MaxBoardSize {
		return fmt.Errorf("games.puzzle2048 board bounds must fall within 2..=10, got %d..%d", p.MinBoardSize, p.MaxBoardSize)
	}

	if c.Server.DisconnectTimeoutMs < 0 {
		return fmt.Errorf("server.disconnect_timeout_ms must be >= 0, got %d", c.Server.DisconnectTimeoutMs)
	}
	return nil
}
