package cardbot

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gdcards/cardbot/cardbot/game"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	return &cfg, nil
}

type Config struct {
	Log   LogConfig   `toml:"log"`
	HTTP  HTTPConfig  `toml:"http"`
	DB    DBConfig    `toml:"db"`
	Admin AdminConfig `toml:"admin"`
	Game  GameConfig  `toml:"game"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type HTTPConfig struct {
	Addr string `toml:"addr"`
}

type DBConfig struct {
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
	Path     string `toml:"path"`
}

type AdminConfig struct {
	Token string `toml:"token"`
}

type GameConfig struct {
	CooldownSeconds   int    `toml:"cooldown_seconds"`
	LeaderboardLimit  int    `toml:"leaderboard_limit"`
	StandingPromoCode string `toml:"standing_promo_code"`
}

// applyEnvOverrides lets secrets and deployment-specific values come
// from the environment instead of the config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CARDBOT_DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("CARDBOT_DB_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv("CARDBOT_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.DB.Port = port
		}
	}
	if v := os.Getenv("CARDBOT_ADMIN_TOKEN"); v != "" {
		c.Admin.Token = v
	}
	if v := os.Getenv("CARDBOT_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
}

// GameSettings converts the file-level game section into the engine
// configuration, falling back to defaults for anything unset.
func (c *Config) GameSettings() game.Config {
	cfg := game.DefaultConfig()
	if c.Game.CooldownSeconds > 0 {
		cfg.Cooldown = time.Duration(c.Game.CooldownSeconds) * time.Second
	}
	if c.Game.LeaderboardLimit > 0 {
		cfg.LeaderboardLimit = c.Game.LeaderboardLimit
	}
	if c.Game.StandingPromoCode != "" {
		cfg.StandingPromoCode = c.Game.StandingPromoCode
	}
	return cfg
}
