package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	BotToken      string   `env:"BOT_TOKEN"`
	DatabaseURL   string   `env:"DATABASE_URL"`
	AdminIDs      []int64  `env:"ADMIN_IDS" envSeparator:","`
	AdminAddr     string   `env:"ADMIN_ADDR"`
	AdminToken    string   `env:"ADMIN_TOKEN"`
	AdminOrigins  []string `env:"ADMIN_ORIGINS" envSeparator:","`
	AllowedChatID int64    `env:"ALLOWED_CHAT_ID"`
	ImagesDir     string   `env:"IMAGES_DIR" envDefault:"pics"`

	AllowedPlayers     []int   `env:"ALLOWED_PLAYERS" envSeparator:"," envDefault:"2,6,8,10,12,14,16"`
	MaxPlayers         int     `env:"MAX_PLAYERS" envDefault:"16"`
	TurnSeconds        int     `env:"TURN_SECONDS" envDefault:"60"`
	VotingSeconds      int     `env:"VOTING_SECONDS" envDefault:"60"`
	ResultsSeconds     int     `env:"RESULTS_SECONDS" envDefault:"10"`
	RoleStudySeconds   int     `env:"ROLE_STUDY_SECONDS" envDefault:"0"`
	FinishGraceSeconds int     `env:"FINISH_GRACE_SECONDS" envDefault:"300"`
	SpecialCardChance  float64 `env:"SPECIAL_CARD_CHANCE" envDefault:"0.2"`

	DBMaxOpenConns           int `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns           int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeSeconds int `env:"DB_CONN_MAX_LIFETIME_SECONDS" envDefault:"300"`
	DBConnMaxIdleTimeSeconds int `env:"DB_CONN_MAX_IDLE_SECONDS" envDefault:"60"`
}

// Default returns the configuration produced by an empty environment.
func Default() Config {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxPlayers <= 0 {
		return fmt.Errorf("MAX_PLAYERS must be positive, got %d", c.MaxPlayers)
	}
	if len(c.AllowedPlayers) == 0 {
		return fmt.Errorf("ALLOWED_PLAYERS must list at least one roster size")
	}
	for _, n := range c.AllowedPlayers {
		if n < 2 || n > c.MaxPlayers {
			return fmt.Errorf("ALLOWED_PLAYERS entry %d outside 2..%d", n, c.MaxPlayers)
		}
	}
	if c.SpecialCardChance < 0 || c.SpecialCardChance > 1 {
		return fmt.Errorf("SPECIAL_CARD_CHANCE must be within [0,1], got %v", c.SpecialCardChance)
	}
	return nil
}

// IsOperator reports whether the user id is in the ADMIN_IDS allow-list.
func (c Config) IsOperator(userID int64) bool {
	return slices.Contains(c.AdminIDs, userID)
}

func (c Config) TurnTimeout() time.Duration {
	return seconds(c.TurnSeconds)
}

func (c Config) VotingTimeout() time.Duration {
	return seconds(c.VotingSeconds)
}

func (c Config) ResultsDelay() time.Duration {
	return seconds(c.ResultsSeconds)
}

func (c Config) RoleStudyTimeout() time.Duration {
	return seconds(c.RoleStudySeconds)
}

func (c Config) FinishGrace() time.Duration {
	return seconds(c.FinishGraceSeconds)
}

func (c Config) DBConnMaxLifetime() time.Duration {
	return seconds(c.DBConnMaxLifetimeSeconds)
}

func (c Config) DBConnMaxIdleTime() time.Duration {
	return seconds(c.DBConnMaxIdleTimeSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
