// Package config loads engine settings from a YAML file or from
// the process environment (optionally seeded by a .env file) and
// builds the logger the engine components share.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/clubcourt/tournament/core"
)

// Config is the on-disk shape of a tournament definition.
type Config struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`

	Format   string `yaml:"format"`
	MinTeams int    `yaml:"min_teams"`
	MaxTeams int    `yaml:"max_teams"`

	ThirdPlace bool `yaml:"third_place"`
	Passes     int  `yaml:"passes"`
	AllowDraws bool `yaml:"allow_draws"`

	SwissRounds int `yaml:"swiss_rounds"`

	Groups     int `yaml:"groups"`
	Qualifiers int `yaml:"qualifiers"`

	BaseRating     float64   `yaml:"base_rating"`
	KFactor        float64   `yaml:"k_factor"`
	ChallengeRange int       `yaml:"challenge_range"`
	SeasonEnd      time.Time `yaml:"season_end"`

	RNGSeed int64 `yaml:"rng_seed"`

	TieBreaks []string `yaml:"tie_breaks"`
}

// Load reads a YAML tournament definition.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// FromEnv builds a config from TOURNAMENT_* environment
// variables. A .env file in the working directory is loaded
// first when present; real environment variables win over it.
func FromEnv() (Config, error) {
	// Missing .env is fine, the environment alone may be enough.
	_ = godotenv.Load()

	cfg := Config{
		Name:     os.Getenv("TOURNAMENT_NAME"),
		LogLevel: os.Getenv("TOURNAMENT_LOG_LEVEL"),
		Format:   os.Getenv("TOURNAMENT_FORMAT"),
	}

	var err error
	if cfg.MinTeams, err = envInt("TOURNAMENT_MIN_TEAMS"); err != nil {
		return Config{}, err
	}
	if cfg.MaxTeams, err = envInt("TOURNAMENT_MAX_TEAMS"); err != nil {
		return Config{}, err
	}
	if cfg.Passes, err = envInt("TOURNAMENT_PASSES"); err != nil {
		return Config{}, err
	}
	if cfg.SwissRounds, err = envInt("TOURNAMENT_SWISS_ROUNDS"); err != nil {
		return Config{}, err
	}
	if cfg.Groups, err = envInt("TOURNAMENT_GROUPS"); err != nil {
		return Config{}, err
	}
	if cfg.Qualifiers, err = envInt("TOURNAMENT_QUALIFIERS"); err != nil {
		return Config{}, err
	}
	cfg.ThirdPlace = os.Getenv("TOURNAMENT_THIRD_PLACE") == "true"
	cfg.AllowDraws = os.Getenv("TOURNAMENT_ALLOW_DRAWS") == "true"

	return cfg, nil
}

func envInt(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

// Tournament converts the file shape into the engine config.
func (c Config) Tournament() core.Config {
	tieBreaks := make([]core.TieBreak, 0, len(c.TieBreaks))
	for _, tb := range c.TieBreaks {
		tieBreaks = append(tieBreaks, core.TieBreak(tb))
	}

	return core.Config{
		Format:         core.Format(c.Format),
		MinTeams:       c.MinTeams,
		MaxTeams:       c.MaxTeams,
		ThirdPlace:     c.ThirdPlace,
		Passes:         c.Passes,
		AllowDraws:     c.AllowDraws,
		SwissRounds:    c.SwissRounds,
		Groups:         c.Groups,
		Qualifiers:     c.Qualifiers,
		BaseRating:     c.BaseRating,
		KFactor:        c.KFactor,
		ChallengeRange: c.ChallengeRange,
		SeasonEnd:      c.SeasonEnd,
		RNGSeed:        c.RNGSeed,
		TieBreaks:      tieBreaks,
	}
}

// Logger builds the shared zerolog logger at the configured
// level. Unknown or empty levels fall back to info.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
