package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/danielholmes839/eetlijst-bot/internal/eetlijst"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"
)

const (
	TransportHTTP    = "http"
	TransportBrowser = "browser"

	DefaultPlayersFile = "./data/players.yaml"
)

type Config struct {
	Username  string
	Password  string
	BaseURL   string
	Timeout   time.Duration
	Transport string

	// Players maps an eetlijst name to a discord user id
	PlayersFile string
	Players     map[string]string

	DiscordToken         string
	DiscordApplicationID string
	DiscordGuildID       string

	LogFormat string
	LogLevel  string
}

// Load reads the environment, falling back to the given .env files, and
// the players file. Missing .env and players files are skipped. Variables
// already set in the environment win over .env values, and the process
// environment is never modified.
func Load(fs afero.Fs, envFiles ...string) (*Config, error) {
	dotenv := map[string]string{}
	for _, file := range envFiles {
		values, err := readEnvFile(fs, file)
		if err != nil {
			return nil, err
		}
		for k, v := range values {
			if _, ok := dotenv[k]; !ok {
				dotenv[k] = v
			}
		}
	}

	getenv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		if v := dotenv[key]; v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Username:             getenv("EETLIJST_USER", ""),
		Password:             getenv("EETLIJST_PASS", ""),
		BaseURL:              getenv("EETLIJST_BASE_URL", eetlijst.DefaultBaseURL),
		Transport:            getenv("EETLIJST_TRANSPORT", TransportHTTP),
		PlayersFile:          getenv("EETLIJST_PLAYERS", DefaultPlayersFile),
		DiscordToken:         getenv("DISCORD_BOT_TOKEN", ""),
		DiscordApplicationID: getenv("DISCORD_APPLICATION_ID", ""),
		DiscordGuildID:       getenv("DISCORD_GUILD_ID", ""),
		LogFormat:            getenv("LOG_FORMAT", ""),
		LogLevel:             getenv("LOG_LEVEL", ""),
	}

	if timeout := getenv("EETLIJST_TIMEOUT", ""); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("EETLIJST_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	players, err := LoadPlayers(fs, cfg.PlayersFile)
	if err != nil {
		return nil, err
	}
	cfg.Players = players

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadPlayers reads a yaml file of name: id pairs. A missing file is an
// empty mapping.
func LoadPlayers(fs afero.Fs, path string) (map[string]string, error) {
	players := map[string]string{}

	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return players, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, &players); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return players, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	var err error
	if c.Username == "" {
		err = multierr.Append(err, errors.New("EETLIJST_USER environment variable not set"))
	}
	if c.Password == "" {
		err = multierr.Append(err, errors.New("EETLIJST_PASS environment variable not set"))
	}
	if c.Transport != TransportHTTP && c.Transport != TransportBrowser {
		err = multierr.Append(err, fmt.Errorf("EETLIJST_TRANSPORT must be %q or %q, got %q", TransportHTTP, TransportBrowser, c.Transport))
	}
	return err
}

// ValidateBot checks the extra settings the discord bot needs.
func (c *Config) ValidateBot() error {
	var err error
	if c.DiscordToken == "" {
		err = multierr.Append(err, errors.New("DISCORD_BOT_TOKEN environment variable not set"))
	}
	if c.DiscordApplicationID == "" {
		err = multierr.Append(err, errors.New("DISCORD_APPLICATION_ID environment variable not set"))
	}
	return err
}

func (c *Config) Credentials() eetlijst.Credentials {
	return eetlijst.Credentials{Username: c.Username, Password: c.Password}
}

func readEnvFile(fs afero.Fs, path string) (map[string]string, error) {
	f, err := fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return values, nil
}
