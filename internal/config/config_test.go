package config

import (
	"testing"
	"time"

	"github.com/danielholmes839/eetlijst-bot/internal/eetlijst"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

var keys = []string{
	"EETLIJST_USER", "EETLIJST_PASS", "EETLIJST_BASE_URL", "EETLIJST_TIMEOUT",
	"EETLIJST_TRANSPORT", "EETLIJST_PLAYERS", "DISCORD_BOT_TOKEN",
	"DISCORD_APPLICATION_ID", "DISCORD_GUILD_ID", "LOG_FORMAT", "LOG_LEVEL",
}

// clearEnv blanks every variable Load reads, restored after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("EETLIJST_USER", "huize")
	t.Setenv("EETLIJST_PASS", "tafel")
	t.Setenv("EETLIJST_TIMEOUT", "10s")
	t.Setenv("EETLIJST_PLAYERS", "/etc/eetlijst/players.yaml")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/eetlijst/players.yaml", []byte("Anna: \"1001\"\nBram: 1002\n"), 0644))

	cfg, err := Load(fs)
	require.NoError(t, err)

	require.Equal(t, "huize", cfg.Username)
	require.Equal(t, "tafel", cfg.Password)
	require.Equal(t, "http://eetlijst.nl", cfg.BaseURL)
	require.Equal(t, 10*time.Second, cfg.Timeout)
	require.Equal(t, TransportHTTP, cfg.Transport)
	require.Equal(t, map[string]string{"Anna": "1001", "Bram": "1002"}, cfg.Players)
	require.Equal(t, "huize", cfg.Credentials().Username)
}

func TestLoadDotenv(t *testing.T) {
	clearEnv(t)
	t.Setenv("EETLIJST_PASS", "from-env")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".env", []byte("EETLIJST_USER=huize\nEETLIJST_PASS=from-file\nEETLIJST_TRANSPORT=browser\n"), 0644))

	cfg, err := Load(fs, ".env", "missing.env")
	require.NoError(t, err)

	require.Equal(t, "huize", cfg.Username)
	require.Equal(t, "from-env", cfg.Password)
	require.Equal(t, TransportBrowser, cfg.Transport)
	require.Empty(t, cfg.Players)
}

func TestLoadMissingCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("EETLIJST_TRANSPORT", "carrier-pigeon")

	_, err := Load(afero.NewMemMapFs())
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 3)
	require.EqualError(t, errs[0], "EETLIJST_USER environment variable not set")
	require.EqualError(t, errs[1], "EETLIJST_PASS environment variable not set")
	require.Contains(t, errs[2].Error(), "carrier-pigeon")
}

func TestLoadBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("EETLIJST_USER", "huize")
	t.Setenv("EETLIJST_PASS", "tafel")
	t.Setenv("EETLIJST_TIMEOUT", "soon")

	_, err := Load(afero.NewMemMapFs())
	require.ErrorContains(t, err, "EETLIJST_TIMEOUT")
}

func TestLoadPlayersInvalidYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "players.yaml", []byte("- Anna\n- Bram\n"), 0644))

	_, err := LoadPlayers(fs, "players.yaml")
	require.ErrorContains(t, err, "players.yaml")
}

func TestValidateBot(t *testing.T) {
	cfg := &Config{DiscordToken: "token"}
	require.EqualError(t, cfg.ValidateBot(), "DISCORD_APPLICATION_ID environment variable not set")

	cfg.DiscordApplicationID = "app"
	require.NoError(t, cfg.ValidateBot())
}

func TestNewTransportHTTP(t *testing.T) {
	cfg := &Config{
		Username:  "huize",
		Password:  "tafel",
		BaseURL:   "http://localhost:8080",
		Timeout:   5 * time.Second,
		Transport: TransportHTTP,
		Players:   map[string]string{"Anna": "1001"},
	}

	transport, closeTransport, err := cfg.NewTransport(nil)
	require.NoError(t, err)
	require.NoError(t, closeTransport())

	httpTransport, ok := transport.(*eetlijst.HTTPTransport)
	require.True(t, ok)
	require.Equal(t, "http://localhost:8080", httpTransport.Http.BaseURL)
	require.Equal(t, 5*time.Second, httpTransport.Http.GetClient().Timeout)

	opts := cfg.ParserOptions(nil)
	require.Equal(t, "huize", opts.Credentials.Username)
	require.Equal(t, "1001", opts.ExternalIDs["Anna"])
}
