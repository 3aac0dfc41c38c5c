package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielholmes839/eetlijst-bot/internal/bot"
	"github.com/danielholmes839/eetlijst-bot/internal/config"
	"github.com/danielholmes839/eetlijst-bot/internal/eetlijst"
	"github.com/danielholmes839/eetlijst-bot/internal/logging"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

func launch() (err error) {
	cfg, err := config.Load(afero.NewOsFs(), ".env")
	if err != nil {
		return err
	}
	if err := cfg.ValidateBot(); err != nil {
		return err
	}

	// setup logger
	logger := logging.Setup(cfg.LogFormat, logging.FormatJSON, cfg.LogLevel)

	// setup eetlijst transport, shared by every command
	transport, closeTransport, err := cfg.NewTransport(logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeTransport())
	}()

	opts := cfg.ParserOptions(logger)

	b := &bot.Bot{
		ApplicationID: cfg.DiscordApplicationID,
		GuildID:       cfg.DiscordGuildID,
		Players:       cfg.Players,
		Logger:        logger,
		NewParser: func(ctx context.Context) (bot.Parser, error) {
			return eetlijst.New(ctx, transport, opts)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting eetlijst bot", "players", len(cfg.Players), "transport", cfg.Transport)
	return b.Run(ctx, cfg.DiscordToken)
}

func main() {
	err := launch()
	if err != nil {
		panic(err)
	}
}
