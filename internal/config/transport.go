package config

import (
	"log/slog"

	"github.com/danielholmes839/eetlijst-bot/internal/eetlijst"
)

// NewTransport builds the transport selected by EETLIJST_TRANSPORT. The
// returned close func releases the browser when one was launched.
func (c *Config) NewTransport(logger *slog.Logger) (eetlijst.Transport, func() error, error) {
	if c.Transport == TransportBrowser {
		browser, err := eetlijst.NewBrowserTransport(c.BaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return browser, browser.Close, nil
	}

	transport, err := eetlijst.NewHTTPTransport(eetlijst.HTTPTransportOptions{
		BaseURL: c.BaseURL,
		Timeout: c.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return transport, func() error { return nil }, nil
}

func (c *Config) ParserOptions(logger *slog.Logger) eetlijst.Options {
	return eetlijst.Options{
		Credentials: c.Credentials(),
		ExternalIDs: c.Players,
		Logger:      logger,
	}
}
