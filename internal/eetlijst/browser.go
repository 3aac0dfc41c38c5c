package eetlijst

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/playwright-community/playwright-go"
)

// BrowserTransport sends the eetlijst requests through a headless chromium
// context. Cookies set by the login response live in the browser context,
// the same way a person clicking through the site would hold them.
type BrowserTransport struct {
	playwright.BrowserContext

	Logger *slog.Logger

	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewBrowserTransport(baseURL string, logger *slog.Logger) (*BrowserTransport, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	startup := time.Now()
	pw, err := playwright.Run()
	if err != nil {
		return nil, err
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{})
	if err != nil {
		pw.Stop()
		return nil, err
	}

	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		BaseURL: playwright.String(baseURL),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, err
	}

	logger.Info("launched playwright browser", "dur", time.Since(startup).String())

	return &BrowserTransport{
		BrowserContext: browserContext,
		Logger:         logger,
		pw:             pw,
		browser:        browser,
	}, nil
}

func (t *BrowserTransport) PostForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &NetworkError{Op: "POST " + path, Err: err}
	}

	fields := map[string]interface{}{}
	for key := range form {
		fields[key] = form.Get(key)
	}

	res, err := t.Request().Post(path, playwright.APIRequestContextPostOptions{
		Form: fields,
	})
	if err != nil {
		return nil, &NetworkError{Op: "POST " + path, Err: err}
	}

	t.Logger.Debug("eetlijst browser request", "method", "POST", "path", path, "status", res.Status())
	return readBrowserResponse("POST "+path, res)
}

func (t *BrowserTransport) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &NetworkError{Op: "GET " + path, Err: err}
	}

	res, err := t.Request().Get(path)
	if err != nil {
		return nil, &NetworkError{Op: "GET " + path, Err: err}
	}

	t.Logger.Debug("eetlijst browser request", "method", "GET", "path", path, "status", res.Status())
	return readBrowserResponse("GET "+path, res)
}

// Close tears down the context, the browser and the playwright driver.
func (t *BrowserTransport) Close() error {
	if err := t.BrowserContext.Close(); err != nil {
		return err
	}
	if t.browser != nil {
		if err := t.browser.Close(); err != nil {
			return err
		}
	}
	if t.pw != nil {
		return t.pw.Stop()
	}
	return nil
}

func readBrowserResponse(op string, res playwright.APIResponse) ([]byte, error) {
	if !res.Ok() {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("unexpected status %d", res.Status())}
	}

	body, err := res.Body()
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	return body, nil
}
