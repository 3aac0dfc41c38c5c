package eetlijst

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "http://eetlijst.nl"

// Transport performs the raw round trips against eetlijst. Paths are
// relative to the transport's base url.
type Transport interface {
	PostForm(ctx context.Context, path string, form url.Values) ([]byte, error)
	Get(ctx context.Context, path string) ([]byte, error)
}

// HTTPTransport talks to eetlijst over plain http.
type HTTPTransport struct {
	Http   *resty.Client
	Logger *slog.Logger
}

type HTTPTransportOptions struct {
	BaseURL string
	// Timeout of zero leaves the underlying client's default in place.
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewHTTPTransport(opts HTTPTransportOptions) (*HTTPTransport, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPTransport{Http: client, Logger: logger}, nil
}

func (t *HTTPTransport) PostForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	start := time.Now()

	res, err := t.Http.R().
		SetContext(ctx).
		SetBody(form.Encode()).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		Post(path)
	if err != nil {
		return nil, &NetworkError{Op: "POST " + path, Err: err}
	}

	t.Logger.Debug("eetlijst request", "method", "POST", "path", path, "status", res.StatusCode(), "dur", time.Since(start).String())
	return checkResponse("POST "+path, res)
}

func (t *HTTPTransport) Get(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()

	res, err := t.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, &NetworkError{Op: "GET " + path, Err: err}
	}

	t.Logger.Debug("eetlijst request", "method", "GET", "path", path, "status", res.StatusCode(), "dur", time.Since(start).String())
	return checkResponse("GET "+path, res)
}

func checkResponse(op string, res *resty.Response) ([]byte, error) {
	if res.StatusCode() < http.StatusOK || res.StatusCode() >= http.StatusMultipleChoices {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("unexpected status %d", res.StatusCode())}
	}
	return res.Body(), nil
}
