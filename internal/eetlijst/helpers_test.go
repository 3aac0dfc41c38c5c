package eetlijst

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

var fixtureNames = []string{"Anna", "Bram", "Cees", "Daan"}

func readFixture(t testing.TB, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func loadFixture(t testing.TB, name string) *goquery.Document {
	t.Helper()
	return parseHTML(t, string(readFixture(t, name)))
}

func parseHTML(t testing.TB, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// fakeEetlijst serves the fixture pages the way eetlijst.nl does and
// records every form posted to main.php.
type fakeEetlijst struct {
	*httptest.Server

	User     string
	Password string
	Main     []byte
	Kosten   []byte

	mu     sync.Mutex
	posted []url.Values
	logins int
	gets   int
}

func newFakeEetlijst(t testing.TB) *fakeEetlijst {
	t.Helper()

	fake := &fakeEetlijst{
		User:     "huize",
		Password: "tafel",
		Main:     readFixture(t, "main.html"),
		Kosten:   readFixture(t, "kosten.html"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/login.php", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		r.ParseForm()

		fake.mu.Lock()
		fake.logins++
		fake.mu.Unlock()

		if r.PostForm.Get("login") != fake.User || r.PostForm.Get("pass") != fake.Password {
			w.Write([]byte(`<html><body><a href="index.php">Eetlijst</a><p>Inloggen mislukt</p></body></html>`))
			return
		}
		w.Write(fake.Main)
	})
	mux.HandleFunc("/kosten.php", func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		fake.gets++
		fake.mu.Unlock()

		if r.URL.Query().Get("session_id") != "a1b2c3d4e5" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write(fake.Kosten)
	})
	mux.HandleFunc("/main.php", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()

		fake.mu.Lock()
		fake.posted = append(fake.posted, r.PostForm)
		fake.mu.Unlock()

		w.Write(fake.Main)
	})

	fake.Server = httptest.NewServer(mux)
	t.Cleanup(fake.Close)
	return fake
}

func (f *fakeEetlijst) Posted() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.posted...)
}

func (f *fakeEetlijst) Transport(t testing.TB) *HTTPTransport {
	t.Helper()
	transport, err := NewHTTPTransport(HTTPTransportOptions{BaseURL: f.URL})
	require.NoError(t, err)
	return transport
}

func (f *fakeEetlijst) Credentials() Credentials {
	return Credentials{Username: f.User, Password: f.Password}
}
