package eetlijst

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	loginPath = "/login.php"
	mainPath  = "/main.php"

	// the cost overview is always the third link on the page eetlijst
	// answers a login with
	statisticsLinkIndex = 2
)

var nonWord = regexp.MustCompile(`\W`)

type Credentials struct {
	Username string
	Password string
}

// Session holds the token and the two pages fetched during login. It is
// never modified after Login returns.
type Session struct {
	Token string

	// Main is the page returned by the login request, it shows today's list.
	Main *goquery.Document
	// Statistics is the cost overview page linked from Main.
	Statistics *goquery.Document
}

// Login posts the credentials, follows the statistics link on the answer
// and derives the session token from that link.
func Login(ctx context.Context, transport Transport, creds Credentials) (*Session, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, ErrNoCredentials
	}

	body, err := transport.PostForm(ctx, loginPath, url.Values{
		"login": {creds.Username},
		"pass":  {creds.Password},
	})
	if err != nil {
		return nil, err
	}

	main, err := parseDocument(loginPath, body)
	if err != nil {
		return nil, err
	}

	link, ok := statisticsLink(main)
	if !ok {
		return nil, &AuthenticationError{User: creds.Username}
	}

	body, err = transport.Get(ctx, "/"+strings.TrimPrefix(link, "/"))
	if err != nil {
		return nil, err
	}

	statistics, err := parseDocument(link, body)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:      sessionToken(link),
		Main:       main,
		Statistics: statistics,
	}, nil
}

// NewSession builds a session from pages that were fetched elsewhere, for
// example saved to disk.
func NewSession(token string, main, statistics *goquery.Document) *Session {
	return &Session{Token: token, Main: main, Statistics: statistics}
}

func statisticsLink(main *goquery.Document) (string, bool) {
	anchors := main.Find("a")
	if anchors.Length() <= statisticsLinkIndex {
		return "", false
	}

	href, ok := anchors.Eq(statisticsLinkIndex).Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", false
	}
	return strings.TrimSpace(href), true
}

// sessionToken returns the last segment of the link after splitting on
// non word characters, "kosten.php?session_id=abc" gives "abc".
func sessionToken(link string) string {
	parts := nonWord.Split(link, -1)
	return parts[len(parts)-1]
}

func parseDocument(source string, body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, parseErrorf(source, "invalid html: %v", err)
	}
	return doc, nil
}
