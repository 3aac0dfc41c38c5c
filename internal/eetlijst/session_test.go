package eetlijst

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	fake := newFakeEetlijst(t)

	session, err := Login(context.Background(), fake.Transport(t), fake.Credentials())
	require.NoError(t, err)

	require.Equal(t, "a1b2c3d4e5", session.Token)
	require.Equal(t, 1, session.Main.Find(`td.l:contains("Vandaag")`).Length())
	require.Equal(t, 1, session.Statistics.Find(`th[colspan="3"]`).Length())
	require.Equal(t, 1, fake.logins)
	require.Equal(t, 1, fake.gets)
}

func TestLoginBadCredentials(t *testing.T) {
	fake := newFakeEetlijst(t)

	creds := fake.Credentials()
	creds.Password = "fout"

	session, err := Login(context.Background(), fake.Transport(t), creds)
	require.Nil(t, session)

	var authErr *AuthenticationError
	require.True(t, errors.As(err, &authErr))
	require.Equal(t, "huize", authErr.User)
	require.Equal(t, 0, fake.gets)
}

func TestLoginEmptyCredentials(t *testing.T) {
	fake := newFakeEetlijst(t)

	_, err := Login(context.Background(), fake.Transport(t), Credentials{Username: "huize"})
	require.ErrorIs(t, err, ErrNoCredentials)
	require.Equal(t, 0, fake.logins)
}

func TestLoginNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	transport, err := NewHTTPTransport(HTTPTransportOptions{BaseURL: server.URL})
	require.NoError(t, err)
	server.Close()

	_, err = Login(context.Background(), transport, Credentials{Username: "huize", Password: "tafel"})

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	require.Equal(t, "POST /login.php", netErr.Op)
}

func TestLoginStatisticsPageRejected(t *testing.T) {
	fake := newFakeEetlijst(t)
	fake.Main = []byte(`<html><body>
<a href="main.php?session_id=x">Eetlijst</a>
<a href="lijst.php?session_id=x">Lijst</a>
<a href="kosten.php?session_id=verlopen">Kosten</a>
</body></html>`)

	_, err := Login(context.Background(), fake.Transport(t), fake.Credentials())

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	require.Contains(t, netErr.Error(), "403")
}

func TestLoginCancelledContext(t *testing.T) {
	fake := newFakeEetlijst(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Login(ctx, fake.Transport(t), fake.Credentials())

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	require.ErrorIs(t, err, context.Canceled)
}

func TestSessionToken(t *testing.T) {
	testCases := map[string]string{
		"kosten.php?session_id=a1b2c3d4e5":  "a1b2c3d4e5",
		"/kosten.php?sessionid=xyz_123":     "xyz_123",
		"kosten.php?lang=nl&session_id=abc": "abc",
	}

	for link, token := range testCases {
		require.Equal(t, token, sessionToken(link), link)
	}
}
