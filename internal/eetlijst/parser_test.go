package eetlijst

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	fake := newFakeEetlijst(t)

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	parser, err := New(context.Background(), fake.Transport(t), Options{
		Credentials: fake.Credentials(),
		ExternalIDs: map[string]string{"Anna": "1001"},
		Logger:      logger,
	})
	require.NoError(t, err)
	require.Contains(t, logs.String(), "logged in to eetlijst")

	require.Equal(t, fixtureNames, parser.Names())
	require.Equal(t, "1001", parser.Registry().ExternalID("Anna"))

	require.Equal(t, []string{"Anna"}, parser.Eaters())
	require.Equal(t, []string{"Bram"}, parser.Cooks())
	require.Equal(t, []string{"Daan"}, parser.Absent())
	require.Equal(t, []string{"Cees"}, parser.Undecided())

	ratios, err := parser.Ratios()
	require.NoError(t, err)
	require.Equal(t, []string{"Bram", "Daan", "Anna", "Cees"}, ratios.Names())

	costs, err := parser.Costs()
	require.NoError(t, err)
	require.Len(t, costs, 4)

	points, err := parser.Points()
	require.NoError(t, err)
	require.Equal(t, "Daan", points[0].Name)

	balance, err := parser.Balance()
	require.NoError(t, err)
	require.Equal(t, "Anna", balance[3].Name)

	// two round trips for construction, none afterwards
	require.Equal(t, 1, fake.logins)
	require.Equal(t, 1, fake.gets)
}

func TestCookSuggestion(t *testing.T) {
	fake := newFakeEetlijst(t)

	parser, err := New(context.Background(), fake.Transport(t), Options{Credentials: fake.Credentials()})
	require.NoError(t, err)

	name, ok, err := parser.CookSuggestion()
	require.NoError(t, err)
	require.True(t, ok)
	// Bram and Daan have lower ratios but are cooking and absent
	require.Equal(t, "Anna", name)
}

func TestSuggestCookNobodyAvailable(t *testing.T) {
	attendance := Attendance{Cooking: []string{"A"}, Absent: []string{"B"}}
	ratios := MetricSeries{{Value: 0, Name: "B"}, {Value: 1, Name: "A"}}

	_, ok := SuggestCook(attendance, ratios)
	require.False(t, ok)
}

func TestParserSubmitByName(t *testing.T) {
	fake := newFakeEetlijst(t)

	parser, err := New(context.Background(), fake.Transport(t), Options{Credentials: fake.Credentials()})
	require.NoError(t, err)

	sent, err := parser.SubmitByName(context.Background(), "Cees", EATING)
	require.NoError(t, err)
	require.Equal(t, 2, sent.PersonIndex)

	_, err = parser.SubmitByName(context.Background(), "Eddie", EATING)
	require.ErrorIs(t, err, ErrUnknownPerson)

	posted := fake.Posted()
	require.Len(t, posted, 1)
	require.Equal(t, "2", posted[0].Get("who"))
	require.Equal(t, "1", posted[0].Get("what"))
}

func TestFromSessionOffline(t *testing.T) {
	session := NewSession("a1b2c3d4e5", loadFixture(t, "main.html"), loadFixture(t, "kosten.html"))

	parser, err := FromSession(nil, session, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"Cees"}, parser.Undecided())

	_, err = parser.Submit(context.Background(), 0, EATING)
	require.Error(t, err)
}

func TestFromSessionMissingHeader(t *testing.T) {
	session := NewSession("x", loadFixture(t, "main.html"), parseHTML(t, `<table></table>`))

	parser, err := FromSession(nil, session, Options{})
	require.Nil(t, parser)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}
