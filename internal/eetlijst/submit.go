package eetlijst

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Transmission records an update that was sent to eetlijst. Eetlijst does
// not answer with anything that can be checked, so a Transmission says the
// request went out, not that the list changed.
type Transmission struct {
	PersonIndex int
	Status      AttendanceStatus
	Code        string
	Day         string
	SentAt      time.Time
}

// TodayValue returns the form value of today's option in the day selector
// of the main page. The value is posted, never the option text.
func TodayValue(main *goquery.Document) (string, error) {
	option, err := dayOption.find(main)
	if err != nil {
		return "", err
	}

	value, ok := option.Attr("value")
	if !ok || strings.TrimSpace(value) == "" {
		return "", parseErrorf(dayOption.name, "option %q has no value", strings.TrimSpace(option.Text()))
	}
	return value, nil
}

// Submit sets the status of the person at personIndex for today.
func Submit(ctx context.Context, transport Transport, session *Session, persons, personIndex int, status AttendanceStatus) (Transmission, error) {
	if personIndex < 0 || personIndex >= persons {
		return Transmission{}, fmt.Errorf("%w: index %d of %d", ErrUnknownPerson, personIndex, persons)
	}

	code, err := status.Code()
	if err != nil {
		return Transmission{}, err
	}

	day, err := TodayValue(session.Main)
	if err != nil {
		return Transmission{}, err
	}

	form := url.Values{
		"session_id":       {session.Token},
		"who":              {strconv.Itoa(personIndex)},
		"what":             {code},
		"day[]":            {day},
		"submitwithform.x": {"1"},
	}

	if _, err := transport.PostForm(ctx, mainPath, form); err != nil {
		return Transmission{}, err
	}

	return Transmission{
		PersonIndex: personIndex,
		Status:      status,
		Code:        code,
		Day:         day,
		SentAt:      time.Now(),
	}, nil
}
