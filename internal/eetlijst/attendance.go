package eetlijst

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
)

const (
	EATING    = AttendanceStatus("EATING")
	COOKING   = AttendanceStatus("COOKING")
	ABSENT    = AttendanceStatus("ABSENT")
	UNDECIDED = AttendanceStatus("UNDECIDED")
)

type AttendanceStatus string

// Code is the value eetlijst expects in the "what" field of an update.
func (s AttendanceStatus) Code() (string, error) {
	switch s {
	case EATING:
		return "1", nil
	case COOKING:
		return "-1", nil
	case ABSENT:
		return "0", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedStatus, s)
}

var icons = map[string]AttendanceStatus{
	"eet.gif":  EATING,
	"kook.gif": COOKING,
	"nop.gif":  ABSENT,
}

func statusFromIcon(src string) AttendanceStatus {
	if status, ok := icons[src]; ok {
		return status
	}
	return UNDECIDED
}

// Attendance is today's list split by status. The four slices are disjoint
// and together hold every person on the list once.
type Attendance struct {
	Eating    []string
	Cooking   []string
	Absent    []string
	Undecided []string
}

func (a Attendance) Status(name string) (AttendanceStatus, bool) {
	lists := []struct {
		status AttendanceStatus
		names  []string
	}{
		{EATING, a.Eating},
		{COOKING, a.Cooking},
		{ABSENT, a.Absent},
		{UNDECIDED, a.Undecided},
	}
	for _, list := range lists {
		for _, n := range list.names {
			if n == name {
				return list.status, true
			}
		}
	}
	return "", false
}

// UndecidedResolver names the person behind an undecided icon. The icon
// title of an undecided person can not be trusted.
type UndecidedResolver interface {
	Resolve(names []string, classified mapset.Set[string]) (string, error)
}

// PositionalResolver assumes undecided icons appear in name order after the
// persons already classified, so the person is names[len(classified)].
// This only holds while eetlijst renders the icons in the same order as
// the statistics header.
type PositionalResolver struct{}

func (PositionalResolver) Resolve(names []string, classified mapset.Set[string]) (string, error) {
	i := classified.Cardinality()
	if i >= len(names) {
		return "", parseErrorf(todayRow.name, "undecided icon %d but only %d persons", i+1, len(names))
	}
	return names[i], nil
}

// ExtractAttendance reads today's icons from the main page.
func ExtractAttendance(main *goquery.Document, names []string, resolver UndecidedResolver) (Attendance, error) {
	row, err := todayRow.find(main)
	if err != nil {
		return Attendance{}, err
	}

	if resolver == nil {
		resolver = PositionalResolver{}
	}

	attendance := Attendance{}
	classified := mapset.NewThreadUnsafeSet[string]()

	for i, node := range row.Find("img").Nodes {
		img := goquery.NewDocumentFromNode(node).Selection
		src, _ := img.Attr("src")
		status := statusFromIcon(src)

		var person string
		if status == UNDECIDED {
			person, err = resolver.Resolve(names, classified)
			if err != nil {
				return Attendance{}, err
			}
		} else {
			title, ok := img.Attr("title")
			fields := strings.Fields(title)
			if !ok || len(fields) == 0 {
				return Attendance{}, parseErrorf(todayRow.name, "icon %d has no title", i)
			}
			person = fields[0]
		}

		// a person eating with guests has one icon per plate
		if classified.Contains(person) {
			continue
		}

		switch status {
		case EATING:
			attendance.Eating = append(attendance.Eating, person)
		case COOKING:
			attendance.Cooking = append(attendance.Cooking, person)
		case ABSENT:
			attendance.Absent = append(attendance.Absent, person)
		default:
			attendance.Undecided = append(attendance.Undecided, person)
		}
		classified.Add(person)
	}

	if err := attendance.check(names); err != nil {
		return Attendance{}, err
	}
	return attendance, nil
}

// check verifies the partition covers every name and nobody else.
func (a Attendance) check(names []string) error {
	expected := mapset.NewThreadUnsafeSet(names...)
	seen := mapset.NewThreadUnsafeSet[string]()

	for _, list := range [][]string{a.Eating, a.Cooking, a.Absent, a.Undecided} {
		for _, name := range list {
			if !expected.Contains(name) {
				return parseErrorf(todayRow.name, "%q is not on the list", name)
			}
			seen.Add(name)
		}
	}

	if missing := expected.Difference(seen); missing.Cardinality() > 0 {
		return parseErrorf(todayRow.name, "no status for %v", missing.ToSlice())
	}
	return nil
}
