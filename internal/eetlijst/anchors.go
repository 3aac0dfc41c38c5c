package eetlijst

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// anchor locates one row of an eetlijst page. Each anchor has its own
// fixture test so a layout change on the site breaks exactly one lookup.
type anchor struct {
	name   string
	locate func(doc *goquery.Document) *goquery.Selection
}

func (a anchor) find(doc *goquery.Document) (*goquery.Selection, error) {
	row := a.locate(doc)
	if row.Length() == 0 {
		return nil, parseErrorf(a.name, "anchor not found")
	}
	return row, nil
}

var (
	// header row with the person names, marked by its colspan=3 cell
	personHeader = anchor{
		name: "person header",
		locate: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find(`th[colspan="3"]`).First().Parent()
		},
	}

	// today's row on the main page, the parent of the second right aligned cell
	todayRow = anchor{
		name: "today row",
		locate: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find("td.r").Eq(1).Parent()
		},
	}

	cookedRow = labelRow("Aantal keer gekookt")
	eatenRow  = labelRow("Aantal keer meegegeten")
	costRow   = labelRow("Kookt gemiddeld voor (p.p.)")

	// cooking points sit on the last row whose label spans three columns
	pointsRow = anchor{
		name: "points row",
		locate: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find(`td.l[colspan="3"]`).Last().Parent()
		},
	}

	balanceRow = anchor{
		name: "balance row",
		locate: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find(`tr[bgcolor="#DDDDDD"]`).First()
		},
	}

	// today's entry in the day selector, its text reads "15 op 03". The
	// marker is matched with spaces around it so a person called Joop in
	// the who selector is not mistaken for a day.
	dayOption = anchor{
		name: "day option",
		locate: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find("option").FilterFunction(func(i int, s *goquery.Selection) bool {
				return strings.Contains(" "+strings.TrimSpace(s.Text())+" ", " op ")
			}).First()
		},
	}
)

// labelRow matches the row whose label cell text is exactly label, ignoring
// surrounding whitespace.
func labelRow(label string) anchor {
	return anchor{
		name: strings.ToLower(label) + " row",
		locate: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find("td").FilterFunction(func(i int, s *goquery.Selection) bool {
				return strings.TrimSpace(s.Text()) == label
			}).First().Parent()
		},
	}
}
