package eetlijst

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Metric struct {
	Value float64
	Name  string
}

// MetricSeries has one entry per person, sorted ascending by value. Equal
// values keep the name order of the list.
type MetricSeries []Metric

func (s MetricSeries) Names() []string {
	names := make([]string, len(s))
	for i, m := range s {
		names[i] = m.Name
	}
	return names
}

func newSeries(names []string, values []float64) MetricSeries {
	series := make(MetricSeries, len(names))
	for i, name := range names {
		series[i] = Metric{Value: values[i], Name: name}
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Value < series[j].Value
	})
	return series
}

// rowCells finds the row and returns the cells picked by cells, failing when
// there are fewer cells than persons.
func rowCells(doc *goquery.Document, a anchor, persons int, cells func(row *goquery.Selection) *goquery.Selection) (*goquery.Selection, error) {
	row, err := a.find(doc)
	if err != nil {
		return nil, err
	}

	selected := cells(row)
	if selected.Length() < persons {
		return nil, parseErrorf(a.name, "%d cells for %d persons", selected.Length(), persons)
	}
	return selected, nil
}

func rightCells(row *goquery.Selection) *goquery.Selection {
	return row.Find("td.r")
}

// rightCellsWithoutTotal drops the trailing column, which is not a person.
func rightCellsWithoutTotal(row *goquery.Selection) *goquery.Selection {
	cells := row.Find("td.r")
	if cells.Length() == 0 {
		return cells
	}
	return cells.Slice(0, cells.Length()-1)
}

// balanceCells skips the two label columns in front of the amounts.
func balanceCells(row *goquery.Selection) *goquery.Selection {
	cells := row.Find("td")
	if cells.Length() < 2 {
		return cells.Slice(0, 0)
	}
	return cells.Slice(2, cells.Length())
}

func parseInts(a anchor, cells *goquery.Selection, persons int) ([]float64, error) {
	values := make([]float64, persons)
	for i := 0; i < persons; i++ {
		text := strings.TrimSpace(cells.Eq(i).Text())
		v, err := strconv.Atoi(text)
		if err != nil {
			return nil, &DataError{Anchor: a.name, Index: i, Text: text, Err: err}
		}
		values[i] = float64(v)
	}
	return values, nil
}

func parseDecimals(a anchor, cells *goquery.Selection, persons int) ([]float64, error) {
	values := make([]float64, persons)
	for i := 0; i < persons; i++ {
		text := strings.TrimSpace(cells.Eq(i).Text())
		v, err := parseDecimal(text)
		if err != nil {
			return nil, &DataError{Anchor: a.name, Index: i, Text: text, Err: err}
		}
		values[i] = v
	}
	return values, nil
}

// parseDecimal reads a number written with a comma as decimal separator,
// "1,50" is 1.5.
func parseDecimal(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

var errNotFinite = errors.New("not a finite number")

// ExtractRatios returns times cooked divided by times eaten per person. A
// person that never ate has ratio 0.
func ExtractRatios(statistics *goquery.Document, names []string) (MetricSeries, error) {
	cookedCells, err := rowCells(statistics, cookedRow, len(names), rightCells)
	if err != nil {
		return nil, err
	}
	eatenCells, err := rowCells(statistics, eatenRow, len(names), rightCells)
	if err != nil {
		return nil, err
	}

	cooked, err := parseInts(cookedRow, cookedCells, len(names))
	if err != nil {
		return nil, err
	}
	eaten, err := parseInts(eatenRow, eatenCells, len(names))
	if err != nil {
		return nil, err
	}

	ratios := make([]float64, len(names))
	for i := range names {
		if eaten[i] == 0 {
			ratios[i] = 0.0
			continue
		}
		ratios[i] = cooked[i] / eaten[i]
	}

	return newSeries(names, ratios), nil
}

// ExtractCosts returns the average cost per meal each person cooked for.
func ExtractCosts(statistics *goquery.Document, names []string) (MetricSeries, error) {
	cells, err := rowCells(statistics, costRow, len(names), rightCellsWithoutTotal)
	if err != nil {
		return nil, err
	}

	costs, err := parseDecimals(costRow, cells, len(names))
	if err != nil {
		return nil, err
	}
	return newSeries(names, costs), nil
}

func ExtractPoints(statistics *goquery.Document, names []string) (MetricSeries, error) {
	cells, err := rowCells(statistics, pointsRow, len(names), rightCellsWithoutTotal)
	if err != nil {
		return nil, err
	}

	points, err := parseInts(pointsRow, cells, len(names))
	if err != nil {
		return nil, err
	}
	return newSeries(names, points), nil
}

// ExtractBalance returns what each person is owed (positive) or owes
// (negative).
func ExtractBalance(statistics *goquery.Document, names []string) (MetricSeries, error) {
	cells, err := rowCells(statistics, balanceRow, len(names), balanceCells)
	if err != nil {
		return nil, err
	}

	balance, err := parseDecimals(balanceRow, cells, len(names))
	if err != nil {
		return nil, err
	}
	return newSeries(names, balance), nil
}
