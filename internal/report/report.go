// Package report turns eetlijst data into the chat replies the bot and the
// cli print.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/danielholmes839/eetlijst-bot/internal/eetlijst"
)

const Unavailable = "Eetlijst is nu niet beschikbaar."

// Mention renders a person in a reply.
type Mention func(name string) string

func Plain(name string) string {
	return name
}

// Mentions renders a person as a discord mention when their id is known
// and by name otherwise.
func Mentions(ids map[string]string) Mention {
	return func(name string) string {
		if id, ok := ids[name]; ok && id != "" {
			return fmt.Sprintf("<@%s>", id)
		}
		return name
	}
}

// formatNames sorts names and joins them the dutch way, "Anna, Bram en Cees".
func formatNames(names []string, mention Mention) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	for i, name := range sorted {
		sorted[i] = mention(name)
	}

	if len(sorted) == 1 {
		return sorted[0]
	}
	return strings.Join(sorted[:len(sorted)-1], ", ") + " en " + sorted[len(sorted)-1]
}

// pick returns singular when there is one person and plural otherwise.
func pick(names []string, singular, plural string) string {
	if len(names) == 1 {
		return singular
	}
	return plural
}

func cooks(attendance eetlijst.Attendance, mention Mention) string {
	if len(attendance.Cooking) == 0 {
		return "Er gaat nog niemand koken."
	}
	return fmt.Sprintf("%s %s koken.", formatNames(attendance.Cooking, mention), pick(attendance.Cooking, "gaat", "gaan"))
}

// Today summarises who cooks, who eats and who still has to sign up.
func Today(attendance eetlijst.Attendance, mention Mention) string {
	var sb strings.Builder

	sb.WriteString(cooks(attendance, mention))
	sb.WriteString("\n")

	if len(attendance.Eating) > 0 {
		sb.WriteString(fmt.Sprintf("%s %s.\n", formatNames(attendance.Eating, mention), pick(attendance.Eating, "eet mee", "eten mee")))
	}

	if len(attendance.Undecided) > 0 {
		sb.WriteString(fmt.Sprintf("%s %s.\n", formatNames(attendance.Undecided, mention), pick(attendance.Undecided, "moet zich nog inschrijven", "moeten zich nog inschrijven")))
	}

	return sb.String()
}

// Cook says who is cooking. When nobody is, it shows the cook/eat ratios
// and suggests the eater with the lowest one.
func Cook(attendance eetlijst.Attendance, ratios eetlijst.MetricSeries, mention Mention) string {
	if len(attendance.Cooking) > 0 {
		return cooks(attendance, mention)
	}

	var sb strings.Builder
	sb.WriteString("Er gaat nog niemand koken, maar dit is de verhouding koken/eten:\n")
	writeSeries(&sb, ratios, ratio)

	if name, ok := eetlijst.SuggestCook(attendance, ratios); ok {
		sb.WriteString(fmt.Sprintf("Voorstel: %s gaat koken.\n", mention(name)))
	}
	return sb.String()
}

type valueFormat func(v float64) string

func points(v float64) string {
	return fmt.Sprintf("%d", int64(v))
}

func euro(v float64) string {
	return fmt.Sprintf("€%.2f", v)
}

func ratio(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func writeSeries(sb *strings.Builder, series eetlijst.MetricSeries, format valueFormat) {
	for _, m := range series {
		sb.WriteString(fmt.Sprintf("`%s` (%s)\n", format(m.Value), m.Name))
	}
}

func titled(title string, series eetlijst.MetricSeries, format valueFormat) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s:**\n", title))
	writeSeries(&sb, series, format)
	return sb.String()
}

func Points(series eetlijst.MetricSeries) string {
	return titled("Kookpunten", series, points)
}

func Costs(series eetlijst.MetricSeries) string {
	return titled("Gemiddelde kosten", series, euro)
}

func Ratios(series eetlijst.MetricSeries) string {
	return titled("Verhouding koken/eten", series, ratio)
}

func Balance(series eetlijst.MetricSeries) string {
	return titled("Saldo", series, euro)
}

var statusText = map[eetlijst.AttendanceStatus]string{
	eetlijst.EATING:  "eet mee",
	eetlijst.COOKING: "kookt",
	eetlijst.ABSENT:  "eet niet mee",
}

// Sent confirms an update went out. Eetlijst does not confirm it, so
// neither does the reply.
func Sent(name string, sent eetlijst.Transmission) string {
	return fmt.Sprintf("Verstuurd naar Eetlijst: %s %s vandaag. Controleer met /eetlijst of het is aangekomen.", name, statusText[sent.Status])
}
