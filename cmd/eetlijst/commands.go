package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/danielholmes839/eetlijst-bot/internal/config"
	"github.com/danielholmes839/eetlijst-bot/internal/eetlijst"
	"github.com/danielholmes839/eetlijst-bot/internal/logging"
	"github.com/danielholmes839/eetlijst-bot/internal/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"
)

type app struct {
	fs      afero.Fs
	envFile *string
}

// withParser logs in, runs fn and releases the transport.
func (a *app) withParser(ctx context.Context, fn func(p *eetlijst.Parser) error) (err error) {
	cfg, err := config.Load(a.fs, *a.envFile)
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.LogFormat, logging.FormatText, cfg.LogLevel)

	transport, closeTransport, err := cfg.NewTransport(logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeTransport())
	}()

	parser, err := eetlijst.New(ctx, transport, cfg.ParserOptions(logger))
	if err != nil {
		return err
	}
	return fn(parser)
}

func newTodayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Who cooks, who eats and who still has to sign up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withParser(cmd.Context(), func(p *eetlijst.Parser) error {
				_, err := fmt.Fprint(cmd.OutOrStdout(), report.Today(p.Attendance(), report.Plain))
				return err
			})
		},
	}
}

func newCookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cook",
		Short: "Who cooks today, or who should",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withParser(cmd.Context(), func(p *eetlijst.Parser) error {
				ratios, err := p.Ratios()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), report.Cook(p.Attendance(), ratios, report.Plain))
				return err
			})
		},
	}
}

type seriesSource interface {
	Ratios() (eetlijst.MetricSeries, error)
	Costs() (eetlijst.MetricSeries, error)
	Points() (eetlijst.MetricSeries, error)
	Balance() (eetlijst.MetricSeries, error)
}

// renderSeries extracts and formats the series called name.
func renderSeries(src seriesSource, name string) (string, error) {
	var (
		series eetlijst.MetricSeries
		format func(eetlijst.MetricSeries) string
		err    error
	)

	switch name {
	case "ratios":
		series, err = src.Ratios()
		format = report.Ratios
	case "costs":
		series, err = src.Costs()
		format = report.Costs
	case "points":
		series, err = src.Points()
		format = report.Points
	case "balance":
		series, err = src.Balance()
		format = report.Balance
	default:
		return "", fmt.Errorf("unknown series %q", name)
	}
	if err != nil {
		return "", err
	}
	return format(series), nil
}

func newSeriesCmd(a *app, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withParser(cmd.Context(), func(p *eetlijst.Parser) error {
				out, err := renderSeries(p, name)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			})
		},
	}
}

var statusArgs = map[string]eetlijst.AttendanceStatus{
	"eet":  eetlijst.EATING,
	"kook": eetlijst.COOKING,
	"nop":  eetlijst.ABSENT,
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <eet|kook|nop>",
		Short: "Sign a person up for today",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := statusArgs[args[1]]
			if !ok {
				return fmt.Errorf("unknown status %q, use eet, kook or nop", args[1])
			}

			return a.withParser(cmd.Context(), func(p *eetlijst.Parser) error {
				sent, err := p.SubmitByName(cmd.Context(), args[0], status)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), report.Sent(args[0], sent))
				return err
			})
		},
	}
}

// writePlayers prints a players file in list order, keeping known ids.
func writePlayers(w io.Writer, registry *eetlijst.Registry) error {
	players := yaml.MapSlice{}
	for _, person := range registry.Persons() {
		players = append(players, yaml.MapItem{Key: person.Name, Value: person.ExternalID})
	}

	data, err := yaml.Marshal(players)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Print a players.yaml with every name on the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withParser(cmd.Context(), func(p *eetlijst.Parser) error {
				return writePlayers(cmd.OutOrStdout(), p.Registry())
			})
		},
	}
}

func readPage(fs afero.Fs, path string) (*goquery.Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(data))
}

func newParseCmd(a *app) *cobra.Command {
	var mainFile, statsFile, playersFile string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse saved eetlijst pages without logging in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mainPage, err := readPage(a.fs, mainFile)
			if err != nil {
				return err
			}
			stats, err := readPage(a.fs, statsFile)
			if err != nil {
				return err
			}
			players, err := config.LoadPlayers(a.fs, playersFile)
			if err != nil {
				return err
			}

			parser, err := eetlijst.FromSession(nil, eetlijst.NewSession("", mainPage, stats), eetlijst.Options{ExternalIDs: players})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, report.Today(parser.Attendance(), report.Plain))
			for _, name := range []string{"ratios", "costs", "points", "balance"} {
				s, err := renderSeries(parser, name)
				if err != nil {
					return err
				}
				fmt.Fprint(out, s)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mainFile, "main", "./data/main.html", "saved main page")
	cmd.Flags().StringVar(&statsFile, "stats", "./data/kosten.html", "saved cost overview page")
	cmd.Flags().StringVar(&playersFile, "players", config.DefaultPlayersFile, "players file")
	return cmd
}
