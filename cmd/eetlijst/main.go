package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(afero.NewOsFs()).ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "eetlijst",
		Short:         "Read and update the household eetlijst",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with the eetlijst settings")

	app := &app{fs: fs, envFile: &envFile}

	root.AddCommand(newTodayCmd(app))
	root.AddCommand(newCookCmd(app))
	root.AddCommand(newSeriesCmd(app, "ratios", "Cook/eat ratio per person"))
	root.AddCommand(newSeriesCmd(app, "costs", "Average cost per meal per cook"))
	root.AddCommand(newSeriesCmd(app, "points", "Cooking points per person"))
	root.AddCommand(newSeriesCmd(app, "balance", "Balance per person"))
	root.AddCommand(newSetCmd(app))
	root.AddCommand(newSetupCmd(app))
	root.AddCommand(newParseCmd(app))
	return root
}
