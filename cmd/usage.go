package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Summarize model calls, tokens and cost per task and model",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		a := newApplication()

		totals, err := a.usage.Summarize()
		if err != nil {
			a.logger.Fatal("reading the usage log", zap.Error(err))
		}
		if len(totals) == 0 {
			a.logger.Info("no model calls recorded yet", zap.String("path", a.usage.Path()))
			return
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TASK\tMODEL\tCALLS\tTOKENS\tCOST USD")

		var calls, tokens int
		var cost float64
		for _, t := range totals {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.6f\n", t.Task, t.Model, t.Calls, t.TotalTokens, t.CostUSD)
			calls += t.Calls
			tokens += t.TotalTokens
			cost += t.CostUSD
		}
		fmt.Fprintf(w, "TOTAL\t\t%d\t%d\t%.6f\n", calls, tokens, cost)
		w.Flush()

		if s, err := a.settings.Load(); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "\nCredit balance: $%.4f\n", s.CreditBalance)
		}
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
}
