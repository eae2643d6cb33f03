package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var matchLimit int

func init() {
	matchCmd.Flags().IntVarP(&matchLimit, "limit", "n", 10, "number of candidates to show")
	rootCmd.AddCommand(matchCmd)
}

var matchCmd = &cobra.Command{
	Use:   "match <university>",
	Short: "Show how the rankings table scores against a query, without harvesting anything.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		pipeline := setup(ctx)

		candidates, err := pipeline.ScoreCandidates(ctx, args[0])
		if err != nil {
			Fatal("score candidates", err)
		}
		if len(candidates) == 0 {
			fmt.Println("The rankings table came back empty.")
			return
		}
		if matchLimit > 0 && len(candidates) > matchLimit {
			candidates = candidates[:matchLimit]
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"University", "Score", "Jaro-Winkler"})
		for _, c := range candidates {
			t.AppendRow(table.Row{c.Name, fmt.Sprintf("%.3f", c.Score), fmt.Sprintf("%.3f", c.JaroWinkler)})
		}
		t.Render()
	},
}
