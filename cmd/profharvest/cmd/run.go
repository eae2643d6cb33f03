package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"profharvest/services/rankings"
	"profharvest/services/roster"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var outputPath string

func init() {
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "path of the combined JSON result file")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <university>",
	Short: "Run the full pipeline for a university (partial names allowed).",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		query := args[0]
		pipeline := setup(ctx)

		fmt.Printf("Searching for university matching: %s\n", query)

		result, err := pipeline.Run(ctx, query)
		if errors.Is(err, rankings.ErrNoMatch) {
			fmt.Println("No close match found on CS Open Rankings.")
			return
		}
		if err != nil {
			Fatal("run pipeline", err)
		}

		fmt.Printf("Best match: %s\n", result.MatchedUniversity)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Professor", "Subfield", "Links", "Count Verified", "Stage"})
		for _, rec := range result.Professors {
			t.AppendRow(table.Row{
				rec.Name,
				rec.Subfield,
				len(rec.ResultLinks),
				rec.CountVerified,
				rec.Stage.String(),
			})
		}
		t.Render()

		fmt.Printf(
			"%d professors found in the following subfields: %s\n",
			len(result.Professors),
			strings.Join(roster.AllowedSubfields, ", "),
		)

		path := outputPath
		if path == "" {
			path = pipeline.DefaultOutput()
		}
		err = result.WriteJSON(path)
		if err != nil {
			Fatal("write results", err)
		}
		fmt.Printf("Results written to %s\n", path)
	},
}
