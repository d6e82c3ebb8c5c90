package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <listing page url>...",
	Short: "Ingests every vehicle listing found on the given pages.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, _ := setupService()

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Run", "Page", "Created", "Duplicates", "Failures"})

		failed := false
		for _, pageURL := range args {
			report, err := service.Ingest(cmd.Context(), pageURL)
			if err != nil {
				t.AppendRow(table.Row{report.RunID, pageURL, "-", "-", err.Error()})
				failed = true
				continue
			}
			t.AppendRow(table.Row{
				report.RunID,
				pageURL,
				report.Created,
				report.Duplicates,
				len(report.Failures),
			})
			for _, failure := range report.Failures {
				t.AppendRow(table.Row{"", failure.SourceURL, "", "", failure.Reason})
			}
		}

		t.SetStyle(table.StyleRounded)
		t.Render()

		if failed {
			os.Exit(1)
		}
	},
}
