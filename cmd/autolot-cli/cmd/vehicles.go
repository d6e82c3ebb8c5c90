package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var vehiclesLimit int64

func init() {
	vehiclesCmd.Flags().Int64VarP(&vehiclesLimit, "limit", "n", 20, "maximum number of rows to print")
	rootCmd.AddCommand(vehiclesCmd)
}

var vehiclesCmd = &cobra.Command{
	Use:   "vehicles",
	Short: "Prints the most recently ingested vehicles.",
	Run: func(cmd *cobra.Command, args []string) {
		service, _ := setupService()

		vehicles, err := service.Vehicles(cmd.Context(), vehiclesLimit)
		if err != nil {
			fatal("failed to list vehicles", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Slug", "Title", "Year", "Price", "Mileage", "Drive", "Fuel"})

		for _, v := range vehicles {
			t.AppendRow(table.Row{
				v.Slug,
				v.Title,
				v.ProductionYear,
				v.Price,
				v.Mileage,
				v.Drive,
				v.FuelType,
			})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
