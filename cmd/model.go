package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/billingtt/ppol670-spatial/internal/model"
)

var modelTable string

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Fit the count-on-zonal-mean regression from a table CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := loadTable(modelTable)
		if err != nil {
			return err
		}

		fit, err := model.FitCountOnMean(rows)
		if err != nil {
			return err
		}

		pr := message.NewPrinter(language.English)
		pr.Printf("n=%d dropped=%d\n", fit.N, fit.Dropped)
		pr.Printf("alpha=%.6f\n", fit.Alpha)
		pr.Printf("beta=%.6f\n", fit.Beta)
		pr.Printf("r2=%.6f\n", fit.R2)
		return nil
	},
}

func init() {
	modelCmd.Flags().StringVar(&modelTable, "table", "", "aggregate table CSV (required)")
	_ = modelCmd.MarkFlagRequired("table")
	rootCmd.AddCommand(modelCmd)
}
