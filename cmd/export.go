package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ist-ho/progdash/internal/utils"
	"github.com/ist-ho/progdash/pkg/pipeline"
	"github.com/ist-ho/progdash/pkg/report"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the detailed evaluation table to an XLSX file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		classifier, err := loadClassifier()
		if err != nil {
			return err
		}
		snap, err := loader.Load(context.Background())
		if err != nil {
			return err
		}

		view := pipeline.BuildView(snap, selectionFromFlags(cmd), classifier)
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = view.Detail.FileName(time.Now())
		}

		f, err := os.Create(output)
		if err != nil {
			return err
		}
		if err := report.WriteXLSX(f, view.Detail); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", output, err)
		}
		if err := f.Close(); err != nil {
			return err
		}

		utils.Log.WithField("rows", len(view.Detail.Rows)).Info("Wrote " + output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Output file (default is the dated export name)")
}
