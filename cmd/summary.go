package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ist-ho/progdash/pkg/pipeline"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Load the spreadsheet once and print the headline figures.",
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
		printSummary(os.Stdout, view)
		return nil
	},
}

func printSummary(out io.Writer, view pipeline.View) {
	if view.Matched == 0 {
		fmt.Fprintln(out, "No evaluations match the selected filters.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "%s\t%d\n", view.Summary.Label, view.Summary.Total)
	fmt.Fprintf(w, "Cualitativas\t%d\n", view.Summary.Qualitative)
	fmt.Fprintf(w, "Cuantitativas\t%d\n", view.Summary.Quantitative)
	if view.Summary.BusiestMonth != "" {
		fmt.Fprintf(w, "Mes con más evaluaciones\t%s (%d)\n", view.Summary.BusiestMonth, view.Summary.BusiestMonthCount)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%s\n", view.Monthly.Title)
	w = tabwriter.NewWriter(out, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "MES\tTIPO\tCANTIDAD\t")
	for _, p := range view.Monthly.Points {
		fmt.Fprintf(w, "%s\t%s\t%d\t\n", p.MonthName, p.Kind, p.Count)
	}
	w.Flush()

	if len(view.TopProtocols) > 0 {
		fmt.Fprintln(out, "\nTop protocolos")
		w = tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		for i, p := range view.TopProtocols {
			fmt.Fprintf(w, "%d.\t%s\t%d\n", i+1, p.Label, p.Count)
		}
		w.Flush()
	}
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addFilterFlags(summaryCmd)
}
