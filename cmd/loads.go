package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ist-ho/progdash/pkg/sheets"
	"github.com/ist-ho/progdash/pkg/storage"
)

// loadsCmd represents the loads command
var loadsCmd = &cobra.Command{
	Use:   "loads",
	Short: "Print recent spreadsheet load attempts recorded by the server.",
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlag("db.path", cmd.Flags().Lookup("dbpath"))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("db.path")
		if path == "" {
			return &sheets.ConfigurationError{Key: "db.path", Reason: "not set"}
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", path)
		}

		db, err := storage.Open(path)
		if err != nil {
			return err
		}
		defer db.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := db.ListLoads(context.Background(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No loads recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "STARTED\tSTATUS\tDURATION\tROWS\tEVENTS\tERROR")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
				r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Status(),
				r.Duration.Round(time.Millisecond), r.RawRows, r.Events, r.Error)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(loadsCmd)
	loadsCmd.Flags().String("dbpath", "", "SQLite file written by serve --dbpath")
	loadsCmd.Flags().Int("limit", 20, "Number of loads to show")
}
