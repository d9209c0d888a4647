package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ist-ho/progdash/internal/metrics"
	"github.com/ist-ho/progdash/internal/server"
	"github.com/ist-ho/progdash/internal/utils"
	"github.com/ist-ho/progdash/pkg/auth"
	"github.com/ist-ho/progdash/pkg/pipeline"
	"github.com/ist-ho/progdash/pkg/sheets"
	"github.com/ist-ho/progdash/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlag("server.listen", cmd.Flags().Lookup("listen"))
		bindFlag("auth.username", cmd.Flags().Lookup("username"))
		bindFlag("auth.password_hash", cmd.Flags().Lookup("password-hash"))
		bindFlag("rules.path", cmd.Flags().Lookup("rules"))
		bindFlag("db.path", cmd.Flags().Lookup("dbpath"))
		bindFlag("cache.ttl", cmd.Flags().Lookup("ttl"))
		bindFlag("cache.refresh_interval", cmd.Flags().Lookup("refresh-interval"))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		classifier, err := loadClassifier()
		if err != nil {
			return err
		}
		authn, err := auth.FromConfig(viper.GetString("auth.username"), viper.GetString("auth.password_hash"))
		if err != nil {
			return &sheets.ConfigurationError{Key: "auth.password_hash", Reason: err.Error()}
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := metrics.New(reg)
		loader.Metrics = m

		cfg := server.Config{
			Classifier: classifier,
			Auth:       authn,
			Metrics:    m,
			Gatherer:   reg,
		}

		if path := viper.GetString("db.path"); path != "" {
			db, err := storage.Open(path)
			if err != nil {
				return err
			}
			defer db.Close()
			loader.Recorder = db
			cfg.Loads = db
			utils.Log.WithField("db", path).Info("Recording load history")
		}

		ttl := viper.GetDuration("cache.ttl")
		if ttl <= 0 {
			ttl = sheets.DefaultTTL
		}
		cfg.Service = pipeline.NewService(loader, ttl, m)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if interval := viper.GetDuration("cache.refresh_interval"); interval > 0 {
			go pipeline.NewRefresher(cfg.Service, interval).Run(ctx)
		}

		return server.New(cfg).Start(ctx, viper.GetString("server.listen"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("username", "", "Basic auth username (empty disables auth)")
	serveCmd.Flags().String("password-hash", "", "bcrypt hash of the basic auth password (see hash-password)")
	serveCmd.Flags().String("rules", "", "YAML file with protocol counting rules")
	serveCmd.Flags().String("dbpath", "", "SQLite file for load history (empty disables it)")
	serveCmd.Flags().Duration("ttl", sheets.DefaultTTL, "How long a loaded spreadsheet is reused")
	serveCmd.Flags().Duration("refresh-interval", 0, "Reload the spreadsheet in the background at this interval (0 to disable)")
}
