package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ist-ho/progdash/internal/utils"
	"github.com/ist-ho/progdash/pkg/sheets"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "progdash",
	Short: "Reporting dashboard for the Programación 2026 evaluation schedule.",
	Long: `progdash reads the Programación 2026 spreadsheet straight from its Google Sheets
CSV export and reports scheduled qualitative and quantitative evaluations by
month, protocol, region and work center.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := utils.SetLogLevel(viper.GetString("log.level")); err != nil {
			return err
		}
		utils.SetLogFormat(viper.GetString("log.format"))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var cfgErr *sheets.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(os.Stderr, "Configuration error:", cfgErr)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.progdash.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("logformat", "text", "Log format: text or json")
	rootCmd.PersistentFlags().String("sheet-url", "", "Google Sheets URL of the Programación 2026 tab")
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().Duration("timeout", sheets.DefaultFetchTimeout, "Timeout for the spreadsheet download")
	rootCmd.PersistentFlags().Int("retries", 0, "Extra download attempts on transport errors and 5xx responses")

	bindFlag("log.level", rootCmd.PersistentFlags().Lookup("loglevel"))
	bindFlag("log.format", rootCmd.PersistentFlags().Lookup("logformat"))
	bindFlag("gsheets.url", rootCmd.PersistentFlags().Lookup("sheet-url"))
	bindFlag("fetch.proxy", rootCmd.PersistentFlags().Lookup("proxy"))
	bindFlag("fetch.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	bindFlag("fetch.retries", rootCmd.PersistentFlags().Lookup("retries"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".progdash")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PROGDASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			utils.Log.WithError(err).Warn("Could not read config file")
		}
	} else {
		utils.Log.WithField("file", viper.ConfigFileUsed()).Debug("Using config file")
	}

	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("cache.ttl", sheets.DefaultTTL)
	viper.SetDefault("auth.username", "")
	viper.SetDefault("auth.password_hash", "")
	viper.SetDefault("db.path", "")
	viper.SetDefault("rules.path", "")
}
