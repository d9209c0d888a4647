package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ist-ho/progdash/internal/utils"
	"github.com/ist-ho/progdash/pkg/filter"
	"github.com/ist-ho/progdash/pkg/pipeline"
	"github.com/ist-ho/progdash/pkg/report"
	"github.com/ist-ho/progdash/pkg/sheets"
)

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind %s: %v", key, err))
	}
}

// newLoader builds a Loader from the gsheets.* and fetch.* settings.
func newLoader() (*pipeline.Loader, error) {
	fetcher, err := sheets.NewFetcher(sheets.FetchOptions{
		Timeout: viper.GetDuration("fetch.timeout"),
		Retries: viper.GetInt("fetch.retries"),
		Proxy:   viper.GetString("fetch.proxy"),
	})
	if err != nil {
		return nil, &sheets.ConfigurationError{Key: "fetch.proxy", Value: viper.GetString("fetch.proxy"), Reason: err.Error()}
	}
	return pipeline.NewLoader(viper.GetString("gsheets.url"), fetcher)
}

// loadClassifier returns the protocol rule table from rules.path, or the
// built-in table when unset.
func loadClassifier() (report.Classifier, error) {
	path := viper.GetString("rules.path")
	if path == "" {
		return report.DefaultClassifier(), nil
	}
	c, err := report.LoadClassifier(path)
	if err != nil {
		return report.Classifier{}, &sheets.ConfigurationError{Key: "rules.path", Value: path, Reason: err.Error()}
	}
	utils.Log.WithField("rules", len(c.Rules)).Debug("Loaded protocol rules")
	return c, nil
}

// addFilterFlags registers one flag per filter dimension.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String(filter.ParamAnnex, filter.All, "Anexo SUSESO")
	cmd.Flags().String(filter.ParamProtocol, filter.All, "Protocolo")
	cmd.Flags().String(filter.ParamRegion, filter.AllFeminine, "Región")
	cmd.Flags().String(filter.ParamManagement, filter.All, "Gerencia - Cuentas Nacionales")
	cmd.Flags().String(filter.ParamKind, filter.All, "Tipo de evaluación (Cualitativa, Cuantitativa)")
	cmd.Flags().String(filter.ParamMonth, filter.All, "Mes (Enero..Diciembre)")
	cmd.Flags().String(filter.ParamCodelco, filter.All, "Faena Codelco")
	cmd.Flags().String(filter.ParamMaritimePort, filter.All, "Faena Marítimo - Portuaria")
}

func selectionFromFlags(cmd *cobra.Command) filter.Selection {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return filter.Selection{
		Annex:        get(filter.ParamAnnex),
		Protocol:     get(filter.ParamProtocol),
		Region:       get(filter.ParamRegion),
		Management:   get(filter.ParamManagement),
		Kind:         get(filter.ParamKind),
		Month:        get(filter.ParamMonth),
		Codelco:      get(filter.ParamCodelco),
		MaritimePort: get(filter.ParamMaritimePort),
	}
}
