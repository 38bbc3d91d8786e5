package main

import (
	"github.com/spf13/cobra"

	"github.com/shardedsql/qcoord/coordinator/app"
	"github.com/shardedsql/qcoord/pkg/config"
	"github.com/shardedsql/qcoord/pkg/qlog"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use: "qcoordd --config `path-to-config`",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rendered, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		qlog.UpdateLevel(config.Get().LogLevel)
		qlog.Zero.Info().Str("config", rendered).Msg("loaded coordinator config")

		registry := app.NewRegistry()
		a := app.NewApp(registry)

		err = a.Run()
		if err != nil {
			qlog.Zero.Error().Err(err).Msg("coordinator app exited")
		}
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "/etc/qcoord/config.toml", "path to config file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		qlog.Zero.Fatal().Err(err).Msg("qcoordd failed")
	}
}

func main() {
	Execute()
}
