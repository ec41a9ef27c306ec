package main

import (
	"fmt"
	"os"

	"ichor/summary"
	"ichor/summary/defs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "summary",
	Short:         "Summarise CareLink CGM exports into time in range by pump mode",
	Long:          "Reads InsulinData.csv and CGMData.csv and writes the manual and auto mode time in range table to Results.csv",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(logLevel)
		if err != nil {
			logger = zap.Must(zap.NewDevelopment())
			logger.Error("unable to create logger", zap.Error(err))
			return err
		}
		defer logger.Sync()

		config, err := defs.Load(configFile)
		if err != nil {
			logger.Error("unable to load config file", zap.String("file", configFile), zap.Error(err))
			return err
		}
		logger.Debug("loaded config file", zap.String("file", configFile), zap.Any("config", config))
		config.Logger = logger

		if err := summary.Run(config); err != nil {
			logger.Error("unable to summarise exports", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "f", "config.yaml", "config file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "info", "log level")

	// Errors from RunE are logged there. Flag errors happen before a logger exists.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.PrintErrln(err)
		return err
	})
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("unable to parse log level: %w", err)
	}
	config := zap.NewDevelopmentConfig()
	config.Level = lvl
	return config.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
