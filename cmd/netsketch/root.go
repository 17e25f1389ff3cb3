package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ha1tch/netsketch/internal/observability"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "netsketch",
	Short: "Work with network diagram files",
	Long: `netsketch renders, validates, and lays out network diagram files.

Diagrams are .json or .sketch files; use netsketchedit to edit them
interactively.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: netsketch.yml)")
	rootCmd.PersistentFlags().String("log-file", "", "write a JSON log to this file")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("netsketch")
		viper.SetConfigType("yml")
		viper.AddConfigPath(".")
	}

	viper.SetDefault("log.level", "info")
	viper.SetDefault("render.width", 800)
	viper.SetDefault("render.height", 600)

	viper.AutomaticEnv()
	_ = viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		}
	}
}

// newLogger builds the CLI logger from config. Console output goes to
// stderr so piped command output stays clean.
func newLogger() *zap.Logger {
	cfg := observability.DefaultConfig()
	cfg.File = viper.GetString("log.file")
	if lvl := viper.GetString("log.level"); lvl != "" {
		cfg.Level = lvl
	}
	cfg.Console = cfg.File == ""
	return observability.NewLogger(cfg)
}
