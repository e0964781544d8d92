package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gubarz/studymd/internal/config"
	"github.com/gubarz/studymd/internal/logging"
)

var version = "0.2.0"

// logger is replaced once config is loaded
var logger = logging.New("info", "text")

var rootCmd = &cobra.Command{
	Use:   "studymd",
	Short: "Coding interview study guide toolkit",
	Long: `Turns a copied NeetCode-style study guide into a JS data table,
keeps progress in a local database, and serves it over HTTP.

Run "studymd parse" to regenerate the data file, "studymd browse"
to work through problems in the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(config.GetLogLevel(), config.GetLogFormat())
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(parseCmd, importCmd, dedupeCmd, browseCmd, activityCmd, serveCmd)

	rootCmd.PersistentFlags().String("db", "", "SQLite database path (default studymd.db)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")

	bindFlag("db", "db")
	bindFlag("log_level", "log-level")
	bindFlag("log_format", "log-format")
}

// bindFlag ties a persistent flag to a viper key; unset flags leave config values alone
func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).WithField("command", commandName()).Error("command failed")
		os.Exit(1)
	}
}

func commandName() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return rootCmd.Name()
}

// logCounts is the summary line every guide command ends with
func logCounts(msg string, categories, problems int) {
	logger.WithFields(logrus.Fields{
		"categories": categories,
		"problems":   problems,
	}).Info(msg)
}
