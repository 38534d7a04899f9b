package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lineoa/line-msg-api/config"
)

var rootCmd = &cobra.Command{
	Use:   "line-msg-api",
	Short: "LINE webhook receiver with a Google Sheets message log",
	Long: `Receives LINE Messaging API webhook events, replies to the sender
(echo mode per user) and appends every message to a Google Sheet.`,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cobra.OnInitialize(initEnvConfig)
}

func initEnvConfig() {
	config.Load()

	if config.AppDebug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}
