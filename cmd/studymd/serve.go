package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gubarz/studymd/internal/config"
	"github.com/gubarz/studymd/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve patterns, blogs and activity over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	if err := viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if !logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}

	return server.New(st, logger).Run(ctx, config.GetAddr())
}
