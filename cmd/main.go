package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/barryq93/promPGRestore/internal/app"
	"github.com/barryq93/promPGRestore/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg:  "message",
			logrus.FieldKeyTime: "timestamp",
		},
	})
	logger.SetOutput(os.Stdout)
	utils.SetLogLevel(logger, os.Getenv("LOG_LEVEL"))
	return logger
}

func newRootCommand(logger logrus.FieldLogger) *cobra.Command {
	var pushgatewayURL, configFile string

	cmd := &cobra.Command{
		Use:           "promPGRestore",
		Short:         "Push PostgreSQL database sizes of restored backups to a Pushgateway",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			reporter := app.NewPushReporter(pushgatewayURL)
			return app.NewApplication(configFile, reporter, app.WithLogger(logger)).Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&pushgatewayURL, "url", "u", "", "pushgateway url, e.g. http://10.150.24.6:9091")
	flags.StringVarP(&configFile, "config-file", "c", "", "databases INI file, e.g. databases.ini")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("config-file")
	return cmd
}

func main() {
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(logger).ExecuteContext(ctx); err != nil {
		logger.Errorf("Run failed: %v", err)
		stop()
		os.Exit(1)
	}
}
