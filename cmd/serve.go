package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default is :8000)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync() //nolint:errcheck

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-analyzer api", zap.String("version", version))

	svc, err := newService(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the analyzer", zap.Error(err))
	}

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	router := server.NewRouter(server.RouterDeps{
		Analyzer: svc,
		Logger:   logger,
		Config:   config.Server,
	})

	if err := server.Run(ctx, config.Server.Addr, router, logger); err != nil {
		logger.Fatal("serving http", zap.Error(err))
	}

	logger.Info("server exiting")
}
