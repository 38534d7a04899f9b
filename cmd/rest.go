package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lineoa/line-msg-api/config"
	domainWebhook "github.com/lineoa/line-msg-api/domains/webhook"
	lineInfra "github.com/lineoa/line-msg-api/infrastructure/line"
	sheetsInfra "github.com/lineoa/line-msg-api/infrastructure/sheets"
	"github.com/lineoa/line-msg-api/pkg/eventworker"
	"github.com/lineoa/line-msg-api/repository"
	"github.com/lineoa/line-msg-api/ui/rest"
	"github.com/lineoa/line-msg-api/ui/rest/middleware"
	"github.com/lineoa/line-msg-api/usecase"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the LINE webhook over http",
	Run:   restServer,
}

func init() {
	restCmd.Flags().String("port", "", "Port to listen on (overrides APP_PORT)")
	rootCmd.AddCommand(restCmd)
}

func restServer(cmd *cobra.Command, _ []string) {
	if portFlag, _ := cmd.Flags().GetString("port"); portFlag != "" {
		config.AppPort = portFlag
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// LINE client is optional at startup: without credentials the webhook
	// endpoint rejects traffic with the configuration-error envelope, but
	// the logger-only endpoint still works.
	var chatClient domainWebhook.IChatClient
	if config.HasLineCredentials() {
		client, err := lineInfra.NewClient(config.LineChannelAccessToken)
		if err != nil {
			logrus.Fatalf("[REST] Failed to create LINE client: %v", err)
		}
		chatClient = client
	} else {
		logrus.Warn("[REST] LINE credentials not configured; webhook will answer with configuration errors")
		chatClient = lineInfra.NewNoopClient()
	}

	sheetClient := sheetsInfra.NewClient(ctx)
	echoRepo := repository.NewMemoryEchoStateRepository()

	pool := eventworker.NewPool(config.EventWorkerPoolSize, config.EventWorkerQueueSize)
	pool.Start(ctx)

	webhookService := usecase.NewWebhookService(chatClient, sheetClient, echoRepo, pool)

	app := fiber.New(fiber.Config{
		AppName:               "LINE Message Log API",
		DisableStartupMessage: false,
	})

	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(middleware.Recovery())
	if config.AppDebug {
		app.Use(logger.New())
	}

	group := app.Group(config.AppBasePath)
	rest.InitRestWebhook(group, webhookService)
	rest.InitRestApp(group, sheetClient.Configured, pool)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] Termination signal received, shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			logrus.Errorf("[REST] Error during Fiber shutdown: %v", err)
		}
		pool.Stop()
		cancel()
	}()

	if err := app.Listen(":" + config.AppPort); err != nil {
		logrus.Fatalf("[REST] Server stopped: %v", err)
	}
}
