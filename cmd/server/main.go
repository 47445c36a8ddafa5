package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/dawaa/internal/broker"
	"github.com/example/dawaa/internal/config"
	"github.com/example/dawaa/internal/database"
	"github.com/example/dawaa/internal/logger"
	"github.com/example/dawaa/internal/repository"
	"github.com/example/dawaa/internal/routes"
	"github.com/example/dawaa/internal/workflow"
)

func main() {
	cfg := config.Load()
	appLog := logger.New(cfg.LogLevel)
	db := database.Connect(cfg.DatabaseURL)

	var publisher *broker.Publisher
	var updates workflow.Subscription
	conn, err := broker.Connect(cfg.AMQPURL)
	if err != nil {
		appLog.WithError(err).Warn("broker unavailable, order pushes disabled")
	} else {
		defer conn.Close()
		publisher = broker.NewPublisher(conn, appLog.WithComponent("publisher"))
		updates = broker.NewConsumer(conn, appLog.WithComponent("consumer"))
	}

	engines := workflow.NewRegistry(repository.NewOrderRepository(db), updates, appLog.WithComponent("workflow"))
	defer engines.Close()

	app := fiber.New(fiber.Config{
		AppName: "Dawaa Backend",
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	routes.Register(app, db, cfg, appLog, engines, publisher)

	appLog.WithField("port", cfg.AppPort).Info("starting server")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
