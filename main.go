package main

import (
	"ascend/config"
	"ascend/database"
	authRoutes "ascend/routers/authRoutes"
	catalogRoutes "ascend/routers/catalogRoutes"
	learnRoutes "ascend/routers/learnRoutes"
	protocolRoutes "ascend/routers/protocolRoutes"
	"ascend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"log"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE",      // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	catalogRoutes.SetupCatalogRoutes(app)
	learnRoutes.SetupLearnRoutes(app)
	protocolRoutes.SetupProtocolRoutes(app)

	// Daily protocol advancement job
	utils.InitializeProtocolScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
