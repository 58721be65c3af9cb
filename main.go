package main

import (
	"fmt"
	"log"

	"metalflow-app/config"
	"metalflow-app/controllers/idgen"
	"metalflow-app/database"
	"metalflow-app/migration"
	"metalflow-app/routes"
	"metalflow-app/utils"

	"github.com/gofiber/fiber/v2"
)

func main() {
	config.LoadConfig()
	utils.SetupLogger(config.LogLevel, config.LogFormat)

	app := fiber.New(fiber.Config{BodyLimit: 8 * 1024 * 1024})

	// Connect to database
	db, err := database.GetDBConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate models
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	if config.DBSeed {
		database.RunSeeders(db)
	}

	// Setup CORS middleware
	config.SetupCORS(app)
	routes.SetupRoutes(app, db)

	port := config.APP_PORT
	fmt.Println("🚀 Server berjalan di port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
