package main

import (
	"coursely/config"
	"coursely/database"
	courseRoutes "coursely/routers/courseRoutes"
	paymentRoutes "coursely/routers/paymentRoutes"
	reportRoutes "coursely/routers/reportRoutes"
	"coursely/services/progress"
	"coursely/utils"

	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	progress.Init(database.Database.Db, config.AppConfig.ProgressAPIURL)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	courseRoutes.SetupCourseRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	reportRoutes.SetupReportRoutes(app)

	utils.InitializeCertificateScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
