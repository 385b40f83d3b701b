package main

import (
	"log"

	"vtu/config"
	giftController "vtu/controllers/gift"
	vtuController "vtu/controllers/vtu"
	"vtu/database"
	giftRoutes "vtu/routers/giftRoutes"
	planRoutes "vtu/routers/planRoutes"
	scheduleRoutes "vtu/routers/scheduleRoutes"
	vtuRoutes "vtu/routers/vtuRoutes"
	walletRoutes "vtu/routers/walletRoutes"
	"vtu/services"
	"vtu/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	provider := services.NewVTPassClient()
	purchases := services.NewPurchaseService(database.Database.Db, provider, utils.EmailNotifier{})
	gifts := services.NewGiftService(database.Database.Db, purchases)

	vtuController.Init(purchases)
	giftController.Init(gifts)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	walletRoutes.SetupWalletRoutes(app)
	vtuRoutes.SetupVtuRoutes(app)
	scheduleRoutes.SetupScheduleRoutes(app)
	giftRoutes.SetupGiftRoutes(app)
	planRoutes.SetupPlanRoutes(app)

	if config.AppConfig.SchedulerEnabled {
		utils.InitializePurchaseScheduler(purchases)
	}

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
