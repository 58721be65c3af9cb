package routes

import (
	"metalflow-app/config"
	"metalflow-app/services"
	"metalflow-app/wms/pickinglist"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// panic di handler dijawab 500, server tetap jalan
	app.Use(recover.New())

	api := app.Group(config.MAIN_ROUTES)
	api.Get("/health", func(ctx *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx.UserContext())
		}
		if err != nil {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "message": "Database unavailable"})
		}
		return ctx.JSON(fiber.Map{"success": true, "message": "OK"})
	})

	// notifikasi email hanya aktif jika SMTP dikonfigurasi
	var notifier pickinglist.Notifier
	if svc := services.NewNotificationService(); svc != nil {
		notifier = svc
	}
	pickinglist.SetupPickingListRoutes(app, db, notifier)
}
