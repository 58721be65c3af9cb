package pickinglist

import (
	"metalflow-app/config"
	"metalflow-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPickingListRoutes(app *fiber.App, db *gorm.DB, notifier Notifier) {
	svc := NewService(db)
	svc.Notifier = notifier
	handler := NewPickingListHandler(db, svc)

	api := app.Group(config.MAIN_ROUTES+"/picking-lists", middleware.AuthMiddleware)
	api.Post("/import/preview", handler.Preview)
	api.Post("/import/preview-file", handler.PreviewFile)
	api.Post("/import/commit", handler.Commit)
	api.Get("/", handler.GetAll)
	api.Get("/:id", handler.GetByID)
	api.Patch("/:id/status", handler.UpdateStatus)
}
