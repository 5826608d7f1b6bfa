package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow-studio/internal/api/handlers"
	"github.com/maheshrc27/postflow-studio/internal/api/middleware"
	"github.com/maheshrc27/postflow-studio/internal/models"
)

type Handlers struct {
	User     *handlers.UserHandler
	Content  *handlers.ContentHandler
	Composer *handlers.ComposerHandler
	Post     *handlers.PostHandler
}

func RegisterRoutes(app *fiber.App, auth *middleware.AuthMiddleware, h Handlers) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Use(auth.AuthMiddleware())

	api.Get("/user/info", h.User.GetUserInfo)

	// content review, gated per item by capability
	api.Get("/content", h.Content.ListContent)
	api.Get("/content/:customerId/:contentId", h.Content.GetContentItem)
	api.Get("/content/:customerId/:contentId/comments", h.Content.ListComments)
	api.Patch("/content/:customerId/:contentId/status", h.Content.UpdateStatus)

	composer := api.Group("/composer", middleware.RequireRole(models.RoleAdmin))
	composer.Post("", h.Composer.OpenComposer)
	composer.Get("/attempts", h.Composer.ListAttempts)
	composer.Get("/:id", h.Composer.GetComposer)
	composer.Patch("/:id", h.Composer.UpdateComposer)
	composer.Delete("/:id", h.Composer.CloseComposer)
	composer.Post("/:id/media/toggle", h.Composer.ToggleMedia)
	composer.Post("/:id/media/select-all", h.Composer.SelectAllMedia)
	composer.Post("/:id/media/clear", h.Composer.ClearMedia)
	composer.Post("/:id/media/upload", h.Composer.UploadMedia)
	composer.Post("/:id/submit", h.Composer.SubmitComposer)

	posts := api.Group("/posts", middleware.RequireRole(models.RoleAdmin))
	posts.Get("", h.Post.ListPosts)
	posts.Post("/trigger", h.Post.TriggerDispatch)
	posts.Get("/:id/status", h.Post.PostStatus)
	posts.Delete("/:id", h.Post.RemovePost)
}
