package handlers

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the circulation API under /api/v1.
func RegisterRoutes(app *fiber.App, circulation *CirculationHandler, inventory *InventoryHandler, users *UsersHandler, stats *StatsHandler) {
	api := app.Group("/api/v1")

	api.Get("/health", circulation.HealthCheck)

	api.Post("/borrow", circulation.Borrow)
	api.Post("/borrow/return/:book_id", circulation.Return)
	api.Get("/borrow/my-books", circulation.MyBooks)
	api.Get("/borrow/history", circulation.History)

	api.Get("/books/:book_id/availability", circulation.Availability)
	api.Put("/books/:book_id/circulation", circulation.SetCirculationFlag)

	api.Post("/inventory", inventory.Create)
	api.Get("/inventory", inventory.List)
	api.Get("/inventory/:book_id", inventory.Get)
	api.Put("/inventory/:book_id", inventory.Update)
	api.Delete("/inventory/:book_id", inventory.Delete)

	api.Get("/users", users.List)
	api.Put("/users/:user_id/role", users.UpdateRole)

	api.Get("/stats/librarian", stats.LibrarianStats)
}
