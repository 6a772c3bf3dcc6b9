package internal

import (
	"net/http"
	"welcomer/internal/controllers"
	"welcomer/internal/providers"
)

func InitRoutes(events *controllers.EventController, admin *controllers.AdminController, logger providers.Logger) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider(logger)

	routers.Post("/events/connect", http.HandlerFunc(events.Connect))
	routers.Post("/events/disconnect", http.HandlerFunc(events.Disconnect))
	routers.Get("/outbox", http.HandlerFunc(events.Outbox))
	routers.Post("/players/toggle", http.HandlerFunc(events.Toggle))

	routers.Get("/themes", http.HandlerFunc(admin.Themes))
	routers.Get("/theme", http.HandlerFunc(admin.Theme))
	routers.Post("/theme", http.HandlerFunc(admin.SetTheme))
	routers.Get("/milestones", http.HandlerFunc(admin.Milestones))
	routers.Post("/players/reset", http.HandlerFunc(admin.Reset))
	routers.Get("/players/stats", http.HandlerFunc(admin.Stats))
	routers.Post("/animations/preview", http.HandlerFunc(admin.Preview))
	routers.Post("/reload", http.HandlerFunc(admin.Reload))
	return routers
}
