package router

import (
	"video_library_service/internal/library/api/handlers"
	"video_library_service/pkg/middlewares"
	"video_library_service/pkg/token"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewApp 建立使用 goccy/go-json 的 fiber app
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:     "library_service",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
}

// RegisterRoutes 注册影片庫相關的路由
// @title Video Library Service API
// @version 1.0
// @description Martial arts video library: facet filters, search, sort, pagination and live queries
// @host localhost:8084
// @BasePath /
func RegisterRoutes(r *fiber.App, library *handlers.LibraryHandler, live *handlers.LiveHandler) {
	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	r.Get("/", handlers.ConnectCheck)
	r.Post("/debug", middlewares.ViewerMiddleware(), middlewares.RequireRole(token.RoleAdmin), handlers.DebugLogFlag)

	libraryRoutes := r.Group("/library", middlewares.ViewerMiddleware())
	libraryRoutes.Get("/videos", library.ListVideos)
	libraryRoutes.Get("/facets", library.Facets)
	libraryRoutes.Get("/status", library.Status)
	libraryRoutes.Post("/videos/:id/favorite", library.AddFavorite)
	libraryRoutes.Delete("/videos/:id/favorite", library.RemoveFavorite)
	libraryRoutes.Post("/videos/:id/view", library.RecordView)
	libraryRoutes.Get("/preferences/:prefix", library.GetPreferences)
	libraryRoutes.Put("/preferences/:prefix", library.SavePreferences)
	libraryRoutes.Get("/ws", live.Upgrade, websocket.New(live.HandleConnection))

	libraryRoutes.Post("/refresh", middlewares.RequireRole(token.RoleAdmin), library.Refresh)
}
