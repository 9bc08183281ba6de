package main

import (
	"video_library_service/internal/library/api/handlers"
	"video_library_service/internal/library/api/router"
)

// 此程式只用於 init swagger，服務入口在 cmd/library_service
// swag init -g main.go -o ./cmd/library_service/docs
func main() {
	app := router.NewApp()
	router.RegisterRoutes(app, &handlers.LibraryHandler{}, &handlers.LiveHandler{})
}
