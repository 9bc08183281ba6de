package handlers

import (
	"errors"
	"net/url"

	"video_library_service/internal/library/app"
	"video_library_service/internal/library/domain"
	"video_library_service/internal/library/engine"
	"video_library_service/pkg/logger"
	"video_library_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DefaultPrefix preference namespace used when the request has none
const DefaultPrefix = "library"

// LibraryHandler 影片庫 REST handler
type LibraryHandler struct {
	Usecase app.LibraryUseCase
}

// NewLibraryHandler create library handler
func NewLibraryHandler(uc app.LibraryUseCase) *LibraryHandler {
	return &LibraryHandler{Usecase: uc}
}

// viewerFrom 由 middleware 寫入的 locals 組出 Viewer
func viewerFrom(locals func(key string) any) domain.Viewer {
	id, _ := locals(middlewares.TokenViewerID).(string)
	role, _ := locals(middlewares.TokenRole).(string)
	maxOrder, _ := locals(middlewares.TokenMaxOrder).(*int)
	if id == "" {
		return domain.Guest()
	}
	if role == "" {
		role = string(domain.RoleMember)
	}
	return domain.Viewer{ID: id, Role: domain.Role(role), MaxOrder: maxOrder}
}

func ctxViewer(c *fiber.Ctx) domain.Viewer {
	return viewerFrom(func(key string) any { return c.Locals(key) })
}

func queryValues(c *fiber.Ctx) url.Values {
	values, err := url.ParseQuery(string(c.Context().QueryArgs().QueryString()))
	if err != nil {
		logger.Log.Debug("malformed query string", zap.String("path", c.Path()), zap.Error(err))
	}
	return values
}

func prefixOf(c *fiber.Ctx) string {
	return c.Query("prefix", DefaultPrefix)
}

// writeError 將 domain 錯誤轉成 HTTP 狀態碼
func writeError(c *fiber.Ctx, err error) error {
	code, msg := fiber.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, domain.ErrVideoNotFound):
		code, msg = fiber.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrAnonymousViewer):
		code, msg = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrInvalidPrefix):
		code, msg = fiber.StatusBadRequest, err.Error()
	default:
		logger.Log.Error("library request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

// ListVideos godoc
// @Summary Query the video library
// @Description Runs search, facet filters, favorites, sort and pagination over the viewer's snapshot. The query string round-trips through query_string.
// @Tags Library
// @Produce json
// @Param prefix query string false "Preference namespace" default(library)
// @Param filters query string false "JSON array of kind:id tokens"
// @Param curriculums query string false "JSON array of curriculum ids"
// @Param search query string false "Free text search"
// @Param mode query string false "and | or"
// @Param page query int false "Page number"
// @Param per_page query int false "12 | 24 | 48 | 96"
// @Param sort query string false "Sort key"
// @Param dir query string false "asc | desc"
// @Param favorites query bool false "Favorites only"
// @Success 200 {object} domain.QueryResult
// @Router /library/videos [get]
func (h *LibraryHandler) ListVideos(c *fiber.Ctx) error {
	viewer := ctxViewer(c)
	base := h.Usecase.BaseState(c.UserContext(), viewer, prefixOf(c))
	st := engine.ParseQuery(queryValues(c), base)

	res := h.Usecase.Query(c.UserContext(), viewer, st)
	res.QueryString = engine.BuildQuery(res.State, base)
	return c.JSON(res)
}

// Facets godoc
// @Summary Filter options visible to the viewer
// @Tags Library
// @Produce json
// @Success 200 {object} domain.Facets
// @Router /library/facets [get]
func (h *LibraryHandler) Facets(c *fiber.Ctx) error {
	return c.JSON(h.Usecase.Facets(c.UserContext(), ctxViewer(c)))
}

// Status godoc
// @Summary Load status and circuit breaker state
// @Tags Library
// @Produce json
// @Success 200 {object} app.StatusReport
// @Router /library/status [get]
func (h *LibraryHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.Usecase.Status())
}

// Refresh godoc
// @Summary Drop the cached catalog
// @Tags Library
// @Success 202
// @Failure 403 {object} map[string]string
// @Router /library/refresh [post]
func (h *LibraryHandler) Refresh(c *fiber.Ctx) error {
	h.Usecase.Refresh()
	return c.SendStatus(fiber.StatusAccepted)
}

// AddFavorite godoc
// @Summary Mark a video as favorite
// @Tags Library
// @Param id path string true "Video ID"
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /library/videos/{id}/favorite [post]
func (h *LibraryHandler) AddFavorite(c *fiber.Ctx) error {
	if err := h.Usecase.AddFavorite(c.UserContext(), ctxViewer(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveFavorite godoc
// @Summary Unmark a favorite video
// @Tags Library
// @Param id path string true "Video ID"
// @Success 204
// @Failure 401 {object} map[string]string
// @Router /library/videos/{id}/favorite [delete]
func (h *LibraryHandler) RemoveFavorite(c *fiber.Ctx) error {
	if err := h.Usecase.RemoveFavorite(c.UserContext(), ctxViewer(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecordView godoc
// @Summary Record one view of a video
// @Tags Library
// @Param id path string true "Video ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /library/videos/{id}/view [post]
func (h *LibraryHandler) RecordView(c *fiber.Ctx) error {
	if err := h.Usecase.RecordView(c.UserContext(), ctxViewer(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPreferences godoc
// @Summary Saved view preferences
// @Tags Preferences
// @Produce json
// @Param prefix path string true "Preference namespace"
// @Success 200 {object} domain.Preferences
// @Failure 400 {object} map[string]string
// @Router /library/preferences/{prefix} [get]
func (h *LibraryHandler) GetPreferences(c *fiber.Ctx) error {
	p, err := h.Usecase.GetPreferences(c.UserContext(), ctxViewer(c), c.Params("prefix"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}

// SavePreferences godoc
// @Summary Save view preferences
// @Tags Preferences
// @Accept json
// @Produce json
// @Param prefix path string true "Preference namespace"
// @Param body body domain.Preferences true "Preferences"
// @Success 200 {object} domain.Preferences
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /library/preferences/{prefix} [put]
func (h *LibraryHandler) SavePreferences(c *fiber.Ctx) error {
	var p domain.Preferences
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	p.Prefix = c.Params("prefix")

	saved, err := h.Usecase.SavePreferences(c.UserContext(), ctxViewer(c), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(saved)
}
