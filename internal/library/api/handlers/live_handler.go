package handlers

import (
	"context"
	"net/url"
	"time"

	"video_library_service/internal/library/app"
	"video_library_service/internal/library/engine"
	"video_library_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const (
	localQuery  = "live_query"
	localPrefix = "live_prefix"
)

// LiveHandler 以 websocket 推送即時查詢結果
type LiveHandler struct {
	Usecase  app.LibraryUseCase
	Debounce time.Duration
}

// NewLiveHandler create live handler, debounce <= 0 uses the default
func NewLiveHandler(uc app.LibraryUseCase, debounce time.Duration) *LiveHandler {
	return &LiveHandler{Usecase: uc, Debounce: debounce}
}

// Upgrade 只接受 websocket 升級，並保留原始 query 給連線使用
func (h *LiveHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals(localQuery, queryValues(c))
	c.Locals(localPrefix, prefixOf(c))
	return c.Next()
}

// HandleConnection 是 WebSocket 連線的進入點
// @Summary Live library query
// @Description Sends the initial result, then one result per action. set_search actions are debounced.
// @Tags Library
// @Param prefix query string false "Preference namespace" default(library)
// @Router /library/ws [get]
func (h *LiveHandler) HandleConnection(conn *websocket.Conn) {
	viewer := viewerFrom(func(key string) any { return conn.Locals(key) })
	values, _ := conn.Locals(localQuery).(url.Values)
	prefix, _ := conn.Locals(localPrefix).(string)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	base := h.Usecase.BaseState(ctx, viewer, prefix)
	sess := app.NewLiveSession(h.Usecase, viewer, base, engine.ParseQuery(values, base), h.Debounce)

	logger.Log.Info("live session open", zap.String("viewer", viewer.ID), zap.String("prefix", prefix))
	err := sess.Run(ctx, conn)
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		logger.Log.Debug("live session ended", zap.String("viewer", viewer.ID), zap.Error(err))
	}
	logger.Log.Info("live session close", zap.String("viewer", viewer.ID))
}
