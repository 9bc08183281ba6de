package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"video_library_service/internal/library/domain"
	"video_library_service/internal/library/engine"
	"video_library_service/pkg/logger"
	"video_library_service/pkg/metrics"

	"go.uber.org/zap"
)

// DefaultSearchDebounce 搜尋輸入的延遲時間
const DefaultSearchDebounce = 300 * time.Millisecond

// LiveConn websocket 連線的最小介面
type LiveConn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Close() error
}

// LiveMessage 推送給前端的訊息
type LiveMessage struct {
	Type   string              `json:"type"`
	Result *domain.QueryResult `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

const (
	liveResult = "result"
	liveError  = "error"
)

// LiveSession keeps one viewer's query state and pushes a fresh result after
// every applied action. Search actions are debounced: each one restarts the
// timer and only the last is applied.
type LiveSession struct {
	uc       LibraryUseCase
	viewer   domain.Viewer
	base     domain.QueryState
	state    domain.QueryState
	debounce time.Duration
}

// NewLiveSession 建立 LiveSession，debounce 非正值使用預設
func NewLiveSession(uc LibraryUseCase, viewer domain.Viewer, base, initial domain.QueryState, debounce time.Duration) *LiveSession {
	if debounce <= 0 {
		debounce = DefaultSearchDebounce
	}
	return &LiveSession{
		uc:       uc,
		viewer:   viewer,
		base:     base,
		state:    initial,
		debounce: debounce,
	}
}

// State returns the current query state, not safe while Run is active
func (s *LiveSession) State() domain.QueryState {
	return s.state
}

// Run serves the session until ctx is cancelled or the connection fails.
// conn is closed before Run returns.
func (s *LiveSession) Run(ctx context.Context, conn LiveConn) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	metrics.LiveSessions.Inc()
	defer metrics.LiveSessions.Dec()

	actions := make(chan engine.Action)
	readErr := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			var a engine.Action
			if err := conn.ReadJSON(&a); err != nil {
				readErr <- err
				return
			}
			select {
			case actions <- a:
			case <-ctx.Done():
				return
			}
		}
	}()
	defer func() {
		cancel()
		_ = conn.Close()
		wg.Wait()
	}()

	if err := s.push(ctx, conn); err != nil {
		return err
	}

	timer := time.NewTimer(s.debounce)
	stopTimer(timer)
	var pending *engine.Action

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-readErr:
			return err

		case a := <-actions:
			if a.Type == engine.ActionSetSearch {
				pending = &a
				stopTimer(timer)
				timer.Reset(s.debounce)
				continue
			}
			if err := s.apply(ctx, conn, a); err != nil {
				return err
			}

		case <-timer.C:
			if pending == nil {
				continue
			}
			a := *pending
			pending = nil
			if err := s.apply(ctx, conn, a); err != nil {
				return err
			}
		}
	}
}

// apply updates the state and pushes the new result. An invalid action is
// reported to the client and the session goes on.
func (s *LiveSession) apply(ctx context.Context, conn LiveConn, a engine.Action) error {
	next, err := engine.UpdateState(s.state, a)
	if err != nil {
		logger.Log.Debug("live session rejected action", zap.String("type", string(a.Type)), zap.Error(err))
		return conn.WriteJSON(LiveMessage{Type: liveError, Error: err.Error()})
	}
	s.state = next
	return s.push(ctx, conn)
}

func (s *LiveSession) push(ctx context.Context, conn LiveConn) error {
	res := s.uc.Query(ctx, s.viewer, s.state)
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	s.state = res.State
	res.QueryString = engine.BuildQuery(res.State, s.base)
	return conn.WriteJSON(LiveMessage{Type: liveResult, Result: &res})
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
