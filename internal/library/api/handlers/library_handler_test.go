package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"video_library_service/internal/library/app"
	"video_library_service/internal/library/domain"
	"video_library_service/pkg/logger"
	"video_library_service/pkg/middlewares"
	"video_library_service/pkg/token"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const videoID = "11111111-1111-4111-8111-111111111111"

func newTestApp(uc *app.MockLibraryUseCase) *fiber.App {
	logger.SetNewNop()
	h := NewLibraryHandler(uc)
	r := fiber.New()
	g := r.Group("/library", middlewares.ViewerMiddleware())
	g.Get("/videos", h.ListVideos)
	g.Get("/facets", h.Facets)
	g.Get("/status", h.Status)
	g.Post("/refresh", middlewares.RequireRole(token.RoleAdmin), h.Refresh)
	g.Post("/videos/:id/favorite", h.AddFavorite)
	g.Delete("/videos/:id/favorite", h.RemoveFavorite)
	g.Post("/videos/:id/view", h.RecordView)
	g.Get("/preferences/:prefix", h.GetPreferences)
	g.Put("/preferences/:prefix", h.SavePreferences)
	return r
}

func authQuery(t *testing.T, id string, role token.RoleType, maxOrder *int) string {
	t.Helper()
	tok, err := token.GenerateJWT(id, role, maxOrder, "test")
	require.NoError(t, err)
	return "auth=" + tok
}

func send(t *testing.T, r *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := r.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func TestListVideos(t *testing.T) {
	t.Run("解析 query 並回填 query_string", func(t *testing.T) {
		uc := new(app.MockLibraryUseCase)
		r := newTestApp(uc)
		base := domain.DefaultQueryState()
		guest := domain.Guest()

		uc.On("BaseState", mock.Anything, guest, DefaultPrefix).Return(base).Once()
		uc.On("Query", mock.Anything, guest, mock.MatchedBy(func(st domain.QueryState) bool {
			return st.Search == "kata" && st.Mode == domain.ModeOr &&
				st.Selections.Has(domain.Selection{Kind: domain.KindCategory, ID: "c1"})
		})).Return(func() domain.QueryResult {
			st := base
			st.Search = "kata"
			st.Mode = domain.ModeOr
			st.Selections = domain.Selections{{Kind: domain.KindCategory, ID: "c1"}}
			return domain.QueryResult{Items: []domain.AnnotatedVideo{}, State: st, Status: domain.StatusReady, Empty: true}
		}()).Once()

		code, body := send(t, r, http.MethodGet, `/library/videos?search=kata&mode=or&filters=%5B%22c1%22%5D`, "")
		assert.Equal(t, fiber.StatusOK, code)

		var res domain.QueryResult
		require.NoError(t, json.Unmarshal(body, &res))
		assert.True(t, res.Empty)
		assert.Equal(t, domain.StatusReady, res.Status)
		assert.Contains(t, res.QueryString, "search=kata")
		assert.Contains(t, res.QueryString, "mode=OR")
		assert.Contains(t, res.QueryString, "filters=")
		uc.AssertExpectations(t)
	})

	t.Run("登入者帶入等級與偏好", func(t *testing.T) {
		uc := new(app.MockLibraryUseCase)
		r := newTestApp(uc)
		order := 2
		viewer := domain.Viewer{ID: "u1", Role: domain.RoleMember, MaxOrder: &order}
		base := domain.DefaultQueryState()
		base.ItemsPerPage = 48

		uc.On("BaseState", mock.Anything, viewer, "favorites").Return(base).Once()
		uc.On("Query", mock.Anything, viewer, mock.MatchedBy(func(st domain.QueryState) bool {
			return st.ItemsPerPage == 48 && st.Page == 2
		})).Return(domain.QueryResult{State: func() domain.QueryState { s := base; s.Page = 2; return s }()}).Once()

		code, body := send(t, r, http.MethodGet, "/library/videos?prefix=favorites&page=2&"+authQuery(t, "u1", token.RoleMember, &order), "")
		assert.Equal(t, fiber.StatusOK, code)

		var res domain.QueryResult
		require.NoError(t, json.Unmarshal(body, &res))
		assert.Equal(t, "page=2", res.QueryString)
	})
}

func TestFacetsAndStatus(t *testing.T) {
	uc := new(app.MockLibraryUseCase)
	r := newTestApp(uc)

	uc.On("Facets", mock.Anything, domain.Guest()).Return(domain.Facets{
		Categories: []domain.Category{{ID: "c1", Name: "Kata"}},
	}).Once()
	uc.On("Status").Return(app.StatusReport{Status: domain.StatusDegraded, Failures: 3}).Once()

	code, body := send(t, r, http.MethodGet, "/library/facets", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(body), `"Kata"`)

	code, body = send(t, r, http.MethodGet, "/library/status", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(body), `"status":"degraded"`)
	assert.Contains(t, string(body), `"failures":3`)
}

func TestRefresh(t *testing.T) {
	uc := new(app.MockLibraryUseCase)
	r := newTestApp(uc)

	t.Run("會員不能清除快取", func(t *testing.T) {
		code, _ := send(t, r, http.MethodPost, "/library/refresh?"+authQuery(t, "u1", token.RoleMember, nil), "")
		assert.Equal(t, fiber.StatusForbidden, code)
		uc.AssertNotCalled(t, "Refresh")
	})

	t.Run("管理員清除快取", func(t *testing.T) {
		uc.On("Refresh").Return().Once()
		code, _ := send(t, r, http.MethodPost, "/library/refresh?"+authQuery(t, "root", token.RoleAdmin, nil), "")
		assert.Equal(t, fiber.StatusAccepted, code)
		uc.AssertExpectations(t)
	})
}

func TestFavoriteAndView(t *testing.T) {
	member := domain.Viewer{ID: "u1", Role: domain.RoleMember}

	t.Run("新增收藏", func(t *testing.T) {
		uc := new(app.MockLibraryUseCase)
		r := newTestApp(uc)
		uc.On("AddFavorite", mock.Anything, member, videoID).Return(nil).Once()

		code, _ := send(t, r, http.MethodPost, "/library/videos/"+videoID+"/favorite?"+authQuery(t, "u1", token.RoleMember, nil), "")
		assert.Equal(t, fiber.StatusNoContent, code)
	})

	t.Run("訪客收藏回 401", func(t *testing.T) {
		uc := new(app.MockLibraryUseCase)
		r := newTestApp(uc)
		uc.On("AddFavorite", mock.Anything, domain.Guest(), videoID).Return(domain.ErrAnonymousViewer).Once()

		code, _ := send(t, r, http.MethodPost, "/library/videos/"+videoID+"/favorite", "")
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})

	t.Run("移除不存在的影片回 404", func(t *testing.T) {
		uc := new(app.MockLibraryUseCase)
		r := newTestApp(uc)
		uc.On("RemoveFavorite", mock.Anything, member, "nope").Return(domain.ErrVideoNotFound).Once()

		code, _ := send(t, r, http.MethodDelete, "/library/videos/nope/favorite?"+authQuery(t, "u1", token.RoleMember, nil), "")
		assert.Equal(t, fiber.StatusNotFound, code)
	})

	t.Run("記錄觀看", func(t *testing.T) {
		uc := new(app.MockLibraryUseCase)
		r := newTestApp(uc)
		uc.On("RecordView", mock.Anything, domain.Guest(), videoID).Return(nil).Once()

		code, _ := send(t, r, http.MethodPost, "/library/videos/"+videoID+"/view", "")
		assert.Equal(t, fiber.StatusNoContent, code)
	})

	t.Run("未知錯誤回 500 且不外洩訊息", func(t *testing.T) {
		uc := new(app.MockLibraryUseCase)
		r := newTestApp(uc)
		uc.On("RecordView", mock.Anything, domain.Guest(), videoID).Return(errors.New("pg: connection refused")).Once()

		code, body := send(t, r, http.MethodPost, "/library/videos/"+videoID+"/view", "")
		assert.Equal(t, fiber.StatusInternalServerError, code)
		assert.NotContains(t, string(body), "connection refused")
	})
}

func TestPreferencesHandler(t *testing.T) {
	member := domain.Viewer{ID: "u1", Role: domain.RoleMember}

	t.Run("讀取偏好", func(t *testing.T) {
		uc := new(app.MockLibraryUseCase)
		r := newTestApp(uc)
		uc.On("GetPreferences", mock.Anything, member, "library").
			Return(domain.DefaultPreferences("library", "u1"), nil).Once()

		code, body := send(t, r, http.MethodGet, "/library/preferences/library?"+authQuery(t, "u1", token.RoleMember, nil), "")
		assert.Equal(t, fiber.StatusOK, code)

		var p domain.Preferences
		require.NoError(t, json.Unmarshal(body, &p))
		assert.Equal(t, domain.ViewGrid, p.ViewMode)
		assert.Equal(t, domain.DefaultItemsPerPage, p.ItemsPerPage)
	})

	t.Run("prefix 不合法回 400", func(t *testing.T) {
		uc := new(app.MockLibraryUseCase)
		r := newTestApp(uc)
		uc.On("GetPreferences", mock.Anything, domain.Guest(), "bad$prefix").
			Return(domain.Preferences{}, domain.ErrInvalidPrefix).Once()

		code, _ := send(t, r, http.MethodGet, "/library/preferences/bad$prefix", "")
		assert.Equal(t, fiber.StatusBadRequest, code)
	})

	t.Run("儲存偏好以路徑 prefix 為準", func(t *testing.T) {
		uc := new(app.MockLibraryUseCase)
		r := newTestApp(uc)
		saved := domain.Preferences{
			Prefix: "library", ViewerID: "u1", ViewMode: domain.ViewList,
			ItemsPerPage: 12, SortKey: domain.SortTitle, SortDirection: domain.Asc,
		}
		uc.On("SavePreferences", mock.Anything, member, mock.MatchedBy(func(p domain.Preferences) bool {
			return p.Prefix == "library" && p.ViewMode == domain.ViewList && p.ItemsPerPage == 12
		})).Return(saved, nil).Once()

		body := `{"prefix":"other","view_mode":"list","items_per_page":12,"sort_key":"name","sort_direction":"asc"}`
		code, out := send(t, r, http.MethodPut, "/library/preferences/library?"+authQuery(t, "u1", token.RoleMember, nil), body)
		assert.Equal(t, fiber.StatusOK, code)
		assert.Contains(t, string(out), `"sort_key":"title"`)
		uc.AssertExpectations(t)
	})

	t.Run("body 格式錯誤", func(t *testing.T) {
		uc := new(app.MockLibraryUseCase)
		r := newTestApp(uc)

		code, _ := send(t, r, http.MethodPut, "/library/preferences/library", "{broken")
		assert.Equal(t, fiber.StatusBadRequest, code)
		uc.AssertNotCalled(t, "SavePreferences", mock.Anything, mock.Anything, mock.Anything)
	})
}
