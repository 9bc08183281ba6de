package app

import (
	"context"

	"video_library_service/internal/library/domain"

	"github.com/stretchr/testify/mock"
)

// MockLibraryUseCase 是 LibraryUseCase 的 Mock
type MockLibraryUseCase struct {
	mock.Mock
}

func (m *MockLibraryUseCase) Load(ctx context.Context, viewer domain.Viewer) Snapshot {
	return m.Called(ctx, viewer).Get(0).(Snapshot)
}

func (m *MockLibraryUseCase) Query(ctx context.Context, viewer domain.Viewer, st domain.QueryState) domain.QueryResult {
	return m.Called(ctx, viewer, st).Get(0).(domain.QueryResult)
}

func (m *MockLibraryUseCase) Facets(ctx context.Context, viewer domain.Viewer) domain.Facets {
	return m.Called(ctx, viewer).Get(0).(domain.Facets)
}

func (m *MockLibraryUseCase) BaseState(ctx context.Context, viewer domain.Viewer, prefix string) domain.QueryState {
	return m.Called(ctx, viewer, prefix).Get(0).(domain.QueryState)
}

func (m *MockLibraryUseCase) Status() StatusReport {
	return m.Called().Get(0).(StatusReport)
}

func (m *MockLibraryUseCase) Refresh() {
	m.Called()
}

func (m *MockLibraryUseCase) AddFavorite(ctx context.Context, viewer domain.Viewer, videoID string) error {
	return m.Called(ctx, viewer, videoID).Error(0)
}

func (m *MockLibraryUseCase) RemoveFavorite(ctx context.Context, viewer domain.Viewer, videoID string) error {
	return m.Called(ctx, viewer, videoID).Error(0)
}

func (m *MockLibraryUseCase) RecordView(ctx context.Context, viewer domain.Viewer, videoID string) error {
	return m.Called(ctx, viewer, videoID).Error(0)
}

func (m *MockLibraryUseCase) GetPreferences(ctx context.Context, viewer domain.Viewer, prefix string) (domain.Preferences, error) {
	args := m.Called(ctx, viewer, prefix)
	return args.Get(0).(domain.Preferences), args.Error(1)
}

func (m *MockLibraryUseCase) SavePreferences(ctx context.Context, viewer domain.Viewer, p domain.Preferences) (domain.Preferences, error) {
	args := m.Called(ctx, viewer, p)
	return args.Get(0).(domain.Preferences), args.Error(1)
}
