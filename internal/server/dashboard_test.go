package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pocketcrm/go-sync/internal/adapter"
	"github.com/pocketcrm/go-sync/internal/store"
	"github.com/pocketcrm/go-sync/models"
)

func TestGetDashboard_ServesCached(t *testing.T) {
	h := newTestHandler(t)

	summary := models.DashboardSummary{
		TotalLeads:          120,
		OpenLeads:           45,
		FollowUpsDueToday:   6,
		UnreadNotifications: 3,
		FetchedAt:           time.Date(2026, 2, 11, 8, 0, 0, 0, time.UTC),
	}
	h.dashboard.EXPECT().Cached(gomock.Any()).Return(summary, nil)

	rr := h.do(t, http.MethodGet, "/api/dashboard", nil)

	require.Equal(t, http.StatusOK, rr.Code)

	var got models.DashboardSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, 120, got.TotalLeads)
	require.Equal(t, 45, got.OpenLeads)
	require.True(t, got.FetchedAt.Equal(summary.FetchedAt))
}

func TestGetDashboard_NothingCached(t *testing.T) {
	h := newTestHandler(t)

	h.dashboard.EXPECT().Cached(gomock.Any()).
		Return(models.DashboardSummary{}, fmt.Errorf("load summary: %w", store.ErrSummaryNotFound))

	rr := h.do(t, http.MethodGet, "/api/dashboard", nil)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRefreshDashboard(t *testing.T) {
	h := newTestHandler(t)

	h.dashboard.EXPECT().
		Refresh(gomock.Any(), false).
		Return(models.DashboardSummary{TotalLeads: 121}, nil)

	rr := h.do(t, http.MethodPost, "/api/dashboard/refresh", nil)

	require.Equal(t, http.StatusOK, rr.Code)

	var got models.DashboardSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, 121, got.TotalLeads)
}

func TestRefreshDashboard_Forced(t *testing.T) {
	h := newTestHandler(t)

	h.dashboard.EXPECT().
		Refresh(gomock.Any(), true).
		Return(models.DashboardSummary{}, nil)

	rr := h.do(t, http.MethodPost, "/api/dashboard/refresh?force=true", nil)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRefreshDashboard_NetworkError(t *testing.T) {
	h := newTestHandler(t)

	h.dashboard.EXPECT().
		Refresh(gomock.Any(), false).
		Return(models.DashboardSummary{}, fmt.Errorf("fetch dashboard summary: %w", adapter.ErrNetwork))

	rr := h.do(t, http.MethodPost, "/api/dashboard/refresh", nil)

	require.Equal(t, http.StatusBadGateway, rr.Code)
}
