package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adopshq/mkt-report-api/internal/models"
)

type fakeDashboardSrv struct {
	overview  *models.DashboardOverview
	lastQuery models.DashboardQuery
}

func (f *fakeDashboardSrv) Overview(_ context.Context, _ *models.JWTClaims, query models.DashboardQuery) (*models.DashboardOverview, error) {
	f.lastQuery = query
	return f.overview, nil
}

func (f *fakeDashboardSrv) MarketEffectiveness(_ context.Context, _ *models.JWTClaims, query models.DashboardQuery) (*models.MarketEffectiveness, error) {
	f.lastQuery = query
	return &models.MarketEffectiveness{}, nil
}

func (f *fakeDashboardSrv) Records(_ context.Context, _ *models.JWTClaims, query models.DashboardQuery) (*models.DashboardRecords, error) {
	f.lastQuery = query
	return &models.DashboardRecords{Pagination: models.Pagination{Page: 1, PageSize: 50, TotalPages: 1}}, nil
}

func (f *fakeDashboardSrv) Orders(_ context.Context, _ *models.JWTClaims, query models.DashboardQuery) (*models.OrderBook, error) {
	f.lastQuery = query
	return &models.OrderBook{Pagination: models.Pagination{Page: 1, PageSize: 50, TotalPages: 1}}, nil
}

func (f *fakeDashboardSrv) FilterOptions(context.Context, *models.JWTClaims) (*models.FilterOptions, error) {
	return &models.FilterOptions{Products: []string{"Serum"}}, nil
}

func TestDashboardHandlerOverview(t *testing.T) {
	srv := &fakeDashboardSrv{overview: &models.DashboardOverview{Pagination: models.Pagination{Page: 1, PageSize: 50, TotalPages: 1}}}
	handler := NewDashboardHandler(srv)

	target := "/dashboard/overview?start_date=2024-05-01&end_date=2024-05-31&markets=VN&page=3"
	c, rec := authedContext(t, http.MethodGet, target, "")

	handler.Overview(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"VN"}, srv.lastQuery.Criteria.Markets)
	assert.Equal(t, 3, srv.lastQuery.Page)
	require.NotNil(t, srv.lastQuery.Criteria.EndDate)
	assert.Equal(t, time.Date(2024, 5, 31, 0, 0, 0, 0, time.Local), *srv.lastQuery.Criteria.EndDate)
}

func TestDashboardHandlerOverviewRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	c, rec := authedContext(t, http.MethodGet, "/dashboard/overview", "")
	c.Keys = nil // drop the claims set by the helper

	handler.Overview(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardHandlerOverviewRejectsBadDate(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	c, rec := authedContext(t, http.MethodGet, "/dashboard/overview?end_date=never", "")

	handler.Overview(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandlerRecords(t *testing.T) {
	srv := &fakeDashboardSrv{}
	handler := NewDashboardHandler(srv)

	c, rec := authedContext(t, http.MethodGet, "/dashboard/records?page=2&page_size=25", "")

	handler.Records(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, srv.lastQuery.Page)
	assert.Equal(t, 25, srv.lastQuery.PageSize)
}

func TestDashboardHandlerOrders(t *testing.T) {
	srv := &fakeDashboardSrv{}
	handler := NewDashboardHandler(srv)

	target := "/dashboard/orders?search=DH-001&shifts=mid-shift&page=2"
	c, rec := authedContext(t, http.MethodGet, target, "")

	handler.Orders(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DH-001", srv.lastQuery.Criteria.Search)
	assert.Equal(t, []string{"mid-shift"}, srv.lastQuery.Criteria.Shifts)
	assert.Equal(t, 2, srv.lastQuery.Page)
}

func TestDashboardHandlerOptions(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	c, rec := authedContext(t, http.MethodGet, "/dashboard/options", "")

	handler.Options(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Serum")
}
