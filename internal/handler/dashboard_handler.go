package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adopshq/mkt-report-api/internal/models"
	appErrors "github.com/adopshq/mkt-report-api/pkg/errors"
	"github.com/adopshq/mkt-report-api/pkg/response"
)

type dashboardService interface {
	Overview(ctx context.Context, claims *models.JWTClaims, query models.DashboardQuery) (*models.DashboardOverview, error)
	MarketEffectiveness(ctx context.Context, claims *models.JWTClaims, query models.DashboardQuery) (*models.MarketEffectiveness, error)
	Records(ctx context.Context, claims *models.JWTClaims, query models.DashboardQuery) (*models.DashboardRecords, error)
	Orders(ctx context.Context, claims *models.JWTClaims, query models.DashboardQuery) (*models.OrderBook, error)
	FilterOptions(ctx context.Context, claims *models.JWTClaims) (*models.FilterOptions, error)
}

// DashboardHandler wires dashboard views to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) query(c *gin.Context) (*models.DashboardQuery, error) {
	criteria, err := parseCriteria(c)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	return &models.DashboardQuery{
		Criteria: criteria,
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 0),
	}, nil
}

// Overview godoc
// @Summary Aggregated performance overview
// @Tags Dashboard
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD), defaults to month start"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param products query []string false "Product filter"
// @Param teams query []string false "Team filter (admin only)"
// @Success 200 {object} response.Envelope
// @Router /dashboard/overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	query, err := h.query(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	overview, err := h.service.Overview(c.Request.Context(), claims, *query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, overview, &overview.Pagination)
}

// Markets godoc
// @Summary Product effectiveness by market region
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/markets [get]
func (h *DashboardHandler) Markets(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	query, err := h.query(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.MarketEffectiveness(c.Request.Context(), claims, *query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// Records godoc
// @Summary Raw record table behind the dashboard
// @Tags Dashboard
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD), defaults to month start"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /dashboard/records [get]
func (h *DashboardHandler) Records(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	query, err := h.query(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.Records(c.Request.Context(), claims, *query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, &result.Pagination)
}

// Orders godoc
// @Summary Fulfilment order table, leaders and admins only
// @Tags Dashboard
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param shifts query []string false "Shift filter"
// @Param teams query []string false "Team filter (admin only)"
// @Param search query string false "Search over customer, staff, order code"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /dashboard/orders [get]
func (h *DashboardHandler) Orders(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	query, err := h.query(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	book, err := h.service.Orders(c.Request.Context(), claims, *query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, book, &book.Pagination)
}

// Options godoc
// @Summary Distinct filter values visible to the actor
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/options [get]
func (h *DashboardHandler) Options(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	options, err := h.service.FilterOptions(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, options, nil)
}
