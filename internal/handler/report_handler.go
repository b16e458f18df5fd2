package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adopshq/mkt-report-api/internal/models"
	appErrors "github.com/adopshq/mkt-report-api/pkg/errors"
	"github.com/adopshq/mkt-report-api/pkg/response"
)

type reportService interface {
	Submit(ctx context.Context, claims *models.JWTClaims, req models.SubmitReportRequest) (*models.SubmittedReport, error)
	List(ctx context.Context, claims *models.JWTClaims, filter models.SubmittedReportFilter) ([]models.SubmittedReport, models.Pagination, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.SubmittedReport, error)
	Update(ctx context.Context, claims *models.JWTClaims, id string, req models.SubmitReportRequest) (*models.SubmittedReport, error)
	Delete(ctx context.Context, claims *models.JWTClaims, id string) error
	OverrideStatus(ctx context.Context, claims *models.JWTClaims, id string, status models.SyncStatus) error
	Resync(ctx context.Context, claims *models.JWTClaims, id string) error
}

// ReportHandler exposes submitted report endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Submit godoc
// @Summary Submit a daily report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body models.SubmitReportRequest true "Report payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
		return
	}

	report, err := h.service.Submit(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, report)
}

// List godoc
// @Summary List submitted reports
// @Tags Reports
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param products query []string false "Product filter"
// @Param teams query []string false "Team filter (admin only)"
// @Param search query string false "Name, email or ad account search"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	criteria, err := parseCriteria(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD"))
		return
	}
	filter := models.SubmittedReportFilter{
		Criteria: criteria,
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 0),
	}

	reports, pagination, err := h.service.List(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, reports, &pagination)
}

// Get godoc
// @Summary Get one submitted report
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	report, err := h.service.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, report, nil)
}

// Update godoc
// @Summary Edit a submitted report
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param payload body models.SubmitReportRequest true "Report payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reports/{id} [put]
func (h *ReportHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
		return
	}

	report, err := h.service.Update(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, report, nil)
}

// Delete godoc
// @Summary Delete a submitted report
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reports/{id} [delete]
func (h *ReportHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// OverrideStatus godoc
// @Summary Override a report's sync status
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param payload body map[string]string true "New status"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reports/{id}/status [patch]
func (h *ReportHandler) OverrideStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		Status models.SyncStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status required"))
		return
	}

	if err := h.service.OverrideStatus(c.Request.Context(), claims, c.Param("id"), payload.Status); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Resync godoc
// @Summary Re-queue a report for the spreadsheet mirror
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 202 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reports/{id}/resync [post]
func (h *ReportHandler) Resync(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Resync(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, gin.H{"message": "resync scheduled"}, nil)
}
