package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adopshq/mkt-report-api/internal/models"
	"github.com/adopshq/mkt-report-api/internal/service"
	appErrors "github.com/adopshq/mkt-report-api/pkg/errors"
	"github.com/adopshq/mkt-report-api/pkg/response"
)

type exportService interface {
	Summary(ctx context.Context, claims *models.JWTClaims, criteria models.FilterCriteria, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler streams rendered downloads of the summary table.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Summary godoc
// @Summary Download the person summary as CSV or PDF
// @Tags Export
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "csv or pdf"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} byte
// @Failure 400 {object} response.Envelope
// @Router /export/summary [get]
func (h *ExportHandler) Summary(c *gin.Context) {
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
	format := service.ExportFormat(strings.ToLower(strings.TrimSpace(c.Query("format"))))

	result, err := h.service.Summary(c.Request.Context(), claims, criteria, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
