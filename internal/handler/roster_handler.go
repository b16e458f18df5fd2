package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adopshq/mkt-report-api/internal/models"
	"github.com/adopshq/mkt-report-api/internal/service"
	appErrors "github.com/adopshq/mkt-report-api/pkg/errors"
	"github.com/adopshq/mkt-report-api/pkg/response"
)

// RosterHandler exposes the HR roster endpoints.
type RosterHandler struct {
	service *service.RosterService
}

// NewRosterHandler constructs the handler.
func NewRosterHandler(svc *service.RosterService) *RosterHandler {
	return &RosterHandler{service: svc}
}

// List godoc
// @Summary List roster entries
// @Tags Roster
// @Produce json
// @Param team query string false "Team filter"
// @Param search query string false "Name or email search"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /roster [get]
func (h *RosterHandler) List(c *gin.Context) {
	filter := models.RosterFilter{
		Team:     strings.TrimSpace(c.Query("team")),
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 0),
	}

	entries, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries, nil, map[string]interface{}{"total": total})
}

// Options godoc
// @Summary Distinct roster dropdown values
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roster/options [get]
func (h *RosterHandler) Options(c *gin.Context) {
	options, err := h.service.Options(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, options, nil)
}

// Create godoc
// @Summary Add a roster entry
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body service.RosterUpsertRequest true "Roster entry"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /roster [post]
func (h *RosterHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.RosterUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid roster payload"))
		return
	}

	entry, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, entry)
}

// Update godoc
// @Summary Edit a roster entry
// @Tags Roster
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body service.RosterUpsertRequest true "Roster entry"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /roster/{id} [put]
func (h *RosterHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.RosterUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid roster payload"))
		return
	}

	entry, err := h.service.Update(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Remove a roster entry
// @Tags Roster
// @Produce json
// @Param id path string true "Entry ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /roster/{id} [delete]
func (h *RosterHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
