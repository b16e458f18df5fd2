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

// UserHandler exposes account management endpoints.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler constructs the handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// Register godoc
// @Summary Self-register an account
// @Description Creates a role=user account; privileges require an admin edit
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	account, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, account)
}

// List godoc
// @Summary List accounts
// @Tags Users
// @Produce json
// @Param role query string false "Role filter"
// @Param team query string false "Team filter"
// @Param search query string false "Username, email or display name search"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	filter := models.UserFilter{
		Team:     strings.TrimSpace(c.Query("team")),
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 0),
	}
	if raw := strings.TrimSpace(c.Query("role")); raw != "" {
		role := models.UserRole(raw)
		filter.Role = &role
	}

	accounts, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, accounts, nil, map[string]interface{}{"total": total})
}

// Get godoc
// @Summary Get one account
// @Tags Users
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	account, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, account, nil)
}

// Me godoc
// @Summary Current user's profile with roster enrichment
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}

// Update godoc
// @Summary Edit an account
// @Description Username is immutable; the payload's username is ignored
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param payload body models.UserAccount true "Account fields"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var account models.UserAccount
	if err := c.ShouldBindJSON(&account); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid account payload"))
		return
	}
	account.ID = c.Param("id")

	updated, err := h.service.UpdateAccount(c.Request.Context(), claims.UserID, &account)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, updated, nil)
}

// Provision godoc
// @Summary Bulk-create accounts from the roster
// @Description Creates one account per roster entry with an unused email
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users/provision [post]
func (h *UserHandler) Provision(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.service.ProvisionFromRoster(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}
