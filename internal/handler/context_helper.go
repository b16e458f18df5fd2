package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adopshq/mkt-report-api/internal/middleware"
	"github.com/adopshq/mkt-report-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// parseCriteria reads the shared dashboard/report filter parameters from the
// query string. Multi-select values accept repeated params and comma lists.
func parseCriteria(c *gin.Context) (models.FilterCriteria, error) {
	criteria := models.FilterCriteria{
		Products: queryValues(c, "products"),
		Shifts:   queryValues(c, "shifts"),
		Markets:  queryValues(c, "markets"),
		Teams:    queryValues(c, "teams"),
		Search:   strings.TrimSpace(c.Query("search")),
	}

	if raw := strings.TrimSpace(c.Query("start_date")); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return criteria, err
		}
		criteria.StartDate = &parsed
	}
	if raw := strings.TrimSpace(c.Query("end_date")); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return criteria, err
		}
		criteria.EndDate = &parsed
	}
	return criteria, nil
}

func queryValues(c *gin.Context, key string) []string {
	var values []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if v := strings.TrimSpace(part); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
