package reporting

import "github.com/adopshq/mkt-report-api/internal/models"

// ApplyScope restricts a record set to what the acting user may see.
// Admins see everything, leaders see their own team, and everyone else sees
// only rows carrying their own email. A leader without a team assignment
// sees nothing rather than everything. Scoping is server-side and applied
// before any user-supplied criteria.
func ApplyScope(records []models.ReportRecord, role models.UserRole, actorTeam, actorEmail string) []models.ReportRecord {
	switch role {
	case models.RoleAdmin:
		return records
	case models.RoleLeader:
		if actorTeam == "" {
			return []models.ReportRecord{}
		}
		scoped := make([]models.ReportRecord, 0, len(records))
		for _, rec := range records {
			if rec.Team == actorTeam {
				scoped = append(scoped, rec)
			}
		}
		return scoped
	default:
		scoped := make([]models.ReportRecord, 0)
		for _, rec := range records {
			if rec.Email == actorEmail {
				scoped = append(scoped, rec)
			}
		}
		return scoped
	}
}
