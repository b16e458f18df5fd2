package models

import "time"

// UserRole represents the available roles for access scoping.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleLeader  UserRole = "leader"
	RoleManager UserRole = "manager"
	RoleUser    UserRole = "user"
)

// UserAccount represents an application user. Username is immutable after
// creation and accounts are never deleted, only edited.
type UserAccount struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Email        string     `db:"email" json:"email"`
	DisplayName  string     `db:"display_name" json:"display_name"`
	Team         string     `db:"team" json:"team"`
	Branch       string     `db:"branch" json:"branch"`
	Position     string     `db:"position" json:"position"`
	Department   string     `db:"department" json:"department"`
	Shift        string     `db:"shift" json:"shift"`
	Role         UserRole   `db:"role" json:"role"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedBy    string     `db:"created_by" json:"created_by"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// AccessScope is the visibility boundary derived from the acting user's
// claims. It is computed server-side and never from request input.
type AccessScope struct {
	Role  UserRole
	Team  string
	Email string
}

// UserFilter captures filtering criteria for listing accounts.
type UserFilter struct {
	Role     *UserRole
	Team     string
	Search   string
	Page     int
	PageSize int
}

// Profile pairs an account with its roster entry, matched by email. The
// roster half is nil when no entry shares the account's email.
type Profile struct {
	Account UserAccount  `json:"account"`
	Roster  *RosterEntry `json:"roster,omitempty"`
}

// ProvisionResult summarises a bulk provisioning run from the roster.
type ProvisionResult struct {
	Created int            `json:"created"`
	Skipped int            `json:"skipped"`
	Errors  int            `json:"errors"`
	ByRole  map[string]int `json:"by_role"`
}
