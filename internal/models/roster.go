package models

import "time"

// RosterEntry is one HR record describing a real person. It is the source of
// truth for dropdown options and enriches account profiles by email match;
// there is no foreign key between roster entries and accounts.
type RosterEntry struct {
	ID           string    `db:"id" json:"id"`
	EmployeeCode string    `db:"employee_code" json:"employee_code"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	Team         string    `db:"team" json:"team"`
	Department   string    `db:"department" json:"department"`
	Position     string    `db:"position" json:"position"`
	Branch       string    `db:"branch" json:"branch"`
	Shift        string    `db:"shift" json:"shift"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// RosterOptions are the distinct values used to populate form dropdowns.
type RosterOptions struct {
	Teams       []string `json:"teams"`
	Departments []string `json:"departments"`
	Positions   []string `json:"positions"`
	Branches    []string `json:"branches"`
}

// RosterFilter captures listing criteria for the roster table.
type RosterFilter struct {
	Team     string
	Search   string
	Page     int
	PageSize int
}
