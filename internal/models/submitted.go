package models

import "time"

// SyncStatus tracks the spreadsheet mirror state of a submitted report.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncError   SyncStatus = "error"
)

// SubmittedReport is a persisted, user-originated daily report. The primary
// store is authoritative; the spreadsheet mirror is best-effort and the
// status field is the only reconciliation signal between the two.
type SubmittedReport struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Team      string    `db:"team" json:"team"`
	Date      time.Time `db:"report_date" json:"date"`
	Shift     string    `db:"shift" json:"shift"`
	Product   string    `db:"product" json:"product"`
	Market    string    `db:"market" json:"market"`
	AdAccount string    `db:"ad_account" json:"ad_account"`
	AdSpend   float64   `db:"ad_spend" json:"ad_spend"`
	Messages  int       `db:"messages" json:"messages"`
	Orders    int       `db:"orders" json:"orders"`
	Revenue   float64   `db:"revenue" json:"revenue"`

	Status     SyncStatus `db:"status" json:"status"`
	SyncError  *string    `db:"sync_error" json:"sync_error,omitempty"`
	SheetRange *string    `db:"sheet_range" json:"sheet_range,omitempty"`
	SyncedAt   *time.Time `db:"synced_at" json:"synced_at,omitempty"`

	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ToRecord converts a submitted report into the canonical record shape used
// by the aggregation pipeline. Submitted reports always carry a valid date.
func (r SubmittedReport) ToRecord() ReportRecord {
	rec := ReportRecord{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Team:      r.Team,
		Date:      r.Date,
		DateValid: true,
		Shift:     r.Shift,
		Product:   r.Product,
		Market:    r.Market,
		AdAccount: r.AdAccount,
	}
	if rec.Team == "" {
		rec.Team = SentinelOther
	}
	rec.Messages = r.Messages
	rec.AdSpend = r.AdSpend
	rec.Orders = r.Orders
	rec.Revenue = r.Revenue
	return rec
}

// SubmitReportRequest is the daily report form payload. Identity fields
// default to the submitting account and may only be overridden by admins.
type SubmitReportRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Team      string  `json:"team"`
	Date      string  `json:"date" validate:"required"`
	Shift     string  `json:"shift" validate:"required,oneof=mid-shift end-shift"`
	Product   string  `json:"product" validate:"required"`
	Market    string  `json:"market" validate:"required"`
	AdAccount string  `json:"ad_account" validate:"required"`
	AdSpend   float64 `json:"ad_spend" validate:"gte=0"`
	Messages  int     `json:"messages" validate:"gte=0"`
	Orders    int     `json:"orders" validate:"gte=0"`
	Revenue   float64 `json:"revenue" validate:"gte=0"`
}

// SubmittedReportFilter captures list filtering for the reports table.
type SubmittedReportFilter struct {
	Criteria FilterCriteria
	Page     int
	PageSize int
}
