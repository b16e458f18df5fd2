package models

import "time"

// DashboardQuery is the serializable query state behind every dashboard
// view: the user-selected criteria plus table pagination.
type DashboardQuery struct {
	Criteria FilterCriteria `json:"criteria"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// DashboardOverview is the main dashboard payload: scoped totals, the
// per-person summary table page, and the product chart series.
type DashboardOverview struct {
	Totals        SummaryRow   `json:"totals"`
	People        []SummaryRow `json:"people"`
	Pagination    Pagination   `json:"pagination"`
	ProductSeries []SummaryRow `json:"product_series"`
	GeneratedAt   time.Time    `json:"generated_at"`
}

// DashboardRecords is one page of the raw record table behind the
// aggregated views, newest records first.
type DashboardRecords struct {
	Records     []ReportRecord `json:"records"`
	Totals      SummaryRow     `json:"totals"`
	Pagination  Pagination     `json:"pagination"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Market group labels for the effectiveness view.
const (
	MarketGroupAsia    = "Asia"
	MarketGroupNonAsia = "Non-Asia"
)

// MarketGroup is one regional block of the market effectiveness view.
type MarketGroup struct {
	Name   string       `json:"name"`
	Rows   []SummaryRow `json:"rows"`
	Totals SummaryRow   `json:"totals"`
}

// MarketEffectiveness is the product-by-market breakdown grouped by region.
type MarketEffectiveness struct {
	Groups      []MarketGroup `json:"groups"`
	Totals      SummaryRow    `json:"totals"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// FilterOptions are the distinct filter values present in the actor's
// visible records, used to populate the dashboard filter controls.
type FilterOptions struct {
	Products []string `json:"products"`
	Markets  []string `json:"markets"`
	Shifts   []string `json:"shifts"`
	Teams    []string `json:"teams"`
}
