package models

import "time"

// Shift values recognised on submitted reports.
const (
	ShiftMid = "mid-shift"
	ShiftEnd = "end-shift"
)

// SentinelOther is the single placeholder used for categorical fields that
// arrive empty from a source system.
const SentinelOther = "Other"

// ReportRecord is one normalized observation of marketing activity for one
// person on one day. Every numeric field is zero when the source omitted it;
// none are ever negative after normalization.
type ReportRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Team      string    `json:"team"`
	Date      time.Time `json:"date"`
	DateValid bool      `json:"date_valid"`
	Shift     string    `json:"shift"`
	Product   string    `json:"product"`
	Market    string    `json:"market"`
	AdAccount string    `json:"ad_account"`

	Measures
}

// Measures is the fixed set of numeric quantities tracked per record and
// accumulated per aggregation bucket.
type Measures struct {
	Messages int     `json:"messages"`
	AdSpend  float64 `json:"ad_spend"`
	Orders   int     `json:"orders"`
	Revenue  float64 `json:"revenue"`

	ActualOrders  int     `json:"actual_orders"`
	ActualRevenue float64 `json:"actual_revenue"`

	CancelledOrders        int     `json:"cancelled_orders"`
	CancelledRevenue       float64 `json:"cancelled_revenue"`
	ActualCancelledOrders  int     `json:"actual_cancelled_orders"`
	ActualCancelledRevenue float64 `json:"actual_cancelled_revenue"`

	PostCancelRevenue       float64 `json:"post_cancel_revenue"`
	ActualPostCancelRevenue float64 `json:"actual_post_cancel_revenue"`
	PostShippingRevenue     float64 `json:"post_shipping_revenue"`
	DeliveredRevenue        float64 `json:"delivered_revenue"`
	ActualDeliveredRevenue  float64 `json:"actual_delivered_revenue"`

	KPITarget float64 `json:"kpi_target"`
}

// Add accumulates another measure set into the receiver.
func (m *Measures) Add(other Measures) {
	m.Messages += other.Messages
	m.AdSpend += other.AdSpend
	m.Orders += other.Orders
	m.Revenue += other.Revenue
	m.ActualOrders += other.ActualOrders
	m.ActualRevenue += other.ActualRevenue
	m.CancelledOrders += other.CancelledOrders
	m.CancelledRevenue += other.CancelledRevenue
	m.ActualCancelledOrders += other.ActualCancelledOrders
	m.ActualCancelledRevenue += other.ActualCancelledRevenue
	m.PostCancelRevenue += other.PostCancelRevenue
	m.ActualPostCancelRevenue += other.ActualPostCancelRevenue
	m.PostShippingRevenue += other.PostShippingRevenue
	m.DeliveredRevenue += other.DeliveredRevenue
	m.ActualDeliveredRevenue += other.ActualDeliveredRevenue
	m.KPITarget += other.KPITarget
}

// Ratios are the KPI ratios derived from accumulated measures. Each is zero
// when its denominator is zero.
type Ratios struct {
	ClosingRate       float64 `json:"closing_rate"`
	ActualClosingRate float64 `json:"actual_closing_rate"`
	CostPerMessage    float64 `json:"cost_per_message"`
	CostPerOrder      float64 `json:"cost_per_order"`
	SpendToRevenue    float64 `json:"spend_to_revenue"`
	AvgOrderValue     float64 `json:"avg_order_value"`
	KPIAttainment     float64 `json:"kpi_attainment"`
}

// GroupKey identifies one aggregation bucket. Unused dimensions stay empty;
// struct equality replaces the string-concatenation keys of the legacy
// dashboard so delimiter collisions cannot happen.
type GroupKey struct {
	Team    string `json:"team,omitempty"`
	Person  string `json:"person,omitempty"`
	Email   string `json:"email,omitempty"`
	Product string `json:"product,omitempty"`
	Market  string `json:"market,omitempty"`
}

// SummaryRow is one derived aggregation bucket. Never persisted.
type SummaryRow struct {
	Key GroupKey `json:"key"`
	Measures
	Ratios
}

// FilterCriteria captures the user-selected dashboard filters. Empty fields
// impose no restriction; dimensions combine with AND, values within a
// multi-select with OR.
type FilterCriteria struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Products  []string   `json:"products,omitempty"`
	Shifts    []string   `json:"shifts,omitempty"`
	Markets   []string   `json:"markets,omitempty"`
	Teams     []string   `json:"teams,omitempty"`
	Search    string     `json:"search,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}
