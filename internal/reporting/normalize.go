// Package reporting implements the pure aggregation pipeline behind the
// dashboards: normalization of raw source rows, role-based scoping,
// criteria filtering, grouping with derived KPI ratios, and pagination.
// Every function is a pure, stateless transformation of its input.
package reporting

import (
	"strconv"
	"strings"
	"time"

	"github.com/adopshq/mkt-report-api/internal/models"
)

// SourceMapping maps canonical record fields to the keys a particular source
// uses for them. The first key present in the raw row wins. Sources name the
// same quantity differently (the analytics feed uses its own human-readable
// column names), so the mapping isolates source naming from the core.
type SourceMapping struct {
	ID        []string
	Name      []string
	Email     []string
	Team      []string
	Date      []string
	Shift     []string
	Product   []string
	Market    []string
	AdAccount []string

	AdSpend  []string
	Messages []string
	Orders   []string
	Revenue  []string

	ActualOrders           []string
	ActualRevenue          []string
	CancelledOrders        []string
	ActualCancelledOrders  []string
	ActualCancelledRevenue []string

	PostCancelRevenue       []string
	ActualPostCancelRevenue []string
	PostShippingRevenue     []string
	DeliveredRevenue        []string
	ActualDeliveredRevenue  []string

	KPITarget []string
}

// FeedMapping translates the analytics feed's native column names. The feed
// reports cancelled revenue only indirectly (closed minus post-cancellation),
// so that measure is derived in Normalize rather than mapped.
var FeedMapping = SourceMapping{
	ID:        []string{"id_NS"},
	Name:      []string{"Tên"},
	Email:     []string{"Email"},
	Team:      []string{"Team"},
	Date:      []string{"Ngày"},
	Shift:     []string{"ca"},
	Product:   []string{"Sản_phẩm"},
	Market:    []string{"Thị_trường"},
	AdAccount: []string{"TKQC"},

	AdSpend:  []string{"CPQC"},
	Messages: []string{"Số_Mess_Cmt"},
	Orders:   []string{"Số đơn"},
	Revenue:  []string{"Doanh số"},

	ActualOrders:           []string{"Số đơn thực tế"},
	ActualRevenue:          []string{"Doanh thu chốt thực tế"},
	CancelledOrders:        []string{"Số đơn hoàn hủy"},
	ActualCancelledOrders:  []string{"Số đơn hoàn hủy thực tế"},
	ActualCancelledRevenue: []string{"Doanh số hoàn hủy thực tế"},

	PostCancelRevenue:       []string{"DS sau hoàn hủy"},
	ActualPostCancelRevenue: []string{"Doanh số sau hoàn hủy thực tế"},
	PostShippingRevenue:     []string{"Doanh số sau ship"},
	DeliveredRevenue:        []string{"Doanh số TC"},
	ActualDeliveredRevenue:  []string{"Doanh số đi thực tế"},

	KPITarget: []string{"KPIs"},
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// Normalize converts one raw source row into a canonical ReportRecord. It is
// total: numeric fields coerce to 0 on absence or parse failure, categorical
// strings fall back to the sentinel, and the boolean result is false only
// when the row has no usable name and must be dropped. A row whose date does
// not parse is retained with DateValid=false; such records pass every
// date-range predicate, preserving the permissive behaviour of the legacy
// dashboard (deliberate, see DESIGN.md).
func Normalize(raw map[string]interface{}, mapping SourceMapping) (models.ReportRecord, bool) {
	name := strings.TrimSpace(stringField(raw, mapping.Name))
	if name == "" {
		return models.ReportRecord{}, false
	}

	rec := models.ReportRecord{
		ID:        strings.TrimSpace(stringField(raw, mapping.ID)),
		Name:      name,
		Email:     strings.TrimSpace(stringField(raw, mapping.Email)),
		Team:      categorical(raw, mapping.Team),
		Shift:     categorical(raw, mapping.Shift),
		Product:   categorical(raw, mapping.Product),
		Market:    categorical(raw, mapping.Market),
		AdAccount: strings.TrimSpace(stringField(raw, mapping.AdAccount)),
	}

	if ts, ok := dateField(raw, mapping.Date); ok {
		rec.Date = ts
		rec.DateValid = true
	}

	rec.AdSpend = numField(raw, mapping.AdSpend)
	rec.Messages = intField(raw, mapping.Messages)
	rec.Orders = intField(raw, mapping.Orders)
	rec.Revenue = numField(raw, mapping.Revenue)

	rec.ActualOrders = intField(raw, mapping.ActualOrders)
	rec.ActualRevenue = numField(raw, mapping.ActualRevenue)
	rec.CancelledOrders = intField(raw, mapping.CancelledOrders)
	rec.ActualCancelledOrders = intField(raw, mapping.ActualCancelledOrders)
	rec.ActualCancelledRevenue = numField(raw, mapping.ActualCancelledRevenue)

	rec.PostCancelRevenue = numField(raw, mapping.PostCancelRevenue)
	rec.ActualPostCancelRevenue = numField(raw, mapping.ActualPostCancelRevenue)
	rec.PostShippingRevenue = numField(raw, mapping.PostShippingRevenue)
	rec.DeliveredRevenue = numField(raw, mapping.DeliveredRevenue)
	rec.ActualDeliveredRevenue = numField(raw, mapping.ActualDeliveredRevenue)

	rec.KPITarget = numField(raw, mapping.KPITarget)

	// Cancelled revenue is closed revenue minus what survived cancellation.
	rec.CancelledRevenue = rec.Revenue - rec.PostCancelRevenue

	return rec, true
}

// NormalizeAll normalizes a batch, dropping rows without a name.
func NormalizeAll(rows []map[string]interface{}, mapping SourceMapping) []models.ReportRecord {
	records := make([]models.ReportRecord, 0, len(rows))
	for _, row := range rows {
		if rec, ok := Normalize(row, mapping); ok {
			records = append(records, rec)
		}
	}
	return records
}

func lookup(raw map[string]interface{}, keys []string) (interface{}, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(raw map[string]interface{}, keys []string) string {
	v, ok := lookup(raw, keys)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func categorical(raw map[string]interface{}, keys []string) string {
	s := strings.TrimSpace(stringField(raw, keys))
	if s == "" {
		return models.SentinelOther
	}
	return s
}

func numField(raw map[string]interface{}, keys []string) float64 {
	v, ok := lookup(raw, keys)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func intField(raw map[string]interface{}, keys []string) int {
	return int(numField(raw, keys))
}

func dateField(raw map[string]interface{}, keys []string) (time.Time, bool) {
	s := strings.TrimSpace(stringField(raw, keys))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
