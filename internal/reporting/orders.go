package reporting

import (
	"sort"
	"strings"
	"time"

	"github.com/adopshq/mkt-report-api/internal/models"
)

// OrderSourceMapping maps canonical order fields to the keys a source uses
// for them, first key present wins. Address parts are concatenated in order.
type OrderSourceMapping struct {
	ID           []string
	OrderCode    []string
	CustomerName []string
	Phone        []string
	AddressParts []string
	Product      []string
	Quantity     []string
	UnitPrice    []string
	TotalVND     []string
	Marketer     []string
	Salesperson  []string
	Team         []string
	Shift        []string
	OrderedAt    []string
	Status       []string
	Payment      []string
}

// OrderFeedMapping translates the fulfilment feed's native column names.
// The feed records the order moment twice (a date column and a finer
// timestamp); the date wins, the timestamp is the fallback.
var OrderFeedMapping = OrderSourceMapping{
	ID:           []string{"id"},
	OrderCode:    []string{"Mã đơn hàng"},
	CustomerName: []string{"Name*", "Tên lên đơn"},
	Phone:        []string{"Phone*"},
	AddressParts: []string{"Add", "City", "State"},
	Product:      []string{"Mặt hàng", "Tên mặt hàng 1"},
	Quantity:     []string{"Số lượng mặt hàng 1"},
	UnitPrice:    []string{"Giá bán"},
	TotalVND:     []string{"Tổng tiền VNĐ"},
	Marketer:     []string{"Nhân viên Marketing"},
	Salesperson:  []string{"Nhân viên Sale"},
	Team:         []string{"Team"},
	Shift:        []string{"Ca"},
	OrderedAt:    []string{"Ngày lên đơn", "Thời gian lên đơn"},
	Status:       []string{"Trạng thái đơn"},
	Payment:      []string{"Hình thức thanh toán"},
}

// NormalizeOrder converts one raw source row into a canonical OrderRecord.
// Coercion rules match Normalize: numerics default to 0, the date is kept
// permissively with DateValid=false when it fails to parse. A row with
// neither an order code nor a customer name is dropped.
func NormalizeOrder(raw map[string]interface{}, mapping OrderSourceMapping) (models.OrderRecord, bool) {
	code := strings.TrimSpace(stringField(raw, mapping.OrderCode))
	customer := strings.TrimSpace(stringField(raw, mapping.CustomerName))
	if code == "" && customer == "" {
		return models.OrderRecord{}, false
	}

	rec := models.OrderRecord{
		ID:           strings.TrimSpace(stringField(raw, mapping.ID)),
		OrderCode:    code,
		CustomerName: customer,
		Phone:        strings.TrimSpace(stringField(raw, mapping.Phone)),
		Address:      joinParts(raw, mapping.AddressParts),
		Product:      strings.TrimSpace(stringField(raw, mapping.Product)),
		Quantity:     intField(raw, mapping.Quantity),
		UnitPrice:    numField(raw, mapping.UnitPrice),
		TotalVND:     numField(raw, mapping.TotalVND),
		Marketer:     strings.TrimSpace(stringField(raw, mapping.Marketer)),
		Salesperson:  strings.TrimSpace(stringField(raw, mapping.Salesperson)),
		Team:         categorical(raw, mapping.Team),
		Shift:        categorical(raw, mapping.Shift),
		Status:       strings.TrimSpace(stringField(raw, mapping.Status)),
		Payment:      strings.TrimSpace(stringField(raw, mapping.Payment)),
	}

	if ts, ok := dateField(raw, mapping.OrderedAt); ok {
		rec.OrderedAt = ts
		rec.DateValid = true
	}

	return rec, true
}

// NormalizeAllOrders normalizes a batch, dropping unidentifiable rows.
func NormalizeAllOrders(rows []map[string]interface{}, mapping OrderSourceMapping) []models.OrderRecord {
	records := make([]models.OrderRecord, 0, len(rows))
	for _, row := range rows {
		if rec, ok := NormalizeOrder(row, mapping); ok {
			records = append(records, rec)
		}
	}
	return records
}

// ApplyOrderCriteria filters orders with the same combinators as
// ApplyCriteria: OR within a multi-select, AND across dimensions, inclusive
// date bounds with an end-of-day end bound, and orders without a parsed
// date passing both date predicates. The free-text search matches
// case-insensitive substrings of the customer name, marketer, salesperson,
// order code, and team. Products and markets do not apply to orders.
func ApplyOrderCriteria(records []models.OrderRecord, criteria models.FilterCriteria) []models.OrderRecord {
	search := strings.ToLower(strings.TrimSpace(criteria.Search))

	var endBound time.Time
	if criteria.EndDate != nil {
		endBound = EndOfDay(*criteria.EndDate)
	}

	out := make([]models.OrderRecord, 0, len(records))
	for _, rec := range records {
		if rec.DateValid {
			if criteria.StartDate != nil && rec.OrderedAt.Before(*criteria.StartDate) {
				continue
			}
			if criteria.EndDate != nil && rec.OrderedAt.After(endBound) {
				continue
			}
		}
		if !matchesAny(rec.Shift, criteria.Shifts) {
			continue
		}
		if !matchesAny(rec.Team, criteria.Teams) {
			continue
		}
		if search != "" && !matchesOrderSearch(rec, search) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesOrderSearch(rec models.OrderRecord, search string) bool {
	return strings.Contains(strings.ToLower(rec.CustomerName), search) ||
		strings.Contains(strings.ToLower(rec.Marketer), search) ||
		strings.Contains(strings.ToLower(rec.Salesperson), search) ||
		strings.Contains(strings.ToLower(rec.OrderCode), search) ||
		strings.Contains(strings.ToLower(rec.Team), search)
}

// SortOrdersNewestFirst orders by the order moment, newest first, with
// orders lacking a parsed date sorted last. Stable.
func SortOrdersNewestFirst(records []models.OrderRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].DateValid != records[j].DateValid {
			return records[i].DateValid
		}
		return records[i].OrderedAt.After(records[j].OrderedAt)
	})
}

// OrderTotals summarizes an order set: counts, summed VND value, how many
// passed verification, and the mean value per order.
func OrderTotals(records []models.OrderRecord) models.OrderStats {
	stats := models.OrderStats{TotalOrders: len(records)}
	for _, rec := range records {
		stats.TotalValueVND += rec.TotalVND
		if rec.Status == models.OrderStatusValid {
			stats.ValidOrders++
		}
	}
	if stats.TotalOrders > 0 {
		stats.AverageValueVND = stats.TotalValueVND / float64(stats.TotalOrders)
	}
	return stats
}

func joinParts(raw map[string]interface{}, keys []string) string {
	var parts []string
	for _, key := range keys {
		if s := strings.TrimSpace(stringField(raw, []string{key})); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
