package reporting

import (
	"sort"

	"github.com/adopshq/mkt-report-api/internal/models"
)

// KeyFunc extracts the grouping key for one record.
type KeyFunc func(models.ReportRecord) models.GroupKey

// KeyByPerson groups by submitter, keeping team and email on the key so the
// summary row can be attributed and re-scoped.
func KeyByPerson(rec models.ReportRecord) models.GroupKey {
	return models.GroupKey{Team: rec.Team, Person: rec.Name, Email: rec.Email}
}

// KeyByTeam groups by team.
func KeyByTeam(rec models.ReportRecord) models.GroupKey {
	return models.GroupKey{Team: rec.Team}
}

// KeyByProduct groups by product.
func KeyByProduct(rec models.ReportRecord) models.GroupKey {
	return models.GroupKey{Product: rec.Product}
}

// KeyByProductMarket groups by the product and market pair.
func KeyByProductMarket(rec models.ReportRecord) models.GroupKey {
	return models.GroupKey{Product: rec.Product, Market: rec.Market}
}

// Aggregate groups records by key, sums every measure within each group, and
// derives the KPI ratios from the summed measures. Ratios are never averaged
// across rows; they are always recomputed from group totals. Groups appear in
// first-seen input order.
func Aggregate(records []models.ReportRecord, key KeyFunc) []models.SummaryRow {
	index := make(map[models.GroupKey]int)
	rows := make([]models.SummaryRow, 0)
	for _, rec := range records {
		k := key(rec)
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, models.SummaryRow{Key: k})
		}
		rows[i].Measures.Add(rec.Measures)
	}
	for i := range rows {
		rows[i].Ratios = DeriveRatios(rows[i].Measures)
	}
	return rows
}

// Totals collapses a record set into a single summary row.
func Totals(records []models.ReportRecord) models.SummaryRow {
	var row models.SummaryRow
	for _, rec := range records {
		row.Measures.Add(rec.Measures)
	}
	row.Ratios = DeriveRatios(row.Measures)
	return row
}

// DeriveRatios computes the KPI ratios from summed measures. Every ratio with
// a zero denominator is 0, never NaN or infinity.
func DeriveRatios(m models.Measures) models.Ratios {
	var r models.Ratios
	if m.Messages > 0 {
		r.ClosingRate = float64(m.Orders) / float64(m.Messages)
		r.ActualClosingRate = float64(m.ActualOrders) / float64(m.Messages)
		r.CostPerMessage = m.AdSpend / float64(m.Messages)
	}
	if m.Orders > 0 {
		r.CostPerOrder = m.AdSpend / float64(m.Orders)
		r.AvgOrderValue = m.Revenue / float64(m.Orders)
	}
	if m.Revenue > 0 {
		r.SpendToRevenue = m.AdSpend / m.Revenue
	}
	if m.KPITarget > 0 {
		r.KPIAttainment = m.PostShippingRevenue / m.KPITarget
	}
	return r
}

// SortByRevenueDesc orders summary rows by closed revenue, highest first.
// The sort is stable so equal-revenue groups keep their first-seen order.
func SortByRevenueDesc(rows []models.SummaryRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Revenue > rows[j].Revenue
	})
}
