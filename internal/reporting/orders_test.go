package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adopshq/mkt-report-api/internal/models"
)

func TestNormalizeOrderRow(t *testing.T) {
	raw := map[string]interface{}{
		"id":                   "ord-1",
		"Mã đơn hàng":          " DH-001 ",
		"Name*":                "Tran Thi B",
		"Phone*":               "0901234567",
		"Add":                  "12 Le Loi",
		"City":                 "HCM",
		"Mặt hàng":             "Serum",
		"Số lượng mặt hàng 1":  float64(2),
		"Giá bán":              "45.5",
		"Tổng tiền VNĐ":        float64(2250000),
		"Nhân viên Marketing":  "An",
		"Nhân viên Sale":       "Binh",
		"Team":                 "Alpha",
		"Ca":                   "mid-shift",
		"Ngày lên đơn":         "2024-05-02",
		"Trạng thái đơn":       models.OrderStatusValid,
		"Hình thức thanh toán": "COD",
	}

	rec, ok := NormalizeOrder(raw, OrderFeedMapping)
	require.True(t, ok)

	assert.Equal(t, "ord-1", rec.ID)
	assert.Equal(t, "DH-001", rec.OrderCode)
	assert.Equal(t, "Tran Thi B", rec.CustomerName)
	assert.Equal(t, "0901234567", rec.Phone)
	assert.Equal(t, "12 Le Loi, HCM", rec.Address)
	assert.Equal(t, "Serum", rec.Product)
	assert.Equal(t, 2, rec.Quantity)
	assert.Equal(t, 45.5, rec.UnitPrice)
	assert.Equal(t, 2250000.0, rec.TotalVND)
	assert.Equal(t, "An", rec.Marketer)
	assert.Equal(t, "Binh", rec.Salesperson)
	assert.Equal(t, "Alpha", rec.Team)
	assert.True(t, rec.DateValid)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.Local), rec.OrderedAt)
	assert.Equal(t, models.OrderStatusValid, rec.Status)
	assert.Equal(t, "COD", rec.Payment)
}

func TestNormalizeOrderFallbackKeys(t *testing.T) {
	rec, ok := NormalizeOrder(map[string]interface{}{
		"Tên lên đơn":       "C",
		"Tên mặt hàng 1":    "Gel",
		"Thời gian lên đơn": "2024-05-02T09:30:00",
	}, OrderFeedMapping)
	require.True(t, ok)

	assert.Equal(t, "C", rec.CustomerName)
	assert.Equal(t, "Gel", rec.Product)
	assert.True(t, rec.DateValid)
}

func TestNormalizeOrderDropsUnidentifiable(t *testing.T) {
	_, ok := NormalizeOrder(map[string]interface{}{"Phone*": "0900000000"}, OrderFeedMapping)
	assert.False(t, ok)

	// An order code alone identifies the row.
	rec, ok := NormalizeOrder(map[string]interface{}{"Mã đơn hàng": "DH-002"}, OrderFeedMapping)
	require.True(t, ok)
	assert.False(t, rec.DateValid)
	assert.Equal(t, models.SentinelOther, rec.Team)
}

func TestApplyOrderCriteriaDatesAndSearch(t *testing.T) {
	may1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	orders := []models.OrderRecord{
		{OrderCode: "DH-1", CustomerName: "Tran Thi B", Team: "Alpha", Shift: "mid-shift", OrderedAt: may1, DateValid: true},
		{OrderCode: "DH-2", CustomerName: "Le Van C", Team: "Beta", Shift: "end-shift", OrderedAt: may1.AddDate(0, 0, 20), DateValid: true},
		{OrderCode: "DH-3", CustomerName: "No Date", Team: "Alpha"},
	}

	end := may1.AddDate(0, 0, 4)
	got := ApplyOrderCriteria(orders, models.FilterCriteria{StartDate: &may1, EndDate: &end})
	// The undated order passes both date predicates.
	require.Len(t, got, 2)
	assert.Equal(t, "DH-1", got[0].OrderCode)
	assert.Equal(t, "DH-3", got[1].OrderCode)

	got = ApplyOrderCriteria(orders, models.FilterCriteria{Search: "le van"})
	require.Len(t, got, 1)
	assert.Equal(t, "DH-2", got[0].OrderCode)

	got = ApplyOrderCriteria(orders, models.FilterCriteria{Search: "dh-3"})
	require.Len(t, got, 1)
	assert.Equal(t, "No Date", got[0].CustomerName)

	got = ApplyOrderCriteria(orders, models.FilterCriteria{Shifts: []string{"end-shift"}})
	require.Len(t, got, 1)
	assert.Equal(t, "DH-2", got[0].OrderCode)

	got = ApplyOrderCriteria(orders, models.FilterCriteria{Teams: []string{"Alpha"}})
	assert.Len(t, got, 2)
}

func TestOrderCriteriaEndBoundInclusive(t *testing.T) {
	end := time.Date(2024, 5, 3, 0, 0, 0, 0, time.Local)
	orders := []models.OrderRecord{
		{OrderCode: "DH-1", OrderedAt: end.Add(18 * time.Hour), DateValid: true},
	}

	got := ApplyOrderCriteria(orders, models.FilterCriteria{EndDate: &end})
	assert.Len(t, got, 1, "an order later the same day is inside the range")
}

func TestSortOrdersNewestFirst(t *testing.T) {
	may1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	orders := []models.OrderRecord{
		{OrderCode: "DH-old", OrderedAt: may1, DateValid: true},
		{OrderCode: "DH-undated"},
		{OrderCode: "DH-new", OrderedAt: may1.AddDate(0, 0, 5), DateValid: true},
	}

	SortOrdersNewestFirst(orders)

	assert.Equal(t, "DH-new", orders[0].OrderCode)
	assert.Equal(t, "DH-old", orders[1].OrderCode)
	assert.Equal(t, "DH-undated", orders[2].OrderCode)
}

func TestOrderTotals(t *testing.T) {
	orders := []models.OrderRecord{
		{TotalVND: 1000000, Status: models.OrderStatusValid},
		{TotalVND: 500000, Status: "Chờ xác nhận"},
		{TotalVND: 1500000, Status: models.OrderStatusValid},
	}

	stats := OrderTotals(orders)

	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 3000000.0, stats.TotalValueVND)
	assert.Equal(t, 2, stats.ValidOrders)
	assert.Equal(t, 1000000.0, stats.AverageValueVND)

	assert.Equal(t, models.OrderStats{}, OrderTotals(nil))
}
