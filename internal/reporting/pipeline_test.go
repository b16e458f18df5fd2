package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adopshq/mkt-report-api/internal/models"
)

// Exercises the full normalize -> scope -> criteria -> aggregate pipeline on
// a small fixed scenario.
func TestReportingPipeline(t *testing.T) {
	rows := []map[string]interface{}{
		{"Tên": "X", "Team": "T1", "Ngày": "2024-05-01", "Số_Mess_Cmt": float64(10), "Số đơn": float64(2), "Doanh số": float64(1000)},
		{"Tên": "X", "Team": "T1", "Ngày": "2024-05-02", "Số_Mess_Cmt": float64(5), "Số đơn": float64(1), "Doanh số": float64(500)},
		{"Tên": "Y", "Team": "T2", "Ngày": "2024-05-01", "Số_Mess_Cmt": float64(8), "Số đơn": float64(4), "Doanh số": float64(800)},
	}

	records := NormalizeAll(rows, FeedMapping)
	require.Len(t, records, 3)

	t.Run("group by person", func(t *testing.T) {
		rows := Aggregate(records, KeyByPerson)
		require.Len(t, rows, 2)

		x, y := rows[0], rows[1]
		assert.Equal(t, "X", x.Key.Person)
		assert.Equal(t, 15, x.Messages)
		assert.Equal(t, 3, x.Orders)
		assert.Equal(t, 1500.0, x.Revenue)
		assert.InDelta(t, 0.2, x.ClosingRate, 1e-9)

		assert.Equal(t, "Y", y.Key.Person)
		assert.Equal(t, 8, y.Messages)
		assert.Equal(t, 4, y.Orders)
		assert.Equal(t, 800.0, y.Revenue)
		assert.InDelta(t, 0.5, y.ClosingRate, 1e-9)
	})

	t.Run("team filter before grouping", func(t *testing.T) {
		filtered := ApplyCriteria(records, models.FilterCriteria{Teams: []string{"T1"}})
		rows := Aggregate(filtered, KeyByPerson)
		require.Len(t, rows, 1)
		assert.Equal(t, "X", rows[0].Key.Person)
		assert.Equal(t, 15, rows[0].Messages)
		assert.InDelta(t, 0.2, rows[0].ClosingRate, 1e-9)
	})

	t.Run("single day range", func(t *testing.T) {
		start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
		filtered := ApplyCriteria(records, models.FilterCriteria{StartDate: &start, EndDate: &start})
		rows := Aggregate(filtered, KeyByPerson)
		require.Len(t, rows, 2)
		assert.Equal(t, 10, rows[0].Messages)
		assert.Equal(t, 2, rows[0].Orders)
		assert.Equal(t, 1000.0, rows[0].Revenue)
		assert.Equal(t, 800.0, rows[1].Revenue)
	})

	t.Run("leader scope composes with grouping", func(t *testing.T) {
		scoped := ApplyScope(records, models.RoleLeader, "T2", "lead@corp.vn")
		rows := Aggregate(scoped, KeyByPerson)
		require.Len(t, rows, 1)
		assert.Equal(t, "Y", rows[0].Key.Person)
	})
}
