package models

import "time"

// OrderStatusValid is the fulfilment feed's label for an order that passed
// verification. The feed reports statuses in Vietnamese, like its other
// columns, and the label is matched verbatim.
const OrderStatusValid = "Đơn hợp lệ"

// OrderRecord is one customer order from the fulfilment feed. Orders are a
// separate dataset from ad-performance records: they carry customer and
// payment detail and a single money amount in VND.
type OrderRecord struct {
	ID           string    `json:"id"`
	OrderCode    string    `json:"order_code"`
	CustomerName string    `json:"customer_name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Product      string    `json:"product"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	TotalVND     float64   `json:"total_vnd"`
	Marketer     string    `json:"marketer"`
	Salesperson  string    `json:"salesperson"`
	Team         string    `json:"team"`
	Shift        string    `json:"shift"`
	OrderedAt    time.Time `json:"ordered_at"`
	DateValid    bool      `json:"date_valid"`
	Status       string    `json:"status"`
	Payment      string    `json:"payment"`
}

// OrderStats summarizes a filtered order set.
type OrderStats struct {
	TotalOrders     int     `json:"total_orders"`
	TotalValueVND   float64 `json:"total_value_vnd"`
	ValidOrders     int     `json:"valid_orders"`
	AverageValueVND float64 `json:"average_value_vnd"`
}

// OrderBook is one page of the order table with stats over the whole
// filtered set.
type OrderBook struct {
	Orders      []OrderRecord `json:"orders"`
	Stats       OrderStats    `json:"stats"`
	Pagination  Pagination    `json:"pagination"`
	GeneratedAt time.Time     `json:"generated_at"`
}
