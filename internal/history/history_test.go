package history

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/kiwari-pos/kds/internal/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrders() []order.Order {
	at := time.Date(2026, 3, 14, 13, 5, 0, 0, time.UTC)
	return []order.Order{
		{
			OrderNumber: 1042,
			Origin:      order.Table(7),
			Category:    order.CategoryGrill,
			Items: []order.Item{
				{Name: "Wagyu Burger", Quantity: 2},
				{Name: "Truffle Fries", Quantity: 1},
			},
			TotalPrice:     decimal.RequireFromString("78"),
			ElapsedMinutes: 14,
			CreatedAt:      at,
		},
		{
			OrderNumber: 1046,
			Origin:      order.CustomerOrigin{Name: "Mike D."},
			Category:    order.CategoryDrinks,
			Items:       []order.Item{{Name: "Iced Latte", Quantity: 2}},
			TotalPrice:  decimal.RequireFromString("14.00"),
			CreatedAt:   at.Add(-9 * time.Hour),
		},
		{
			OrderNumber: 1052,
			Origin:      order.DeliveryOrigin{Source: "UberEats #445"},
			Category:    order.CategoryGrill,
			Items:       []order.Item{{Name: "BBQ Chicken Wings", Quantity: 2}},
			TotalPrice:  decimal.RequireFromString("64.5"),
			CreatedAt:   at,
		},
	}
}

func TestSearch(t *testing.T) {
	orders := sampleOrders()

	tests := []struct {
		q    string
		want []int
	}{
		{"", []int{1042, 1046, 1052}},
		{"104", []int{1042, 1046}},
		{"fries", []int{1042}},
		{"mike", []int{1046}},
		{"table 7", []int{1042}},
		{"ubereats", []int{1052}},
		{"pizza", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			got := Search(orders, tt.q)
			nums := make([]int, len(got))
			for i, o := range got {
				nums[i] = o.OrderNumber
			}
			assert.Equal(t, tt.want, nums)
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleOrders(), time.UTC))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{"#1042", "Table 7", "2x Wagyu Burger; 1x Truffle Fries", "$78.00", "14", "01:05 PM", "grill"}, records[1])
	assert.Equal(t, []string{"#1046", "Mike D.", "2x Iced Latte", "$14.00", "0", "04:05 AM", "drinks"}, records[2])
	assert.Equal(t, "$64.50", records[3][3])
}

func TestRowWithoutOrigin(t *testing.T) {
	o := sampleOrders()[0]
	o.Origin = nil
	assert.Equal(t, "N/A", Row(o, time.UTC)[1])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "order-history-2026-03-14.csv", Filename(time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)))
}
