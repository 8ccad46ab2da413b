// Package history searches and exports completed orders.
package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kiwari-pos/kds/internal/order"
)

// Header is the CSV column set of an order-history export.
var Header = []string{"Order #", "Source", "Items", "Total Price", "Prep Time (min)", "Time", "Category"}

// Search returns the orders matching q on order number, dish name,
// customer, table or delivery source. An empty q matches everything.
func Search(orders []order.Order, q string) []order.Order {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return orders
	}

	out := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if matches(o, q) {
			out = append(out, o)
		}
	}
	return out
}

func matches(o order.Order, q string) bool {
	if strings.Contains(strconv.Itoa(o.OrderNumber), q) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.Name), q) {
			return true
		}
	}
	return o.Origin != nil && strings.Contains(strings.ToLower(o.Origin.Label()), q)
}

// ItemsSummary renders lines as "2x Wagyu Burger; 1x Truffle Fries".
func ItemsSummary(items []order.Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%dx %s", it.Quantity, it.Name)
	}
	return strings.Join(parts, "; ")
}

// Row converts one order to its export columns. Times are rendered in loc.
func Row(o order.Order, loc *time.Location) []string {
	return []string{
		fmt.Sprintf("#%d", o.OrderNumber),
		order.LabelOf(o.Origin),
		ItemsSummary(o.Items),
		"$" + o.TotalPrice.StringFixed(2),
		strconv.Itoa(o.ElapsedMinutes),
		o.CreatedAt.In(loc).Format("03:04 PM"),
		string(o.Category),
	}
}

// WriteCSV writes the header and one row per order.
func WriteCSV(w io.Writer, orders []order.Order, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, o := range orders {
		if err := cw.Write(Row(o, loc)); err != nil {
			return fmt.Errorf("write order #%d: %w", o.OrderNumber, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename names an export taken on the given day.
func Filename(now time.Time) string {
	return "order-history-" + now.Format(time.DateOnly) + ".csv"
}
