package order

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type orderJSON struct {
	ID             uuid.UUID  `json:"id"`
	OrderNumber    int        `json:"order_number"`
	OriginKind     string     `json:"origin_kind"`
	OriginLabel    string     `json:"origin_label"`
	Table          *string    `json:"table,omitempty"`
	TableNumber    *int       `json:"table_number,omitempty"`
	CustomerName   *string    `json:"customer_name,omitempty"`
	Source         *string    `json:"source,omitempty"`
	Status         Status     `json:"status"`
	IsRush         bool       `json:"is_rush"`
	Category       Category   `json:"category"`
	Items          []itemJSON `json:"items"`
	CreatedAt      time.Time  `json:"created_at"`
	ElapsedMinutes int        `json:"elapsed_minutes"`
	TotalPrice     string     `json:"total_price"`
}

type itemJSON struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	PrepTime  int      `json:"prep_time"`
	UnitPrice string   `json:"unit_price"`
	Notes     []string `json:"notes,omitempty"`
	Completed bool     `json:"completed"`
}

// MarshalJSON renders prices with two decimals and flattens the origin
// into table / customer_name / source fields.
func (o Order) MarshalJSON() ([]byte, error) {
	out := orderJSON{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		OriginLabel:    LabelOf(o.Origin),
		Status:         o.Status,
		IsRush:         o.IsRush,
		Category:       o.Category,
		CreatedAt:      o.CreatedAt,
		ElapsedMinutes: o.ElapsedMinutes,
		TotalPrice:     o.TotalPrice.StringFixed(2),
	}

	switch origin := o.Origin.(type) {
	case TableOrigin:
		out.OriginKind = origin.Kind()
		out.Table = &origin.Name
		out.TableNumber = &origin.Number
	case CustomerOrigin:
		out.OriginKind = origin.Kind()
		out.CustomerName = &origin.Name
	case DeliveryOrigin:
		out.OriginKind = origin.Kind()
		out.Source = &origin.Source
	}

	out.Items = make([]itemJSON, len(o.Items))
	for i, it := range o.Items {
		out.Items[i] = itemJSON{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			PrepTime:  it.PrepTime,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Notes:     it.Notes,
			Completed: it.Completed,
		}
	}
	return json.Marshal(out)
}
