package order

import (
	"fmt"

	"github.com/kiwari-pos/kds/internal/enum"
)

// Origin describes who placed an order. Exactly one of TableOrigin,
// CustomerOrigin or DeliveryOrigin.
type Origin interface {
	Kind() string
	Label() string
	isOrigin()
}

// TableOrigin is a dine-in table.
type TableOrigin struct {
	Name   string
	Number int
}

// CustomerOrigin is a walk-in or phone customer.
type CustomerOrigin struct {
	Name string
}

// DeliveryOrigin is a third-party delivery ticket, e.g. "DoorDash #882".
type DeliveryOrigin struct {
	Source string
}

// Table builds a dine-in origin named "Table N".
func Table(n int) TableOrigin {
	return TableOrigin{Name: fmt.Sprintf("Table %d", n), Number: n}
}

func (TableOrigin) Kind() string    { return enum.OriginTable }
func (CustomerOrigin) Kind() string { return enum.OriginCustomer }
func (DeliveryOrigin) Kind() string { return enum.OriginDelivery }

func (t TableOrigin) Label() string    { return t.Name }
func (c CustomerOrigin) Label() string { return c.Name }
func (d DeliveryOrigin) Label() string { return d.Source }

func (TableOrigin) isOrigin()    {}
func (CustomerOrigin) isOrigin() {}
func (DeliveryOrigin) isOrigin() {}

// LabelOf returns the display label of o, or "N/A" when unset.
func LabelOf(o Origin) string {
	if o == nil || o.Label() == "" {
		return "N/A"
	}
	return o.Label()
}
