package service

import (
	"time"

	"github.com/kiwari-pos/kds/internal/order"
	"github.com/shopspring/decimal"
)

// line builds a seed ticket line; unit price and prep time come from the
// menu when the order is added.
func line(id, name string, qty int, completed bool, notes ...string) order.Item {
	return order.Item{ID: id, Name: name, Quantity: qty, Completed: completed, Notes: notes}
}

// SeedOrders returns the opening board: 25 tickets numbered 1042-1066 in
// mixed stages. CreatedAt is backdated by each ticket's elapsed minutes.
func SeedOrders(now time.Time) []order.Order {
	orders := []order.Order{
		{
			OrderNumber: 1044, Origin: order.Table(3), Status: order.StatusDelayed, IsRush: true, Category: order.CategoryGrill,
			Items: []order.Item{
				line("i1", "Ribeye Steak", 1, false, "Medium-rare"),
				line("i2", "Caesar Salad", 1, false),
				line("i3", "Garlic Bread", 2, false),
			},
			ElapsedMinutes: 34, TotalPrice: decimal.RequireFromString("68.50"),
		},
		{
			OrderNumber: 1049, Origin: order.Table(9), Status: order.StatusDelayed, IsRush: false, Category: order.CategoryGrill,
			Items: []order.Item{
				line("i4", "Grilled Salmon", 1, false, "Gluten-free"),
			},
			ElapsedMinutes: 22, TotalPrice: decimal.RequireFromString("34.00"),
		},
		{
			OrderNumber: 1043, Origin: order.CustomerOrigin{Name: "Sarah M."}, Status: order.StatusDelayed, IsRush: false, Category: order.CategoryDrinks,
			Items: []order.Item{
				line("i5", "Mango Smoothie", 3, false),
				line("i6", "Espresso Martini", 1, false),
			},
			ElapsedMinutes: 20, TotalPrice: decimal.RequireFromString("42.00"),
		},
		{
			OrderNumber: 1045, Origin: order.Table(12), Status: order.StatusDelayed, IsRush: false, Category: order.CategoryDesserts,
			Items: []order.Item{
				line("i7", "Chocolate Lava Cake", 2, false),
				line("i8", "Crème Brûlée", 1, false),
			},
			ElapsedMinutes: 18, TotalPrice: decimal.RequireFromString("45.00"),
		},
		{
			OrderNumber: 1048, Origin: order.Table(5), Status: order.StatusDelayed, IsRush: false, Category: order.CategoryDesserts,
			Items: []order.Item{
				line("i9", "Tiramisu", 1, false),
				line("i10", "Cappuccino", 2, false),
			},
			ElapsedMinutes: 12, TotalPrice: decimal.RequireFromString("28.00"),
		},
		{
			OrderNumber: 1047, Origin: order.DeliveryOrigin{Source: "DoorDash #882"}, Status: order.StatusNew, IsRush: true, Category: order.CategoryGrill,
			Items: []order.Item{
				line("i11", "BBQ Chicken Wings", 3, false),
				line("i12", "Coleslaw", 2, false),
			},
			ElapsedMinutes: 13, TotalPrice: decimal.RequireFromString("52.00"),
		},
		{
			OrderNumber: 1042, Origin: order.Table(7), Status: order.StatusNew, IsRush: false, Category: order.CategoryGrill,
			Items: []order.Item{
				line("i13", "Wagyu Burger", 2, false, "No onions", "Extra cheese"),
				line("i14", "Truffle Fries", 1, false),
			},
			ElapsedMinutes: 14, TotalPrice: decimal.RequireFromString("78.00"),
		},
		{
			OrderNumber: 1046, Origin: order.CustomerOrigin{Name: "Mike D."}, Status: order.StatusReady, IsRush: false, Category: order.CategoryDrinks,
			Items: []order.Item{
				line("i15", "Iced Latte", 2, true),
			},
			ElapsedMinutes: 22, TotalPrice: decimal.RequireFromString("14.00"),
		},
		{
			OrderNumber: 1050, Origin: order.Table(1), Status: order.StatusNew, IsRush: false, Category: order.CategorySalads,
			Items: []order.Item{
				line("i16", "Caesar Salad", 2, false),
				line("i17", "Garlic Bread", 1, false),
			},
			ElapsedMinutes: 8, TotalPrice: decimal.RequireFromString("32.00"),
		},
		{
			OrderNumber: 1051, Origin: order.Table(14), Status: order.StatusNew, IsRush: true, Category: order.CategoryGrill,
			Items: []order.Item{
				line("i18", "Ribeye Steak", 2, false, "Well-done", "Medium"),
				line("i19", "Truffle Fries", 2, false),
			},
			ElapsedMinutes: 6, TotalPrice: decimal.RequireFromString("112.00"),
		},
		{
			OrderNumber: 1052, Origin: order.DeliveryOrigin{Source: "UberEats #445"}, Status: order.StatusPreparing, IsRush: false, Category: order.CategoryGrill,
			Items: []order.Item{
				line("i20", "Wagyu Burger", 1, false),
				line("i21", "BBQ Chicken Wings", 2, true),
			},
			ElapsedMinutes: 16, TotalPrice: decimal.RequireFromString("64.00"),
		},
		{
			OrderNumber: 1053, Origin: order.CustomerOrigin{Name: "Lisa K."}, Status: order.StatusNew, IsRush: false, Category: order.CategoryDrinks,
			Items: []order.Item{
				line("i22", "Cappuccino", 3, false),
				line("i23", "Iced Latte", 1, false),
				line("i24", "Mango Smoothie", 2, false),
			},
			ElapsedMinutes: 5, TotalPrice: decimal.RequireFromString("38.00"),
		},
		{
			OrderNumber: 1054, Origin: order.Table(6), Status: order.StatusPreparing, IsRush: false, Category: order.CategoryDesserts,
			Items: []order.Item{
				line("i25", "Tiramisu", 2, true),
				line("i26", "Chocolate Lava Cake", 1, false),
			},
			ElapsedMinutes: 10, TotalPrice: decimal.RequireFromString("36.00"),
		},
		{
			OrderNumber: 1055, Origin: order.Table(2), Status: order.StatusNew, IsRush: true, Category: order.CategoryGrill,
			Items: []order.Item{
				line("i27", "Grilled Salmon", 2, false, "No sauce"),
				line("i28", "Caesar Salad", 2, false),
			},
			ElapsedMinutes: 3, TotalPrice: decimal.RequireFromString("88.00"),
		},
		{
			OrderNumber: 1056, Origin: order.DeliveryOrigin{Source: "DoorDash #910"}, Status: order.StatusPreparing, IsRush: false, Category: order.CategoryGrill,
			Items: []order.Item{
				line("i29", "BBQ Chicken Wings", 4, false),
				line("i30", "Coleslaw", 3, true),
				line("i31", "Garlic Bread", 2, true),
			},
			ElapsedMinutes: 19, TotalPrice: decimal.RequireFromString("72.00"),
		},
		{
			OrderNumber: 1057, Origin: order.Table(10), Status: order.StatusNew, IsRush: false, Category: order.CategorySalads,
			Items: []order.Item{
				line("i32", "Caesar Salad", 1, false, "Extra dressing"),
			},
			ElapsedMinutes: 2, TotalPrice: decimal.RequireFromString("16.00"),
		},
		{
			OrderNumber: 1058, Origin: order.CustomerOrigin{Name: "Tom R."}, Status: order.StatusNew, IsRush: false, Category: order.CategoryDrinks,
			Items: []order.Item{
				line("i33", "Espresso Martini", 2, false),
				line("i34", "Mango Smoothie", 1, false),
			},
			ElapsedMinutes: 4, TotalPrice: decimal.RequireFromString("34.00"),
		},
		{
			OrderNumber: 1059, Origin: order.Table(8), Status: order.StatusReady, IsRush: false, Category: order.CategoryDesserts,
			Items: []order.Item{
				line("i35", "Crème Brûlée", 2, true),
			},
			ElapsedMinutes: 25, TotalPrice: decimal.RequireFromString("24.00"),
		},
		{
			OrderNumber: 1060, Origin: order.Table(4), Status: order.StatusPreparing, IsRush: true, Category: order.CategoryGrill,
			Items: []order.Item{
				line("i36", "Ribeye Steak", 1, false, "Rare"),
				line("i37", "Wagyu Burger", 1, true),
				line("i38", "Truffle Fries", 2, true),
			},
			ElapsedMinutes: 20, TotalPrice: decimal.RequireFromString("96.00"),
		},
		{
			OrderNumber: 1061, Origin: order.DeliveryOrigin{Source: "UberEats #512"}, Status: order.StatusNew, IsRush: false, Category: order.CategoryDesserts,
			Items: []order.Item{
				line("i39", "Chocolate Lava Cake", 3, false),
				line("i40", "Tiramisu", 2, false),
			},
			ElapsedMinutes: 1, TotalPrice: decimal.RequireFromString("55.00"),
		},
		{
			OrderNumber: 1062, Origin: order.Table(11), Status: order.StatusNew, IsRush: false, Category: order.CategoryGrill,
			Items: []order.Item{
				line("i41", "Grilled Salmon", 1, false),
				line("i42", "Garlic Bread", 1, false),
			},
			ElapsedMinutes: 7, TotalPrice: decimal.RequireFromString("42.00"),
		},
		{
			OrderNumber: 1063, Origin: order.CustomerOrigin{Name: "Anna P."}, Status: order.StatusPreparing, IsRush: false, Category: order.CategoryDrinks,
			Items: []order.Item{
				line("i43", "Iced Latte", 4, false),
			},
			ElapsedMinutes: 9, TotalPrice: decimal.RequireFromString("28.00"),
		},
		{
			OrderNumber: 1064, Origin: order.Table(15), Status: order.StatusNew, IsRush: true, Category: order.CategorySalads,
			Items: []order.Item{
				line("i44", "Caesar Salad", 3, false, "No croutons"),
				line("i45", "Garlic Bread", 2, false),
			},
			ElapsedMinutes: 2, TotalPrice: decimal.RequireFromString("48.00"),
		},
		{
			OrderNumber: 1065, Origin: order.Table(13), Status: order.StatusReady, IsRush: false, Category: order.CategoryGrill,
			Items: []order.Item{
				line("i46", "Wagyu Burger", 1, true),
				line("i47", "Coleslaw", 1, true),
			},
			ElapsedMinutes: 28, TotalPrice: decimal.RequireFromString("46.00"),
		},
		{
			OrderNumber: 1066, Origin: order.DeliveryOrigin{Source: "DoorDash #955"}, Status: order.StatusNew, IsRush: false, Category: order.CategoryDrinks,
			Items: []order.Item{
				line("i48", "Espresso Martini", 3, false),
				line("i49", "Cappuccino", 2, false),
			},
			ElapsedMinutes: 3, TotalPrice: decimal.RequireFromString("40.00"),
		},
	}
	for i := range orders {
		orders[i].CreatedAt = now.Add(-time.Duration(orders[i].ElapsedMinutes) * time.Minute)
	}
	return orders
}
