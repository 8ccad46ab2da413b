package menu

import (
	"github.com/kiwari-pos/kds/internal/order"
	"github.com/shopspring/decimal"
)

func dish(name, price string, cat order.Category, prep int, desc, image string) Item {
	return Item{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		Category:    cat,
		PrepTime:    prep,
		Available:   true,
		Description: desc,
		Image:       image,
	}
}

func defaultItems() []Item {
	return []Item{
		dish("Ribeye Steak", "38.00", order.CategoryGrill, 18, "Premium cut, 12oz", "food/ribeye-steak.jpg"),
		dish("Grilled Salmon", "34.00", order.CategoryGrill, 15, "Atlantic salmon fillet", "food/grilled-salmon.jpg"),
		dish("BBQ Chicken Wings", "16.00", order.CategoryGrill, 14, "House BBQ sauce, 8pc", "food/bbq-chicken-wings.jpg"),
		dish("Wagyu Burger", "32.00", order.CategoryGrill, 12, "A5 Wagyu patty, brioche bun", "food/wagyu-burger.jpg"),
		dish("Caesar Salad", "14.00", order.CategorySalads, 5, "Romaine, parmesan, croutons", "food/caesar-salad.jpg"),
		dish("Garlic Bread", "8.00", order.CategoryGrill, 4, "Toasted with herb butter", "food/garlic-bread.jpg"),
		dish("Truffle Fries", "14.00", order.CategoryGrill, 6, "Truffle oil, parmesan", "food/truffle-fries.jpg"),
		dish("Coleslaw", "6.00", order.CategorySalads, 3, "Classic creamy coleslaw", "food/coleslaw.jpg"),
		dish("Mango Smoothie", "9.00", order.CategoryDrinks, 4, "Fresh mango, yogurt", "food/mango-smoothie.jpg"),
		dish("Espresso Martini", "15.00", order.CategoryDrinks, 3, "Vodka, espresso, Kahlúa", "food/espresso-martini.jpg"),
		dish("Cappuccino", "6.00", order.CategoryDrinks, 3, "Double shot espresso", "food/cappuccino.jpg"),
		dish("Iced Latte", "7.00", order.CategoryDrinks, 3, "Cold brew, oat milk", "food/iced-latte.jpg"),
		dish("Chocolate Lava Cake", "16.00", order.CategoryDesserts, 10, "Molten center, vanilla ice cream", "food/chocolate-lava-cake.jpg"),
		dish("Crème Brûlée", "13.00", order.CategoryDesserts, 8, "Classic French custard", "food/creme-brulee.jpg"),
		dish("Tiramisu", "14.00", order.CategoryDesserts, 5, "Mascarpone, espresso, cocoa", "food/tiramisu.jpg"),
	}
}

// Notes is the per-station vocabulary of preparation modifiers a ticket
// line may carry.
var Notes = map[order.Category][]string{
	order.CategoryGrill:    {"Medium-rare", "Well-done", "No onions", "Extra cheese", "No sauce", "Gluten-free"},
	order.CategoryDrinks:   {"Oat milk", "Extra shot", "No ice", "Decaf", "Less sugar"},
	order.CategoryDesserts: {"Extra cream", "No nuts", "Add berries", "Birthday candle"},
	order.CategorySalads:   {"No croutons", "Extra dressing", "Dressing on side", "Vegan"},
}
