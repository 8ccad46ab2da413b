package enum

// ── Group A: State machine ──

const (
	OrderStatusNew       = "new"
	OrderStatusDelayed   = "delayed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
)

// ── Group B: Kitchen stations (menu categories) ──

const (
	CategoryAll      = "all"
	CategoryGrill    = "grill"
	CategoryDrinks   = "drinks"
	CategoryDesserts = "desserts"
	CategorySalads   = "salads"
)

const (
	OriginTable    = "table"
	OriginCustomer = "customer"
	OriginDelivery = "delivery"
)

// ── Group C: Store events (websocket + broker routing keys) ──

const (
	EventSnapshot       = "snapshot"
	EventOrderCreated   = "order.created"
	EventOrderUpdated   = "order.updated"
	EventOrderCompleted = "order.completed"
	EventOrdersTicked   = "orders.ticked"
)

const (
	RoleKitchen = "KITCHEN"
	RoleExpo    = "EXPO"
)
