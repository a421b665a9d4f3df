package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO indicadores del tablero, calculados sobre el cache local.
type DashboardSummaryDTO struct {
	ActiveOrders   int             `json:"active_orders"`   // ni Completed ni Delivered
	UrgentOrders   int             `json:"urgent_orders"`   // urgentes aún no entregadas
	CompletedCount int             `json:"completed_count"` // Completed + Delivered
	TotalRevenue   decimal.Decimal `json:"total_revenue"`   // suma de price
	Collected      decimal.Decimal `json:"collected"`       // suma de advance
	PendingPayment decimal.Decimal `json:"pending_payment"` // revenue - collected

	// Conteo por estado en el orden del flujo.
	StatusCounts []StatusCountDTO `json:"status_counts"`

	// Hasta 5 órdenes activas con la fecha de entrega más próxima.
	Upcoming []UpcomingOrderDTO `json:"upcoming"`

	// Tendencia semanal fija; no proviene de datos reales.
	RevenueTrend []RevenuePointDTO `json:"revenue_trend"`
}

// StatusCountDTO cantidad de órdenes en un estado.
type StatusCountDTO struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// UpcomingOrderDTO fila del widget de entregas próximas.
type UpcomingOrderDTO struct {
	OrderID      string `json:"order_id"`
	CustomerName string `json:"customer_name"`
	GarmentType  string `json:"garment_type"`
	DueDate      string `json:"due_date"`
	Status       string `json:"status"`
	IsUrgent     bool   `json:"is_urgent"`
}

// RevenuePointDTO punto de la serie de ingresos.
type RevenuePointDTO struct {
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
}
