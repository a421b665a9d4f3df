// Package analytics contiene el caso de uso del tablero de la boutique.
package analytics

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tailorflow/internal/application/dto"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
)

const dashboardTopUpcoming = 5 // filas del widget de entregas próximas

// revenueTrend serie semanal fija del widget de ingresos.
var revenueTrend = []dto.RevenuePointDTO{
	{Label: "Week 1", Revenue: decimal.NewFromInt(12000)},
	{Label: "Week 2", Revenue: decimal.NewFromInt(19000)},
	{Label: "Week 3", Revenue: decimal.NewFromInt(15000)},
	{Label: "Week 4", Revenue: decimal.NewFromInt(24000)},
}

// OrderSource fuente de órdenes; la implementa el cache de la sesión.
type OrderSource interface {
	Orders() []entity.Order
}

// DashboardUseCase calcula los indicadores del tablero.
//
// Fuente de datos: las órdenes ya cargadas en el cache local.
// No consulta el record store.
type DashboardUseCase struct {
	orders OrderSource
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(orders OrderSource) *DashboardUseCase {
	return &DashboardUseCase{orders: orders}
}

// GetSummary construye el DashboardSummaryDTO.
//
//  1. Activas: ni Completed ni Delivered.
//  2. Urgentes: IsUrgent y no Delivered.
//  3. Ingresos: suma de price; cobrado: suma de advance; pendiente: la diferencia.
//  4. Próximas: activas ordenadas por entrega, máximo 5.
func (uc *DashboardUseCase) GetSummary() *dto.DashboardSummaryDTO {
	orders := uc.orders.Orders()

	out := &dto.DashboardSummaryDTO{
		TotalRevenue: decimal.Zero,
		Collected:    decimal.Zero,
		StatusCounts: []dto.StatusCountDTO{},
		Upcoming:     []dto.UpcomingOrderDTO{},
		RevenueTrend: slices.Clone(revenueTrend),
	}

	counts := make(map[entity.OrderStatus]int, len(entity.OrderStatuses))
	active := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		counts[o.Status]++
		out.TotalRevenue = out.TotalRevenue.Add(o.Price)
		out.Collected = out.Collected.Add(o.Advance)

		if o.IsUrgent && o.Status != entity.StatusDelivered {
			out.UrgentOrders++
		}
		if o.Status.IsActive() {
			active = append(active, o)
		} else {
			out.CompletedCount++
		}
	}
	out.ActiveOrders = len(active)
	out.PendingPayment = out.TotalRevenue.Sub(out.Collected)

	// ── Conteo por estado, en el orden del flujo ─────────────────────────────
	for _, s := range entity.OrderStatuses {
		if n := counts[s]; n > 0 {
			out.StatusCounts = append(out.StatusCounts, dto.StatusCountDTO{Status: string(s), Count: n})
		}
	}

	// ── Entregas próximas ─────────────────────────────────────────────────────
	// Fechas YYYY-MM-DD: el orden lexicográfico es el cronológico; sin fecha al final.
	slices.SortStableFunc(active, func(a, b entity.Order) int {
		switch {
		case a.DueDate == b.DueDate:
			return 0
		case a.DueDate == "":
			return 1
		case b.DueDate == "":
			return -1
		}
		return cmp.Compare(a.DueDate, b.DueDate)
	})
	for _, o := range active[:min(len(active), dashboardTopUpcoming)] {
		out.Upcoming = append(out.Upcoming, dto.UpcomingOrderDTO{
			OrderID:      o.ID,
			CustomerName: o.CustomerName,
			GarmentType:  string(o.GarmentType),
			DueDate:      o.DueDate,
			Status:       string(o.Status),
			IsUrgent:     o.IsUrgent,
		})
	}
	return out
}
