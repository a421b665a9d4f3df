package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tailorflow/internal/domain"
)

// Importar entity activa decimal.MarshalJSONWithoutQuotes para todo el proceso:
// json_data y la API guardan los importes como números. Cualquier decimal.Decimal
// serializado en un binario que use este paquete sale sin comillas.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout formato de las fechas de negocio (orderDate, dueDate, lastVisit).
const DateLayout = "2006-01-02"

// FormatDate devuelve t como YYYY-MM-DD.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// ── Tipo de prenda ────────────────────────────────────────────────────────────

// GarmentType tipo de prenda (enumeración cerrada).
type GarmentType string

const (
	GarmentShirt   GarmentType = "Shirt"
	GarmentPant    GarmentType = "Pant"
	GarmentSuit2pc GarmentType = "Suit (2pc)"
	GarmentSuit3pc GarmentType = "Suit (3pc)"
	GarmentKurta   GarmentType = "Kurta"
	GarmentLehenga GarmentType = "Lehenga"
	GarmentBlouse  GarmentType = "Blouse"
	GarmentDress   GarmentType = "Dress"
	GarmentOther   GarmentType = "Other"
)

// GarmentTypes todos los tipos de prenda en orden de presentación.
var GarmentTypes = []GarmentType{
	GarmentShirt, GarmentPant, GarmentSuit2pc, GarmentSuit3pc, GarmentKurta,
	GarmentLehenga, GarmentBlouse, GarmentDress, GarmentOther,
}

// Valid indica si g pertenece a la enumeración.
func (g GarmentType) Valid() bool {
	for _, v := range GarmentTypes {
		if v == g {
			return true
		}
	}
	return false
}

// ParseGarmentType convierte s en GarmentType o devuelve ErrInvalidInput.
func ParseGarmentType(s string) (GarmentType, error) {
	g := GarmentType(s)
	if !g.Valid() {
		return "", fmt.Errorf("%w: tipo de prenda %q", domain.ErrInvalidInput, s)
	}
	return g, nil
}

// UnmarshalJSON rechaza cualquier valor fuera de la enumeración.
func (g *GarmentType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseGarmentType(s)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ── Estado de la orden ────────────────────────────────────────────────────────

// OrderStatus estado de la orden (enumeración cerrada y ordenada).
type OrderStatus string

const (
	StatusReceived   OrderStatus = "Received"
	StatusCutting    OrderStatus = "Cutting"
	StatusStitching  OrderStatus = "Stitching"
	StatusTrialReady OrderStatus = "Trial Ready"
	StatusAlteration OrderStatus = "Alteration"
	StatusCompleted  OrderStatus = "Completed"
	StatusDelivered  OrderStatus = "Delivered"
)

// OrderStatuses todos los estados en el orden del flujo de trabajo.
var OrderStatuses = []OrderStatus{
	StatusReceived, StatusCutting, StatusStitching, StatusTrialReady,
	StatusAlteration, StatusCompleted, StatusDelivered,
}

// Rank posición del estado en el flujo (0 = Received); -1 si no es válido.
func (s OrderStatus) Rank() int {
	for i, v := range OrderStatuses {
		if v == s {
			return i
		}
	}
	return -1
}

// Valid indica si s pertenece a la enumeración.
func (s OrderStatus) Valid() bool { return s.Rank() >= 0 }

// IsActive una orden sigue en el taller mientras no esté Completed ni Delivered.
func (s OrderStatus) IsActive() bool {
	return s != StatusCompleted && s != StatusDelivered
}

// ParseOrderStatus convierte s en OrderStatus o devuelve ErrInvalidInput.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, s)
	}
	return st, nil
}

// UnmarshalJSON rechaza cualquier valor fuera de la enumeración.
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseOrderStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ── Orden ─────────────────────────────────────────────────────────────────────

// Order orden de confección. CustomerName está desnormalizado para los listados.
//
// Price y Advance se serializan como números JSON (1250.5, no "1250.5") porque
// el init de este paquete pone decimal.MarshalJSONWithoutQuotes en true, un
// ajuste global de shopspring/decimal que alcanza a todo el proceso.
type Order struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customerId"`
	CustomerName  string          `json:"customerName"`
	GarmentType   GarmentType     `json:"garmentType"`
	Description   string          `json:"description"`
	Measurements  []Measurement   `json:"measurements"`
	Status        OrderStatus     `json:"status"`
	OrderDate     string          `json:"orderDate"`
	DueDate       string          `json:"dueDate"`
	Price         decimal.Decimal `json:"price"`
	Advance       decimal.Decimal `json:"advance"`
	IsUrgent      bool            `json:"isUrgent"`
	AssignedStaff string          `json:"assignedStaff,omitempty"`
	Images        []string        `json:"images,omitempty"`
}

// BalanceDue saldo pendiente (price - advance). No se exige advance <= price,
// así que puede ser negativo.
func (o Order) BalanceDue() decimal.Decimal {
	return o.Price.Sub(o.Advance)
}

// Validate revisa las enumeraciones y los campos obligatorios.
func (o Order) Validate() error {
	if strings.TrimSpace(o.ID) == "" || strings.TrimSpace(o.CustomerID) == "" {
		return fmt.Errorf("%w: id y customerId son obligatorios", domain.ErrInvalidInput)
	}
	if !o.GarmentType.Valid() {
		return fmt.Errorf("%w: tipo de prenda %q", domain.ErrInvalidInput, o.GarmentType)
	}
	if !o.Status.Valid() {
		return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, o.Status)
	}
	for _, m := range o.Measurements {
		if m.Unit != UnitInches && m.Unit != UnitCentimetres {
			return fmt.Errorf("%w: unidad %q en la medida %q", domain.ErrInvalidInput, m.Unit, m.Label)
		}
		if !m.Value.Finite() {
			return fmt.Errorf("%w: valor no finito en la medida %q", domain.ErrInvalidInput, m.Label)
		}
	}
	return nil
}

// Clone copia profunda (slices incluidos).
func (o Order) Clone() Order {
	o.Measurements = CloneMeasurements(o.Measurements)
	if o.Images != nil {
		o.Images = append([]string(nil), o.Images...)
	}
	return o
}

// OrderDraft datos que captura el formulario de nueva orden.
type OrderDraft struct {
	GarmentType  GarmentType
	Description  string
	Measurements []Measurement
	DueDate      string
	Price        decimal.Decimal
	Advance      decimal.Decimal
	IsUrgent     bool
}

// NewOrder arma una orden nueva en estado Received para el cliente dado.
func NewOrder(customer Customer, d OrderDraft, now time.Time) Order {
	measurements := CloneMeasurements(d.Measurements)
	if measurements == nil {
		measurements = DefaultMeasurements(d.GarmentType)
	}
	return Order{
		ID:           "o" + uuid.NewString(),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		GarmentType:  d.GarmentType,
		Description:  d.Description,
		Measurements: measurements,
		Status:       StatusReceived,
		OrderDate:    FormatDate(now),
		DueDate:      d.DueDate,
		Price:        d.Price,
		Advance:      d.Advance,
		IsUrgent:     d.IsUrgent,
	}
}
