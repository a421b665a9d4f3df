package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tailorflow/internal/domain"
)

// Customer cliente de la boutique.
// TotalOrders y SavedMeasurements son campos de conveniencia desnormalizados:
// se actualizan como efecto lateral al crear órdenes y no son la fuente de verdad.
type Customer struct {
	ID                string                   `json:"id"`
	Name              string                   `json:"name"`
	Phone             string                   `json:"phone"`
	Email             string                   `json:"email,omitempty"`
	SavedMeasurements map[string][]Measurement `json:"savedMeasurements"` // clave: GarmentType
	TotalOrders       int                      `json:"totalOrders"`
	LastVisit         string                   `json:"lastVisit"`
}

// Validate nombre y teléfono son obligatorios.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: id es obligatorio", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" {
		return fmt.Errorf("%w: name y phone son obligatorios", domain.ErrInvalidInput)
	}
	return nil
}

// Clone copia profunda del mapa de medidas.
func (c Customer) Clone() Customer {
	if c.SavedMeasurements != nil {
		saved := make(map[string][]Measurement, len(c.SavedMeasurements))
		for k, v := range c.SavedMeasurements {
			saved[k] = CloneMeasurements(v)
		}
		c.SavedMeasurements = saved
	}
	return c
}

// RecordOrder aplica los efectos de una orden nueva: suma una orden, marca la visita
// de hoy y guarda las medidas de la orden para ese tipo de prenda.
func (c *Customer) RecordOrder(o Order, now time.Time) {
	c.TotalOrders++
	c.LastVisit = FormatDate(now)
	if c.SavedMeasurements == nil {
		c.SavedMeasurements = make(map[string][]Measurement)
	}
	c.SavedMeasurements[string(o.GarmentType)] = CloneMeasurements(o.Measurements)
}

// NewCustomer arma un cliente nuevo sin órdenes.
func NewCustomer(name, phone, email string, now time.Time) (Customer, error) {
	c := Customer{
		ID:                "c" + uuid.NewString(),
		Name:              strings.TrimSpace(name),
		Phone:             strings.TrimSpace(phone),
		Email:             strings.TrimSpace(email),
		SavedMeasurements: map[string][]Measurement{},
		TotalOrders:       0,
		LastVisit:         FormatDate(now),
	}
	if err := c.Validate(); err != nil {
		return Customer{}, err
	}
	return c, nil
}
