package usecase

import (
	"fmt"

	"github.com/jhoicas/tailorflow/internal/application/ports"
	"github.com/jhoicas/tailorflow/internal/domain"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
)

// SlipSource búsqueda local de órdenes y clientes; la implementa el cache.
type SlipSource interface {
	Order(id string) (entity.Order, bool)
	Customer(id string) (entity.Customer, bool)
}

// SlipUseCase genera la boleta PDF de una orden del cache.
type SlipUseCase struct {
	source    SlipSource
	generator ports.SlipGenerator
}

// NewSlipUseCase construye el caso de uso.
func NewSlipUseCase(source SlipSource, generator ports.SlipGenerator) *SlipUseCase {
	return &SlipUseCase{source: source, generator: generator}
}

// Generate devuelve los bytes del PDF. Si el cliente ya no está en el cache la
// boleta se imprime solo con el nombre guardado en la orden.
func (uc *SlipUseCase) Generate(orderID string) ([]byte, error) {
	order, ok := uc.source.Order(orderID)
	if !ok {
		return nil, domain.NewNotFoundError("Order", orderID)
	}
	var customer *entity.Customer
	if c, ok := uc.source.Customer(order.CustomerID); ok {
		customer = &c
	}
	doc, err := uc.generator.Generate(order, customer)
	if err != nil {
		return nil, fmt.Errorf("boleta %s: %w", orderID, err)
	}
	return doc, nil
}
