package ports

import "github.com/jhoicas/tailorflow/internal/domain/entity"

// SlipGenerator genera la boleta imprimible de una orden (PDF).
type SlipGenerator interface {
	Generate(order entity.Order, customer *entity.Customer) ([]byte, error)
}
