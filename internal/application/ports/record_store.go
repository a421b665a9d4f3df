package ports

import (
	"context"

	"github.com/jhoicas/tailorflow/internal/domain/entity"
)

// RecordStore puerto de salida hacia el almacén de registros (remoto o de respaldo).
// Los errores son *domain.AuthError, *domain.TransportError o *domain.NotFoundError.
type RecordStore interface {
	Login(ctx context.Context, email, password string) (*entity.User, error)
	Signup(ctx context.Context, name, email, password string) (*entity.User, error)
	GetOrders(ctx context.Context) ([]entity.Order, error)
	CreateOrder(ctx context.Context, order entity.Order) error
	UpdateOrder(ctx context.Context, order entity.Order) error
	GetCustomers(ctx context.Context) ([]entity.Customer, error)
	CreateCustomer(ctx context.Context, customer entity.Customer) error
}
