package storeclient

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tailorflow/internal/application/ports"
	"github.com/jhoicas/tailorflow/internal/domain"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
	"github.com/jhoicas/tailorflow/pkg/logger"
)

var _ ports.RecordStore = (*FallbackStore)(nil)

// Latencias por defecto del modo de respaldo.
const (
	DefaultLatency     = 500 * time.Millisecond
	DefaultAuthLatency = 800 * time.Millisecond
)

// MsgFallbackInvalidCredentials mensaje de login fallido sin endpoint configurado.
const MsgFallbackInvalidCredentials = "Invalid credentials (Try demo@tailor.com / demo)"

// FallbackStore record store en memoria para cuando no hay endpoint configurado.
// Es dueño de su Dataset: las lecturas devuelven copias y las escrituras solo
// afectan a esta instancia.
type FallbackStore struct {
	mu          sync.Mutex
	data        *Dataset
	latency     time.Duration
	authLatency time.Duration
	log         *logger.Logger
}

// FallbackOption configura el FallbackStore.
type FallbackOption func(*FallbackStore)

// WithLatency fija la demora simulada de datos y de autenticación.
func WithLatency(data, auth time.Duration) FallbackOption {
	return func(s *FallbackStore) {
		s.latency = data
		s.authLatency = auth
	}
}

// WithFallbackLogger inyecta el logger.
func WithFallbackLogger(log *logger.Logger) FallbackOption {
	return func(s *FallbackStore) {
		if log != nil {
			s.log = log
		}
	}
}

// NewFallbackStore construye el store sobre data; nil usa DemoDataset.
func NewFallbackStore(data *Dataset, opts ...FallbackOption) *FallbackStore {
	if data == nil {
		data = DemoDataset(time.Now())
	}
	s := &FallbackStore{
		data:        data,
		latency:     DefaultLatency,
		authLatency: DefaultAuthLatency,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("storeclient.fallback")
	return s
}

// wait simula la latencia de red respetando la cancelación.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login busca el usuario por email y password.
func (s *FallbackStore) Login(ctx context.Context, email, password string) (*entity.User, error) {
	if err := wait(ctx, s.authLatency); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.data.Users {
		if u.Email == email && u.Password == password {
			out := u
			out.Password = ""
			return &out, nil
		}
	}
	return nil, domain.NewAuthError(MsgFallbackInvalidCredentials)
}

// Signup registra el usuario en el dataset propio con rol admin.
func (s *FallbackStore) Signup(ctx context.Context, name, email, password string) (*entity.User, error) {
	if err := wait(ctx, s.authLatency); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.data.Users {
		if u.Email == email {
			return nil, domain.NewAuthError(domain.MsgUserExists)
		}
	}
	u := entity.User{
		ID:       "u" + uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: password,
		Role:     entity.RoleAdmin,
	}
	s.data.Users = append(s.data.Users, u)
	s.log.Debug().Str("user_id", u.ID).Msg("usuario registrado en memoria")
	u.Password = ""
	return &u, nil
}

// GetOrders copia de todas las órdenes.
func (s *FallbackStore) GetOrders(ctx context.Context) ([]entity.Order, error) {
	if err := wait(ctx, s.latency); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Order, len(s.data.Orders))
	for i, o := range s.data.Orders {
		out[i] = o.Clone()
	}
	return out, nil
}

// CreateOrder agrega la orden al inicio.
func (s *FallbackStore) CreateOrder(ctx context.Context, order entity.Order) error {
	if err := wait(ctx, s.latency); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Orders = append([]entity.Order{order.Clone()}, s.data.Orders...)
	return nil
}

// UpdateOrder reemplaza la orden con el mismo id.
func (s *FallbackStore) UpdateOrder(ctx context.Context, order entity.Order) error {
	if err := wait(ctx, s.latency); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Orders {
		if s.data.Orders[i].ID == order.ID {
			s.data.Orders[i] = order.Clone()
			return nil
		}
	}
	return domain.NewNotFoundError("Order", order.ID)
}

// GetCustomers copia de todos los clientes.
func (s *FallbackStore) GetCustomers(ctx context.Context) ([]entity.Customer, error) {
	if err := wait(ctx, s.latency); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Customer, len(s.data.Customers))
	for i, c := range s.data.Customers {
		out[i] = c.Clone()
	}
	return out, nil
}

// CreateCustomer agrega el cliente al final.
func (s *FallbackStore) CreateCustomer(ctx context.Context, customer entity.Customer) error {
	if err := wait(ctx, s.latency); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Customers = append(s.data.Customers, customer.Clone())
	return nil
}
