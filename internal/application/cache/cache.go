// Package cache mantiene la copia local de órdenes y clientes. Las escrituras se
// aplican de inmediato (optimistas) y se envían al record store en segundo plano;
// si el envío falla no se revierten, solo se marcan como desactualizadas.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/tailorflow/internal/application/ports"
	"github.com/jhoicas/tailorflow/internal/domain"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
	"github.com/jhoicas/tailorflow/pkg/logger"
)

// Avisos para el usuario cuando falla el envío de una creación.
const (
	WarnOrderNotSaved    = "Failed to save order to backend."
	WarnCustomerNotSaved = "Failed to save customer to backend."
)

// FilterAll valor de FilterOrders que no filtra.
const FilterAll = "All"

// SyncState estado de sincronización de un registro local.
type SyncState string

const (
	StatePending SyncState = "pending" // aplicado localmente, envío en curso
	StateSynced  SyncState = "synced"  // el store confirmó
	StateStale   SyncState = "stale"   // el envío falló; difiere del store hasta el próximo Refresh
)

// Session lo que el cache necesita saber de la sesión.
type Session interface {
	IsAuthenticated() bool
}

// Submission envío en segundo plano de una mutación.
type Submission struct {
	done chan struct{}
	err  error
}

// Done se cierra cuando el envío terminó.
func (s *Submission) Done() <-chan struct{} { return s.done }

// Wait bloquea hasta que el envío termine y devuelve su error.
func (s *Submission) Wait() error {
	<-s.done
	return s.err
}

type syncEntry struct {
	state SyncState
	seq   uint64
}

// Cache estado local de órdenes y clientes de la sesión.
type Cache struct {
	store   ports.RecordStore
	session Session
	log     *logger.Logger
	now     func() time.Time

	mu        sync.RWMutex
	orders    []entity.Order
	customers []entity.Customer
	orderSync map[string]syncEntry
	custSync  map[string]syncEntry
	seq       uint64
	warnings  []string
	loading   bool

	inflight sync.WaitGroup
}

// Option configura el Cache.
type Option func(*Cache)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New construye un cache vacío.
func New(store ports.RecordStore, session Session, log *logger.Logger, opts ...Option) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	c := &Cache{
		store:     store,
		session:   session,
		log:       log.Named("cache"),
		now:       time.Now,
		orderSync: make(map[string]syncEntry),
		custSync:  make(map[string]syncEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) requireSession() error {
	if c.session == nil || !c.session.IsAuthenticated() {
		return domain.ErrNoSession
	}
	return nil
}

// ── Refresh ───────────────────────────────────────────────────────────────────

// Refresh trae órdenes y clientes en paralelo y reemplaza ambas listas solo si
// las dos lecturas tuvieron éxito. Ante un error conserva las listas anteriores.
func (c *Cache) Refresh(ctx context.Context) error {
	if err := c.requireSession(); err != nil {
		return err
	}

	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	type ordersResult struct {
		orders []entity.Order
		err    error
	}
	type customersResult struct {
		customers []entity.Customer
		err       error
	}
	ordersCh := make(chan ordersResult, 1)
	customersCh := make(chan customersResult, 1)

	go func() {
		orders, err := c.store.GetOrders(ctx)
		ordersCh <- ordersResult{orders, err}
	}()
	go func() {
		customers, err := c.store.GetCustomers(ctx)
		customersCh <- customersResult{customers, err}
	}()

	o := <-ordersCh
	cu := <-customersCh

	if o.err != nil {
		c.log.Error().Err(o.err).Msg("refresh: órdenes")
		return fmt.Errorf("refresh: órdenes: %w", o.err)
	}
	if cu.err != nil {
		c.log.Error().Err(cu.err).Msg("refresh: clientes")
		return fmt.Errorf("refresh: clientes: %w", cu.err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = o.orders
	c.customers = cu.customers
	c.orderSync = make(map[string]syncEntry, len(o.orders))
	c.custSync = make(map[string]syncEntry, len(cu.customers))
	for _, ord := range o.orders {
		c.orderSync[ord.ID] = syncEntry{state: StateSynced}
	}
	for _, cust := range cu.customers {
		c.custSync[cust.ID] = syncEntry{state: StateSynced}
	}
	c.log.Debug().Int("orders", len(o.orders)).Int("customers", len(cu.customers)).Msg("cache actualizado")
	return nil
}

// Loading indica si hay un Refresh en curso.
func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// ── Mutaciones optimistas ─────────────────────────────────────────────────────

// AddOrder agrega la orden al inicio y actualiza al cliente (totalOrders, lastVisit y
// medidas guardadas para ese tipo de prenda); luego la envía en segundo plano.
// Si el envío falla la orden queda stale y se agrega el aviso WarnOrderNotSaved.
func (c *Cache) AddOrder(ctx context.Context, order entity.Order) (*Submission, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.orderIndex(order.ID) >= 0 {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: la orden %s ya existe", domain.ErrInvalidInput, order.ID)
	}
	ci := c.customerIndex(order.CustomerID)
	if ci < 0 {
		c.mu.Unlock()
		return nil, domain.NewNotFoundError("Customer", order.CustomerID)
	}
	local := order.Clone()
	c.orders = append([]entity.Order{local}, c.orders...)
	c.customers[ci].RecordOrder(local, c.now())
	seq := c.markLocked(c.orderSync, order.ID)
	c.mu.Unlock()

	payload := order.Clone()
	return c.submit(ctx, func(ctx context.Context) error {
		return c.store.CreateOrder(ctx, payload)
	}, func(err error) {
		c.settle(c.orderSync, order.ID, seq, err, WarnOrderNotSaved)
	}), nil
}

// AddCustomer agrega el cliente al final y lo envía en segundo plano.
// Si el envío falla queda stale y se agrega el aviso WarnCustomerNotSaved.
func (c *Cache) AddCustomer(ctx context.Context, customer entity.Customer) (*Submission, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.customerIndex(customer.ID) >= 0 {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: el cliente %s ya existe", domain.ErrInvalidInput, customer.ID)
	}
	c.customers = append(c.customers, customer.Clone())
	seq := c.markLocked(c.custSync, customer.ID)
	c.mu.Unlock()

	payload := customer.Clone()
	return c.submit(ctx, func(ctx context.Context) error {
		return c.store.CreateCustomer(ctx, payload)
	}, func(err error) {
		c.settle(c.custSync, customer.ID, seq, err, WarnCustomerNotSaved)
	}), nil
}

// UpdateOrderStatus cambia el estado de la orden y envía la orden completa.
// Un id desconocido no hace nada. Cualquier transición es válida, incluso hacia atrás.
// Si el envío falla solo se registra en el log y la orden queda stale, sin aviso.
func (c *Cache) UpdateOrderStatus(ctx context.Context, orderID string, status entity.OrderStatus) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}

	c.mu.Lock()
	i := c.orderIndex(orderID)
	if i < 0 {
		c.mu.Unlock()
		return nil
	}
	c.orders[i].Status = status
	payload := c.orders[i].Clone()
	seq := c.markLocked(c.orderSync, orderID)
	c.mu.Unlock()

	c.submit(ctx, func(ctx context.Context) error {
		return c.store.UpdateOrder(ctx, payload)
	}, func(err error) {
		c.settle(c.orderSync, orderID, seq, err, "")
	})
	return nil
}

// submit ejecuta send en una goroutine. El envío no se cancela con ctx:
// una vez aplicada la mutación local, el envío sigue aunque el llamador termine.
func (c *Cache) submit(ctx context.Context, send func(context.Context) error, onDone func(error)) *Submission {
	sub := &Submission{done: make(chan struct{})}
	sendCtx := context.WithoutCancel(ctx)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		defer close(sub.done)
		sub.err = send(sendCtx)
		onDone(sub.err)
	}()
	return sub
}

// markLocked deja el registro en pending y devuelve su número de envío. Requiere c.mu.
func (c *Cache) markLocked(states map[string]syncEntry, id string) uint64 {
	c.seq++
	states[id] = syncEntry{state: StatePending, seq: c.seq}
	return c.seq
}

// settle aplica el resultado de un envío si sigue siendo el último para ese registro.
// warning vacío significa que la falla solo se registra.
func (c *Cache) settle(states map[string]syncEntry, id string, seq uint64, err error, warning string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err != nil && warning != "":
		c.log.Error().Str("id", id).Err(err).Msg("envío al record store fallido")
		c.warnings = append(c.warnings, warning)
	case err != nil:
		c.log.Warn().Str("id", id).Err(err).Msg("envío al record store fallido")
	}

	cur, ok := states[id]
	if !ok || cur.seq != seq {
		return
	}
	if err != nil {
		states[id] = syncEntry{state: StateStale, seq: seq}
		return
	}
	states[id] = syncEntry{state: StateSynced, seq: seq}
}

// Wait bloquea hasta que terminen todos los envíos en curso.
func (c *Cache) Wait() { c.inflight.Wait() }

// Warnings devuelve y descarta los avisos pendientes para el usuario.
func (c *Cache) Warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.warnings
	c.warnings = nil
	return out
}

// ── Estado de sincronización ─────────────────────────────────────────────────

// OrderState estado de sincronización de la orden.
func (c *Cache) OrderState(id string) (SyncState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.orderSync[id]
	return e.state, ok
}

// CustomerState estado de sincronización del cliente.
func (c *Cache) CustomerState(id string) (SyncState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.custSync[id]
	return e.state, ok
}

// StaleOrders ids de las órdenes cuyo último envío falló, en el orden de la lista.
func (c *Cache) StaleOrders() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, o := range c.orders {
		if c.orderSync[o.ID].state == StateStale {
			out = append(out, o.ID)
		}
	}
	return out
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

// Orders copia de las órdenes (las más nuevas primero).
func (c *Cache) Orders() []entity.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]entity.Order, len(c.orders))
	for i, o := range c.orders {
		out[i] = o.Clone()
	}
	return out
}

// Customers copia de los clientes.
func (c *Cache) Customers() []entity.Customer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]entity.Customer, len(c.customers))
	for i, cu := range c.customers {
		out[i] = cu.Clone()
	}
	return out
}

// Order busca una orden por id.
func (c *Cache) Order(id string) (entity.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.orderIndex(id); i >= 0 {
		return c.orders[i].Clone(), true
	}
	return entity.Order{}, false
}

// Customer busca un cliente por id.
func (c *Cache) Customer(id string) (entity.Customer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.customerIndex(id); i >= 0 {
		return c.customers[i].Clone(), true
	}
	return entity.Customer{}, false
}

// FilterOrders órdenes con el estado dado; FilterAll o vacío devuelve todas.
func (c *Cache) FilterOrders(status string) []entity.Order {
	all := c.Orders()
	if status == "" || status == FilterAll {
		return all
	}
	out := make([]entity.Order, 0, len(all))
	for _, o := range all {
		if string(o.Status) == status {
			out = append(out, o)
		}
	}
	return out
}

// SearchCustomers clientes cuyo nombre contiene term (sin distinguir mayúsculas)
// o cuyo teléfono contiene term.
func (c *Cache) SearchCustomers(term string) []entity.Customer {
	all := c.Customers()
	term = strings.TrimSpace(term)
	if term == "" {
		return all
	}
	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]entity.Customer, 0, len(all))
	for _, cu := range all {
		if strings.Contains(fold.String(cu.Name), needle) || strings.Contains(cu.Phone, term) {
			out = append(out, cu)
		}
	}
	return out
}

func (c *Cache) orderIndex(id string) int {
	for i := range c.orders {
		if c.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cache) customerIndex(id string) int {
	for i := range c.customers {
		if c.customers[i].ID == id {
			return i
		}
	}
	return -1
}
