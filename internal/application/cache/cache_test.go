package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tailorflow/internal/application/cache"
	"github.com/jhoicas/tailorflow/internal/domain"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeSession struct{ ok bool }

func (s fakeSession) IsAuthenticated() bool { return s.ok }

type fakeStore struct {
	mu        sync.Mutex
	orders    []entity.Order
	customers []entity.Customer

	getOrdersErr    error
	getCustomersErr error
	createOrderErr  error
	createCustErr   error
	updateErr       error

	updates []entity.Order
	gate    chan struct{} // si no es nil, las escrituras esperan a que se cierre
}

func (f *fakeStore) waitGate() {
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeStore) Login(context.Context, string, string) (*entity.User, error) {
	return nil, errors.New("no usado")
}

func (f *fakeStore) Signup(context.Context, string, string, string) (*entity.User, error) {
	return nil, errors.New("no usado")
}

func (f *fakeStore) GetOrders(context.Context) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getOrdersErr != nil {
		return nil, f.getOrdersErr
	}
	return append([]entity.Order(nil), f.orders...), nil
}

func (f *fakeStore) GetCustomers(context.Context) ([]entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getCustomersErr != nil {
		return nil, f.getCustomersErr
	}
	return append([]entity.Customer(nil), f.customers...), nil
}

func (f *fakeStore) CreateOrder(_ context.Context, o entity.Order) error {
	f.waitGate()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createOrderErr != nil {
		return f.createOrderErr
	}
	f.orders = append([]entity.Order{o}, f.orders...)
	return nil
}

func (f *fakeStore) UpdateOrder(_ context.Context, o entity.Order) error {
	f.waitGate()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, o)
	return f.updateErr
}

func (f *fakeStore) CreateCustomer(_ context.Context, c entity.Customer) error {
	f.waitGate()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createCustErr != nil {
		return f.createCustErr
	}
	f.customers = append(f.customers, c)
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

var today = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func seededStore() *fakeStore {
	return &fakeStore{
		customers: []entity.Customer{
			{ID: "c1", Name: "Rahul Sharma", Phone: "9876543210", SavedMeasurements: map[string][]entity.Measurement{}, TotalOrders: 2, LastVisit: "2026-09-01"},
			{ID: "c2", Name: "Priya Patel", Phone: "9123456780", SavedMeasurements: map[string][]entity.Measurement{}},
		},
		orders: []entity.Order{
			{ID: "o1", CustomerID: "c1", CustomerName: "Rahul Sharma", GarmentType: entity.GarmentPant, Status: entity.StatusCutting},
			{ID: "o2", CustomerID: "c2", CustomerName: "Priya Patel", GarmentType: entity.GarmentBlouse, Status: entity.StatusReceived},
		},
	}
}

func newCache(t *testing.T, store *fakeStore) *cache.Cache {
	t.Helper()
	c := cache.New(store, fakeSession{ok: true}, nil, cache.WithClock(func() time.Time { return today }))
	require.NoError(t, c.Refresh(context.Background()))
	return c
}

func shirtOrder(id, customerID string) entity.Order {
	return entity.Order{
		ID:          id,
		CustomerID:  customerID,
		GarmentType: entity.GarmentShirt,
		Measurements: []entity.Measurement{
			{Label: "Neck", Value: entity.Number(15), Unit: entity.UnitInches},
			{Label: "Chest", Value: entity.Number(40), Unit: entity.UnitInches},
		},
		Status: entity.StatusReceived,
		Price:  decimal.NewFromInt(1500),
	}
}

// ── Refresh ───────────────────────────────────────────────────────────────────

func TestRefresh_CargaAmbasListas(t *testing.T) {
	c := newCache(t, seededStore())
	assert.Len(t, c.Orders(), 2)
	assert.Len(t, c.Customers(), 2)
	assert.False(t, c.Loading())

	st, ok := c.OrderState("o1")
	require.True(t, ok)
	assert.Equal(t, cache.StateSynced, st)
}

func TestRefresh_FallaParcialNoDejaEstadoMixto(t *testing.T) {
	store := seededStore()
	c := newCache(t, store)

	store.mu.Lock()
	store.orders = append(store.orders, entity.Order{ID: "o3", CustomerID: "c1", GarmentType: entity.GarmentShirt, Status: entity.StatusReceived})
	store.getCustomersErr = domain.NewTransportError("getCustomers", errors.New("timeout"))
	store.mu.Unlock()

	err := c.Refresh(context.Background())
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.Len(t, c.Orders(), 2, "las órdenes no se reemplazan si fallan los clientes")
	assert.Len(t, c.Customers(), 2)
}

func TestOperaciones_RequierenSesion(t *testing.T) {
	c := cache.New(seededStore(), fakeSession{ok: false}, nil)
	ctx := context.Background()

	assert.ErrorIs(t, c.Refresh(ctx), domain.ErrNoSession)
	_, err := c.AddOrder(ctx, shirtOrder("o9", "c1"))
	assert.ErrorIs(t, err, domain.ErrNoSession)
	_, err = c.AddCustomer(ctx, entity.Customer{ID: "c9", Name: "A", Phone: "1"})
	assert.ErrorIs(t, err, domain.ErrNoSession)
	assert.ErrorIs(t, c.UpdateOrderStatus(ctx, "o1", entity.StatusCutting), domain.ErrNoSession)
}

// ── AddOrder ──────────────────────────────────────────────────────────────────

func TestAddOrder_ActualizaClienteYGuardaMedidas(t *testing.T) {
	c := newCache(t, seededStore())
	o := shirtOrder("o9", "c1")

	sub, err := c.AddOrder(context.Background(), o)
	require.NoError(t, err)
	require.NoError(t, sub.Wait())

	assert.Equal(t, "o9", c.Orders()[0].ID, "la orden nueva va al inicio")

	cust, ok := c.Customer("c1")
	require.True(t, ok)
	assert.Equal(t, 3, cust.TotalOrders)
	assert.Equal(t, "2026-10-15", cust.LastVisit)
	assert.Equal(t, o.Measurements, cust.SavedMeasurements["Shirt"])

	st, _ := c.OrderState("o9")
	assert.Equal(t, cache.StateSynced, st)
	assert.Empty(t, c.Warnings())
}

func TestAddOrder_FallaDelStoreNoRevierte(t *testing.T) {
	store := seededStore()
	store.createOrderErr = domain.NewTransportError("createOrder", errors.New("HTTP 500"))
	c := newCache(t, store)

	sub, err := c.AddOrder(context.Background(), shirtOrder("o9", "c1"))
	require.NoError(t, err, "la falla del envío no se devuelve al llamador")
	assert.ErrorIs(t, sub.Wait(), domain.ErrTransport)

	_, ok := c.Order("o9")
	assert.True(t, ok, "la orden sigue en el cache")
	cust, _ := c.Customer("c1")
	assert.Equal(t, 3, cust.TotalOrders, "el efecto sobre el cliente tampoco se revierte")

	st, _ := c.OrderState("o9")
	assert.Equal(t, cache.StateStale, st)
	assert.Equal(t, []string{"o9"}, c.StaleOrders())
	assert.Equal(t, []string{cache.WarnOrderNotSaved}, c.Warnings())
	assert.Empty(t, c.Warnings(), "Warnings vacía la cola")
}

func TestAddOrder_EstadoPendienteMientrasSeEnvia(t *testing.T) {
	store := seededStore()
	store.gate = make(chan struct{})
	c := newCache(t, store)

	sub, err := c.AddOrder(context.Background(), shirtOrder("o9", "c1"))
	require.NoError(t, err)

	st, _ := c.OrderState("o9")
	assert.Equal(t, cache.StatePending, st)

	close(store.gate)
	require.NoError(t, sub.Wait())
	st, _ = c.OrderState("o9")
	assert.Equal(t, cache.StateSynced, st)
}

func TestAddOrder_ClienteInexistente(t *testing.T) {
	c := newCache(t, seededStore())
	_, err := c.AddOrder(context.Background(), shirtOrder("o9", "c404"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, c.Orders(), 2)
}

func TestAddOrder_EnumeracionInvalida(t *testing.T) {
	c := newCache(t, seededStore())
	o := shirtOrder("o9", "c1")
	o.Status = "Shipped"
	_, err := c.AddOrder(context.Background(), o)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddOrder_IDRepetido(t *testing.T) {
	c := newCache(t, seededStore())
	_, err := c.AddOrder(context.Background(), shirtOrder("o1", "c1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── AddCustomer ───────────────────────────────────────────────────────────────

func TestAddCustomer_AgregaAlFinal(t *testing.T) {
	c := newCache(t, seededStore())
	asha, err := entity.NewCustomer("Asha", "555-0100", "", today)
	require.NoError(t, err)

	sub, err := c.AddCustomer(context.Background(), asha)
	require.NoError(t, err)
	require.NoError(t, sub.Wait())

	all := c.Customers()
	assert.Equal(t, asha.ID, all[len(all)-1].ID)
	assert.Equal(t, 0, all[len(all)-1].TotalOrders)
}

func TestAddCustomer_FallaGeneraAviso(t *testing.T) {
	store := seededStore()
	store.createCustErr = errors.New("boom")
	c := newCache(t, store)

	_, err := c.AddCustomer(context.Background(), entity.Customer{ID: "c9", Name: "Asha", Phone: "555-0100"})
	require.NoError(t, err)
	c.Wait()

	_, ok := c.Customer("c9")
	assert.True(t, ok)
	st, _ := c.CustomerState("c9")
	assert.Equal(t, cache.StateStale, st)
	assert.Equal(t, []string{cache.WarnCustomerNotSaved}, c.Warnings())
}

// ── UpdateOrderStatus ─────────────────────────────────────────────────────────

func TestUpdateOrderStatus_SoloCambiaLaOrdenIndicada(t *testing.T) {
	store := seededStore()
	c := newCache(t, store)
	ctx := context.Background()

	sub, err := c.AddOrder(ctx, shirtOrder("o9", "c1"))
	require.NoError(t, err)
	require.NoError(t, sub.Wait())

	before := c.Orders()
	require.NoError(t, c.UpdateOrderStatus(ctx, "o9", entity.StatusTrialReady))
	c.Wait()

	after := c.Orders()
	require.Len(t, after, len(before))
	for i := range after {
		if after[i].ID == "o9" {
			assert.Equal(t, entity.StatusTrialReady, after[i].Status)
			continue
		}
		assert.Equal(t, before[i].Status, after[i].Status)
	}

	require.Len(t, store.updates, 1)
	assert.Equal(t, "o9", store.updates[0].ID)
	assert.Equal(t, entity.StatusTrialReady, store.updates[0].Status)
}

func TestUpdateOrderStatus_IDInexistenteEsNoOp(t *testing.T) {
	store := seededStore()
	c := newCache(t, store)
	before := c.Orders()

	require.NoError(t, c.UpdateOrderStatus(context.Background(), "o404", entity.StatusDelivered))
	c.Wait()

	assert.Equal(t, before, c.Orders())
	assert.Empty(t, store.updates)
}

func TestUpdateOrderStatus_PermiteRetroceder(t *testing.T) {
	c := newCache(t, seededStore())
	require.NoError(t, c.UpdateOrderStatus(context.Background(), "o1", entity.StatusReceived))
	c.Wait()
	o, _ := c.Order("o1")
	assert.Equal(t, entity.StatusReceived, o.Status)
}

func TestUpdateOrderStatus_FallaSoloSeRegistra(t *testing.T) {
	store := seededStore()
	store.updateErr = errors.New("HTTP 500")
	c := newCache(t, store)

	require.NoError(t, c.UpdateOrderStatus(context.Background(), "o1", entity.StatusStitching))
	c.Wait()

	o, _ := c.Order("o1")
	assert.Equal(t, entity.StatusStitching, o.Status)
	st, _ := c.OrderState("o1")
	assert.Equal(t, cache.StateStale, st)
	assert.Empty(t, c.Warnings(), "las fallas de cambio de estado no generan aviso")
}

func TestUpdateOrderStatus_EstadoInvalido(t *testing.T) {
	c := newCache(t, seededStore())
	err := c.UpdateOrderStatus(context.Background(), "o1", entity.OrderStatus("Lost"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

func TestFilterOrders(t *testing.T) {
	c := newCache(t, seededStore())
	assert.Len(t, c.FilterOrders(cache.FilterAll), 2)
	assert.Len(t, c.FilterOrders(""), 2)

	cutting := c.FilterOrders("Cutting")
	require.Len(t, cutting, 1)
	assert.Equal(t, "o1", cutting[0].ID)

	assert.Empty(t, c.FilterOrders("Delivered"))
}

func TestSearchCustomers(t *testing.T) {
	c := newCache(t, seededStore())

	byName := c.SearchCustomers("PRIYA")
	require.Len(t, byName, 1)
	assert.Equal(t, "c2", byName[0].ID)

	byPhone := c.SearchCustomers("98765")
	require.Len(t, byPhone, 1)
	assert.Equal(t, "c1", byPhone[0].ID)

	assert.Len(t, c.SearchCustomers(""), 2)
	assert.Empty(t, c.SearchCustomers("zzz"))
}

func TestLecturasDevuelvenCopias(t *testing.T) {
	c := newCache(t, seededStore())
	orders := c.Orders()
	orders[0].Status = entity.StatusDelivered
	o, _ := c.Order(orders[0].ID)
	assert.NotEqual(t, entity.StatusDelivered, o.Status)
}
