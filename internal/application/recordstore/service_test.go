package recordstore_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tailorflow/internal/application/dto"
	"github.com/jhoicas/tailorflow/internal/application/recordstore"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
	"github.com/jhoicas/tailorflow/internal/infrastructure/sheet"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*recordstore.Service, *sheet.MemoryWorkbook) {
	t.Helper()
	wb := sheet.NewMemoryWorkbook()
	svc := recordstore.NewService(wb, nil, recordstore.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, svc.Setup(context.Background()))
	return svc, wb
}

func send(t *testing.T, svc *recordstore.Service, cmd dto.Command) dto.StoreResponse {
	t.Helper()
	body, err := dto.EncodeCommand(cmd)
	require.NoError(t, err)
	return svc.Handle(context.Background(), body)
}

func order(id string, status entity.OrderStatus) entity.Order {
	return entity.Order{
		ID:           id,
		CustomerID:   "c1",
		CustomerName: "Asha",
		GarmentType:  entity.GarmentShirt,
		Description:  "White linen",
		Measurements: []entity.Measurement{{Label: "Neck", Value: entity.Number(15), Unit: entity.UnitInches}},
		Status:       status,
		OrderDate:    "2026-10-15",
		DueDate:      "2026-10-25",
		Price:        decimal.NewFromInt(1200),
		Advance:      decimal.NewFromInt(200),
	}
}

// ── Setup ─────────────────────────────────────────────────────────────────────

func TestSetup_CreaHojasConEncabezado(t *testing.T) {
	_, wb := newService(t)
	ctx := context.Background()

	users, err := wb.Values(ctx, recordstore.SheetUsers)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "name", "email", "password", "role", "createdAt"}}, users)

	orders, err := wb.Values(ctx, recordstore.SheetOrders)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "json_data", "status", "dueDate", "updatedAt"}}, orders)

	customers, err := wb.Values(ctx, recordstore.SheetCustomers)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "json_data", "phone", "name", "updatedAt"}}, customers)
}

func TestSetup_EsIdempotenteYCompletaHojasVacias(t *testing.T) {
	ctx := context.Background()
	wb := sheet.NewMemoryWorkbook()
	require.NoError(t, wb.CreateSheet(ctx, recordstore.SheetOrders))

	svc := recordstore.NewService(wb, nil)
	require.NoError(t, svc.Setup(ctx))
	require.NoError(t, svc.Setup(ctx))

	orders, err := wb.Values(ctx, recordstore.SheetOrders)
	require.NoError(t, err)
	assert.Len(t, orders, 1, "solo el encabezado, una vez")
}

func TestHandle_SinHojaUsersEjecutaSetup(t *testing.T) {
	wb := sheet.NewMemoryWorkbook()
	svc := recordstore.NewService(wb, nil)

	resp := send(t, svc, dto.GetOrdersCommand{})
	assert.True(t, resp.Success)
	assert.JSONEq(t, `[]`, string(resp.Data))

	ok, err := wb.HasSheet(context.Background(), recordstore.SheetUsers)
	require.NoError(t, err)
	assert.True(t, ok)
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

func TestSignupLuegoLogin_DevuelveAdmin(t *testing.T) {
	svc, _ := newService(t)

	resp := send(t, svc, dto.SignupCommand{Name: "Meera", Email: "meera@tailor.com", Password: "s3cret"})
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.User)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)
	assert.Equal(t, "u", resp.User.ID[:1])

	resp = send(t, svc, dto.LoginCommand{Email: "meera@tailor.com", Password: "s3cret"})
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Meera", resp.User.Name)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)
}

func TestSignup_EmailDuplicadoNoCreaRegistro(t *testing.T) {
	svc, wb := newService(t)
	ctx := context.Background()

	require.Empty(t, send(t, svc, dto.SignupCommand{Name: "A", Email: "a@tailor.com", Password: "x"}).Error)
	before, err := wb.Values(ctx, recordstore.SheetUsers)
	require.NoError(t, err)

	resp := send(t, svc, dto.SignupCommand{Name: "B", Email: "a@tailor.com", Password: "y"})
	assert.Equal(t, "User already exists", resp.Error)
	assert.False(t, resp.Success)

	after, err := wb.Values(ctx, recordstore.SheetUsers)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	svc, _ := newService(t)
	require.Empty(t, send(t, svc, dto.SignupCommand{Name: "A", Email: "a@tailor.com", Password: "x"}).Error)

	resp := send(t, svc, dto.LoginCommand{Email: "a@tailor.com", Password: "wrong"})
	assert.Equal(t, "Invalid credentials", resp.Error)
	assert.Nil(t, resp.User)
}

func TestSignup_GuardaPasswordPeroNoLaDevuelve(t *testing.T) {
	svc, wb := newService(t)
	resp := send(t, svc, dto.SignupCommand{Name: "A", Email: "a@tailor.com", Password: "x"})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")

	users, err := wb.Values(context.Background(), recordstore.SheetUsers)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "x", users[1][3])
	assert.Equal(t, "2026-10-15T12:00:00Z", users[1][5])
}

// ── Órdenes ───────────────────────────────────────────────────────────────────

func TestCreateOrder_GetOrders_RoundTrip(t *testing.T) {
	svc, _ := newService(t)
	in := order("o1", entity.StatusTrialReady)
	in.GarmentType = entity.GarmentSuit2pc
	in.Measurements = append(in.Measurements, entity.Measurement{Label: "Chest", Value: entity.Text(""), Unit: entity.UnitCentimetres})
	in.IsUrgent = true

	resp := send(t, svc, dto.CreateOrderCommand{Order: in})
	require.Empty(t, resp.Error)
	assert.True(t, resp.Success)

	resp = send(t, svc, dto.GetOrdersCommand{})
	require.True(t, resp.Success)
	var out []entity.Order
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	require.Len(t, out, 1)

	assert.True(t, in.Price.Equal(out[0].Price))
	assert.True(t, in.Advance.Equal(out[0].Advance))
	out[0].Price, out[0].Advance = in.Price, in.Advance
	assert.Equal(t, in, out[0])
}

func TestCreateOrder_FilaConColumnasDuplicadas(t *testing.T) {
	svc, wb := newService(t)
	require.Empty(t, send(t, svc, dto.CreateOrderCommand{Order: order("o1", entity.StatusReceived)}).Error)

	rows, err := wb.Values(context.Background(), recordstore.SheetOrders)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "o1", rows[1][0])
	assert.Equal(t, "Received", rows[1][2])
	assert.Equal(t, "2026-10-25", rows[1][3])
	assert.Equal(t, "2026-10-15T12:00:00Z", rows[1][4])
}

func TestUpdateOrder_IDInexistenteNoModificaLaHoja(t *testing.T) {
	svc, wb := newService(t)
	ctx := context.Background()
	require.Empty(t, send(t, svc, dto.CreateOrderCommand{Order: order("o1", entity.StatusReceived)}).Error)

	before, err := wb.Values(ctx, recordstore.SheetOrders)
	require.NoError(t, err)

	resp := send(t, svc, dto.UpdateOrderCommand{Order: order("o404", entity.StatusCutting)})
	assert.Equal(t, "Order not found", resp.Error)

	after, err := wb.Values(ctx, recordstore.SheetOrders)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateOrder_ReemplazaSoloLaFilaDeLaOrden(t *testing.T) {
	svc, wb := newService(t)
	require.Empty(t, send(t, svc, dto.CreateOrderCommand{Order: order("o1", entity.StatusReceived)}).Error)
	require.Empty(t, send(t, svc, dto.CreateOrderCommand{Order: order("o2", entity.StatusReceived)}).Error)

	resp := send(t, svc, dto.UpdateOrderCommand{Order: order("o2", entity.StatusCutting)})
	require.Empty(t, resp.Error)
	assert.True(t, resp.Success)

	rows, err := wb.Values(context.Background(), recordstore.SheetOrders)
	require.NoError(t, err)
	assert.Equal(t, "Received", rows[1][2])
	assert.Equal(t, "Cutting", rows[2][2])

	var stored entity.Order
	require.NoError(t, json.Unmarshal([]byte(rows[2][1]), &stored))
	assert.Equal(t, entity.StatusCutting, stored.Status)
}

func TestGetOrders_IgnoraFilasConJSONInvalido(t *testing.T) {
	svc, wb := newService(t)
	ctx := context.Background()
	require.Empty(t, send(t, svc, dto.CreateOrderCommand{Order: order("o1", entity.StatusReceived)}).Error)
	require.NoError(t, wb.AppendRow(ctx, recordstore.SheetOrders, []string{"o2", "{roto", "Received", "", ""}))
	require.NoError(t, wb.AppendRow(ctx, recordstore.SheetOrders, []string{"o3", `{"id":"o3","status":"Lost"}`, "Lost", "", ""}))

	resp := send(t, svc, dto.GetOrdersCommand{})
	require.True(t, resp.Success)
	var out []entity.Order
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "o1", out[0].ID)
}

// ── Clientes ──────────────────────────────────────────────────────────────────

func TestCreateCustomer_GetCustomers(t *testing.T) {
	svc, wb := newService(t)
	c, err := entity.NewCustomer("Asha", "555-0100", "", fixedNow)
	require.NoError(t, err)

	resp := send(t, svc, dto.CreateCustomerCommand{Customer: c})
	require.Empty(t, resp.Error)

	resp = send(t, svc, dto.GetCustomersCommand{})
	var out []entity.Customer
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	require.Len(t, out, 1)
	assert.Equal(t, c, out[0])

	rows, err := wb.Values(context.Background(), recordstore.SheetCustomers)
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID, rows[1][1], "555-0100", "Asha", "2026-10-15T12:00:00Z"}, rows[1])
}

// ── Errores de protocolo ──────────────────────────────────────────────────────

func TestHandle_AccionDesconocida(t *testing.T) {
	svc, _ := newService(t)
	resp := svc.Handle(context.Background(), []byte(`{"action":"deleteOrder","payload":{}}`))
	assert.Equal(t, "Invalid action", resp.Error)
	assert.False(t, resp.Success)
}

func TestHandle_CuerpoMalformado(t *testing.T) {
	svc, _ := newService(t)
	resp := svc.Handle(context.Background(), []byte(`not json`))
	assert.NotEmpty(t, resp.Error)
	assert.False(t, resp.Success)
}

func TestHandle_EstadoFueraDeEnumeracion(t *testing.T) {
	svc, wb := newService(t)
	resp := svc.Handle(context.Background(),
		[]byte(`{"action":"createOrder","payload":{"id":"o1","customerId":"c1","garmentType":"Shirt","status":"Shipped"}}`))
	assert.NotEmpty(t, resp.Error)

	rows, err := wb.Values(context.Background(), recordstore.SheetOrders)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
