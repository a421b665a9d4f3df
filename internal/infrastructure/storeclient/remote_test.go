package storeclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tailorflow/internal/application/recordstore"
	"github.com/jhoicas/tailorflow/internal/domain"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
	"github.com/jhoicas/tailorflow/internal/infrastructure/sheet"
	"github.com/jhoicas/tailorflow/internal/infrastructure/storeclient"
)

// storeServer levanta un record store real sobre un libro en memoria.
func storeServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := recordstore.NewService(sheet.NewMemoryWorkbook(), nil)
	require.NoError(t, svc.Setup(context.Background()))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		resp := svc.Handle(r.Context(), body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type capturedRequest struct {
	method      string
	contentType string
	body        string
}

// cannedServer responde siempre lo mismo y guarda la última petición.
func cannedServer(t *testing.T, status int, body string, seen *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			*seen = capturedRequest{method: r.Method, contentType: r.Header.Get("Content-Type"), body: string(raw)}
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func remote(url string) *storeclient.RemoteStore {
	return storeclient.NewRemoteStore(url, &http.Client{Timeout: 2 * time.Second}, nil)
}

func TestRemote_EnviaSobreComoTextoPlano(t *testing.T) {
	var seen capturedRequest
	srv := cannedServer(t, http.StatusOK, `{"success":true,"data":[]}`, &seen)

	_, err := remote(srv.URL).GetCustomers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, seen.method)
	assert.Contains(t, seen.contentType, "text/plain")
	assert.JSONEq(t, `{"action":"getCustomers"}`, seen.body)
}

func TestRemote_SignupLoginYRoundTripDeOrden(t *testing.T) {
	ctx := context.Background()
	store := remote(storeServer(t).URL)

	u, err := store.Signup(ctx, "Meera", "meera@tailor.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)

	logged, err := store.Login(ctx, "meera@tailor.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	in := entity.Order{
		ID: "o1", CustomerID: "c1", CustomerName: "Asha",
		GarmentType:  entity.GarmentLehenga,
		Measurements: entity.DefaultMeasurements(entity.GarmentLehenga),
		Status:       entity.StatusAlteration,
		OrderDate:    "2026-10-01", DueDate: "2026-11-01",
		Price: decimal.RequireFromString("8999.99"), Advance: decimal.NewFromInt(3000),
		AssignedStaff: "Ravi",
	}
	require.NoError(t, store.CreateOrder(ctx, in))

	orders, err := store.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, in.Price.Equal(orders[0].Price))
	orders[0].Price, orders[0].Advance = in.Price, in.Advance
	assert.Equal(t, in, orders[0])
}

func TestRemote_ErroresDeAutenticacion(t *testing.T) {
	ctx := context.Background()
	store := remote(storeServer(t).URL)

	_, err := store.Login(ctx, "nadie@tailor.com", "x")
	require.ErrorIs(t, err, domain.ErrAuth)
	assert.Equal(t, "Invalid credentials", err.Error())

	_, err = store.Signup(ctx, "A", "a@tailor.com", "x")
	require.NoError(t, err)
	_, err = store.Signup(ctx, "B", "a@tailor.com", "y")
	require.ErrorIs(t, err, domain.ErrAuth)
	assert.Equal(t, "User already exists", err.Error())
}

func TestRemote_FallaDelBackendEnLoginEsTransporte(t *testing.T) {
	ctx := context.Background()
	srv := cannedServer(t, http.StatusOK, `{"error":"setup: consultar hoja Users: connection refused"}`, nil)

	_, err := remote(srv.URL).Login(ctx, "demo@tailor.com", "demo123")
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.NotErrorIs(t, err, domain.ErrAuth)
	assert.Contains(t, err.Error(), "connection refused")

	_, err = remote(srv.URL).Signup(ctx, "A", "a@tailor.com", "x")
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.NotErrorIs(t, err, domain.ErrAuth)
}

func TestRemote_UpdateOrderInexistente(t *testing.T) {
	store := remote(storeServer(t).URL)
	o := entity.Order{ID: "o404", CustomerID: "c1", GarmentType: entity.GarmentShirt, Status: entity.StatusCutting}

	err := store.UpdateOrder(context.Background(), o)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "o404", nf.ID)
	assert.Equal(t, "Order not found", err.Error())
}

func TestRemote_ErrorDelStoreSinTraduccionEsTransporte(t *testing.T) {
	srv := cannedServer(t, http.StatusOK, `{"error":"Exception: sheet locked"}`, nil)
	_, err := remote(srv.URL).GetOrders(context.Background())
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "Exception: sheet locked")
}

func TestRemote_FallasDeTransporte(t *testing.T) {
	ctx := context.Background()

	t.Run("HTTP distinto de 200", func(t *testing.T) {
		srv := cannedServer(t, http.StatusBadGateway, `bad gateway`, nil)
		_, err := remote(srv.URL).GetOrders(ctx)
		assert.ErrorIs(t, err, domain.ErrTransport)
	})

	t.Run("respuesta que no es JSON", func(t *testing.T) {
		srv := cannedServer(t, http.StatusOK, `<html>login required</html>`, nil)
		_, err := remote(srv.URL).GetCustomers(ctx)
		assert.ErrorIs(t, err, domain.ErrTransport)
	})

	t.Run("servidor caído", func(t *testing.T) {
		srv := cannedServer(t, http.StatusOK, `{}`, nil)
		url := srv.URL
		srv.Close()
		err := remote(url).CreateCustomer(ctx, entity.Customer{ID: "c1", Name: "A", Phone: "1"})
		assert.ErrorIs(t, err, domain.ErrTransport)
	})

	t.Run("login sin usuario en la respuesta", func(t *testing.T) {
		srv := cannedServer(t, http.StatusOK, `{"success":true}`, nil)
		_, err := remote(srv.URL).Login(ctx, "a", "b")
		assert.ErrorIs(t, err, domain.ErrTransport)
	})
}

func TestRemote_DataAusenteEsListaVacia(t *testing.T) {
	srv := cannedServer(t, http.StatusOK, `{"success":true}`, nil)
	orders, err := remote(srv.URL).GetOrders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestNew_ConEndpointUsaModoRemoto(t *testing.T) {
	store, mode := storeclient.New(storeclient.Config{Endpoint: " https://script.example.com/exec "}, nil)
	assert.Equal(t, storeclient.ModeRemote, mode)
	rs, ok := store.(*storeclient.RemoteStore)
	require.True(t, ok)
	assert.Equal(t, "https://script.example.com/exec", rs.Endpoint())
}
