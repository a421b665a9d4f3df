package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/tailorflow/internal/application/dto"
	"github.com/jhoicas/tailorflow/internal/application/ports"
	"github.com/jhoicas/tailorflow/internal/domain"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
	"github.com/jhoicas/tailorflow/pkg/logger"
)

var _ ports.RecordStore = (*RemoteStore)(nil)

// DefaultTimeout timeout de transporte por defecto.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes tope de lectura de la respuesta.
const maxResponseBytes = 8 << 20

// RemoteStore cliente del record store remoto: un POST por operación, sin reintentos.
type RemoteStore struct {
	endpoint   string
	httpClient *http.Client
	log        *logger.Logger
}

// NewRemoteStore construye el cliente. httpClient nil usa uno con DefaultTimeout.
func NewRemoteStore(endpoint string, httpClient *http.Client, log *logger.Logger) *RemoteStore {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RemoteStore{
		endpoint:   endpoint,
		httpClient: httpClient,
		log:        log.Named("storeclient.remote"),
	}
}

// Endpoint URL configurada.
func (r *RemoteStore) Endpoint() string { return r.endpoint }

// call envía el comando y devuelve la respuesta ya validada.
// Un campo "error" en la respuesta se traduce según la acción.
func (r *RemoteStore) call(ctx context.Context, cmd dto.Command) (*dto.StoreResponse, error) {
	action := string(cmd.Action())

	body, err := dto.EncodeCommand(cmd)
	if err != nil {
		return nil, domain.NewTransportError(action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewTransportError(action, fmt.Errorf("crear HTTP request: %w", err))
	}
	// text/plain evita el preflight CORS del script remoto.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.Warn().Str("action", action).Err(err).Msg("llamada HTTP fallida")
		return nil, domain.NewTransportError(action, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.NewTransportError(action, fmt.Errorf("leer respuesta: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewTransportError(action, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	var out dto.StoreResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, domain.NewTransportError(action, fmt.Errorf("respuesta no es JSON válido: %w", err))
	}
	r.log.Debug().Str("action", action).Dur("elapsed", time.Since(start)).Msg("record store")

	if out.Error != "" {
		return nil, mapStoreError(cmd.Action(), out.Error, entityID(cmd))
	}
	return &out, nil
}

// mapStoreError traduce el mensaje de error del store al tipo de error del dominio.
// Sólo las credenciales inválidas y el alta duplicada son errores de autenticación;
// cualquier otra falla de login/signup es del backend.
func mapStoreError(action dto.Action, msg, id string) error {
	switch {
	case action == dto.ActionLogin && msg == domain.MsgInvalidCredentials,
		action == dto.ActionSignup && msg == domain.MsgUserExists:
		return domain.NewAuthError(msg)
	case action == dto.ActionUpdateOrder && msg == domain.MsgOrderNotFound:
		return domain.NewNotFoundError("Order", id)
	default:
		return domain.NewTransportError(string(action), errors.New(msg))
	}
}

func entityID(cmd dto.Command) string {
	switch c := cmd.(type) {
	case dto.UpdateOrderCommand:
		return c.Order.ID
	case dto.CreateOrderCommand:
		return c.Order.ID
	case dto.CreateCustomerCommand:
		return c.Customer.ID
	default:
		return ""
	}
}

func userFrom(action dto.Action, resp *dto.StoreResponse) (*entity.User, error) {
	if resp.User == nil {
		return nil, domain.NewTransportError(string(action), errors.New("respuesta sin usuario"))
	}
	return resp.User, nil
}

// decodeList decodifica data; ausente equivale a lista vacía.
func decodeList[T any](action dto.Action, resp *dto.StoreResponse) ([]T, error) {
	out := []T{}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return nil, domain.NewTransportError(string(action), fmt.Errorf("decodificar data: %w", err))
	}
	return out, nil
}

// Login implementa ports.RecordStore.
func (r *RemoteStore) Login(ctx context.Context, email, password string) (*entity.User, error) {
	resp, err := r.call(ctx, dto.LoginCommand{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return userFrom(dto.ActionLogin, resp)
}

// Signup implementa ports.RecordStore.
func (r *RemoteStore) Signup(ctx context.Context, name, email, password string) (*entity.User, error) {
	resp, err := r.call(ctx, dto.SignupCommand{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return userFrom(dto.ActionSignup, resp)
}

// GetOrders implementa ports.RecordStore.
func (r *RemoteStore) GetOrders(ctx context.Context) ([]entity.Order, error) {
	resp, err := r.call(ctx, dto.GetOrdersCommand{})
	if err != nil {
		return nil, err
	}
	return decodeList[entity.Order](dto.ActionGetOrders, resp)
}

// CreateOrder implementa ports.RecordStore.
func (r *RemoteStore) CreateOrder(ctx context.Context, order entity.Order) error {
	_, err := r.call(ctx, dto.CreateOrderCommand{Order: order})
	return err
}

// UpdateOrder implementa ports.RecordStore.
func (r *RemoteStore) UpdateOrder(ctx context.Context, order entity.Order) error {
	_, err := r.call(ctx, dto.UpdateOrderCommand{Order: order})
	return err
}

// GetCustomers implementa ports.RecordStore.
func (r *RemoteStore) GetCustomers(ctx context.Context) ([]entity.Customer, error) {
	resp, err := r.call(ctx, dto.GetCustomersCommand{})
	if err != nil {
		return nil, err
	}
	return decodeList[entity.Customer](dto.ActionGetCustomers, resp)
}

// CreateCustomer implementa ports.RecordStore.
func (r *RemoteStore) CreateCustomer(ctx context.Context, customer entity.Customer) error {
	_, err := r.call(ctx, dto.CreateCustomerCommand{Customer: customer})
	return err
}
