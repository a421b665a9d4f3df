package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/tailorflow/internal/domain"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
)

// Action nombre de la acción en el sobre {"action","payload"} del record store.
type Action string

const (
	ActionLogin          Action = "login"
	ActionSignup         Action = "signup"
	ActionGetOrders      Action = "getOrders"
	ActionCreateOrder    Action = "createOrder"
	ActionUpdateOrder    Action = "updateOrder"
	ActionGetCustomers   Action = "getCustomers"
	ActionCreateCustomer Action = "createCustomer"
)

// ErrUnknownAction acción fuera del conjunto soportado. Su texto es el que ve el cliente.
var ErrUnknownAction = errors.New(domain.MsgInvalidAction)

// Envelope cuerpo de la petición POST al record store.
type Envelope struct {
	Action  Action          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// StoreResponse cuerpo de la respuesta del record store.
// Éxito: {"success":true,"data":...} o {"success":true,"user":{...}}. Falla: {"error":"..."}.
type StoreResponse struct {
	Success bool            `json:"success,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	User    *entity.User    `json:"user,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ── Comandos ──────────────────────────────────────────────────────────────────

// Command petición tipada al record store. El conjunto es cerrado: solo los tipos
// de este paquete lo implementan, así el switch del servidor se revisa en compilación.
type Command interface {
	Action() Action
	isCommand()
}

// LoginCommand payload de "login".
type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupCommand payload de "signup".
type SignupCommand struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GetOrdersCommand "getOrders", sin payload.
type GetOrdersCommand struct{}

// CreateOrderCommand payload de "createOrder": la orden completa.
type CreateOrderCommand struct{ Order entity.Order }

// UpdateOrderCommand payload de "updateOrder": la orden completa ya modificada.
type UpdateOrderCommand struct{ Order entity.Order }

// GetCustomersCommand "getCustomers", sin payload.
type GetCustomersCommand struct{}

// CreateCustomerCommand payload de "createCustomer": el cliente completo.
type CreateCustomerCommand struct{ Customer entity.Customer }

func (LoginCommand) Action() Action          { return ActionLogin }
func (SignupCommand) Action() Action         { return ActionSignup }
func (GetOrdersCommand) Action() Action      { return ActionGetOrders }
func (CreateOrderCommand) Action() Action    { return ActionCreateOrder }
func (UpdateOrderCommand) Action() Action    { return ActionUpdateOrder }
func (GetCustomersCommand) Action() Action   { return ActionGetCustomers }
func (CreateCustomerCommand) Action() Action { return ActionCreateCustomer }

func (LoginCommand) isCommand()          {}
func (SignupCommand) isCommand()         {}
func (GetOrdersCommand) isCommand()      {}
func (CreateOrderCommand) isCommand()    {}
func (UpdateOrderCommand) isCommand()    {}
func (GetCustomersCommand) isCommand()   {}
func (CreateCustomerCommand) isCommand() {}

// EncodeCommand serializa el sobre completo de cmd.
func EncodeCommand(cmd Command) ([]byte, error) {
	var payload any
	switch c := cmd.(type) {
	case LoginCommand, SignupCommand:
		payload = c
	case GetOrdersCommand, GetCustomersCommand:
		payload = nil
	case CreateOrderCommand:
		payload = c.Order
	case UpdateOrderCommand:
		payload = c.Order
	case CreateCustomerCommand:
		payload = c.Customer
	default:
		return nil, fmt.Errorf("comando no soportado: %T", cmd)
	}

	env := Envelope{Action: cmd.Action()}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("serializar payload de %s: %w", cmd.Action(), err)
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}

// DecodeCommand interpreta el cuerpo de la petición. Una acción desconocida devuelve
// ErrUnknownAction; un payload que no corresponde a la acción devuelve el error de parseo.
func DecodeCommand(body []byte) (Command, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("sobre inválido: %w", err)
	}

	switch env.Action {
	case ActionLogin:
		var c LoginCommand
		if err := decodePayload(env, &c); err != nil {
			return nil, err
		}
		return c, nil
	case ActionSignup:
		var c SignupCommand
		if err := decodePayload(env, &c); err != nil {
			return nil, err
		}
		return c, nil
	case ActionGetOrders:
		return GetOrdersCommand{}, nil
	case ActionGetCustomers:
		return GetCustomersCommand{}, nil
	case ActionCreateOrder:
		var o entity.Order
		if err := decodePayload(env, &o); err != nil {
			return nil, err
		}
		return CreateOrderCommand{Order: o}, nil
	case ActionUpdateOrder:
		var o entity.Order
		if err := decodePayload(env, &o); err != nil {
			return nil, err
		}
		return UpdateOrderCommand{Order: o}, nil
	case ActionCreateCustomer:
		var cu entity.Customer
		if err := decodePayload(env, &cu); err != nil {
			return nil, err
		}
		return CreateCustomerCommand{Customer: cu}, nil
	default:
		return nil, ErrUnknownAction
	}
}

func decodePayload(env Envelope, dst any) error {
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return fmt.Errorf("%w: %s requiere payload", domain.ErrInvalidInput, env.Action)
	}
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		return fmt.Errorf("payload de %s: %w", env.Action, err)
	}
	return nil
}
