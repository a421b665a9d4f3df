package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrAuth         = errors.New("error de autenticación")
	ErrTransport    = errors.New("error de comunicación con el record store")
	ErrNoSession    = errors.New("no hay una sesión activa")
)

// Mensajes que viajan en el campo "error" del record store remoto.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgUserExists         = "User already exists"
	MsgOrderNotFound      = "Order not found"
	MsgInvalidAction      = "Invalid action"
)

// AuthError credenciales que no coinciden o email ya registrado.
// El mensaje se muestra tal cual al usuario.
type AuthError struct {
	Message string
}

// NewAuthError construye un AuthError.
func NewAuthError(msg string) error {
	return &AuthError{Message: msg}
}

func (e *AuthError) Error() string { return e.Message }

// Is permite errors.Is(err, ErrAuth).
func (e *AuthError) Is(target error) bool { return target == ErrAuth }

// TransportError fallo de red, HTTP o de parseo al hablar con el record store,
// o un error reportado por el store que no tiene traducción propia.
type TransportError struct {
	Action string
	Err    error
}

// NewTransportError envuelve err con la acción que falló.
func NewTransportError(action string, err error) error {
	return &TransportError{Action: action, Err: err}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("record store %s: %v", e.Action, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrTransport).
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// NotFoundError actualización que referencia un registro inexistente.
type NotFoundError struct {
	Resource string // "Order", "Customer"
	ID       string
}

// NewNotFoundError construye un NotFoundError.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// Error devuelve el mismo texto que reporta el store ("Order not found").
func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// Is permite errors.Is(err, ErrNotFound).
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
