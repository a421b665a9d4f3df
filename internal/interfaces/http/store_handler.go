package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tailorflow/internal/application/dto"
	"github.com/jhoicas/tailorflow/internal/application/recordstore"
)

// StoreHandler expone el record store en un único endpoint POST.
type StoreHandler struct {
	svc *recordstore.Service
}

// NewStoreHandler construye el handler.
func NewStoreHandler(svc *recordstore.Service) *StoreHandler {
	return &StoreHandler{svc: svc}
}

// Exec ejecuta una acción del record store.
// POST /exec
//
// El cuerpo es el sobre {"action","payload"} como texto plano (el cliente envía
// text/plain para evitar el preflight CORS); no se valida Content-Type.
// Responde siempre 200: las fallas viajan en el campo "error".
func (h *StoreHandler) Exec(c *fiber.Ctx) error {
	body := append([]byte(nil), c.Body()...)
	resp := h.svc.Handle(c.UserContext(), body)
	return c.Status(fiber.StatusOK).JSON(resp)
}

// HealthHandler informa el estado del servidor.
type HealthHandler struct {
	backend string
}

// NewHealthHandler construye el handler; backend es el nombre del libro en uso.
func NewHealthHandler(backend string) *HealthHandler {
	return &HealthHandler{backend: backend}
}

// Get GET /health
func (h *HealthHandler) Get(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok", Backend: h.backend})
}

// ErrorHandler responde los errores de Fiber (ruta inexistente, método no
// permitido, pánicos recuperados) con un ErrorResponse JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	errCode := "INTERNAL"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		switch code {
		case fiber.StatusNotFound:
			errCode = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			errCode = "METHOD_NOT_ALLOWED"
		default:
			errCode = "HTTP_ERROR"
		}
	}
	return c.Status(code).JSON(dto.ErrorResponse{Code: errCode, Message: err.Error()})
}
