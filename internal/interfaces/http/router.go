package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tailorflow/internal/application/recordstore"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Store   *recordstore.Service
	Backend string
	Metrics *Metrics // opcional; nil deshabilita /metrics
}

// Router registra las rutas del servidor del record store.
//
//	POST /      → acción del record store (URL de despliegue)
//	POST /exec  → alias
//	GET  /health
//	GET  /metrics
func Router(app *fiber.App, deps RouterDeps) {
	storeHandler := NewStoreHandler(deps.Store)
	app.Post("/", storeHandler.Exec)
	app.Post("/exec", storeHandler.Exec)

	app.Get("/health", NewHealthHandler(deps.Backend).Get)

	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics.Handler())
	}
}
