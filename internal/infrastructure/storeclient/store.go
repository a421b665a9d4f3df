// Package storeclient implementa ports.RecordStore en sus dos modos: remoto
// (POST al endpoint configurado) y de respaldo (dataset en memoria con latencia simulada).
package storeclient

import (
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/tailorflow/internal/application/ports"
	"github.com/jhoicas/tailorflow/pkg/logger"
)

// Modos del cliente.
const (
	ModeRemote   = "remote"
	ModeFallback = "fallback"
)

// Config opciones de New.
type Config struct {
	Endpoint        string        // vacío → modo de respaldo
	Timeout         time.Duration // timeout de transporte del modo remoto
	FallbackLatency time.Duration // demora de datos del modo de respaldo; auth usa 8/5 de este valor
	Dataset         *Dataset      // dataset del modo de respaldo; nil → DemoDataset
}

// New elige el modo según el endpoint y devuelve el store junto con el modo elegido.
func New(cfg Config, log *logger.Logger) (ports.RecordStore, string) {
	if log == nil {
		log = logger.Nop()
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint != "" {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		log.Debug().Str("endpoint", endpoint).Msg("record store remoto")
		return NewRemoteStore(endpoint, &http.Client{Timeout: timeout}, log), ModeRemote
	}

	opts := []FallbackOption{WithFallbackLogger(log)}
	if cfg.FallbackLatency > 0 {
		opts = append(opts, WithLatency(cfg.FallbackLatency, cfg.FallbackLatency*8/5))
	}
	log.Debug().Msg("sin endpoint configurado: modo de respaldo con datos demo")
	return NewFallbackStore(cfg.Dataset, opts...), ModeFallback
}
