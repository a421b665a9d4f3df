// Package ai contiene los adaptadores REST de los proveedores de IA (Gemini y Anthropic)
// que implementan ports.AdvisorService.
package ai

import (
	"github.com/jhoicas/tailorflow/internal/application/ports"
	"github.com/jhoicas/tailorflow/pkg/config"
)

// NewAdvisor elige el adaptador según AI_PROVIDER; cualquier valor distinto de
// "anthropic" usa Gemini.
func NewAdvisor(cfg config.AIConfig, opts ...Option) ports.AdvisorService {
	if cfg.Provider == config.ProviderAnthropic {
		return NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel, opts...)
	}
	return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, opts...)
}
