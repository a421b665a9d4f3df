package ai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tailorflow/internal/application/dto"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
)

const (
	// estimateSystemPrompt define el rol del modelo y el formato exacto de salida.
	estimateSystemPrompt = `You are an expert master tailor and costing assistant for a tailoring boutique in India.
Given a garment type, a description and whether the order is urgent, return ONLY a JSON object (no markdown, no extra text) with this exact structure:
{
  "estimatedCost": <number, price in INR for stitching including a reasonable margin>,
  "timeEstimateDays": <integer, working days to deliver>,
  "patternSuggestions": ["<short pattern or style suggestion>", "..."],
  "fabricRequirements": "<fabric quantity and type, e.g. 2.5 m cotton>"
}

Rules:
- Urgent orders cost more (about 30-50% surcharge) and take fewer days.
- Give 2 to 4 pattern suggestions.
- Never include text outside the JSON object.`

	// chatSystemPrompt personalidad del asistente de chat.
	chatSystemPrompt = `You are StitchWizard, a friendly and knowledgeable assistant for a tailoring boutique.
Help the staff with fabric choices, measurement tips, garment construction, alterations, pricing advice and customer communication.
Answer concisely in plain text.`
)

// Option configura un adaptador de IA.
type Option func(*options)

type options struct {
	baseURL    string
	httpClient *http.Client
}

// WithBaseURL reemplaza la URL base de la API (proxies, tests).
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient reemplaza el cliente HTTP.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func applyOptions(defaults options, opts []Option) options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

// estimateUserText mensaje de usuario para la estimación.
func estimateUserText(garment entity.GarmentType, description string, urgent bool) string {
	urgency := "standard delivery"
	if urgent {
		urgency = "URGENT delivery"
	}
	return fmt.Sprintf("Garment type: %s\nDescription: %s\nUrgency: %s", garment, description, urgency)
}

// maxEstimateDays tope del plazo que se acepta del modelo.
const maxEstimateDays = 365

// llmEstimatePayload es el JSON que esperamos recibir del modelo.
type llmEstimatePayload struct {
	EstimatedCost      float64  `json:"estimatedCost"`
	TimeEstimateDays   float64  `json:"timeEstimateDays"`
	PatternSuggestions []string `json:"patternSuggestions"`
	FabricRequirements string   `json:"fabricRequirements"`
}

// parseEstimate interpreta la respuesta del modelo.
func parseEstimate(text string) (*dto.CostEstimateDTO, error) {
	raw := extractJSON(text)
	if raw == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON en la respuesta: %q", truncate(text, 200))
	}
	var p llmEstimatePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("AI: respuesta del modelo no es JSON válido: %w (respuesta: %s)", err, truncate(raw, 200))
	}
	if p.EstimatedCost <= 0 {
		return nil, fmt.Errorf("AI: costo estimado inválido: %v", p.EstimatedCost)
	}
	days := 1
	switch {
	case p.TimeEstimateDays >= maxEstimateDays:
		days = maxEstimateDays
	case p.TimeEstimateDays >= 1:
		days = int(p.TimeEstimateDays + 0.5)
	}
	suggestions := p.PatternSuggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return &dto.CostEstimateDTO{
		EstimatedCost:      decimal.NewFromFloat(p.EstimatedCost).Round(2),
		TimeEstimateDays:   days,
		PatternSuggestions: suggestions,
		FabricRequirements: strings.TrimSpace(p.FabricRequirements),
	}, nil
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON extrae el primer objeto JSON bien formado de un texto libre.
// Estrategia en dos pasos:
//  1. Eliminar bloques de código markdown (```json … ``` o ``` … ```).
//  2. Usar regex para capturar el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
