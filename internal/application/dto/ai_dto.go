package dto

import "github.com/shopspring/decimal"

// CostEstimateDTO estimación de costo y tiempo que sugiere el asesor IA.
type CostEstimateDTO struct {
	EstimatedCost      decimal.Decimal `json:"estimatedCost"`
	TimeEstimateDays   int             `json:"timeEstimateDays"`
	PatternSuggestions []string        `json:"patternSuggestions"`
	FabricRequirements string          `json:"fabricRequirements"`
}

// EstimateResult resultado del caso de uso: si el servicio no respondió,
// Available es false y Message lleva el aviso para el usuario.
type EstimateResult struct {
	Available bool             `json:"available"`
	Estimate  *CostEstimateDTO `json:"estimate,omitempty"`
	Message   string           `json:"message,omitempty"`
}

// Roles de ChatMessage.
const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

// ChatMessage un turno de la conversación con el asistente.
type ChatMessage struct {
	Role string `json:"role"` // user | model
	Text string `json:"text"`
}
