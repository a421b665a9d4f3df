package ports

import (
	"context"

	"github.com/jhoicas/tailorflow/internal/application/dto"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
)

// AdvisorService define el puerto de salida hacia el asesor de IA.
// Cualquier adaptador (Gemini, Anthropic, mock) debe implementar esta interfaz;
// la aplicación solo conoce este contrato. El contexto debe llevar un timeout.
type AdvisorService interface {
	// EstimateCost sugiere costo, días de trabajo, patrones y tela para una prenda.
	EstimateCost(
		ctx context.Context,
		garment entity.GarmentType,
		description string,
		urgent bool,
	) (*dto.CostEstimateDTO, error)

	// Chat responde newMessage dado el historial previo de la conversación.
	Chat(ctx context.Context, history []dto.ChatMessage, newMessage string) (string, error)
}
