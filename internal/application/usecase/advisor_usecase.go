package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/tailorflow/internal/application/dto"
	"github.com/jhoicas/tailorflow/internal/application/ports"
	"github.com/jhoicas/tailorflow/internal/domain"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
	"github.com/jhoicas/tailorflow/pkg/logger"
)

// Mensajes que ve el usuario cuando el asesor no está disponible.
const (
	MsgEstimateUnavailable = "AI Service unavailable. Check API Key."
	MsgChatUnavailable     = "Sorry, I am having trouble connecting to the AI service right now. Please check your API key."
	MsgChatEmpty           = "I could not generate a response."
	MsgChatGreeting        = "Hello! I am StitchWizard, your tailoring assistant. Ask me about fabrics, measurements, styles or pricing."
)

// advisorTimeout tope por llamada al modelo.
const advisorTimeout = 10 * time.Second

// AdvisorUseCase orquesta las estimaciones y el chat asistidos por IA.
// Aplica un timeout de 10 segundos en cada llamada y nunca propaga las fallas
// del proveedor: las convierte en un mensaje para el usuario.
type AdvisorUseCase struct {
	advisor ports.AdvisorService
	log     *logger.Logger
}

// NewAdvisorUseCase construye el caso de uso inyectando el puerto AdvisorService.
func NewAdvisorUseCase(advisor ports.AdvisorService, log *logger.Logger) *AdvisorUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AdvisorUseCase{advisor: advisor, log: log.Named("advisor")}
}

// Greeting primer mensaje del asistente en una conversación nueva.
func (uc *AdvisorUseCase) Greeting() dto.ChatMessage {
	return dto.ChatMessage{Role: dto.ChatRoleModel, Text: MsgChatGreeting}
}

// Estimate pide la estimación de costo. Solo devuelve error si la entrada es inválida.
func (uc *AdvisorUseCase) Estimate(
	ctx context.Context,
	garment entity.GarmentType,
	description string,
	urgent bool,
) (dto.EstimateResult, error) {
	if !garment.Valid() {
		return dto.EstimateResult{}, fmt.Errorf("%w: tipo de prenda %q", domain.ErrInvalidInput, garment)
	}
	if strings.TrimSpace(description) == "" {
		return dto.EstimateResult{}, fmt.Errorf("%w: la descripción es obligatoria", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, advisorTimeout)
	defer cancel()

	est, err := uc.advisor.EstimateCost(ctx, garment, description, urgent)
	if err != nil || est == nil {
		uc.log.Warn().Err(err).Str("garment", string(garment)).Msg("estimación IA no disponible")
		return dto.EstimateResult{Available: false, Message: MsgEstimateUnavailable}, nil
	}
	return dto.EstimateResult{Available: true, Estimate: est}, nil
}

// ApplyEstimate copia el costo estimado al precio del borrador de orden.
func ApplyEstimate(draft *entity.OrderDraft, res dto.EstimateResult) {
	if res.Available && res.Estimate != nil && res.Estimate.EstimatedCost.IsPositive() {
		draft.Price = res.Estimate.EstimatedCost
	}
}

// Chat responde el mensaje. Las fallas del proveedor se devuelven como texto de disculpa.
func (uc *AdvisorUseCase) Chat(ctx context.Context, history []dto.ChatMessage, message string) (dto.ChatMessage, error) {
	if strings.TrimSpace(message) == "" {
		return dto.ChatMessage{}, fmt.Errorf("%w: el mensaje está vacío", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, advisorTimeout)
	defer cancel()

	reply, err := uc.advisor.Chat(ctx, history, message)
	switch {
	case err != nil:
		uc.log.Warn().Err(err).Msg("chat IA no disponible")
		return dto.ChatMessage{Role: dto.ChatRoleModel, Text: MsgChatUnavailable}, nil
	case strings.TrimSpace(reply) == "":
		return dto.ChatMessage{Role: dto.ChatRoleModel, Text: MsgChatEmpty}, nil
	default:
		return dto.ChatMessage{Role: dto.ChatRoleModel, Text: reply}, nil
	}
}
