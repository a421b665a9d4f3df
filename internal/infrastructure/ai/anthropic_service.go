package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/tailorflow/internal/application/dto"
	"github.com/jhoicas/tailorflow/internal/application/ports"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
)

// Verificar en tiempo de compilación que AnthropicService implementa AdvisorService.
var _ ports.AdvisorService = (*AnthropicService)(nil)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

// AnthropicService adaptador que implementa AdvisorService usando la API REST de Anthropic.
// Usa net/http de la librería estándar; no requiere el SDK oficial.
type AnthropicService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador.
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewAnthropicService(apiKey, model string, opts ...Option) *AnthropicService {
	o := applyOptions(options{
		baseURL: anthropicDefaultBaseURL,
		httpClient: &http.Client{
			// Timeout de red de 25 s; el use case impone además un context.WithTimeout de 10 s.
			Timeout: 25 * time.Second,
		},
	}, opts)
	return &AnthropicService{apiKey: apiKey, model: model, baseURL: o.baseURL, httpClient: o.httpClient}
}

// ── Estructuras internas del protocolo Anthropic Messages API ─────────────────

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// EstimateCost pide la estimación al modelo y extrae el JSON aunque venga envuelto en markdown.
func (s *AnthropicService) EstimateCost(
	ctx context.Context,
	garment entity.GarmentType,
	description string,
	urgent bool,
) (*dto.CostEstimateDTO, error) {
	text, err := s.messages(ctx, estimateSystemPrompt, 512, []anthropicMessage{
		{Role: "user", Content: estimateUserText(garment, description, urgent)},
	})
	if err != nil {
		return nil, err
	}
	return parseEstimate(text)
}

// Chat envía el historial más el mensaje nuevo. La API exige que la conversación
// empiece con un turno de usuario, así que se descartan los turnos iniciales del modelo.
func (s *AnthropicService) Chat(ctx context.Context, history []dto.ChatMessage, newMessage string) (string, error) {
	msgs := make([]anthropicMessage, 0, len(history)+1)
	for _, m := range history {
		role := "user"
		if m.Role == dto.ChatRoleModel {
			role = "assistant"
		}
		if len(msgs) == 0 && role != "user" {
			continue
		}
		msgs = append(msgs, anthropicMessage{Role: role, Content: m.Text})
	}
	msgs = append(msgs, anthropicMessage{Role: "user", Content: newMessage})

	text, err := s.messages(ctx, chatSystemPrompt, 1024, msgs)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (s *AnthropicService) messages(ctx context.Context, system string, maxTokens int, msgs []anthropicMessage) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: ANTHROPIC_API_KEY no configurado")
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     s.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  msgs,
	})
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	var antResp anthropicResponse
	if err := json.Unmarshal(rawBody, &antResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("AI: Anthropic HTTP %d", resp.StatusCode)
		}
		return "", fmt.Errorf("AI: deserializar respuesta Anthropic: %w", err)
	}
	if antResp.Error != nil {
		return "", fmt.Errorf("AI: Anthropic error (%s): %s", antResp.Error.Type, antResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI: Anthropic HTTP %d", resp.StatusCode)
	}

	var sb strings.Builder
	for _, block := range antResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
