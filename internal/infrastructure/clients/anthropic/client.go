// Package anthropic implements the risk assessment provider on the
// Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/providers"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/config"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	apiVersion     = "2023-06-01"
)

// Client implements the RiskAssessor provider using Claude
type Client struct {
	apiKey     string
	model      string
	maxTokens  int
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Anthropic client
func NewClient(cfg *config.AnthropicConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &Client{
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: maxTokens,
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Assess evaluates a completed questionnaire. On any upstream failure it
// returns a conservative degraded assessment instead of an error, so a model
// outage never blocks the conversation.
func (c *Client) Assess(ctx context.Context, input providers.AssessmentInput) (*providers.RiskAssessment, error) {
	assessment, err := c.assess(ctx, input)
	if err != nil {
		log.Error().Err(err).
			Str("surgery_type", string(input.SurgeryType)).
			Int("day_number", input.DayNumber).
			Msg("ai risk assessment failed, using conservative fallback")
		return fallbackAssessment(input), nil
	}
	return assessment, nil
}

func (c *Client) assess(ctx context.Context, input providers.AssessmentInput) (*providers.RiskAssessment, error) {
	payload := messageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []message{
			{Role: "user", Content: buildPrompt(input)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic api error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var envelope messageResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("anthropic api error: %s", envelope.Error.Message)
	}
	if len(envelope.Content) == 0 {
		return nil, errors.New("empty completion")
	}

	return parseAssessment(envelope.Content[0].Text)
}

// parseAssessment extracts the JSON object from the completion text. Models
// occasionally wrap the object in prose or a markdown fence, so everything
// outside the outermost braces is discarded.
func parseAssessment(text string) (*providers.RiskAssessment, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in completion: %q", text)
	}

	var assessment providers.RiskAssessment
	if err := json.Unmarshal([]byte(text[start:end+1]), &assessment); err != nil {
		return nil, fmt.Errorf("failed to parse assessment: %w", err)
	}

	if !assessment.RiskLevel.Valid() {
		return nil, fmt.Errorf("invalid risk level: %q", assessment.RiskLevel)
	}
	if assessment.EmpatheticResponse == "" {
		return nil, errors.New("assessment missing empathetic response")
	}
	return &assessment, nil
}

// fallbackAssessment carries the conversation when the model is unreachable.
// Conservative: any deterministic finding bumps the level to high.
func fallbackAssessment(input providers.AssessmentInput) *providers.RiskAssessment {
	level := entities.RiskMedium
	seekCare := ""
	if len(input.KnownFlags) > 0 {
		level = entities.RiskHigh
		seekCare = "Devido aos sintomas reportados, recomendo que você entre em contato com o consultório para avaliação."
	}

	return &providers.RiskAssessment{
		RiskLevel: level,
		EmpatheticResponse: "Obrigado por responder ao questionário. Recebi suas informações e vou analisá-las com cuidado. " +
			"Em caso de qualquer sintoma que te preocupe, não hesite em entrar em contato.",
		SeekCareAdvice: seekCare,
		Degraded:       true,
	}
}

var surgeryTypeNames = map[entities.SurgeryType]string{
	entities.SurgeryHemorrhoidectomy: "Hemorroidectomia",
	entities.SurgeryFistula:          "Fístula Anal",
	entities.SurgeryFissure:          "Fissura Anal",
	entities.SurgeryPilonidal:        "Cisto Pilonidal",
}

func buildPrompt(input providers.AssessmentInput) string {
	surgeryName, ok := surgeryTypeNames[input.SurgeryType]
	if !ok {
		surgeryName = string(input.SurgeryType)
	}

	var flags string
	if len(input.KnownFlags) > 0 {
		lines := make([]string, len(input.KnownFlags))
		for i, flag := range input.KnownFlags {
			lines[i] = "- " + flag.Message
		}
		flags = strings.Join(lines, "\n")
	} else {
		flags = "Nenhum red flag detectado"
	}

	return fmt.Sprintf(`Você é um assistente médico especializado em pós-operatório de cirurgia colorretal.

Analise a resposta do paciente ao questionário de acompanhamento D+%d.

**Tipo de cirurgia:** %s

**Dados do paciente:**
- Nome: %s

**Resposta ao questionário:**
%s

**Red flags já detectados pelo sistema determinístico:**
%s

**Suas tarefas:**
1. Avalie o nível de risco geral (low, medium, high, critical) considerando:
   - O tipo de cirurgia e o dia pós-operatório
   - Os sintomas reportados
   - Os red flags já detectados

2. Identifique TODOS os sinais de alerta (Red Flags), como:
   - Febre > 37.8°C
   - Dor intensa (> 7) ou crescente
   - Sangramento moderado-intenso
   - Secreção purulenta
   - Retenção urinária
   - Vômitos ou outros sintomas graves

3. Gere uma resposta empática e acolhedora para o paciente, que:
   - Reconheça seus sintomas
   - Ofereça orientação apropriada
   - Seja clara e tranquilizadora quando possível
   - Use linguagem acessível (não use termos médicos complexos)
   - Seja breve (máximo 3-4 parágrafos)

4. Sugira quando procurar atendimento presencial, se necessário

**IMPORTANTE:**
- Seja conservador na avaliação de risco (prefira superestimar a subestimar)
- Para sintomas graves (febre alta, dor intensa, sangramento ativo), sempre classifique como high ou critical
- Mantenha tom empático e acolhedor na resposta
- Não minimize sintomas preocupantes

Retorne APENAS um objeto JSON válido no seguinte formato (sem markdown, sem explicações adicionais):
{
  "riskLevel": "low|medium|high|critical",
  "redFlags": ["red flag 1", "red flag 2"],
  "empatheticResponse": "texto da resposta empática",
  "seekCareAdvice": "texto sobre quando buscar atendimento ou null",
  "analysis": "breve explicação do raciocínio (opcional)"
}`,
		input.DayNumber,
		surgeryName,
		input.PatientName,
		describeClinical(input),
		flags,
	)
}

// describeClinical renders the structured answers as readable bullet lines
func describeClinical(input providers.AssessmentInput) string {
	data := input.Clinical
	if data == nil {
		return "Sem dados estruturados"
	}

	var parts []string
	if data.PainLevel != nil {
		parts = append(parts, fmt.Sprintf("- Dor: %d/10 (%s)", *data.PainLevel, painIntensity(*data.PainLevel)))
	}
	if data.UrinaryRetention != nil {
		if *data.UrinaryRetention {
			hours := "não especificado"
			if data.UrinaryRetentionHours != nil {
				hours = fmt.Sprintf("%dh", *data.UrinaryRetentionHours)
			}
			parts = append(parts, fmt.Sprintf("- Retenção urinária: SIM (%s)", hours))
		} else {
			parts = append(parts, "- Retenção urinária: não")
		}
	}
	if data.BowelMovement != nil {
		if *data.BowelMovement {
			parts = append(parts, "- Evacuação: sim")
		} else {
			parts = append(parts, "- Evacuação: ainda não")
		}
	}
	if data.Bleeding != "" {
		parts = append(parts, fmt.Sprintf("- Sangramento: %s", data.Bleeding))
	}
	if data.Fever != nil && *data.Fever {
		if data.Temperature != nil {
			parts = append(parts, fmt.Sprintf("- Febre: SIM (%.1f°C)", *data.Temperature))
		} else {
			parts = append(parts, "- Febre: SIM (temperatura não medida)")
		}
	}
	if data.Discharge != "" {
		parts = append(parts, fmt.Sprintf("- Secreção: %s", data.Discharge))
	}
	for _, symptom := range data.AdditionalSymptoms {
		parts = append(parts, fmt.Sprintf("- Relato adicional: %s", symptom))
	}

	if len(parts) == 0 {
		return "Sem sintomas estruturados reportados"
	}
	return strings.Join(parts, "\n")
}

func painIntensity(level int) string {
	switch {
	case level >= 8:
		return "muito intensa"
	case level >= 6:
		return "intensa"
	case level >= 4:
		return "moderada"
	case level >= 2:
		return "leve"
	}
	return "mínima"
}

var _ providers.RiskAssessor = (*Client)(nil)
