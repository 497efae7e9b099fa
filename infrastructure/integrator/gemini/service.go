package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	geminiclient "github.com/salojoakim/supplierpriceautomation/infrastructure/integrator/gemini/geminiclient"
	geminidomain "github.com/salojoakim/supplierpriceautomation/infrastructure/integrator/gemini/geminidomain"
	"github.com/salojoakim/supplierpriceautomation/internal/config"
	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

var (
	ErrEmptyResponse  = errors.New("resposta sem candidatos")
	ErrBlockedContent = errors.New("conteúdo bloqueado pela API")
)

// GeminiIntegrator implementa o entendimento de texto com a API do Gemini, respeitando a cota por minuto
type GeminiIntegrator struct {
	cfg     *config.Gemini
	Client  geminiclient.Client
	limiter *rate.Limiter
}

func New(cfg *config.Gemini, client geminiclient.Client) *GeminiIntegrator {
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &GeminiIntegrator{
		cfg:     cfg,
		Client:  client,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (s *GeminiIntegrator) Understand(ctx context.Context, req domain.ExtractionRequest) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("aguardando cota da API: %w", err)
	}

	temperature := 0.0
	request := geminidomain.GenerateContentRequest{
		Contents: []geminidomain.Content{
			{
				Role:  "user",
				Parts: []geminidomain.Part{{Text: req.Prompt}},
			},
		},
		GenerationConfig: &geminidomain.GenerationConfig{
			Temperature:      &temperature,
			ResponseMimeType: "application/json",
			ResponseSchema:   priceRowsSchema(),
		},
	}

	start := time.Now()
	resp, err := s.Client.GenerateContent(ctx, request)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"source":  req.SourceName,
			"attempt": req.Attempt,
			"error":   err.Error(),
		}).Error("gemini: falha ao gerar conteúdo")
		return "", err
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", ErrBlockedContent, resp.PromptFeedback.BlockReason)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}

	logrus.WithFields(logrus.Fields{
		"source":      req.SourceName,
		"attempt":     req.Attempt,
		"strict":      req.Strict,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("gemini: conteúdo gerado")

	return text, nil
}

// priceRowsSchema descreve o array de linhas no formato de esquema aceito pela API
func priceRowsSchema() *geminidomain.Schema {
	nullableString := func() *geminidomain.Schema {
		return &geminidomain.Schema{Type: "STRING", Nullable: true}
	}

	return &geminidomain.Schema{
		Type: "ARRAY",
		Items: &geminidomain.Schema{
			Type: "OBJECT",
			Properties: map[string]*geminidomain.Schema{
				"country":        {Type: "STRING"},
				"rate":           {Type: "NUMBER"},
				"mcc":            nullableString(),
				"mnc":            nullableString(),
				"operator":       nullableString(),
				"currency":       nullableString(),
				"provider":       nullableString(),
				"effective_from": nullableString(),
				"confidence":     {Type: "NUMBER"},
			},
			Required: []string{"country", "rate"},
		},
	}
}
