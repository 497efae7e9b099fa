package geminiclient

import (
	"context"
	"net/http"
	"time"

	geminidomain "github.com/salojoakim/supplierpriceautomation/infrastructure/integrator/gemini/geminidomain"
	"github.com/salojoakim/supplierpriceautomation/internal/config"
)

type Client interface {
	GenerateContent(ctx context.Context, request geminidomain.GenerateContentRequest) (*geminidomain.GenerateContentResponse, error)
}

type GeminiClient struct {
	httpClient *http.Client
	config     *config.Gemini
}

// NewClient cria uma nova instância do cliente da API
func NewClient(cfg *config.Gemini) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}

	return &GeminiClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: cfg,
	}
}
