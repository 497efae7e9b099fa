package geminiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	jsoniter "github.com/json-iterator/go"

	geminidomain "github.com/salojoakim/supplierpriceautomation/infrastructure/integrator/gemini/geminidomain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIError é devolvido quando a API responde com status diferente de 200
type APIError struct {
	StatusCode int
	Response   geminidomain.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response.Error.Message != "" {
		return fmt.Sprintf("requisição falhou com status %d (%s): %s", e.StatusCode, e.Response.Error.Status, e.Response.Error.Message)
	}
	return fmt.Sprintf("requisição falhou com status %d", e.StatusCode)
}

func (c *GeminiClient) GenerateContent(ctx context.Context, request geminidomain.GenerateContentRequest) (*geminidomain.GenerateContentResponse, error) {
	// Construir a URL da requisição.
	endpoint, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao analisar a URL base: %w", err)
	}
	endpoint.Path = path.Join(endpoint.Path, "models", c.config.Model+":generateContent")

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar a requisição: %w", err)
	}

	// Criar a requisição HTTP.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a requisição: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	// Executar a requisição.
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler a resposta: %w", err)
	}

	// Verificar o código de status da resposta.
	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(data, &apiErr.Response)
		return nil, apiErr
	}

	var response geminidomain.GenerateContentResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("erro ao decodificar a resposta: %w", err)
	}

	return &response, nil
}
