// Package extracting implementa o caminho por modelo de linguagem: texto livre vira linhas de preço
package extracting

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

//go:generate mockgen -source=extractor.go -destination=mocks/text_understander.go -package=mocks

// TextUnderstander é o colaborador que transforma texto em JSON seguindo o esquema informado
type TextUnderstander interface {
	Understand(ctx context.Context, req domain.ExtractionRequest) (string, error)
}

// Config controla tentativas, tempo limite e cache do extrator
type Config struct {
	MaxAttempts       int
	Backoff           time.Duration
	DocumentTimeout   time.Duration
	DefaultConfidence float64
	CacheTTL          time.Duration
}

// DefaultConfig devolve os valores usados quando nada é configurado
func DefaultConfig() Config {
	return Config{
		MaxAttempts:       3,
		Backoff:           2 * time.Second,
		DocumentTimeout:   60 * time.Second,
		DefaultConfidence: 0.5,
		CacheTTL:          24 * time.Hour,
	}
}

// Result é o resultado da extração de um documento de texto
type Result struct {
	Rows     []domain.PriceRow
	Dropped  []error
	Warnings []domain.ConfidenceClampedWarning
	Attempts int
}

// Extractor chama o colaborador, valida a resposta e repete com prompt mais estrito quando necessário
type Extractor struct {
	understander TextUnderstander
	config       Config
	cache        *cache.Cache
	now          func() time.Time
}

func NewExtractor(understander TextUnderstander, config Config) *Extractor {
	defaults := DefaultConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.DocumentTimeout <= 0 {
		config.DocumentTimeout = defaults.DocumentTimeout
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaults.CacheTTL
	}
	if config.Backoff < 0 {
		config.Backoff = 0
	}

	return &Extractor{
		understander: understander,
		config:       config,
		cache:        cache.New(config.CacheTTL, 2*config.CacheTTL),
		now:          time.Now,
	}
}

// Extract processa um documento de texto.
// Depois de MaxAttempts respostas inválidas devolve o último erro; quem chama descarta o documento.
func (e *Extractor) Extract(ctx context.Context, doc domain.Document) (*Result, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return &Result{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.DocumentTimeout)
	defer cancel()

	logger := logrus.WithFields(logrus.Fields{
		"source": doc.SourceName,
		"kind":   doc.Source,
	})

	source := doc.Source
	if source == "" {
		source = domain.SourceAttachment
	}

	var lastErr error
	for attempt := 1; attempt <= e.config.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := e.wait(ctx, attempt); err != nil {
				return nil, fmt.Errorf("tempo limite do documento %s esgotado: %w (último erro: %v)", doc.SourceName, err, lastErr)
			}
		}

		strict := attempt > 1
		req := domain.ExtractionRequest{
			SourceName: doc.SourceName,
			Provider:   doc.Provider,
			Text:       doc.Text,
			Prompt:     BuildPrompt(doc.Text, doc.Provider, strict),
			Schema:     ResponseSchema,
			Attempt:    attempt,
			Strict:     strict,
		}

		raw, cached, err := e.understand(ctx, req)
		if err != nil {
			lastErr = err
			logger.WithError(err).WithField("attempt", attempt).Warn("Falha ao consultar o extrator")
			if ctx.Err() != nil {
				break
			}
			continue
		}

		outcome, err := parseResponse(raw, parseInput{
			SourceName:        doc.SourceName,
			Source:            source,
			Provider:          doc.Provider,
			Attempt:           attempt,
			DefaultConfidence: e.config.DefaultConfidence,
			ExtractedAt:       e.now().UTC(),
		})
		if err != nil {
			lastErr = err
			e.cache.Delete(cacheKey(req))
			logger.WithError(err).WithField("attempt", attempt).Warn("Resposta do extrator fora do esquema")
			continue
		}

		if !cached {
			e.cache.SetDefault(cacheKey(req), raw)
		}

		logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"rows":    len(outcome.Rows),
			"dropped": len(outcome.Dropped),
			"cached":  cached,
		}).Info("Documento extraído")

		return &Result{
			Rows:     outcome.Rows,
			Dropped:  outcome.Dropped,
			Warnings: outcome.Warnings,
			Attempts: attempt,
		}, nil
	}

	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return nil, lastErr
}

func (e *Extractor) understand(ctx context.Context, req domain.ExtractionRequest) (string, bool, error) {
	key := cacheKey(req)
	if raw, found := e.cache.Get(key); found {
		return raw.(string), true, nil
	}

	raw, err := e.understander.Understand(ctx, req)
	if err != nil {
		return "", false, err
	}
	return raw, false, nil
}

// wait aplica o backoff exponencial antes da tentativa informada
func (e *Extractor) wait(ctx context.Context, attempt int) error {
	delay := e.config.Backoff << (attempt - 2)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// cacheKey identifica uma chamada pelo conteúdo do documento e pelo modo estrito
func cacheKey(req domain.ExtractionRequest) string {
	d := xxhash.New()
	_, _ = d.WriteString(req.SourceName)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(req.Text)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strconv.FormatBool(req.Strict))
	return strconv.FormatUint(d.Sum64(), 16)
}

// IsParseFailure verifica se o documento foi descartado por respostas fora do esquema
func IsParseFailure(err error) bool {
	return errors.Is(err, domain.ErrExtractionParse)
}
