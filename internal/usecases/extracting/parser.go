package extracting

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

var jsonNumber = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// candidate é um elemento da resposta do colaborador; campos ausentes ficam nil
type candidate struct {
	Country       *string          `mapstructure:"country"`
	Rate          *decimal.Decimal `mapstructure:"rate"`
	MCC           *string          `mapstructure:"mcc"`
	MNC           *string          `mapstructure:"mnc"`
	Operator      *string          `mapstructure:"operator"`
	Currency      *string          `mapstructure:"currency"`
	Provider      *string          `mapstructure:"provider"`
	EffectiveFrom *string          `mapstructure:"effective_from"`
	Confidence    *float64         `mapstructure:"confidence"`
}

// parseOutcome é o resultado da leitura de uma resposta válida
type parseOutcome struct {
	Rows     []domain.PriceRow
	Dropped  []error
	Warnings []domain.ConfidenceClampedWarning
}

// parseInput reúne o contexto necessário para transformar a resposta em linhas
type parseInput struct {
	SourceName        string
	Source            domain.SourceKind
	Provider          string
	Attempt           int
	DefaultConfidence float64
	ExtractedAt       time.Time
}

var (
	decimalType    = reflect.TypeOf(decimal.Decimal{})
	jsonNumberType = reflect.TypeOf(json.Number(""))
)

// numberToDecimalHook aceita apenas números JSON em campos decimais; texto é violação do esquema
func numberToDecimalHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}
	if from != jsonNumberType {
		return nil, fmt.Errorf("esperado número, recebido %s", from.Kind())
	}
	return decimal.NewFromString(string(data.(json.Number)))
}

// stripCodeFence remove o bloco ```json ... ``` que alguns modelos insistem em devolver
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseResponse valida a resposta contra o esquema.
// Estrutura inválida devolve ExtractionParseError; elementos sem país ou tarifa são só descartados.
func parseResponse(raw string, in parseInput) (*parseOutcome, error) {
	parseErr := func(reason string) error {
		return &domain.ExtractionParseError{SourceName: in.SourceName, Attempt: in.Attempt, Reason: reason}
	}

	payload := stripCodeFence(raw)
	if payload == "" {
		return nil, parseErr("resposta vazia")
	}
	if payload[0] != '[' {
		return nil, parseErr("resposta não é um array JSON")
	}

	var elements []any
	if err := jsonNumber.UnmarshalFromString(payload, &elements); err != nil {
		return nil, parseErr(fmt.Sprintf("JSON inválido: %v", err))
	}

	candidates := make([]candidate, len(elements))
	for i, element := range elements {
		obj, ok := element.(map[string]any)
		if !ok {
			return nil, parseErr(fmt.Sprintf("elemento %d não é um objeto", i))
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:  numberToDecimalHook,
			ErrorUnused: true,
			Result:      &candidates[i],
		})
		if err != nil {
			return nil, err
		}

		if err := decoder.Decode(obj); err != nil {
			return nil, parseErr(fmt.Sprintf("elemento %d fora do esquema: %v", i, err))
		}
	}

	outcome := &parseOutcome{}
	for i, c := range candidates {
		if c.Country == nil || strings.TrimSpace(*c.Country) == "" || c.Rate == nil {
			outcome.Dropped = append(outcome.Dropped, domain.NewInvalidRowError(
				"country/rate", fmt.Sprintf("elemento %d", i), "campo obrigatório ausente na resposta do extrator"))
			continue
		}

		confidence := in.DefaultConfidence
		if c.Confidence != nil {
			confidence = *c.Confidence
			if clamped := clamp(confidence); clamped != confidence {
				outcome.Warnings = append(outcome.Warnings, domain.ConfidenceClampedWarning{
					SourceName: in.SourceName,
					Original:   confidence,
					Clamped:    clamped,
				})
				confidence = clamped
			}
		}

		provider := deref(c.Provider)
		if provider == "" {
			provider = in.Provider
		}

		row, err := domain.NewPriceRow(domain.RowInput{
			Country:       *c.Country,
			MCC:           deref(c.MCC),
			MNC:           deref(c.MNC),
			Operator:      deref(c.Operator),
			Rate:          *c.Rate,
			Currency:      deref(c.Currency),
			Source:        in.Source,
			SourceName:    in.SourceName,
			ExtractedAt:   in.ExtractedAt,
			Confidence:    confidence,
			Deterministic: false,
			Provider:      provider,
			EffectiveFrom: deref(c.EffectiveFrom),
		})
		if err != nil {
			outcome.Dropped = append(outcome.Dropped, fmt.Errorf("%s elemento %d: %w", in.SourceName, i, err))
			continue
		}

		outcome.Rows = append(outcome.Rows, row)
	}

	return outcome, nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
