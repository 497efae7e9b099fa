// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Tarifas e deltas vão para o JSON como número ("rate": 0.045), não como texto
	decimal.MarshalJSONWithoutQuotes = true
}

// SourceKind indica de onde a linha de preço foi extraída
type SourceKind string

const (
	SourceBody       SourceKind = "body"
	SourceAttachment SourceKind = "attachment"
)

// EmailBodySourceName é o source_name usado para linhas extraídas do corpo do e-mail
const EmailBodySourceName = "email-body"

// DeterministicConfidence é a confiança atribuída às linhas do caminho determinístico (planilhas)
const DeterministicConfidence = 1.0

// PriceRow representa um preço cotado por um fornecedor para um destino/operadora
type PriceRow struct {
	Country           string          `json:"country"`
	MCC               *string         `json:"mcc"`
	MNC               *string         `json:"mnc"`
	Operator          *string         `json:"operator"`
	Rate              decimal.Decimal `json:"rate"`
	Currency          string          `json:"currency"`
	Source            SourceKind      `json:"source"`
	SourceName        string          `json:"source_name"`
	ExtractedAt       time.Time       `json:"extracted_at"`
	RawConfidence     float64         `json:"raw_confidence"`
	Deterministic     bool            `json:"deterministic"`
	Provider          *string         `json:"provider,omitempty"`
	EffectiveFrom     *string         `json:"effective_from,omitempty"`
	CountryUnresolved bool            `json:"country_unresolved,omitempty"`
	CurrencyDefaulted bool            `json:"currency_defaulted,omitempty"`
}

// RowInput são os dados brutos aceitos pelo construtor validado de PriceRow
type RowInput struct {
	Country       string
	MCC           string
	MNC           string
	Operator      string
	Rate          decimal.Decimal
	Currency      string
	Source        SourceKind
	SourceName    string
	ExtractedAt   time.Time
	Confidence    float64
	Deterministic bool
	Provider      string
	EffectiveFrom string
}

// NewPriceRow valida a entrada e devolve uma PriceRow canônica.
// Moeda ausente é aceita aqui; o normalizador aplica o fallback configurado.
func NewPriceRow(in RowInput) (PriceRow, error) {
	country := strings.TrimSpace(in.Country)
	if country == "" {
		return PriceRow{}, NewInvalidRowError("country", in.Country, "país ausente")
	}

	if in.Rate.IsNegative() {
		return PriceRow{}, NewInvalidRowError("rate", in.Rate.String(), "tarifa negativa")
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency != "" && !IsCurrencyCode(currency) {
		return PriceRow{}, NewInvalidRowError("currency", in.Currency, "moeda deve ser um código ISO 4217 de 3 letras")
	}

	mcc, err := NormalizeMCC(in.MCC)
	if err != nil {
		return PriceRow{}, err
	}

	mnc, err := NormalizeMNC(in.MNC)
	if err != nil {
		return PriceRow{}, err
	}

	if math.IsNaN(in.Confidence) {
		return PriceRow{}, NewInvalidRowError("confidence", "NaN", "confiança inválida")
	}

	source := in.Source
	if source == "" {
		source = SourceAttachment
	}

	sourceName := strings.TrimSpace(in.SourceName)
	if sourceName == "" && source == SourceBody {
		sourceName = EmailBodySourceName
	}

	return PriceRow{
		Country:       country,
		MCC:           mcc,
		MNC:           mnc,
		Operator:      optionalString(in.Operator),
		Rate:          in.Rate,
		Currency:      currency,
		Source:        source,
		SourceName:    sourceName,
		ExtractedAt:   in.ExtractedAt,
		RawConfidence: in.Confidence,
		Deterministic: in.Deterministic,
		Provider:      optionalString(in.Provider),
		EffectiveFrom: optionalString(in.EffectiveFrom),
	}, nil
}

// Outranks informa se candidate deve substituir incumbent para a mesma chave de identidade.
// Linhas determinísticas sempre vencem linhas do modelo de linguagem; no resto só vence
// confiança estritamente maior.
func Outranks(candidate, incumbent PriceRow) bool {
	if candidate.Deterministic != incumbent.Deterministic {
		return candidate.Deterministic
	}
	return candidate.RawConfidence > incumbent.RawConfidence
}

// NormalizeMCC aceita exatamente 3 dígitos (com tolerância a "208.0" vindo de planilhas)
func NormalizeMCC(raw string) (*string, error) {
	digits, ok := numericCode(raw)
	if !ok {
		return nil, NewInvalidRowError("mcc", raw, "MCC deve ser numérico")
	}
	if digits == "" {
		return nil, nil
	}
	if len(digits) != 3 {
		return nil, NewInvalidRowError("mcc", raw, "MCC deve ter 3 dígitos")
	}
	return &digits, nil
}

// NormalizeMNC aceita 2 ou 3 dígitos; um único dígito é completado para 2 ("1" -> "01")
func NormalizeMNC(raw string) (*string, error) {
	digits, ok := numericCode(raw)
	if !ok {
		return nil, NewInvalidRowError("mnc", raw, "MNC deve ser numérico")
	}
	if digits == "" {
		return nil, nil
	}
	if len(digits) == 1 {
		digits = "0" + digits
	}
	if len(digits) > 3 {
		return nil, NewInvalidRowError("mnc", raw, "MNC deve ter 2 ou 3 dígitos")
	}
	return &digits, nil
}

func numericCode(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", true
	}

	// Planilhas frequentemente entregam códigos como float ("208.0")
	if i := strings.IndexByte(s, '.'); i >= 0 && strings.Trim(s[i+1:], "0") == "" {
		s = s[:i]
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return s, true
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// StringValue devolve o conteúdo de um ponteiro opcional ou ""
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
