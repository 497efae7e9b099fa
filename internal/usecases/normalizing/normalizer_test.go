package normalizing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

var extractedAt = time.Date(2025, 3, 2, 7, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func row(country, mcc, mnc, rate, currency, sourceName string, confidence float64, deterministic bool) domain.PriceRow {
	r := domain.PriceRow{
		Country:       country,
		Rate:          decimal.RequireFromString(rate),
		Currency:      currency,
		Source:        domain.SourceAttachment,
		SourceName:    sourceName,
		ExtractedAt:   extractedAt,
		RawConfidence: confidence,
		Deterministic: deterministic,
	}
	if mcc != "" {
		r.MCC = strPtr(mcc)
	}
	if mnc != "" {
		r.MNC = strPtr(mnc)
	}
	return r
}

func newTestNormalizer() *Normalizer {
	return NewNormalizer(Config{FallbackCurrency: "eur", RateDecimalPlaces: 6})
}

func TestNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		batches  []domain.SourceBatch
		validate func(t *testing.T, res Result)
	}{
		{
			name: "país canônico e moeda padrão",
			batches: []domain.SourceBatch{{
				SourceName: "a.csv",
				Rows:       []domain.PriceRow{row("france", "208", "1", "0.045", "", "a.csv", 1, true)},
			}},
			validate: func(t *testing.T, res Result) {
				require.Len(t, res.Rows, 1)
				got := res.Rows[0]
				assert.Equal(t, "FR", got.Country)
				assert.Equal(t, "EUR", got.Currency)
				assert.True(t, got.CurrencyDefaulted)
				assert.Equal(t, "01", *got.MNC)
				assert.Equal(t, 1, res.Report.DefaultedCurrency)
				require.Len(t, res.Report.CurrencyWarnings, 1)
				assert.Equal(t, domain.IdentityKey("mccmnc|FR|208|01"), res.Report.CurrencyWarnings[0].Key)
			},
		},
		{
			name: "país não resolvido mantido com aviso",
			batches: []domain.SourceBatch{{
				SourceName: "body",
				Rows:       []domain.PriceRow{row(" Testland ", "", "", "0.12", "EUR", "email-body", 0.6, false)},
			}},
			validate: func(t *testing.T, res Result) {
				require.Len(t, res.Rows, 1)
				assert.Equal(t, "Testland", res.Rows[0].Country)
				assert.True(t, res.Rows[0].CountryUnresolved)
				assert.Equal(t, 1, res.Report.UnresolvedCountry)
				require.Len(t, res.Report.CountryWarnings, 1)
				assert.Equal(t, "Testland", res.Report.CountryWarnings[0].Country)
			},
		},
		{
			name: "arredondamento bancário da tarifa",
			batches: []domain.SourceBatch{{
				SourceName: "a.csv",
				Rows: []domain.PriceRow{
					row("FR", "208", "01", "0.0450005", "EUR", "a.csv", 1, true),
					row("FR", "208", "10", "0.0450015", "EUR", "a.csv", 1, true),
				},
			}},
			validate: func(t *testing.T, res Result) {
				require.Len(t, res.Rows, 2)
				assert.Equal(t, "0.045", res.Rows[0].Rate.String())
				assert.Equal(t, "0.045002", res.Rows[1].Rate.String())
			},
		},
		{
			name: "planilha vence modelo de linguagem mesmo com confiança menor",
			batches: []domain.SourceBatch{
				{SourceName: "body", Rows: []domain.PriceRow{row("FR", "208", "01", "0.050", "EUR", "email-body", 1, false)}},
				{SourceName: "a.csv", Rows: []domain.PriceRow{row("FR", "208", "01", "0.045", "EUR", "a.csv", 1, true)}},
			},
			validate: func(t *testing.T, res Result) {
				require.Len(t, res.Rows, 1)
				assert.Equal(t, "a.csv", res.Rows[0].SourceName)
				assert.Equal(t, "0.045", res.Rows[0].Rate.String())
				assert.Equal(t, 1, res.Report.Conflicts)
				require.Len(t, res.Report.ConflictWarnings, 1)
				assert.Equal(t, "email-body", res.Report.ConflictWarnings[0].DroppedSource)
				assert.Equal(t, "0.05", res.Report.ConflictWarnings[0].DroppedRate)
			},
		},
		{
			name: "empate de confiança mantém a primeira linha",
			batches: []domain.SourceBatch{
				{SourceName: "a.pdf", Rows: []domain.PriceRow{row("SE", "240", "01", "0.02", "EUR", "a.pdf", 0.7, false)}},
				{SourceName: "b.pdf", Rows: []domain.PriceRow{row("Sweden", "240", "1", "0.03", "EUR", "b.pdf", 0.7, false)}},
			},
			validate: func(t *testing.T, res Result) {
				require.Len(t, res.Rows, 1)
				assert.Equal(t, "a.pdf", res.Rows[0].SourceName)
				assert.Equal(t, "b.pdf", res.Report.ConflictWarnings[0].DroppedSource)
			},
		},
		{
			name: "maior confiança substitui entre linhas do modelo",
			batches: []domain.SourceBatch{
				{SourceName: "a.pdf", Rows: []domain.PriceRow{row("SE", "240", "01", "0.02", "EUR", "a.pdf", 0.5, false)}},
				{SourceName: "b.pdf", Rows: []domain.PriceRow{row("SE", "240", "01", "0.03", "EUR", "b.pdf", 0.9, false)}},
			},
			validate: func(t *testing.T, res Result) {
				require.Len(t, res.Rows, 1)
				assert.Equal(t, "b.pdf", res.Rows[0].SourceName)
				assert.Equal(t, "a.pdf", res.Report.ConflictWarnings[0].DroppedSource)
			},
		},
		{
			name: "moeda inválida descarta a linha",
			batches: []domain.SourceBatch{{
				SourceName: "a.csv",
				Rows:       []domain.PriceRow{row("FR", "208", "01", "0.045", "EURO", "a.csv", 1, true)},
			}},
			validate: func(t *testing.T, res Result) {
				assert.Empty(t, res.Rows)
				assert.Equal(t, 1, res.Report.InvalidRows)
				require.Len(t, res.Report.Dropped, 1)
				assert.Equal(t, "a.csv", res.Report.Dropped[0].SourceName)
			},
		},
		{
			name: "falhas de documento e de célula entram no relatório",
			batches: []domain.SourceBatch{
				{SourceName: "broken.pdf", Failure: errors.New("resposta inválida")},
				{
					SourceName: "a.csv",
					Skipped:    2,
					Errors: []error{
						&domain.MalformedCellError{SourceName: "a.csv", Row: 3, Column: "Rate", Field: "rate", Value: "n/a"},
						domain.NewInvalidRowError("mcc", "20", "MCC deve ter 3 dígitos"),
					},
					Warnings: []domain.ConfidenceClampedWarning{{SourceName: "a.csv", Original: 1.4, Clamped: 1}},
				},
			},
			validate: func(t *testing.T, res Result) {
				r := res.Report
				assert.Equal(t, 2, r.Documents)
				assert.Equal(t, 1, r.FailedDocuments)
				require.Len(t, r.Failures, 1)
				assert.Equal(t, "broken.pdf", r.Failures[0].SourceName)
				assert.Equal(t, 1, r.MalformedRows)
				assert.Equal(t, 1, r.InvalidRows)
				assert.Equal(t, 2, r.SkippedRows)
				assert.Equal(t, 1, r.ClampedConfidences)
				assert.Len(t, r.Dropped, 2)
			},
		},
		{
			name: "documento sem leitor conta como ignorado e não como falha",
			batches: []domain.SourceBatch{
				{SourceName: "terms.pdf", Ignored: "extensão não suportada"},
				{
					SourceName: "a.csv",
					Rows:       []domain.PriceRow{row("FR", "208", "01", "0.045", "EUR", "a.csv", 1, true)},
				},
			},
			validate: func(t *testing.T, res Result) {
				r := res.Report
				assert.Equal(t, 1, r.Documents)
				assert.Equal(t, 1, r.IgnoredDocuments)
				assert.Zero(t, r.FailedDocuments)
				assert.Empty(t, r.Failures)
				require.Len(t, r.Ignored, 1)
				assert.Equal(t, "terms.pdf", r.Ignored[0].SourceName)
				assert.Equal(t, "extensão não suportada", r.Ignored[0].Reason)
				assert.Len(t, res.Rows, 1)
			},
		},
		{
			name: "saída ordenada pela chave de identidade",
			batches: []domain.SourceBatch{{
				SourceName: "a.csv",
				Rows: []domain.PriceRow{
					row("SE", "240", "01", "0.02", "EUR", "a.csv", 1, true),
					row("DE", "262", "01", "0.07", "EUR", "a.csv", 1, true),
					row("FR", "208", "01", "0.045", "EUR", "a.csv", 1, true),
				},
			}},
			validate: func(t *testing.T, res Result) {
				require.Len(t, res.Rows, 3)
				assert.Equal(t, "DE", res.Rows[0].Country)
				assert.Equal(t, "FR", res.Rows[1].Country)
				assert.Equal(t, "SE", res.Rows[2].Country)
				assert.Equal(t, 3, res.Report.AcceptedRows)
				assert.Equal(t, 3, res.Report.InputRows)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestNormalizer().Normalize(tt.batches)
			tt.validate(t, res)
		})
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := newTestNormalizer()

	operator := "Zain"
	withOperator := row("kuwait", "", "", "0.0305", "", "email-body", 0.6, false)
	withOperator.Operator = &operator
	withOperator.Source = domain.SourceBody

	first := n.Normalize([]domain.SourceBatch{{
		SourceName: "mail",
		Rows: []domain.PriceRow{
			row("France", "208", "1", "0.0450004", "eur", "a.csv", 1, true),
			row("Germany", "262", "01", "0.07", "EUR", "a.csv", 1, true),
			row("Testland", "", "", "0.12", "", "email-body", 0.6, false),
			withOperator,
		},
	}})

	second := n.Normalize([]domain.SourceBatch{{SourceName: "mail", Rows: first.Rows}})

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Report.DefaultedCurrency, second.Report.DefaultedCurrency)
	assert.Equal(t, first.Report.UnresolvedCountry, second.Report.UnresolvedCountry)
	assert.Zero(t, second.Report.Conflicts)
}

func TestNewNormalizer_Defaults(t *testing.T) {
	n := NewNormalizer(Config{})

	res := n.Normalize([]domain.SourceBatch{{
		SourceName: "a.csv",
		Rows:       []domain.PriceRow{row("FR", "208", "01", "0.12345678", "", "a.csv", 1, true)},
	}})

	require.Len(t, res.Rows, 1)
	assert.Equal(t, "EUR", res.Rows[0].Currency)
	assert.Equal(t, "0.123457", res.Rows[0].Rate.String())
}
