package mapping

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

var fixedNow = time.Date(2025, 3, 2, 7, 0, 0, 0, time.UTC)

func newTestMapper() *Mapper {
	return NewMapper(DefaultSynonyms(), WithClock(func() time.Time { return fixedNow }))
}

func TestResolveHeaders(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		validate func(t *testing.T, res Resolution)
	}{
		{
			name:    "cabeçalho de tarifa com moeda e espaços",
			headers: []string{"Country", "  RATE (eur) "},
			validate: func(t *testing.T, res Resolution) {
				col, ok := res.Column(FieldRate)
				assert.True(t, ok)
				assert.Equal(t, "  RATE (eur) ", col)
				assert.Equal(t, "EUR", res.HeaderCurrency)
			},
		},
		{
			name:    "match exato vence match aproximado",
			headers: []string{"Old Price", "Price", "Network"},
			validate: func(t *testing.T, res Resolution) {
				assert.Equal(t, "Price", res.Columns[FieldRate])
				assert.Equal(t, "Network", res.Columns[FieldOperator])
			},
		},
		{
			name:    "preço anterior nunca é tarifa",
			headers: []string{"Country", "Old Price", "Previous Rate"},
			validate: func(t *testing.T, res Resolution) {
				_, ok := res.Column(FieldRate)
				assert.False(t, ok)
			},
		},
		{
			name:    "coluna combinada mccmnc não é lida como mcc",
			headers: []string{"MCC/MNC", "Operator", "Price per SMS"},
			validate: func(t *testing.T, res Resolution) {
				assert.Equal(t, "MCC/MNC", res.Columns[FieldMCCMNC])
				_, ok := res.Column(FieldMCC)
				assert.False(t, ok)
				assert.Equal(t, "Price per SMS", res.Columns[FieldRate])
			},
		},
		{
			name:    "erro de digitação no cabeçalho",
			headers: []string{"Contry", "Opertor", "SMS Rate USD"},
			validate: func(t *testing.T, res Resolution) {
				assert.Equal(t, "Contry", res.Columns[FieldCountry])
				assert.Equal(t, "Opertor", res.Columns[FieldOperator])
				assert.Equal(t, "SMS Rate USD", res.Columns[FieldRate])
				assert.Equal(t, "USD", res.HeaderCurrency)
			},
		},
		{
			name:    "destino e colunas de fatura",
			headers: []string{"Destination", "Network", "Count", "Cost", "Price"},
			validate: func(t *testing.T, res Resolution) {
				assert.Equal(t, "Destination", res.Columns[FieldDestination])
				assert.Equal(t, "Network", res.Columns[FieldOperator])
				assert.Equal(t, "Price", res.Columns[FieldRate])
				_, ok := res.Column(FieldCountry)
				assert.False(t, ok, "Count não é país")
				assert.Len(t, res.Columns, 3)
			},
		},
		{
			name:    "custo de uso não é tarifa",
			headers: []string{"Country", "Count", "Cost EUR"},
			validate: func(t *testing.T, res Resolution) {
				_, ok := res.Column(FieldRate)
				assert.False(t, ok)
				assert.Equal(t, "Country", res.Columns[FieldCountry])
			},
		},
		{
			name:    "cada cabeçalho pertence a um campo só",
			headers: []string{"Rate"},
			validate: func(t *testing.T, res Resolution) {
				assert.Len(t, res.Columns, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, ResolveHeaders(tt.headers, DefaultSynonyms()))
		})
	}
}

func TestMapper_Map(t *testing.T) {
	tests := []struct {
		name     string
		table    domain.Table
		validate func(t *testing.T, result Result)
	}{
		{
			name: "planilha completa",
			table: domain.Table{
				SourceName: "acme_prices.xlsx",
				Provider:   "acme",
				Headers:    []string{"Country", "Operator", "MCC", "MNC", "  RATE (eur) "},
				Rows: []map[string]any{
					{"Country": "France", "Operator": "Orange", "MCC": 208.0, "MNC": 1.0, "  RATE (eur) ": 0.045},
					{"Country": "Germany", "Operator": "Telekom", "MCC": "262", "MNC": "01", "  RATE (eur) ": "0,0300"},
				},
			},
			validate: func(t *testing.T, result Result) {
				assert.Len(t, result.Rows, 2)
				assert.Empty(t, result.Errors)
				assert.Equal(t, 0, result.Skipped)

				fr := result.Rows[0]
				assert.Equal(t, "France", fr.Country)
				assert.Equal(t, "208", *fr.MCC)
				assert.Equal(t, "01", *fr.MNC)
				assert.Equal(t, "EUR", fr.Currency)
				assert.Equal(t, "0.045", fr.Rate.String())
				assert.Equal(t, 1.0, fr.RawConfidence)
				assert.True(t, fr.Deterministic)
				assert.Equal(t, domain.SourceAttachment, fr.Source)
				assert.Equal(t, "acme_prices.xlsx", fr.SourceName)
				assert.Equal(t, "acme", *fr.Provider)
				assert.Equal(t, fixedNow, fr.ExtractedAt)

				assert.Equal(t, "0.03", result.Rows[1].Rate.String())
			},
		},
		{
			name: "coluna de moeda tem precedência sobre o cabeçalho",
			table: domain.Table{
				SourceName: "mixed.csv",
				Headers:    []string{"Country", "Rate EUR", "Currency"},
				Rows: []map[string]any{
					{"Country": "SE", "Rate EUR": "0.5", "Currency": "sek"},
					{"Country": "NO", "Rate EUR": "0.4", "Currency": ""},
				},
			},
			validate: func(t *testing.T, result Result) {
				assert.Len(t, result.Rows, 2)
				assert.Equal(t, "SEK", result.Rows[0].Currency)
				assert.Equal(t, "EUR", result.Rows[1].Currency)
			},
		},
		{
			name: "símbolo na célula como última opção de moeda",
			table: domain.Table{
				SourceName: "symbols.csv",
				Headers:    []string{"Country", "Price"},
				Rows: []map[string]any{
					{"Country": "GB", "Price": "£0.031"},
					{"Country": "DE", "Price": "0.02"},
				},
			},
			validate: func(t *testing.T, result Result) {
				assert.Len(t, result.Rows, 2)
				assert.Equal(t, "GBP", result.Rows[0].Currency)
				assert.Empty(t, result.Rows[1].Currency, "sem moeda: o normalizador aplica o padrão")
			},
		},
		{
			name: "coluna mccmnc combinada e país pelo mcc",
			table: domain.Table{
				SourceName: "combined.csv",
				Headers:    []string{"MCCMNC", "Rate"},
				Rows: []map[string]any{
					{"MCCMNC": "41902", "Rate": "0.0305"},
					{"MCCMNC": "208-10", "Rate": "0.05"},
				},
			},
			validate: func(t *testing.T, result Result) {
				assert.Len(t, result.Rows, 2)
				assert.Equal(t, "KW", result.Rows[0].Country)
				assert.Equal(t, "419", *result.Rows[0].MCC)
				assert.Equal(t, "02", *result.Rows[0].MNC)
				assert.Equal(t, "FR", result.Rows[1].Country)
				assert.Equal(t, "10", *result.Rows[1].MNC)
			},
		},
		{
			name: "coluna de destino com país ou mccmnc",
			table: domain.Table{
				SourceName: "destination.csv",
				Headers:    []string{"Destination", "Network", "Price"},
				Rows: []map[string]any{
					{"Destination": "France", "Network": "Orange", "Price": "0.045"},
					{"Destination": "20801", "Network": "Orange", "Price": "0.045"},
					{"Destination": 26201.0, "Network": "Telekom", "Price": "0.03"},
				},
			},
			validate: func(t *testing.T, result Result) {
				assert.Empty(t, result.Errors)
				if !assert.Len(t, result.Rows, 3) {
					return
				}

				assert.Equal(t, "France", result.Rows[0].Country)
				assert.Nil(t, result.Rows[0].MCC)
				assert.Equal(t, "Orange", *result.Rows[0].Operator)

				assert.Equal(t, "FR", result.Rows[1].Country)
				assert.Equal(t, "208", *result.Rows[1].MCC)
				assert.Equal(t, "01", *result.Rows[1].MNC)

				assert.Equal(t, "DE", result.Rows[2].Country)
				assert.Equal(t, "262", *result.Rows[2].MCC)
				assert.Equal(t, "01", *result.Rows[2].MNC)
			},
		},
		{
			name: "linhas sem tarifa ou sem destino são ignoradas",
			table: domain.Table{
				SourceName: "footer.csv",
				Headers:    []string{"Country", "Operator", "Rate"},
				Rows: []map[string]any{
					{"Country": "SE", "Operator": "Telia", "Rate": "0.02"},
					{"Country": "", "Operator": "", "Rate": ""},
					{"Country": "Total", "Operator": "", "Rate": nil},
					{"Country": "", "Operator": "", "Rate": "12.50"},
				},
			},
			validate: func(t *testing.T, result Result) {
				assert.Len(t, result.Rows, 1)
				assert.Equal(t, 3, result.Skipped)
				assert.Empty(t, result.Errors)
			},
		},
		{
			name: "célula malformada descarta só a própria linha",
			table: domain.Table{
				SourceName: "broken.csv",
				Headers:    []string{"Country", "Rate"},
				Rows: []map[string]any{
					{"Country": "SE", "Rate": "n/a"},
					{"Country": "DK", "Rate": "0.03"},
				},
			},
			validate: func(t *testing.T, result Result) {
				assert.Len(t, result.Rows, 1)
				assert.Equal(t, "DK", result.Rows[0].Country)
				if assert.Len(t, result.Errors, 1) {
					var cellErr *domain.MalformedCellError
					assert.True(t, errors.As(result.Errors[0], &cellErr))
					assert.Equal(t, 0, cellErr.Row)
					assert.Equal(t, "Rate", cellErr.Column)
					assert.Equal(t, "n/a", cellErr.Value)
				}
			},
		},
		{
			name: "linha inválida é registrada",
			table: domain.Table{
				SourceName: "invalid.csv",
				Headers:    []string{"Country", "MCC", "MNC", "Rate"},
				Rows: []map[string]any{
					{"Country": "SE", "MCC": "24", "MNC": "01", "Rate": "0.02"},
					{"Country": "SE", "MCC": "240", "MNC": "01", "Rate": "-1"},
				},
			},
			validate: func(t *testing.T, result Result) {
				assert.Empty(t, result.Rows)
				assert.Len(t, result.Errors, 2)
				for _, err := range result.Errors {
					assert.True(t, errors.Is(err, domain.ErrInvalidRow))
				}
			},
		},
		{
			name: "tabela sem coluna de tarifa",
			table: domain.Table{
				SourceName: "contacts.csv",
				Headers:    []string{"Name", "Email"},
				Rows:       []map[string]any{{"Name": "a", "Email": "b"}},
			},
			validate: func(t *testing.T, result Result) {
				assert.Empty(t, result.Rows)
				assert.Equal(t, 1, result.Skipped)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, newTestMapper().Map(tt.table))
		})
	}
}

func TestFromOverrides(t *testing.T) {
	synonyms := FromOverrides(map[string][]string{
		"rate":    {"Preis", " "},
		"unknown": {"x"},
	})

	assert.Equal(t, []string{"Preis"}, synonyms[FieldRate])
	assert.Equal(t, DefaultSynonyms()[FieldCountry], synonyms[FieldCountry])

	res := ResolveHeaders([]string{"Land", "Preis"}, synonyms)
	assert.Equal(t, "Preis", res.Columns[FieldRate])
	assert.Equal(t, "Land", res.Columns[FieldCountry])
}
