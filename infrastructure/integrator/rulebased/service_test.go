package rulebased

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

func understand(t *testing.T, text, provider string) []map[string]any {
	t.Helper()

	raw, err := New().Understand(context.Background(), domain.ExtractionRequest{
		SourceName: "email-body",
		Provider:   provider,
		Text:       text,
	})
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.UnmarshalFromString(raw, &rows))
	return rows
}

func TestRuleBasedIntegrator_Understand(t *testing.T) {
	t.Run("bloco completo", func(t *testing.T) {
		text := `
    Country: Kuwait
    Operator: zain
    MCC 419, MNC 02
    Old Price 0.0300 EUR
    New Price 0.0305 EUR
    Effective Date 2025-09-08
    Change: Increase
`
		rows := understand(t, text, "Demo")

		require.Len(t, rows, 1)
		row := rows[0]
		assert.Equal(t, "Kuwait", row["country"])
		assert.Equal(t, "zain", row["operator"])
		assert.Equal(t, "419", row["mcc"])
		assert.Equal(t, "02", row["mnc"])
		assert.Equal(t, 0.0305, row["rate"])
		assert.Equal(t, "EUR", row["currency"])
		assert.Equal(t, "2025-09-08", row["effective_from"])
		assert.Equal(t, "Demo", row["provider"])
		assert.Equal(t, 0.6, row["confidence"])
	})

	t.Run("um objeto por bloco", func(t *testing.T) {
		text := "Country: Sweden\nRate 0,021 SEK\n\nCountry: Norway\nPrice: 0.5\n\nThank you for your business"

		rows := understand(t, text, "")

		require.Len(t, rows, 2)
		assert.Equal(t, "Sweden", rows[0]["country"])
		assert.Equal(t, 0.021, rows[0]["rate"])
		assert.Equal(t, "SEK", rows[0]["currency"])
		assert.Equal(t, "Norway", rows[1]["country"])
		assert.Nil(t, rows[1]["currency"])
		_, hasProvider := rows[1]["provider"]
		assert.False(t, hasProvider)
	})

	t.Run("país pelo mcc quando não informado", func(t *testing.T) {
		rows := understand(t, "MCC 208 MNC 01 new rate 0.045 EUR", "")

		require.Len(t, rows, 1)
		assert.Equal(t, "FR", rows[0]["country"])
	})

	t.Run("mcc e mnc combinados", func(t *testing.T) {
		tests := []struct {
			name string
			text string
			mnc  string
		}{
			{name: "barra", text: "Country: France\nMCC/MNC: 208/01\nNew price: 0.050 EUR", mnc: "01"},
			{name: "hífen", text: "Country: France\nMCC-MNC 208-10\nNew price: 0.050 EUR", mnc: "10"},
			{name: "sem separador", text: "Country: France\nMCCMNC: 20801\nNew price: 0.050 EUR", mnc: "01"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rows := understand(t, tt.text, "")

				require.Len(t, rows, 1)
				assert.Equal(t, "France", rows[0]["country"])
				assert.Equal(t, "208", rows[0]["mcc"])
				assert.Equal(t, tt.mnc, rows[0]["mnc"])
				assert.Equal(t, 0.05, rows[0]["rate"])
			})
		}
	})

	t.Run("só preço antigo não gera linha", func(t *testing.T) {
		rows := understand(t, "Country: Kuwait\nOld price 0.03 EUR", "")
		assert.Empty(t, rows)
	})

	t.Run("texto sem preço devolve array vazio", func(t *testing.T) {
		raw, err := New().Understand(context.Background(), domain.ExtractionRequest{Text: "Hello, see attachment."})
		assert.NoError(t, err)
		assert.Equal(t, "[]", raw)
	})
}
