package extracting

import (
	"fmt"
	"strings"
)

// ResponseSchema é o JSON Schema da resposta esperada do colaborador: um array de linhas parciais
const ResponseSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "additionalProperties": false,
    "required": ["country", "rate"],
    "properties": {
      "country": {"type": "string"},
      "rate": {"type": "number"},
      "mcc": {"type": ["string", "null"]},
      "mnc": {"type": ["string", "null"]},
      "operator": {"type": ["string", "null"]},
      "currency": {"type": ["string", "null"]},
      "provider": {"type": ["string", "null"]},
      "effective_from": {"type": ["string", "null"]},
      "confidence": {"type": "number", "minimum": 0, "maximum": 1}
    }
  }
}`

const basePrompt = `You analyse price updates sent by SMS suppliers and extract structured rows.

Return ONLY a JSON array. One object per destination price. If there is no price information, return [].

Each object has these fields and no others:
  country         string, required. Country name or ISO code.
  rate            number, required. The NEW / current price per SMS. Never the old or previous price.
  mcc             string or null. Mobile country code, 3 digits.
  mnc             string or null. Mobile network code, 2-3 digits.
  operator        string or null. Operator or network name.
  currency        string or null. ISO 4217 code, e.g. "EUR".
  provider        string or null. The supplier sending the update.
  effective_from  string or null. Date the price applies from, YYYY-MM-DD.
  confidence      number between 0 and 1. How sure you are about this row.

Rules:
- Read numbers robustly: "0.17838 €", "EUR 0,17838" and "Rate(EUR) 0.17838" all mean rate=0.17838, currency="EUR".
- "Old price" / "Previous rate" are NOT the rate. Use "New price" / "Current rate" / "Rate".
- Derive currency from the column heading or the row text when it is not stated per row.
`

const strictSuffix = `
Your previous answer could not be parsed. Answer with the raw JSON array only: no code fences,
no comments, no text before or after it. "rate" must be a JSON number, not a string.
`

// BuildPrompt monta o prompt enviado ao colaborador; tentativas estritas recebem instruções adicionais
func BuildPrompt(text, providerHint string, strict bool) string {
	var b strings.Builder
	b.WriteString(basePrompt)
	if strict {
		b.WriteString(strictSuffix)
	}
	if providerHint != "" {
		fmt.Fprintf(&b, "\nSupplier hint: %s\n", providerHint)
	}
	b.WriteString("\nDocument:\n\"\"\"\n")
	b.WriteString(strings.TrimSpace(text))
	b.WriteString("\n\"\"\"\n\nReturn ONLY the JSON array.\n")
	return b.String()
}
