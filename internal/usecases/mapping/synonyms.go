package mapping

import (
	"strings"
)

// Field é um campo do modelo canônico que pode ser lido de uma coluna de planilha
type Field string

const (
	FieldRate          Field = "rate"
	FieldCurrency      Field = "currency"
	FieldCountry       Field = "country"
	FieldMCC           Field = "mcc"
	FieldMNC           Field = "mnc"
	FieldMCCMNC        Field = "mccmnc"
	FieldDestination   Field = "destination"
	FieldOperator      Field = "operator"
	FieldProvider      Field = "provider"
	FieldEffectiveFrom Field = "effective_from"
)

// Ordem de resolução dos campos; um cabeçalho só pode ser reivindicado por um campo
var fieldOrder = []Field{
	FieldRate,
	FieldCurrency,
	FieldCountry,
	FieldMCC,
	FieldMNC,
	FieldMCCMNC,
	FieldDestination,
	FieldOperator,
	FieldProvider,
	FieldEffectiveFrom,
}

// Fields devolve os campos na ordem de resolução
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// ParseField converte o nome de um campo (ex.: "effective_from") em Field
func ParseField(name string) (Field, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range fieldOrder {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// Synonyms lista, por campo, os nomes de coluna aceitos em ordem de prioridade
type Synonyms map[Field][]string

// DefaultSynonyms devolve a tabela padrão de sinônimos vista nas listas de preço dos fornecedores
func DefaultSynonyms() Synonyms {
	return Synonyms{
		FieldRate: {
			"Rate", "New Rate", "New Price", "Current Rate", "Price", "Rate EUR", "SMS Rate",
			"Price per SMS", "Tariff",
		},
		FieldCurrency: {"Currency", "Curr", "CCY"},
		FieldCountry: {
			"Country", "Country Name", "Country ISO", "Destination Country", "Land",
		},
		FieldMCC:      {"MCC", "Mobile Country Code"},
		FieldMNC:      {"MNC", "Mobile Network Code", "NNC"},
		FieldMCCMNC:   {"MCCMNC", "MCC/MNC", "MCC-MNC", "MCC MNC", "IMSI"},
		FieldOperator: {"Operator", "Network", "Operator Name", "Network Name", "Carrier"},
		FieldProvider: {"Provider", "Supplier", "Vendor"},
		FieldEffectiveFrom: {
			"Effective From", "Effective Date", "Valid From", "Valid", "Start Date",
		},
		// Coluna de destino: "20801" vira MCC/MNC, "France" vira país
		FieldDestination: {"Destination", "Dest", "Destination Name"},
	}
}

// With devolve uma cópia da tabela trocando a lista de um campo
func (s Synonyms) With(field Field, aliases []string) Synonyms {
	out := make(Synonyms, len(s))
	for f, list := range s {
		out[f] = append([]string(nil), list...)
	}

	clean := make([]string, 0, len(aliases))
	for _, a := range aliases {
		if a = strings.TrimSpace(a); a != "" {
			clean = append(clean, a)
		}
	}
	if len(clean) > 0 {
		out[field] = clean
	}

	return out
}

// FromOverrides aplica as listas configuradas (nome do campo -> aliases) sobre a tabela padrão
func FromOverrides(overrides map[string][]string) Synonyms {
	synonyms := DefaultSynonyms()
	for name, aliases := range overrides {
		field, ok := ParseField(name)
		if !ok {
			continue
		}
		synonyms = synonyms.With(field, aliases)
	}
	return synonyms
}
