package mapping

import (
	"strings"
	"unicode"

	"github.com/xrash/smetrics"
)

// matchTier indica a qualidade da correspondência entre cabeçalho e alias
type matchTier int

const (
	tierExact matchTier = iota
	tierNormalized
	tierFuzzy
)

const (
	minContainmentAliasLen = 3
	minFuzzyAliasLen       = 5
	maxFuzzyDistance       = 2
)

// Cabeçalhos com estes termos nunca são lidos como tarifa vigente ("Old Price", "Previous Rate")
var rateExclusions = []string{"old", "prev", "variation", "change"}

// Colunas de fatura (quantidade e custo de uso) nunca entram por correspondência aproximada;
// sem isso "Count" seria lido como "Country"
var fuzzyBlocklist = map[string]bool{
	"count":    true,
	"cost":     true,
	"costeur":  true,
	"quantity": true,
	"qty":      true,
}

// Resolution é o resultado da resolução dos cabeçalhos de uma tabela
type Resolution struct {
	Columns map[Field]string
	// Moeda encontrada no próprio cabeçalho da tarifa ("Rate (EUR)")
	HeaderCurrency string
}

// Column devolve o cabeçalho resolvido para o campo
func (r Resolution) Column(field Field) (string, bool) {
	col, ok := r.Columns[field]
	return col, ok
}

// normalizeHeader reduz o cabeçalho a letras e dígitos minúsculos
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveHeaders associa cada campo a no máximo um cabeçalho.
// Todos os campos são tentados em um nível de correspondência antes de passar ao próximo,
// para que um match exato de um campo posterior não perca o cabeçalho para um match aproximado.
func ResolveHeaders(headers []string, synonyms Synonyms) Resolution {
	res := Resolution{Columns: make(map[Field]string)}
	claimed := make(map[int]bool)

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	for _, tier := range []matchTier{tierExact, tierNormalized, tierFuzzy} {
		for _, field := range fieldOrder {
			if _, done := res.Columns[field]; done {
				continue
			}

			idx := findHeader(field, tier, headers, normalized, synonyms[field], claimed)
			if idx < 0 {
				continue
			}

			claimed[idx] = true
			res.Columns[field] = headers[idx]
		}
	}

	if col, ok := res.Columns[FieldRate]; ok {
		res.HeaderCurrency = currencyFromHeader(col)
	}

	return res
}

func findHeader(field Field, tier matchTier, headers, normalized []string, aliases []string, claimed map[int]bool) int {
	for _, alias := range aliases {
		normAlias := normalizeHeader(alias)
		if normAlias == "" {
			continue
		}

		for i, header := range headers {
			if claimed[i] || normalized[i] == "" {
				continue
			}
			if field == FieldRate && tier != tierExact && isExcludedRateHeader(normalized[i]) {
				continue
			}
			if matches(tier, alias, normAlias, header, normalized[i]) {
				return i
			}
		}
	}
	return -1
}

func matches(tier matchTier, alias, normAlias, header, normHeader string) bool {
	switch tier {
	case tierExact:
		return header == alias
	case tierNormalized:
		return normHeader == normAlias
	case tierFuzzy:
		if fuzzyBlocklist[normHeader] {
			return false
		}
		if len(normAlias) >= minContainmentAliasLen && strings.Contains(normHeader, normAlias) {
			return true
		}
		if len(normAlias) >= minFuzzyAliasLen && normHeader[0] == normAlias[0] {
			return smetrics.WagnerFischer(normHeader, normAlias, 1, 1, 1) <= maxFuzzyDistance
		}
	}
	return false
}

func isExcludedRateHeader(normHeader string) bool {
	for _, term := range rateExclusions {
		if strings.Contains(normHeader, term) {
			return true
		}
	}
	return false
}
