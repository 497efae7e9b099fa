// Package mapping implementa o caminho determinístico: planilhas com cabeçalho viram linhas de preço
package mapping

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
	"github.com/salojoakim/supplierpriceautomation/pkg/utils"
)

// Result é o resultado do mapeamento de uma tabela
type Result struct {
	Rows    []domain.PriceRow
	Skipped int     // Linhas sem tarifa ou sem destino (rodapés, subtítulos, linhas vazias)
	Errors  []error // MalformedCellError ou InvalidRowError, uma por linha descartada
}

// Mapper converte tabelas em linhas canônicas sem consultar o modelo de linguagem
type Mapper struct {
	synonyms Synonyms
	now      func() time.Time
}

type Option func(*Mapper)

// WithClock define a fonte de tempo usada em extracted_at
func WithClock(now func() time.Time) Option {
	return func(m *Mapper) {
		m.now = now
	}
}

func NewMapper(synonyms Synonyms, opts ...Option) *Mapper {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}

	m := &Mapper{
		synonyms: synonyms,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Map resolve os cabeçalhos da tabela e converte cada linha.
// Erros de uma linha nunca afetam as demais.
func (m *Mapper) Map(table domain.Table) Result {
	res := ResolveHeaders(table.Headers, m.synonyms)
	extractedAt := m.now().UTC()

	logrus.WithFields(logrus.Fields{
		"source":  table.SourceName,
		"columns": res.Columns,
	}).Debug("Cabeçalhos resolvidos")

	var result Result

	if _, ok := res.Column(FieldRate); !ok {
		logrus.WithField("source", table.SourceName).Warn("Nenhuma coluna de tarifa encontrada na tabela")
		result.Skipped = len(table.Rows)
		return result
	}

	for i, cells := range table.Rows {
		row, skipped, err := m.mapRow(table, res, i, cells, extractedAt)
		switch {
		case skipped:
			result.Skipped++
		case err != nil:
			result.Errors = append(result.Errors, err)
		default:
			result.Rows = append(result.Rows, row)
		}
	}

	logrus.WithFields(logrus.Fields{
		"source":   table.SourceName,
		"rows":     len(result.Rows),
		"skipped":  result.Skipped,
		"rejected": len(result.Errors),
	}).Info("Tabela mapeada")

	return result
}

func (m *Mapper) mapRow(table domain.Table, res Resolution, index int, cells map[string]any, extractedAt time.Time) (domain.PriceRow, bool, error) {
	cell := func(field Field) any {
		col, ok := res.Column(field)
		if !ok {
			return nil
		}
		return cells[col]
	}

	rateCell := cell(FieldRate)
	country := cellString(cell(FieldCountry))
	mcc := cellString(cell(FieldMCC))
	mnc := cellString(cell(FieldMNC))
	operator := cellString(cell(FieldOperator))

	if combined := cellString(cell(FieldMCCMNC)); combined != "" && (mcc == "" || mnc == "") {
		splitMCC, splitMNC := splitMCCMNC(combined)
		if mcc == "" {
			mcc = splitMCC
		}
		if mnc == "" {
			mnc = splitMNC
		}
	}

	if destination := cellString(cell(FieldDestination)); destination != "" {
		if isMCCMNC(destination) {
			if mcc == "" && mnc == "" {
				mcc, mnc = splitMCCMNC(destination)
			}
		} else if country == "" {
			country = destination
		}
	}

	if isBlank(rateCell) || (country == "" && mcc == "" && mnc == "" && operator == "") {
		return domain.PriceRow{}, true, nil
	}

	rate, err := utils.ParseDecimal(rateCell)
	if err != nil {
		col, _ := res.Column(FieldRate)
		return domain.PriceRow{}, false, &domain.MalformedCellError{
			SourceName: table.SourceName,
			Row:        index,
			Column:     col,
			Field:      string(FieldRate),
			Value:      cellString(rateCell),
		}
	}

	if country == "" && mcc != "" {
		if code, ok := domain.CountryByMCC(strings.TrimSuffix(mcc, ".0")); ok {
			country = code
		}
	}

	currency := strings.ToUpper(cellString(cell(FieldCurrency)))
	if currency == "" {
		currency = res.HeaderCurrency
	}
	if currency == "" {
		if code, ok := domain.CurrencyFromSymbol(cellString(rateCell)); ok {
			currency = code
		}
	}

	provider := cellString(cell(FieldProvider))
	if provider == "" {
		provider = table.Provider
	}

	row, err := domain.NewPriceRow(domain.RowInput{
		Country:       country,
		MCC:           mcc,
		MNC:           mnc,
		Operator:      operator,
		Rate:          rate,
		Currency:      currency,
		Source:        domain.SourceAttachment,
		SourceName:    table.SourceName,
		ExtractedAt:   extractedAt,
		Confidence:    domain.DeterministicConfidence,
		Deterministic: true,
		Provider:      provider,
		EffectiveFrom: cellString(cell(FieldEffectiveFrom)),
	})
	if err != nil {
		return domain.PriceRow{}, false, fmt.Errorf("%s linha %d: %w", table.SourceName, index, err)
	}

	return row, false, nil
}

// splitMCCMNC separa "20801", "208-01" ou "208/01" em MCC e MNC
func splitMCCMNC(value string) (string, string) {
	if mcc, mnc, found := strings.Cut(strings.NewReplacer("/", "-", " ", "-", "_", "-").Replace(value), "-"); found {
		return strings.TrimSpace(mcc), strings.TrimSpace(mnc)
	}

	digits := strings.TrimSuffix(value, ".0")
	if len(digits) < 5 || len(digits) > 6 {
		return digits, ""
	}
	return digits[:3], digits[3:]
}

// isMCCMNC informa se o valor tem só dígitos e separadores ("20801", "208-01", "208/01")
func isMCCMNC(value string) bool {
	digits := 0
	for _, r := range strings.TrimSuffix(value, ".0") {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-' || r == '/' || r == ' ' || r == '_':
		default:
			return false
		}
	}
	return digits >= 5 && digits <= 6
}

func currencyFromHeader(header string) string {
	if code, ok := domain.CurrencyFromText(header); ok {
		return code
	}
	if code, ok := domain.CurrencyFromSymbol(header); ok {
		return code
	}
	return ""
}

func isBlank(v any) bool {
	return cellString(v) == ""
}

// cellString converte o valor de uma célula em texto sem notação científica
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format(time.DateOnly)
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		s = fmt.Sprint(v)
	}
	return strings.TrimSpace(s)
}
