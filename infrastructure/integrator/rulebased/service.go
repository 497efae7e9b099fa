// Package rulebased é um extrator determinístico por expressões regulares.
// Atende ao mesmo contrato do modelo de linguagem e serve para testes e execuções sem custo de API.
package rulebased

import (
	"context"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
	"github.com/salojoakim/supplierpriceautomation/pkg/utils"
)

// Confiança atribuída às linhas encontradas por regra
const ruleConfidence = 0.6

var (
	blockSeparator = regexp.MustCompile(`\n[ \t]*\n`)
	countryRe      = regexp.MustCompile(`(?i)\bcountry(?:\s*iso)?\s*[:=]\s*([\p{L} ()/&'.-]+)`)
	operatorRe     = regexp.MustCompile(`(?i)\b(?:operator|network)\s*[:=]\s*([\p{L}0-9 ()/&'._-]+)`)
	mccMncRe       = regexp.MustCompile(`(?i)\bmcc\s*[/-]?\s*mnc\D{0,5}(\d{3})\s*[/-]?\s*(\d{2,3})\b`)
	mccRe          = regexp.MustCompile(`(?i)\bmcc\D{0,5}(\d{2,4})\b`)
	mncRe          = regexp.MustCompile(`(?i)\bmnc\D{0,5}(\d{1,4})\b`)
	priceRe        = regexp.MustCompile(`(?i)\b(?:(old|previous|prev)\s+)?(new\s+price|new\s+rate|rate|price)\b\D{0,10}([0-9][0-9.,]*)`)
	dateRe         = regexp.MustCompile(`\b(20\d{2}[-/]\d{2}[-/]\d{2})\b`)
	currencyRe     = regexp.MustCompile(`\b[A-Z]{3}\b`)
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RuleBasedIntegrator procura país, operadora, MCC/MNC, moeda, data e o preço novo em cada bloco de texto
type RuleBasedIntegrator struct{}

func New() *RuleBasedIntegrator {
	return &RuleBasedIntegrator{}
}

func (s *RuleBasedIntegrator) Understand(ctx context.Context, req domain.ExtractionRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rows := make([]map[string]any, 0)
	for _, block := range blockSeparator.Split(req.Text, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		if row, ok := extractBlock(block, req.Provider); ok {
			rows = append(rows, row)
		}
	}

	logrus.WithFields(logrus.Fields{
		"source": req.SourceName,
		"rows":   len(rows),
	}).Debug("rulebased: blocos analisados")

	out, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func extractBlock(block, provider string) (map[string]any, bool) {
	rate, ok := newPrice(block)
	if !ok {
		return nil, false
	}

	row := map[string]any{
		"rate":       jsoniter.Number(rate),
		"confidence": ruleConfidence,
	}

	mcc, mnc := mccMnc(block)
	setOptional(row, "mcc", mcc)
	setOptional(row, "mnc", mnc)
	setOptional(row, "operator", firstGroup(operatorRe, block))

	country := firstGroup(countryRe, block)
	if country == "" && mcc != "" {
		country, _ = domain.CountryByMCC(mcc)
	}
	if country != "" {
		row["country"] = country
	} else {
		row["country"] = nil
	}

	if code := currencyCode(block); code != "" {
		row["currency"] = code
	} else if code, ok := domain.CurrencyFromSymbol(block); ok {
		row["currency"] = code
	}

	if date := firstGroup(dateRe, block); date != "" {
		row["effective_from"] = strings.ReplaceAll(date, "/", "-")
	}
	setOptional(row, "provider", provider)

	return row, true
}

// newPrice devolve o primeiro preço do bloco que não seja o preço antigo
func newPrice(block string) (string, bool) {
	for _, m := range priceRe.FindAllStringSubmatch(block, -1) {
		if m[1] != "" {
			continue
		}

		value, err := utils.ParseDecimal(strings.TrimRight(m[3], ".,"))
		if err != nil {
			continue
		}
		return value.String(), true
	}
	return "", false
}

// mccMnc lê "MCC/MNC: 208/01" ou "MCCMNC 20801" antes das formas separadas "MCC 208, MNC 01"
func mccMnc(block string) (string, string) {
	if m := mccMncRe.FindStringSubmatch(block); m != nil {
		return m[1], m[2]
	}
	return firstGroup(mccRe, block), firstGroup(mncRe, block)
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func setOptional(row map[string]any, key, value string) {
	if value != "" {
		row[key] = value
	}
}

// currencyCode procura um código de moeda escrito em maiúsculas; minúsculas seriam palavras comuns ("try")
func currencyCode(block string) string {
	for _, token := range currencyRe.FindAllString(block, -1) {
		if domain.IsKnownCurrency(token) {
			return token
		}
	}
	return ""
}
