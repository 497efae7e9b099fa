package domain

import "strings"

// Códigos ISO 4217 reconhecidos na detecção de moeda em cabeçalhos e textos
var knownCurrencies = map[string]struct{}{
	"AED": {}, "ARS": {}, "AUD": {}, "BDT": {}, "BGN": {}, "BHD": {}, "BRL": {}, "CAD": {},
	"CHF": {}, "CLP": {}, "CNY": {}, "COP": {}, "CZK": {}, "DKK": {}, "EGP": {}, "EUR": {},
	"GBP": {}, "HKD": {}, "HUF": {}, "IDR": {}, "ILS": {}, "INR": {}, "ISK": {}, "JOD": {},
	"JPY": {}, "KES": {}, "KRW": {}, "KWD": {}, "KZT": {}, "LKR": {}, "MAD": {}, "MXN": {},
	"MYR": {}, "NGN": {}, "NOK": {}, "NZD": {}, "OMR": {}, "PEN": {}, "PHP": {}, "PKR": {},
	"PLN": {}, "QAR": {}, "RON": {}, "RSD": {}, "RUB": {}, "SAR": {}, "SEK": {}, "SGD": {},
	"THB": {}, "TRY": {}, "TWD": {}, "UAH": {}, "USD": {}, "UYU": {}, "VND": {}, "ZAR": {},
}

// Símbolos monetários aceitos em células de planilha
var currencySymbols = map[rune]string{
	'€': "EUR",
	'$': "USD",
	'£': "GBP",
}

// IsCurrencyCode valida o formato de um código de moeda (3 letras maiúsculas)
func IsCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// IsKnownCurrency verifica se o código está na lista de moedas conhecidas
func IsKnownCurrency(code string) bool {
	_, ok := knownCurrencies[strings.ToUpper(code)]
	return ok
}

// CurrencyFromSymbol devolve o código da primeira moeda cujo símbolo aparece no texto
func CurrencyFromSymbol(text string) (string, bool) {
	for _, r := range text {
		if code, ok := currencySymbols[r]; ok {
			return code, true
		}
	}
	return "", false
}

// CurrencyFromText procura um código ISO 4217 conhecido como palavra isolada no texto ("Rate (EUR)")
func CurrencyFromText(text string) (string, bool) {
	fields := strings.FieldsFunc(strings.ToUpper(text), func(r rune) bool {
		return r < 'A' || r > 'Z'
	})
	for _, f := range fields {
		if IsKnownCurrency(f) {
			return f, true
		}
	}
	return "", false
}
