package domain

import (
	"strings"
)

// IdentityKey identifica um destino de preço dentro de um snapshot
type IdentityKey string

const (
	keyPrefixMCCMNC   = "mccmnc"
	keyPrefixOperator = "operator"
	keyPrefixRate     = "rate"
	keySeparator      = "|"
)

// Key deriva a chave de identidade da linha.
// MCC+MNC tem prioridade; sem eles usa a operadora; sem operadora a própria tarifa
// entra na chave para que linhas distintas do mesmo país não colidam.
func (r PriceRow) Key() IdentityKey {
	country := strings.ToUpper(strings.TrimSpace(r.Country))

	if r.MCC != nil && r.MNC != nil {
		return IdentityKey(strings.Join([]string{keyPrefixMCCMNC, country, *r.MCC, *r.MNC}, keySeparator))
	}

	if op := strings.ToLower(strings.TrimSpace(StringValue(r.Operator))); op != "" {
		return IdentityKey(strings.Join([]string{keyPrefixOperator, country, op}, keySeparator))
	}

	return IdentityKey(strings.Join([]string{keyPrefixRate, country, r.Rate.String(), r.Currency, r.SourceName}, keySeparator))
}

func (k IdentityKey) String() string {
	return string(k)
}
