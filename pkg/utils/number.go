package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyNumber   = errors.New("valor numérico vazio")
	ErrInvalidNumber = errors.New("valor numérico inválido")
)

var plainNumber = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// ParseDecimal converte o conteúdo de uma célula em decimal.
// Aceita separador de milhar, vírgula decimal, espaços (inclusive NBSP) e
// símbolo ou código de moeda ao redor do número ("€0,045", "0.045 EUR", "1.234,50").
func ParseDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, ErrEmptyNumber
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, ErrEmptyNumber
		}
		return *v, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, ErrInvalidNumber
		}
		return decimal.NewFromFloat(v), nil
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Zero, ErrInvalidNumber
		}
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case json.Number:
		return parseDecimalString(v.String())
	case string:
		return parseDecimalString(v)
	default:
		return parseDecimalString(fmt.Sprint(v))
	}
}

func parseDecimalString(raw string) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\'' {
			return -1
		}
		return r
	}, raw)

	// Remove símbolo/código de moeda nas pontas
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || r == '€' || r == '$' || r == '£'
	})

	if s == "" {
		return decimal.Zero, ErrEmptyNumber
	}

	normalized, err := normalizeSeparators(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", err, raw)
	}

	if !plainNumber.MatchString(normalized) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}

	return decimal.RequireFromString(normalized), nil
}

// normalizeSeparators converte o número para o formato com ponto decimal e sem milhar
func normalizeSeparators(s string) (string, error) {
	commas := strings.Count(s, ",")
	dots := strings.Count(s, ".")

	switch {
	case commas > 0 && dots > 0:
		// O separador que aparece por último é o decimal
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			if commas > 1 {
				return "", ErrInvalidNumber
			}
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1), nil
		}
		if dots > 1 {
			return "", ErrInvalidNumber
		}
		return strings.ReplaceAll(s, ",", ""), nil

	case commas > 1:
		return strings.ReplaceAll(s, ",", ""), nil

	case dots > 1:
		return strings.ReplaceAll(s, ".", ""), nil

	case commas == 1:
		intPart, fracPart, _ := strings.Cut(s, ",")
		intDigits := strings.TrimPrefix(intPart, "-")
		// "1,234" é milhar; "0,045" e "12,5" são decimais
		if len(fracPart) == 3 && intDigits != "0" && intDigits != "" {
			return intPart + fracPart, nil
		}
		return intPart + "." + fracPart, nil
	}

	return s, nil
}

// RoundRate arredonda a tarifa com arredondamento bancário (meio para o par)
func RoundRate(d decimal.Decimal, places int32) decimal.Decimal {
	return d.RoundBank(places)
}
