package domain

import (
	"github.com/shopspring/decimal"
)

// Direction indica o sentido de uma alteração de preço
type Direction string

const (
	DirectionIncrease        Direction = "increase"
	DirectionDecrease        Direction = "decrease"
	DirectionCurrencyChanged Direction = "currency_changed"
)

// ChangedRow é um destino presente nos dois snapshots com preço ou moeda diferentes
type ChangedRow struct {
	Key       IdentityKey     `json:"key"`
	Before    PriceRow        `json:"before"`
	After     PriceRow        `json:"after"`
	Delta     decimal.Decimal `json:"delta"`
	Direction Direction       `json:"direction"`
}

type DiffSummary struct {
	New     int `json:"new"`
	Removed int `json:"removed"`
	Changed int `json:"changed"`
}

// DiffResult é a comparação entre o snapshot anterior e o atual
type DiffResult struct {
	PreviousDate *string      `json:"previous_date"`
	CurrentDate  string       `json:"current_date"`
	New          []PriceRow   `json:"new"`
	Removed      []PriceRow   `json:"removed"`
	Changed      []ChangedRow `json:"changed"`
	Summary      DiffSummary  `json:"summary"`
}

// IsEmpty informa se não houve nenhuma alteração
func (d DiffResult) IsEmpty() bool {
	return len(d.New) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}
