// Package diffing compara dois snapshots de preços
package diffing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

type Options struct {
	// RateEpsilon é a variação absoluta máxima tratada como "sem alteração"
	RateEpsilon decimal.Decimal
}

// Diff compara previous com current. previous nil significa primeira execução:
// todas as linhas de current são novas.
func Diff(previous, current *domain.Snapshot, opts Options) domain.DiffResult {
	epsilon := opts.RateEpsilon.Abs()

	result := domain.DiffResult{
		New:     make([]domain.PriceRow, 0),
		Removed: make([]domain.PriceRow, 0),
		Changed: make([]domain.ChangedRow, 0),
	}

	if current != nil {
		result.CurrentDate = current.DateString()
	}
	if previous != nil {
		date := previous.DateString()
		result.PreviousDate = &date
	}

	for _, key := range unionKeys(previous, current) {
		before, inBefore := lookup(previous, key)
		after, inAfter := lookup(current, key)

		switch {
		case inAfter && !inBefore:
			result.New = append(result.New, after)
		case inBefore && !inAfter:
			result.Removed = append(result.Removed, before)
		default:
			if changed, ok := compare(key, before, after, epsilon); ok {
				result.Changed = append(result.Changed, changed)
			}
		}
	}

	result.Summary = domain.DiffSummary{
		New:     len(result.New),
		Removed: len(result.Removed),
		Changed: len(result.Changed),
	}

	return result
}

// compare ignora mudanças de operadora, fonte ou fornecedor; só tarifa e moeda contam
func compare(key domain.IdentityKey, before, after domain.PriceRow, epsilon decimal.Decimal) (domain.ChangedRow, bool) {
	if before.Currency != after.Currency {
		return domain.ChangedRow{
			Key:       key,
			Before:    before,
			After:     after,
			Delta:     decimal.Zero,
			Direction: domain.DirectionCurrencyChanged,
		}, true
	}

	delta := after.Rate.Sub(before.Rate)
	if delta.Abs().LessThanOrEqual(epsilon) {
		return domain.ChangedRow{}, false
	}

	direction := domain.DirectionIncrease
	if delta.IsNegative() {
		direction = domain.DirectionDecrease
	}

	return domain.ChangedRow{
		Key:       key,
		Before:    before,
		After:     after,
		Delta:     delta,
		Direction: direction,
	}, true
}

func unionKeys(previous, current *domain.Snapshot) []domain.IdentityKey {
	seen := make(map[domain.IdentityKey]struct{})
	var keys []domain.IdentityKey

	for _, s := range []*domain.Snapshot{previous, current} {
		if s == nil {
			continue
		}
		for _, key := range s.Keys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func lookup(s *domain.Snapshot, key domain.IdentityKey) (domain.PriceRow, bool) {
	if s == nil {
		return domain.PriceRow{}, false
	}
	return s.Row(key)
}
