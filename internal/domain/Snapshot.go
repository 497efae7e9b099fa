package domain

import (
	"fmt"
	"sort"
	"time"
)

// Snapshot é o conjunto imutável de linhas normalizadas de um dia
type Snapshot struct {
	date      time.Time
	createdAt time.Time
	rows      map[IdentityKey]PriceRow
	keys      []IdentityKey
}

// NewSnapshot monta um snapshot validando a unicidade das chaves de identidade
func NewSnapshot(date time.Time, rows []PriceRow, createdAt time.Time) (*Snapshot, error) {
	s := &Snapshot{
		date:      CalendarDate(date),
		createdAt: createdAt.UTC(),
		rows:      make(map[IdentityKey]PriceRow, len(rows)),
		keys:      make([]IdentityKey, 0, len(rows)),
	}

	for _, row := range rows {
		key := row.Key()
		if _, exists := s.rows[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentityKey, key)
		}
		s.rows[key] = row
		s.keys = append(s.keys, key)
	}

	sort.Slice(s.keys, func(i, j int) bool { return s.keys[i] < s.keys[j] })

	return s, nil
}

func (s *Snapshot) Date() time.Time {
	return s.date
}

// DateString devolve a data no formato YYYY-MM-DD
func (s *Snapshot) DateString() string {
	return s.date.Format(time.DateOnly)
}

func (s *Snapshot) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Snapshot) RowCount() int {
	return len(s.rows)
}

// Row busca uma linha pela chave de identidade
func (s *Snapshot) Row(key IdentityKey) (PriceRow, bool) {
	row, ok := s.rows[key]
	return row, ok
}

// Keys devolve as chaves em ordem crescente
func (s *Snapshot) Keys() []IdentityKey {
	out := make([]IdentityKey, len(s.keys))
	copy(out, s.keys)
	return out
}

// Rows devolve uma cópia das linhas ordenadas pela chave
func (s *Snapshot) Rows() []PriceRow {
	out := make([]PriceRow, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, s.rows[key])
	}
	return out
}

// CalendarDate trunca o instante para a meia-noite UTC do mesmo dia civil
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseCalendarDate interpreta uma data no formato YYYY-MM-DD
func ParseCalendarDate(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t, nil
}
