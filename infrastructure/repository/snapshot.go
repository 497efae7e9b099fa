package repository

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const latestPointer = "latest"

//go:generate mockgen -source=snapshot.go -destination=mocks/snapshot_repository.go -package=mocks

// SnapshotRepository guarda um snapshot imutável por data e o ponteiro "latest".
// Os métodos de leitura devolvem (nil, nil) quando não há snapshot.
type SnapshotRepository interface {
	Put(ctx context.Context, date time.Time, rows []domain.PriceRow) (*domain.Snapshot, error)
	Get(ctx context.Context, date time.Time) (*domain.Snapshot, error)
	GetLatestBefore(ctx context.Context, date time.Time) (*domain.Snapshot, error)
	GetLatest(ctx context.Context) (*domain.Snapshot, error)
	ListDates(ctx context.Context) ([]time.Time, error)
	Promote(ctx context.Context, snapshot *domain.Snapshot) error
}

// snapshotDocument é o formato persistido de um snapshot
type snapshotDocument struct {
	Date      string            `json:"date"`
	CreatedAt time.Time         `json:"created_at"`
	RowCount  int               `json:"row_count"`
	Rows      []domain.PriceRow `json:"rows"`
}

func encodeSnapshot(s *domain.Snapshot) ([]byte, error) {
	doc := snapshotDocument{
		Date:      s.DateString(),
		CreatedAt: s.CreatedAt(),
		RowCount:  s.RowCount(),
		Rows:      s.Rows(),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar snapshot %s: %w", doc.Date, err)
	}

	return data, nil
}

// decodeSnapshot devolve CorruptSnapshotError para qualquer payload inconsistente
func decodeSnapshot(data []byte, date, location string) (*domain.Snapshot, error) {
	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &domain.CorruptSnapshotError{Date: date, Location: location, Err: err}
	}

	if doc.Date != date {
		return nil, &domain.CorruptSnapshotError{
			Date:     date,
			Location: location,
			Err:      fmt.Errorf("data gravada %q não confere", doc.Date),
		}
	}

	if doc.RowCount != len(doc.Rows) {
		return nil, &domain.CorruptSnapshotError{
			Date:     date,
			Location: location,
			Err:      fmt.Errorf("row_count %d difere de %d linhas", doc.RowCount, len(doc.Rows)),
		}
	}

	parsed, err := domain.ParseCalendarDate(doc.Date)
	if err != nil {
		return nil, &domain.CorruptSnapshotError{Date: date, Location: location, Err: err}
	}

	snapshot, err := domain.NewSnapshot(parsed, doc.Rows, doc.CreatedAt)
	if err != nil {
		return nil, &domain.CorruptSnapshotError{Date: date, Location: location, Err: err}
	}

	return snapshot, nil
}

func dateKey(date time.Time) string {
	return domain.CalendarDate(date).Format(time.DateOnly)
}
