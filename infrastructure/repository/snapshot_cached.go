package repository

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

const defaultCacheSize = 32

// cachedSnapshotRepository mantém em memória os snapshots lidos por data.
// Um snapshot gravado nunca muda, então só Get e Put passam pelo cache;
// as consultas que dependem do ponteiro latest ou da listagem vão sempre ao repositório.
type cachedSnapshotRepository struct {
	SnapshotRepository
	byDate *lru.Cache[string, *domain.Snapshot]
}

// NewCachedSnapshotRepository envolve o repositório com um cache LRU de até size snapshots
func NewCachedSnapshotRepository(inner SnapshotRepository, size int) (SnapshotRepository, error) {
	if size <= 0 {
		size = defaultCacheSize
	}

	cache, err := lru.New[string, *domain.Snapshot](size)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar cache de snapshots: %w", err)
	}

	return &cachedSnapshotRepository{
		SnapshotRepository: inner,
		byDate:             cache,
	}, nil
}

func (r *cachedSnapshotRepository) Put(ctx context.Context, date time.Time, rows []domain.PriceRow) (*domain.Snapshot, error) {
	snapshot, err := r.SnapshotRepository.Put(ctx, date, rows)
	if err != nil {
		return nil, err
	}

	r.byDate.Add(snapshot.DateString(), snapshot)
	return snapshot, nil
}

func (r *cachedSnapshotRepository) Get(ctx context.Context, date time.Time) (*domain.Snapshot, error) {
	key := dateKey(date)
	if snapshot, ok := r.byDate.Get(key); ok {
		return snapshot, nil
	}

	snapshot, err := r.SnapshotRepository.Get(ctx, date)
	if err != nil || snapshot == nil {
		return snapshot, err
	}

	r.byDate.Add(key, snapshot)
	return snapshot, nil
}

func (r *cachedSnapshotRepository) GetLatestBefore(ctx context.Context, date time.Time) (*domain.Snapshot, error) {
	snapshot, err := r.SnapshotRepository.GetLatestBefore(ctx, date)
	if err == nil && snapshot != nil {
		r.byDate.Add(snapshot.DateString(), snapshot)
	}
	return snapshot, err
}

func (r *cachedSnapshotRepository) GetLatest(ctx context.Context) (*domain.Snapshot, error) {
	snapshot, err := r.SnapshotRepository.GetLatest(ctx)
	if err == nil && snapshot != nil {
		r.byDate.Add(snapshot.DateString(), snapshot)
	}
	return snapshot, err
}
