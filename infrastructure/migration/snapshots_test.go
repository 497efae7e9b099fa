package migration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salojoakim/supplierpriceautomation/infrastructure/database/sqldb"
	"github.com/salojoakim/supplierpriceautomation/infrastructure/repository"
	"github.com/salojoakim/supplierpriceautomation/internal/config"
	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

var (
	day1 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	day3 = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
)

func row(country, mcc, mnc, rate string) domain.PriceRow {
	return domain.PriceRow{
		Country:       country,
		MCC:           &mcc,
		MNC:           &mnc,
		Rate:          decimal.RequireFromString(rate),
		Currency:      "EUR",
		Source:        domain.SourceAttachment,
		SourceName:    "prices.csv",
		ExtractedAt:   day1.Add(7 * time.Hour),
		RawConfidence: 1,
		Deterministic: true,
	}
}

func sqliteStore(t *testing.T) repository.SnapshotRepository {
	t.Helper()
	ctx := context.Background()

	conn, err := sqldb.NewConnection(ctx, config.Database{Driver: sqldb.DriverSQLite, DSN: filepath.Join(t.TempDir(), "db.sqlite")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, sqldb.EnsureSchema(ctx, conn))

	return repository.NewSQLSnapshotRepository(conn)
}

func fileStore(t *testing.T) repository.SnapshotRepository {
	t.Helper()
	store, err := repository.NewFileSnapshotRepository(t.TempDir())
	require.NoError(t, err)
	return store
}

func putAndPromote(t *testing.T, store repository.SnapshotRepository, date time.Time, rows ...domain.PriceRow) {
	t.Helper()
	ctx := context.Background()
	snapshot, err := store.Put(ctx, date, rows)
	require.NoError(t, err)
	require.NoError(t, store.Promote(ctx, snapshot))
}

func TestCopySnapshots(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		setup    func(t *testing.T, from, to repository.SnapshotRepository)
		validate func(t *testing.T, result *Result, to repository.SnapshotRepository)
	}{
		{
			name: "destino vazio recebe tudo e o latest",
			setup: func(t *testing.T, from, to repository.SnapshotRepository) {
				putAndPromote(t, from, day1, row("FR", "208", "01", "0.045"))
				putAndPromote(t, from, day2, row("FR", "208", "01", "0.05"), row("DE", "262", "01", "0.03"))
			},
			validate: func(t *testing.T, result *Result, to repository.SnapshotRepository) {
				assert.Equal(t, 2, result.Copied)
				assert.Equal(t, 0, result.Skipped)
				assert.Equal(t, "2025-03-02", result.Promoted)

				latest, err := to.GetLatest(ctx)
				require.NoError(t, err)
				require.NotNil(t, latest)
				assert.Equal(t, 2, latest.RowCount())

				first, err := to.Get(ctx, day1)
				require.NoError(t, err)
				fr, ok := first.Row(row("FR", "208", "01", "0").Key())
				require.True(t, ok)
				assert.Equal(t, "0.045", fr.Rate.String())
			},
		},
		{
			name: "datas já presentes no destino são mantidas",
			setup: func(t *testing.T, from, to repository.SnapshotRepository) {
				putAndPromote(t, from, day1, row("FR", "208", "01", "0.045"))
				putAndPromote(t, from, day2, row("FR", "208", "01", "0.05"))
				putAndPromote(t, to, day1, row("FR", "208", "01", "0.099"))
			},
			validate: func(t *testing.T, result *Result, to repository.SnapshotRepository) {
				assert.Equal(t, 1, result.Copied)
				assert.Equal(t, 1, result.Skipped)

				kept, err := to.Get(ctx, day1)
				require.NoError(t, err)
				fr, _ := kept.Row(row("FR", "208", "01", "0").Key())
				assert.Equal(t, "0.099", fr.Rate.String())
			},
		},
		{
			name: "latest do destino mais recente não retrocede",
			setup: func(t *testing.T, from, to repository.SnapshotRepository) {
				putAndPromote(t, from, day1, row("FR", "208", "01", "0.045"))
				putAndPromote(t, to, day3, row("FR", "208", "01", "0.06"))
			},
			validate: func(t *testing.T, result *Result, to repository.SnapshotRepository) {
				assert.Equal(t, 1, result.Copied)
				assert.Empty(t, result.Promoted)

				latest, err := to.GetLatest(ctx)
				require.NoError(t, err)
				assert.Equal(t, "2025-03-03", latest.DateString())
			},
		},
		{
			name:  "origem vazia",
			setup: func(t *testing.T, from, to repository.SnapshotRepository) {},
			validate: func(t *testing.T, result *Result, to repository.SnapshotRepository) {
				assert.Equal(t, 0, result.Copied)
				assert.Empty(t, result.Promoted)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := fileStore(t), sqliteStore(t)
			tt.setup(t, from, to)

			result, err := CopySnapshots(ctx, from, to)
			require.NoError(t, err)
			tt.validate(t, result, to)
		})
	}
}
