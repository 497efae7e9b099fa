package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salojoakim/supplierpriceautomation/infrastructure/database/sqldb"
	"github.com/salojoakim/supplierpriceautomation/internal/config"
	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

var (
	day1 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	day3 = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
)

func priceRow(country, mcc, mnc, rate string) domain.PriceRow {
	return domain.PriceRow{
		Country:       country,
		MCC:           &mcc,
		MNC:           &mnc,
		Rate:          decimal.RequireFromString(rate),
		Currency:      "EUR",
		Source:        domain.SourceAttachment,
		SourceName:    "prices.csv",
		ExtractedAt:   time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC),
		RawConfidence: 1,
		Deterministic: true,
	}
}

func newSQLiteRepository(t *testing.T) SnapshotRepository {
	t.Helper()

	ctx := context.Background()
	conn, err := sqldb.NewConnection(ctx, config.Database{
		Driver: sqldb.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "snapshots.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, sqldb.EnsureSchema(ctx, conn))

	return NewSQLSnapshotRepository(conn)
}

func newFileRepository(t *testing.T) SnapshotRepository {
	t.Helper()

	repo, err := NewFileSnapshotRepository(t.TempDir())
	require.NoError(t, err)

	return repo
}

func newCachedFileRepository(t *testing.T) SnapshotRepository {
	t.Helper()

	repo, err := NewCachedSnapshotRepository(newFileRepository(t), 2)
	require.NoError(t, err)

	return repo
}

var backends = []struct {
	name string
	new  func(t *testing.T) SnapshotRepository
}{
	{name: "file", new: newFileRepository},
	{name: "sqlite", new: newSQLiteRepository},
	{name: "file com cache", new: newCachedFileRepository},
}

func TestSnapshotRepository(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, repo SnapshotRepository)
		validate func(t *testing.T, repo SnapshotRepository)
	}{
		{
			name: "repositório vazio",
			validate: func(t *testing.T, repo SnapshotRepository) {
				ctx := context.Background()

				latest, err := repo.GetLatest(ctx)
				require.NoError(t, err)
				assert.Nil(t, latest)

				before, err := repo.GetLatestBefore(ctx, day2)
				require.NoError(t, err)
				assert.Nil(t, before)

				got, err := repo.Get(ctx, day1)
				require.NoError(t, err)
				assert.Nil(t, got)

				dates, err := repo.ListDates(ctx)
				require.NoError(t, err)
				assert.Empty(t, dates)
			},
		},
		{
			name: "gravar e ler de volta",
			setup: func(t *testing.T, repo SnapshotRepository) {
				_, err := repo.Put(context.Background(), day1, []domain.PriceRow{
					priceRow("FR", "208", "01", "0.045"),
					priceRow("DE", "262", "01", "0.07"),
				})
				require.NoError(t, err)
			},
			validate: func(t *testing.T, repo SnapshotRepository) {
				got, err := repo.Get(context.Background(), day1)
				require.NoError(t, err)
				require.NotNil(t, got)

				assert.Equal(t, "2025-03-01", got.DateString())
				assert.Equal(t, 2, got.RowCount())

				row, ok := got.Row("mccmnc|FR|208|01")
				require.True(t, ok)
				assert.Equal(t, "0.045", row.Rate.String())
				assert.Equal(t, "prices.csv", row.SourceName)
				assert.True(t, row.Deterministic)
			},
		},
		{
			name: "segunda gravação da mesma data falha",
			setup: func(t *testing.T, repo SnapshotRepository) {
				_, err := repo.Put(context.Background(), day1, []domain.PriceRow{priceRow("FR", "208", "01", "0.045")})
				require.NoError(t, err)
			},
			validate: func(t *testing.T, repo SnapshotRepository) {
				_, err := repo.Put(context.Background(), day1, []domain.PriceRow{priceRow("FR", "208", "01", "0.05")})

				var dupErr *domain.DuplicateSnapshotError
				require.ErrorAs(t, err, &dupErr)
				assert.Equal(t, "2025-03-01", dupErr.Date)
				assert.ErrorIs(t, err, domain.ErrDuplicateSnapshot)

				got, err := repo.Get(context.Background(), day1)
				require.NoError(t, err)
				row, _ := got.Row("mccmnc|FR|208|01")
				assert.Equal(t, "0.045", row.Rate.String())
			},
		},
		{
			name: "latest só muda com promote",
			setup: func(t *testing.T, repo SnapshotRepository) {
				ctx := context.Background()
				first, err := repo.Put(ctx, day1, []domain.PriceRow{priceRow("FR", "208", "01", "0.045")})
				require.NoError(t, err)
				require.NoError(t, repo.Promote(ctx, first))

				_, err = repo.Put(ctx, day2, []domain.PriceRow{priceRow("FR", "208", "01", "0.05")})
				require.NoError(t, err)
			},
			validate: func(t *testing.T, repo SnapshotRepository) {
				latest, err := repo.GetLatest(context.Background())
				require.NoError(t, err)
				require.NotNil(t, latest)
				assert.Equal(t, "2025-03-01", latest.DateString())
			},
		},
		{
			name: "latest before ignora a própria data e datas futuras",
			setup: func(t *testing.T, repo SnapshotRepository) {
				ctx := context.Background()
				for _, d := range []time.Time{day1, day2, day3} {
					_, err := repo.Put(ctx, d, []domain.PriceRow{priceRow("FR", "208", "01", "0.045")})
					require.NoError(t, err)
				}
			},
			validate: func(t *testing.T, repo SnapshotRepository) {
				ctx := context.Background()

				before, err := repo.GetLatestBefore(ctx, day3)
				require.NoError(t, err)
				require.NotNil(t, before)
				assert.Equal(t, "2025-03-02", before.DateString())

				before, err = repo.GetLatestBefore(ctx, day1)
				require.NoError(t, err)
				assert.Nil(t, before)

				dates, err := repo.ListDates(ctx)
				require.NoError(t, err)
				assert.Equal(t, []time.Time{day1, day2, day3}, dates)
			},
		},
		{
			name: "promote não retrocede",
			setup: func(t *testing.T, repo SnapshotRepository) {
				ctx := context.Background()
				for _, d := range []time.Time{day1, day2} {
					s, err := repo.Put(ctx, d, []domain.PriceRow{priceRow("FR", "208", "01", "0.045")})
					require.NoError(t, err)
					require.NoError(t, repo.Promote(ctx, s))
				}
			},
			validate: func(t *testing.T, repo SnapshotRepository) {
				ctx := context.Background()

				old, err := repo.Get(ctx, day1)
				require.NoError(t, err)

				err = repo.Promote(ctx, old)
				assert.ErrorIs(t, err, domain.ErrPromoteBackwards)

				latest, err := repo.GetLatest(ctx)
				require.NoError(t, err)
				assert.Equal(t, "2025-03-02", latest.DateString())
			},
		},
		{
			name: "promote exige snapshot gravado",
			validate: func(t *testing.T, repo SnapshotRepository) {
				s, err := domain.NewSnapshot(day1, []domain.PriceRow{priceRow("FR", "208", "01", "0.045")}, day1)
				require.NoError(t, err)

				err = repo.Promote(context.Background(), s)
				assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
			},
		},
		{
			name: "chave duplicada não é gravada",
			validate: func(t *testing.T, repo SnapshotRepository) {
				_, err := repo.Put(context.Background(), day1, []domain.PriceRow{
					priceRow("FR", "208", "01", "0.045"),
					priceRow("France", "208", "01", "0.05"),
					priceRow("FR", "208", "01", "0.06"),
				})
				assert.ErrorIs(t, err, domain.ErrDuplicateIdentityKey)

				got, err := repo.Get(context.Background(), day1)
				require.NoError(t, err)
				assert.Nil(t, got)
			},
		},
	}

	for _, backend := range backends {
		for _, tt := range tests {
			t.Run(backend.name+"/"+tt.name, func(t *testing.T) {
				repo := backend.new(t)
				if tt.setup != nil {
					tt.setup(t, repo)
				}
				tt.validate(t, repo)
			})
		}
	}
}

func TestFileSnapshotRepository_Layout(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileSnapshotRepository(dir)
	require.NoError(t, err)

	ctx := context.Background()
	s, err := repo.Put(ctx, day1, []domain.PriceRow{priceRow("FR", "208", "01", "0.045")})
	require.NoError(t, err)
	require.NoError(t, repo.Promote(ctx, s))

	data, err := os.ReadFile(filepath.Join(dir, "parsed_2025-03-01.json"))
	require.NoError(t, err)

	var doc snapshotDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "2025-03-01", doc.Date)
	assert.Equal(t, 1, doc.RowCount)
	require.Len(t, doc.Rows, 1)
	assert.Nil(t, doc.Rows[0].Operator)
	assert.Equal(t, "0.045", doc.Rows[0].Rate.String())

	// Todos os campos da linha são gravados, inclusive os ausentes
	var raw struct {
		Rows []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw.Rows, 1)
	for _, field := range []string{"country", "mcc", "mnc", "operator", "rate", "currency", "source", "source_name", "extracted_at", "raw_confidence"} {
		assert.Contains(t, raw.Rows[0], field)
	}
	assert.Nil(t, raw.Rows[0]["operator"])
	assert.Equal(t, "208", raw.Rows[0]["mcc"])
	assert.Equal(t, 0.045, raw.Rows[0]["rate"])

	pointer, err := os.ReadFile(filepath.Join(dir, "latest"))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01\n", string(pointer))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFileSnapshotRepository_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "json inválido", payload: `{"date": "2025-03-01", "rows": [`},
		{name: "row_count inconsistente", payload: `{"date": "2025-03-01", "created_at": "2025-03-01T07:00:00Z", "row_count": 3, "rows": []}`},
		{name: "data divergente", payload: `{"date": "2025-02-28", "created_at": "2025-03-01T07:00:00Z", "row_count": 0, "rows": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "parsed_2025-03-01.json"), []byte(tt.payload), 0o644))

			repo, err := NewFileSnapshotRepository(dir)
			require.NoError(t, err)

			_, err = repo.Get(context.Background(), day1)

			var corrupt *domain.CorruptSnapshotError
			require.ErrorAs(t, err, &corrupt)
			assert.Equal(t, "2025-03-01", corrupt.Date)
			assert.True(t, domain.IsFatalStoreError(err))
		})
	}
}

func TestFileSnapshotRepository_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "parsed_latest.json"), []byte("{}"), 0o644))

	repo, err := NewFileSnapshotRepository(dir)
	require.NoError(t, err)

	dates, err := repo.ListDates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dates)
}
