package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/salojoakim/supplierpriceautomation/infrastructure/repository"
	repomocks "github.com/salojoakim/supplierpriceautomation/infrastructure/repository/mocks"
	"github.com/salojoakim/supplierpriceautomation/internal/domain"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/extracting"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/mapping"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/normalizing"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/tracking/mocks"
)

var (
	day1 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
)

func priceTable(name string, rows ...[]string) domain.Document {
	headers := []string{"Country", "MCC", "MNC", "Rate", "Currency"}

	table := &domain.Table{SourceName: name, Headers: headers}
	for _, r := range rows {
		cells := make(map[string]any, len(headers))
		for i, h := range headers {
			cells[h] = r[i]
		}
		table.Rows = append(table.Rows, cells)
	}

	return domain.Document{
		SourceName: name,
		Kind:       domain.DocumentTable,
		Source:     domain.SourceAttachment,
		Table:      table,
	}
}

func textDocument(name string) domain.Document {
	return domain.Document{
		SourceName: name,
		Kind:       domain.DocumentText,
		Source:     domain.SourceBody,
		Text:       "Country: France\nMCC 208 MNC 01\nRate 0.060 EUR",
	}
}

func lmRow(country, mcc, mnc, rate string, confidence float64) domain.PriceRow {
	return domain.PriceRow{
		Country:       country,
		MCC:           &mcc,
		MNC:           &mnc,
		Rate:          decimal.RequireFromString(rate),
		Currency:      "EUR",
		Source:        domain.SourceBody,
		SourceName:    domain.EmailBodySourceName,
		RawConfidence: confidence,
	}
}

type fixture struct {
	extractor *mocks.MockTextExtractor
	publisher *mocks.MockReportPublisher
}

func newService(t *testing.T, store repository.SnapshotRepository, f *fixture) *Service {
	t.Helper()

	return NewService(
		Config{MaxConcurrentJobs: 2, DocumentTimeout: time.Second},
		mapping.NewMapper(mapping.DefaultSynonyms()),
		f.extractor,
		normalizing.NewNormalizer(normalizing.Config{FallbackCurrency: "EUR", RateDecimalPlaces: 6}),
		store,
	).WithPublisher(f.publisher)
}

func newFileStore(t *testing.T) repository.SnapshotRepository {
	t.Helper()
	store, err := repository.NewFileSnapshotRepository(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestService_Run(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, f *fixture, store repository.SnapshotRepository) []domain.Document
		validate func(t *testing.T, store repository.SnapshotRepository, res *domain.RunResult, err error)
	}{
		{
			name: "segundo dia detecta alta e remoção",
			setup: func(t *testing.T, f *fixture, store repository.SnapshotRepository) []domain.Document {
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

				first := newService(t, store, f)
				_, err := first.Run(context.Background(), day1, []domain.Document{
					priceTable("prices.csv",
						[]string{"France", "208", "01", "0.045", "EUR"},
						[]string{"Germany", "262", "01", "0.070", "EUR"},
					),
				})
				require.NoError(t, err)

				return []domain.Document{
					priceTable("prices.csv", []string{"France", "208", "01", "0.050", "EUR"}),
				}
			},
			validate: func(t *testing.T, store repository.SnapshotRepository, res *domain.RunResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, "2025-03-02", res.Date)
				assert.NotEmpty(t, res.RunID)

				require.Len(t, res.Diff.Changed, 1)
				assert.Equal(t, domain.IdentityKey("mccmnc|FR|208|01"), res.Diff.Changed[0].Key)
				assert.Equal(t, domain.DirectionIncrease, res.Diff.Changed[0].Direction)
				require.Len(t, res.Diff.Removed, 1)
				assert.Equal(t, "DE", res.Diff.Removed[0].Country)

				latest, err := store.GetLatest(context.Background())
				require.NoError(t, err)
				assert.Equal(t, "2025-03-02", latest.DateString())
			},
		},
		{
			name: "primeira execução marca tudo como novo",
			setup: func(t *testing.T, f *fixture, store repository.SnapshotRepository) []domain.Document {
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, report *domain.RunReport) error {
						assert.Equal(t, 2, report.RowCount)
						assert.Equal(t, 2, report.Diff.Summary.New)
						return nil
					})

				return []domain.Document{
					priceTable("prices.csv",
						[]string{"France", "208", "01", "0.045", "EUR"},
						[]string{"Sweden", "240", "01", "0.020", "EUR"},
					),
				}
			},
			validate: func(t *testing.T, store repository.SnapshotRepository, res *domain.RunResult, err error) {
				require.NoError(t, err)
				assert.Nil(t, res.Diff.PreviousDate)
				assert.Len(t, res.Diff.New, 2)
			},
		},
		{
			name: "planilha vence o texto para o mesmo destino",
			setup: func(t *testing.T, f *fixture, store repository.SnapshotRepository) []domain.Document {
				f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(&extracting.Result{
					Rows: []domain.PriceRow{lmRow("France", "208", "01", "0.060", 1)},
				}, nil)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

				return []domain.Document{
					textDocument("email-body"),
					priceTable("prices.csv", []string{"France", "208", "01", "0.045", "EUR"}),
				}
			},
			validate: func(t *testing.T, store repository.SnapshotRepository, res *domain.RunResult, err error) {
				require.NoError(t, err)
				row, ok := res.Snapshot.Row("mccmnc|FR|208|01")
				require.True(t, ok)
				assert.Equal(t, "0.045", row.Rate.String())
				assert.True(t, row.Deterministic)
				assert.Equal(t, 1, res.Report.Conflicts)
			},
		},
		{
			name: "falha de um documento não derruba a execução",
			setup: func(t *testing.T, f *fixture, store repository.SnapshotRepository) []domain.Document {
				f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).
					Return(nil, &domain.ExtractionParseError{SourceName: "offer.pdf", Attempt: 3, Reason: "rate como texto"})
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

				return []domain.Document{
					textDocument("offer.pdf"),
					priceTable("prices.csv", []string{"France", "208", "01", "0.045", "EUR"}),
				}
			},
			validate: func(t *testing.T, store repository.SnapshotRepository, res *domain.RunResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, 1, res.Snapshot.RowCount())
				assert.Equal(t, 1, res.Report.FailedDocuments)
				require.Len(t, res.Report.Failures, 1)
				assert.Equal(t, "offer.pdf", res.Report.Failures[0].SourceName)
			},
		},
		{
			name: "documento sem leitor entra no relatório como ignorado",
			setup: func(t *testing.T, f *fixture, store repository.SnapshotRepository) []domain.Document {
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

				return []domain.Document{
					{SourceName: "logo.png", Kind: domain.DocumentUnsupported, Reason: "extensão não suportada"},
					priceTable("prices.csv", []string{"France", "208", "01", "0.045", "EUR"}),
				}
			},
			validate: func(t *testing.T, store repository.SnapshotRepository, res *domain.RunResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, 1, res.Snapshot.RowCount())
				assert.Equal(t, 1, res.Report.IgnoredDocuments)
				assert.Zero(t, res.Report.FailedDocuments)
				require.Len(t, res.Report.Ignored, 1)
				assert.Equal(t, "logo.png", res.Report.Ignored[0].SourceName)
				assert.Equal(t, "extensão não suportada", res.Report.Ignored[0].Reason)
			},
		},
		{
			name: "nenhuma linha aceita não grava snapshot",
			setup: func(t *testing.T, f *fixture, store repository.SnapshotRepository) []domain.Document {
				f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(&extracting.Result{}, nil)

				return []domain.Document{
					textDocument("email-body"),
					priceTable("prices.csv", []string{"France", "208", "01", "n/a", "EUR"}),
				}
			},
			validate: func(t *testing.T, store repository.SnapshotRepository, res *domain.RunResult, err error) {
				assert.ErrorIs(t, err, domain.ErrNothingExtracted)
				assert.Nil(t, res)

				dates, err := store.ListDates(context.Background())
				require.NoError(t, err)
				assert.Empty(t, dates)
			},
		},
		{
			name: "falha do publicador não desfaz o snapshot",
			setup: func(t *testing.T, f *fixture, store repository.SnapshotRepository) []domain.Document {
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("disco cheio"))

				return []domain.Document{
					priceTable("prices.csv", []string{"France", "208", "01", "0.045", "EUR"}),
				}
			},
			validate: func(t *testing.T, store repository.SnapshotRepository, res *domain.RunResult, err error) {
				require.NoError(t, err)

				latest, err := store.GetLatest(context.Background())
				require.NoError(t, err)
				require.NotNil(t, latest)
				assert.Equal(t, res.Date, latest.DateString())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			f := &fixture{
				extractor: mocks.NewMockTextExtractor(ctrl),
				publisher: mocks.NewMockReportPublisher(ctrl),
			}
			store := newFileStore(t)

			docs := tt.setup(t, f, store)

			res, err := newService(t, store, f).Run(context.Background(), day2, docs)
			tt.validate(t, store, res, err)
		})
	}
}

func TestService_Run_StoreErrors(t *testing.T) {
	docs := []domain.Document{priceTable("prices.csv", []string{"France", "208", "01", "0.045", "EUR"})}

	tests := []struct {
		name     string
		setup    func(store *repomocks.MockSnapshotRepository, publisher *mocks.MockReportPublisher)
		validate func(t *testing.T, res *domain.RunResult, err error)
	}{
		{
			name: "data já gravada aborta sem promover",
			setup: func(store *repomocks.MockSnapshotRepository, publisher *mocks.MockReportPublisher) {
				store.EXPECT().GetLatestBefore(gomock.Any(), day2).Return(nil, nil)
				store.EXPECT().Put(gomock.Any(), day2, gomock.Any()).Return(nil, &domain.DuplicateSnapshotError{Date: "2025-03-02"})
			},
			validate: func(t *testing.T, res *domain.RunResult, err error) {
				assert.Nil(t, res)
				assert.ErrorIs(t, err, domain.ErrDuplicateSnapshot)
				assert.True(t, domain.IsFatalStoreError(err))
			},
		},
		{
			name: "snapshot anterior corrompido aborta",
			setup: func(store *repomocks.MockSnapshotRepository, publisher *mocks.MockReportPublisher) {
				store.EXPECT().GetLatestBefore(gomock.Any(), day2).
					Return(nil, &domain.CorruptSnapshotError{Date: "2025-03-01", Location: "parsed_2025-03-01.json"})
			},
			validate: func(t *testing.T, res *domain.RunResult, err error) {
				assert.Nil(t, res)
				assert.ErrorIs(t, err, domain.ErrCorruptSnapshot)
			},
		},
		{
			name: "data antiga é gravada sem mover latest",
			setup: func(store *repomocks.MockSnapshotRepository, publisher *mocks.MockReportPublisher) {
				store.EXPECT().GetLatestBefore(gomock.Any(), day2).Return(nil, nil)
				store.EXPECT().Put(gomock.Any(), day2, gomock.Any()).
					DoAndReturn(func(_ context.Context, date time.Time, rows []domain.PriceRow) (*domain.Snapshot, error) {
						return domain.NewSnapshot(date, rows, date)
					})
				store.EXPECT().Promote(gomock.Any(), gomock.Any()).Return(domain.ErrPromoteBackwards)
				publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
			validate: func(t *testing.T, res *domain.RunResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, "2025-03-02", res.Date)
			},
		},
		{
			name: "erro ao promover aborta",
			setup: func(store *repomocks.MockSnapshotRepository, publisher *mocks.MockReportPublisher) {
				store.EXPECT().GetLatestBefore(gomock.Any(), day2).Return(nil, nil)
				store.EXPECT().Put(gomock.Any(), day2, gomock.Any()).
					DoAndReturn(func(_ context.Context, date time.Time, rows []domain.PriceRow) (*domain.Snapshot, error) {
						return domain.NewSnapshot(date, rows, date)
					})
				store.EXPECT().Promote(gomock.Any(), gomock.Any()).Return(errors.New("permissão negada"))
			},
			validate: func(t *testing.T, res *domain.RunResult, err error) {
				assert.Nil(t, res)
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := repomocks.NewMockSnapshotRepository(ctrl)
			f := &fixture{
				extractor: mocks.NewMockTextExtractor(ctrl),
				publisher: mocks.NewMockReportPublisher(ctrl),
			}
			tt.setup(store, f.publisher)

			res, err := newService(t, store, f).Run(context.Background(), day2.Add(9*time.Hour), docs)
			tt.validate(t, res, err)
		})
	}
}

func TestService_RunFromSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockDocumentSource(ctrl)
	f := &fixture{
		extractor: mocks.NewMockTextExtractor(ctrl),
		publisher: mocks.NewMockReportPublisher(ctrl),
	}

	source.EXPECT().Documents(gomock.Any()).Return([]domain.Document{
		priceTable("prices.csv", []string{"France", "208", "01", "0.045", "EUR"}),
	}, nil)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	svc := newService(t, newFileStore(t), f).WithSource(source)

	res, err := svc.RunFromSource(context.Background(), day1)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", res.Date)

	_, err = newService(t, newFileStore(t), f).RunFromSource(context.Background(), day1)
	assert.ErrorIs(t, err, ErrNoDocumentSource)
}

func TestService_CompareStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := &fixture{
		extractor: mocks.NewMockTextExtractor(ctrl),
		publisher: mocks.NewMockReportPublisher(ctrl),
	}
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	store := newFileStore(t)
	svc := newService(t, store, f)
	ctx := context.Background()

	_, err := svc.CompareStored(ctx, nil, nil)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	_, err = svc.Run(ctx, day1, []domain.Document{
		priceTable("prices.csv", []string{"France", "208", "01", "0.045", "EUR"}),
	})
	require.NoError(t, err)
	_, err = svc.Run(ctx, day2, []domain.Document{
		priceTable("prices.csv", []string{"France", "208", "01", "0.040", "EUR"}),
	})
	require.NoError(t, err)

	diff, err := svc.CompareStored(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, diff.Changed, 1)
	assert.Equal(t, domain.DirectionDecrease, diff.Changed[0].Direction)

	from, to := day2, day1
	diff, err = svc.CompareStored(ctx, &from, &to)
	require.NoError(t, err)
	require.Len(t, diff.Changed, 1)
	assert.Equal(t, domain.DirectionIncrease, diff.Changed[0].Direction)

	missing := day1.AddDate(0, 0, -1)
	_, err = svc.CompareStored(ctx, &missing, nil)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}
