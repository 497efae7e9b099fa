// Package bootstrap monta o pipeline a partir da configuração; usado pela API e pela CLI
package bootstrap

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/salojoakim/supplierpriceautomation/infrastructure/database/sqldb"
	"github.com/salojoakim/supplierpriceautomation/infrastructure/inbox"
	"github.com/salojoakim/supplierpriceautomation/infrastructure/integrator/gemini"
	"github.com/salojoakim/supplierpriceautomation/infrastructure/integrator/gemini/geminiclient"
	"github.com/salojoakim/supplierpriceautomation/infrastructure/integrator/rulebased"
	"github.com/salojoakim/supplierpriceautomation/infrastructure/report"
	"github.com/salojoakim/supplierpriceautomation/infrastructure/repository"
	"github.com/salojoakim/supplierpriceautomation/internal/config"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/extracting"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/mapping"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/normalizing"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/tracking"
)

const (
	EngineRule   = "rule"
	EngineGemini = "gemini"

	BackendFile = "file"
	BackendSQL  = "sql"
)

// Store abre o repositório de snapshots configurado em STORAGE_BACKEND.
// A função devolvida libera a conexão com o banco, quando houver.
func Store(ctx context.Context, cfg *config.Config) (repository.SnapshotRepository, func(), error) {
	switch cfg.Storage.Backend {
	case BackendSQL:
		conn, err := sqldb.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("erro ao conectar ao banco (%s): %w", cfg.Database.Driver, err)
		}

		if err := sqldb.EnsureSchema(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, nil, err
		}

		logrus.WithField("driver", conn.Driver()).Info("Snapshots gravados no banco de dados")
		return repository.NewSQLSnapshotRepository(conn), func() { _ = conn.Close() }, nil

	case BackendFile:
		store, err := repository.NewFileSnapshotRepository(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}

		logrus.WithField("dir", cfg.Storage.Dir).Info("Snapshots gravados em arquivo")
		return store, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("STORAGE_BACKEND inválido: %q", cfg.Storage.Backend)
	}
}

// Understander escolhe o colaborador de entendimento de texto conforme EXTRACTION_ENGINE
func Understander(cfg *config.Config) (extracting.TextUnderstander, error) {
	switch cfg.Extraction.Engine {
	case EngineGemini:
		return gemini.New(&cfg.Gemini, geminiclient.NewClient(&cfg.Gemini)), nil
	case EngineRule:
		return rulebased.New(), nil
	default:
		return nil, fmt.Errorf("EXTRACTION_ENGINE inválido: %q", cfg.Extraction.Engine)
	}
}

// Tracker monta o serviço de acompanhamento com a caixa de entrada e, se habilitado, a caixa de saída
func Tracker(cfg *config.Config, store repository.SnapshotRepository, fs afero.Fs) (*tracking.Service, error) {
	understander, err := Understander(cfg)
	if err != nil {
		return nil, err
	}

	epsilon, err := cfg.Normalization.Epsilon()
	if err != nil {
		return nil, err
	}

	extractor := extracting.NewExtractor(understander, extracting.Config{
		MaxAttempts:       cfg.Extraction.MaxAttempts,
		Backoff:           cfg.Extraction.Backoff,
		DocumentTimeout:   cfg.Extraction.DocumentTimeout,
		DefaultConfidence: cfg.Extraction.DefaultConfidence,
		CacheTTL:          cfg.Extraction.CacheTTL,
	})

	mapper := mapping.NewMapper(mapping.FromOverrides(cfg.ColumnSynonyms.AsMap()))

	normalizer := normalizing.NewNormalizer(normalizing.Config{
		FallbackCurrency:  cfg.Normalization.FallbackCurrency,
		RateDecimalPlaces: cfg.Normalization.RateDecimalPlaces,
	})

	service := tracking.NewService(tracking.Config{
		MaxConcurrentJobs: cfg.Extraction.MaxConcurrentJobs,
		DocumentTimeout:   cfg.Extraction.DocumentTimeout,
		RateEpsilon:       epsilon,
	}, mapper, extractor, normalizer, store).
		WithSource(inbox.NewReader(fs, cfg.Inbox.Dir))

	if cfg.Report.Enabled {
		service = service.WithPublisher(report.NewOutboxPublisher(fs, cfg.Report.OutboxDir))
	}

	logrus.WithFields(logrus.Fields{
		"engine": cfg.Extraction.Engine,
		"inbox":  cfg.Inbox.Dir,
		"report": cfg.Report.Enabled,
	}).Info("Pipeline de preços configurado")

	return service, nil
}
