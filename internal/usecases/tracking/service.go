// Package tracking orquestra uma execução diária de acompanhamento de preços
package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/salojoakim/supplierpriceautomation/infrastructure/repository"
	"github.com/salojoakim/supplierpriceautomation/internal/domain"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/diffing"
)

const (
	runIDLength     = 10
	runIDCharacters = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// ErrNoDocumentSource indica RunFromSource sem fonte de documentos configurada
var ErrNoDocumentSource = errors.New("nenhuma fonte de documentos configurada")

type Config struct {
	MaxConcurrentJobs int
	DocumentTimeout   time.Duration
	RateEpsilon       decimal.Decimal
}

type Service struct {
	cfg        Config
	mapper     TableMapper
	extractor  TextExtractor
	normalizer RowNormalizer
	store      repository.SnapshotRepository
	publisher  ReportPublisher
	source     DocumentSource
	now        func() time.Time
}

func NewService(
	cfg Config,
	mapper TableMapper,
	extractor TextExtractor,
	normalizer RowNormalizer,
	store repository.SnapshotRepository,
) *Service {
	if cfg.MaxConcurrentJobs <= 0 {
		cfg.MaxConcurrentJobs = 1
	}

	return &Service{
		cfg:        cfg,
		mapper:     mapper,
		extractor:  extractor,
		normalizer: normalizer,
		store:      store,
		now:        time.Now,
	}
}

// WithPublisher habilita a entrega do resumo ao final de cada execução
func (s *Service) WithPublisher(publisher ReportPublisher) *Service {
	s.publisher = publisher
	return s
}

// WithSource define de onde RunFromSource lê os documentos
func (s *Service) WithSource(source DocumentSource) *Service {
	s.source = source
	return s
}

func (s *Service) RunFromSource(ctx context.Context, date time.Time) (*domain.RunResult, error) {
	if s.source == nil {
		return nil, ErrNoDocumentSource
	}

	docs, err := s.source.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler documentos: %w", err)
	}

	return s.Run(ctx, date, docs)
}

// Run executa o pipeline completo para a data informada.
// Sem nenhuma linha aceita nenhum snapshot é gravado e ErrNothingExtracted é devolvido.
func (s *Service) Run(ctx context.Context, date time.Time, docs []domain.Document) (*domain.RunResult, error) {
	startedAt := s.now().UTC()
	date = domain.CalendarDate(date)

	runID, err := gonanoid.Generate(runIDCharacters, runIDLength)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id da execução: %w", err)
	}

	logger := logrus.WithFields(logrus.Fields{
		"run_id":    runID,
		"date":      date.Format(time.DateOnly),
		"documents": len(docs),
	})
	logger.Info("Iniciando execução de acompanhamento de preços")

	batches := s.extractAll(ctx, docs)

	normalized := s.normalizer.Normalize(batches)
	if len(normalized.Rows) == 0 {
		logger.WithField("failed_documents", normalized.Report.FailedDocuments).Warn("Nenhuma linha aceita, snapshot não será gravado")
		return nil, domain.ErrNothingExtracted
	}

	previous, err := s.store.GetLatestBefore(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar snapshot anterior: %w", err)
	}

	current, err := s.store.Put(ctx, date, normalized.Rows)
	if err != nil {
		return nil, fmt.Errorf("erro ao gravar snapshot: %w", err)
	}

	diff := diffing.Diff(previous, current, diffing.Options{RateEpsilon: s.cfg.RateEpsilon})

	if err := s.store.Promote(ctx, current); err != nil {
		// Um latest mais novo já existe (reprocessamento de data antiga): o snapshot fica gravado
		if !errors.Is(err, domain.ErrPromoteBackwards) {
			return nil, fmt.Errorf("erro ao promover snapshot: %w", err)
		}
		logger.WithError(err).Warn("Snapshot gravado sem mover latest")
	}

	result := &domain.RunResult{
		RunID:      runID,
		Date:       current.DateString(),
		Snapshot:   current,
		Diff:       diff,
		Report:     normalized.Report,
		StartedAt:  startedAt,
		FinishedAt: s.now().UTC(),
	}

	s.publish(ctx, result)

	logger.WithFields(logrus.Fields{
		"rows":    current.RowCount(),
		"new":     diff.Summary.New,
		"removed": diff.Summary.Removed,
		"changed": diff.Summary.Changed,
	}).Info("Execução concluída")

	return result, nil
}

// extractAll processa os documentos em paralelo; cada goroutine escreve apenas o seu índice
func (s *Service) extractAll(ctx context.Context, docs []domain.Document) []domain.SourceBatch {
	batches := make([]domain.SourceBatch, len(docs))

	semaphore := make(chan struct{}, s.cfg.MaxConcurrentJobs)
	var wg sync.WaitGroup

	for i, doc := range docs {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, doc domain.Document) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			batches[i] = s.extractDocument(ctx, doc)
		}(i, doc)
	}

	wg.Wait()

	return batches
}

func (s *Service) extractDocument(ctx context.Context, doc domain.Document) domain.SourceBatch {
	batch := domain.SourceBatch{
		SourceName: doc.SourceName,
		Kind:       doc.Kind,
	}

	switch doc.Kind {
	case domain.DocumentTable:
		if doc.Table == nil {
			batch.Failure = fmt.Errorf("documento %s sem tabela", doc.SourceName)
			return batch
		}
		res := s.mapper.Map(*doc.Table)
		batch.Rows = res.Rows
		batch.Errors = res.Errors
		batch.Skipped = res.Skipped

	case domain.DocumentText:
		if s.cfg.DocumentTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.DocumentTimeout)
			defer cancel()
		}

		res, err := s.extractor.Extract(ctx, doc)
		if err != nil {
			batch.Failure = err
			return batch
		}
		batch.Rows = res.Rows
		batch.Errors = res.Dropped
		batch.Warnings = res.Warnings

	case domain.DocumentUnsupported:
		batch.Ignored = doc.Reason
		if batch.Ignored == "" {
			batch.Ignored = "formato não suportado"
		}

	default:
		batch.Failure = fmt.Errorf("tipo de documento desconhecido %q em %s", doc.Kind, doc.SourceName)
	}

	return batch
}

// publish nunca desfaz o snapshot: falhas do publicador só geram log
func (s *Service) publish(ctx context.Context, result *domain.RunResult) {
	if s.publisher == nil {
		return
	}

	report := domain.NewRunReport(result)
	if err := s.publisher.Publish(ctx, &report); err != nil {
		logrus.WithFields(logrus.Fields{
			"run_id": result.RunID,
			"error":  err.Error(),
		}).Error("Falha ao publicar o resumo da execução")
	}
}

func (s *Service) CompareStored(ctx context.Context, from, to *time.Time) (*domain.DiffResult, error) {
	var (
		current *domain.Snapshot
		err     error
	)

	if to != nil {
		current, err = s.store.Get(ctx, *to)
	} else {
		current, err = s.store.GetLatest(ctx)
	}
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrSnapshotNotFound
	}

	var previous *domain.Snapshot
	if from != nil {
		previous, err = s.store.Get(ctx, *from)
		if err != nil {
			return nil, err
		}
		if previous == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, from.Format(time.DateOnly))
		}
	} else {
		previous, err = s.store.GetLatestBefore(ctx, current.Date())
		if err != nil {
			return nil, err
		}
	}

	diff := diffing.Diff(previous, current, diffing.Options{RateEpsilon: s.cfg.RateEpsilon})

	return &diff, nil
}
