package tracking

import (
	"context"
	"time"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/extracting"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/mapping"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/normalizing"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

// TableMapper converte planilhas em linhas canônicas
type TableMapper interface {
	Map(table domain.Table) mapping.Result
}

// TextExtractor extrai linhas de texto livre (corpo do e-mail, PDF/DOCX já convertidos)
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.Document) (*extracting.Result, error)
}

// RowNormalizer canonicaliza e deduplica as linhas de todos os documentos
type RowNormalizer interface {
	Normalize(batches []domain.SourceBatch) normalizing.Result
}

// ReportPublisher entrega o resumo da execução (outbox, e-mail)
type ReportPublisher interface {
	Publish(ctx context.Context, report *domain.RunReport) error
}

// DocumentSource fornece os documentos de entrada de uma execução
type DocumentSource interface {
	Documents(ctx context.Context) ([]domain.Document, error)
}

// Tracker é o caso de uso completo: extrair, normalizar, gravar, comparar e publicar
type Tracker interface {
	// Run processa os documentos informados como o snapshot do dia date
	Run(ctx context.Context, date time.Time, docs []domain.Document) (*domain.RunResult, error)

	// RunFromSource lê os documentos da fonte configurada e chama Run
	RunFromSource(ctx context.Context, date time.Time) (*domain.RunResult, error)

	// CompareStored compara dois snapshots já gravados.
	// to nil usa latest; from nil usa o último snapshot anterior a to.
	CompareStored(ctx context.Context, from, to *time.Time) (*domain.DiffResult, error)
}
