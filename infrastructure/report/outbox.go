// Package report entrega o resumo de cada execução
package report

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// OutboxPublisher grava summary_<data>_<run>.json e .html em um diretório de saída
type OutboxPublisher struct {
	fs  afero.Fs
	dir string
}

func NewOutboxPublisher(fs afero.Fs, dir string) *OutboxPublisher {
	return &OutboxPublisher{fs: fs, dir: dir}
}

func (p *OutboxPublisher) Publish(ctx context.Context, report *domain.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.fs.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("erro ao criar outbox: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("erro ao serializar resumo: %w", err)
	}

	var html bytes.Buffer
	if err := RenderHTML(&html, report); err != nil {
		return fmt.Errorf("erro ao renderizar resumo: %w", err)
	}

	base := filepath.Join(p.dir, SummaryBaseName(report))

	if err := afero.WriteFile(p.fs, base+".json", data, 0o644); err != nil {
		return fmt.Errorf("erro ao gravar resumo: %w", err)
	}
	if err := afero.WriteFile(p.fs, base+".html", html.Bytes(), 0o644); err != nil {
		return fmt.Errorf("erro ao gravar resumo: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"run_id":  report.RunID,
		"path":    base + ".json",
		"changed": report.Diff.Summary.Changed,
		"new":     report.Diff.Summary.New,
		"removed": report.Diff.Summary.Removed,
	}).Info("Resumo gravado no outbox")

	return nil
}

// SummaryBaseName é o nome dos arquivos de resumo sem extensão
func SummaryBaseName(report *domain.RunReport) string {
	return fmt.Sprintf("summary_%s_%s", report.Date, report.RunID)
}
