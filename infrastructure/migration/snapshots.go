// Package migration copia snapshots entre repositórios (por exemplo arquivos para o banco)
package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/salojoakim/supplierpriceautomation/infrastructure/repository"
	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

// Result resume uma cópia de snapshots
type Result struct {
	Copied   int
	Skipped  int
	Promoted string
	Elapsed  time.Duration
}

// CopySnapshots copia em ordem de data todos os snapshots da origem que ainda não existem no destino.
// Ao final o latest do destino passa a apontar para o latest da origem, se isso não for um retrocesso.
func CopySnapshots(ctx context.Context, from, to repository.SnapshotRepository) (*Result, error) {
	startTime := time.Now()
	result := &Result{}

	dates, err := from.ListDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar snapshots da origem: %w", err)
	}

	logrus.WithField("snapshots", len(dates)).Info("Iniciando cópia de snapshots")

	for i, date := range dates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		existing, err := to.Get(ctx, date)
		if err != nil {
			return result, fmt.Errorf("erro ao consultar destino em %s: %w", date.Format(time.DateOnly), err)
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		source, err := from.Get(ctx, date)
		if err != nil {
			return result, err
		}
		if source == nil {
			// removido da origem durante a cópia
			result.Skipped++
			continue
		}

		if _, err := to.Put(ctx, date, source.Rows()); err != nil {
			if errors.Is(err, domain.ErrDuplicateSnapshot) {
				result.Skipped++
				continue
			}
			return result, err
		}
		result.Copied++

		if i > 0 && i%10 == 0 {
			logrus.Infof("Progresso: %d/%d snapshots processados", i+1, len(dates))
		}
	}

	if err := promoteLatest(ctx, from, to, result); err != nil {
		return result, err
	}

	result.Elapsed = time.Since(startTime)

	logrus.WithFields(logrus.Fields{
		"copied":   result.Copied,
		"skipped":  result.Skipped,
		"promoted": result.Promoted,
		"elapsed":  result.Elapsed.String(),
	}).Info("Cópia de snapshots concluída")

	return result, nil
}

func promoteLatest(ctx context.Context, from, to repository.SnapshotRepository, result *Result) error {
	latest, err := from.GetLatest(ctx)
	if err != nil || latest == nil {
		return err
	}

	target, err := to.Get(ctx, latest.Date())
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, latest.DateString())
	}

	if err := to.Promote(ctx, target); err != nil {
		if errors.Is(err, domain.ErrPromoteBackwards) {
			logrus.WithField("date", latest.DateString()).Warn("Latest do destino é mais recente, mantido")
			return nil
		}
		return err
	}

	result.Promoted = latest.DateString()
	return nil
}
