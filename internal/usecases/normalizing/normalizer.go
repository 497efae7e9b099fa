// Package normalizing canonicaliza as linhas extraídas e resolve conflitos entre fontes
package normalizing

import (
	"errors"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
	"github.com/salojoakim/supplierpriceautomation/pkg/utils"
)

type Config struct {
	FallbackCurrency  string
	RateDecimalPlaces int32
}

// Result são as linhas canônicas ordenadas pela chave de identidade e o relatório da normalização
type Result struct {
	Rows   []domain.PriceRow
	Report domain.NormalizationReport
}

type Normalizer struct {
	cfg Config
}

func NewNormalizer(cfg Config) *Normalizer {
	cfg.FallbackCurrency = strings.ToUpper(strings.TrimSpace(cfg.FallbackCurrency))
	if cfg.FallbackCurrency == "" {
		cfg.FallbackCurrency = "EUR"
	}
	if cfg.RateDecimalPlaces <= 0 {
		cfg.RateDecimalPlaces = 6
	}
	return &Normalizer{cfg: cfg}
}

// Normalize percorre os lotes na ordem dos documentos em uma única passada.
// Aplicar Normalize sobre a própria saída devolve as mesmas linhas.
func (n *Normalizer) Normalize(batches []domain.SourceBatch) Result {
	var report domain.NormalizationReport

	accepted := make(map[domain.IdentityKey]domain.PriceRow)

	for _, batch := range batches {
		if batch.Ignored != "" {
			report.IgnoredDocuments++
			report.Ignored = append(report.Ignored, domain.DocumentFailure{
				SourceName: batch.SourceName,
				Reason:     batch.Ignored,
			})
			continue
		}

		report.Documents++

		if batch.Failure != nil {
			report.FailedDocuments++
			report.Failures = append(report.Failures, domain.DocumentFailure{
				SourceName: batch.SourceName,
				Reason:     batch.Failure.Error(),
			})
			logrus.WithFields(logrus.Fields{
				"source": batch.SourceName,
				"error":  batch.Failure.Error(),
			}).Warn("Documento descartado")
		}

		report.SkippedRows += batch.Skipped
		for _, err := range batch.Errors {
			n.recordDropped(&report, batch.SourceName, err)
		}
		for _, w := range batch.Warnings {
			report.ClampedConfidences++
			report.ConfidenceWarnings = append(report.ConfidenceWarnings, w)
		}

		for _, row := range batch.Rows {
			report.InputRows++

			canonical, err := n.canonicalize(row, &report)
			if err != nil {
				n.recordDropped(&report, row.SourceName, err)
				continue
			}

			key := canonical.Key()
			incumbent, exists := accepted[key]
			if !exists {
				accepted[key] = canonical
				continue
			}

			kept, dropped := incumbent, canonical
			if domain.Outranks(canonical, incumbent) {
				kept, dropped = canonical, incumbent
				accepted[key] = canonical
			}

			report.Conflicts++
			report.ConflictWarnings = append(report.ConflictWarnings, domain.ConflictResolutionWarning{
				Key:            key,
				KeptSource:     kept.SourceName,
				KeptConfidence: kept.RawConfidence,
				DroppedSource:  dropped.SourceName,
				DroppedRate:    dropped.Rate.String(),
				DroppedConf:    dropped.RawConfidence,
			})
		}
	}

	keys := make([]domain.IdentityKey, 0, len(accepted))
	for key := range accepted {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	rows := make([]domain.PriceRow, 0, len(keys))
	for _, key := range keys {
		row := accepted[key]
		if row.CurrencyDefaulted {
			report.DefaultedCurrency++
			report.CurrencyWarnings = append(report.CurrencyWarnings, domain.CurrencyDefaultedWarning{
				Currency:   row.Currency,
				SourceName: row.SourceName,
				Key:        key,
			})
		}
		if row.CountryUnresolved {
			report.UnresolvedCountry++
			report.CountryWarnings = append(report.CountryWarnings, domain.UnresolvedCountryWarning{
				Country:    row.Country,
				SourceName: row.SourceName,
			})
		}
		rows = append(rows, row)
	}
	report.AcceptedRows = len(rows)

	logrus.WithFields(logrus.Fields{
		"documents":          report.Documents,
		"failed_documents":   report.FailedDocuments,
		"ignored_documents":  report.IgnoredDocuments,
		"input_rows":         report.InputRows,
		"accepted_rows":      report.AcceptedRows,
		"conflicts":          report.Conflicts,
		"defaulted_currency": report.DefaultedCurrency,
		"unresolved_country": report.UnresolvedCountry,
	}).Info("Normalização concluída")

	return Result{Rows: rows, Report: report}
}

// canonicalize aplica país ISO, moeda, arredondamento e limpeza de códigos a uma linha
func (n *Normalizer) canonicalize(row domain.PriceRow, report *domain.NormalizationReport) (domain.PriceRow, error) {
	country := strings.TrimSpace(row.Country)
	if country == "" {
		return row, domain.NewInvalidRowError("country", row.Country, "país ausente")
	}
	if code, ok := domain.CanonicalCountry(country); ok {
		row.Country = code
		row.CountryUnresolved = false
	} else {
		row.Country = country
		row.CountryUnresolved = true
	}

	currency := strings.ToUpper(strings.TrimSpace(row.Currency))
	if currency == "" {
		currency = n.cfg.FallbackCurrency
		row.CurrencyDefaulted = true
	}
	if !domain.IsCurrencyCode(currency) {
		return row, domain.NewInvalidRowError("currency", row.Currency, "moeda deve ser um código ISO 4217 de 3 letras")
	}
	row.Currency = currency

	if row.Rate.IsNegative() {
		return row, domain.NewInvalidRowError("rate", row.Rate.String(), "tarifa negativa")
	}
	row.Rate = utils.RoundRate(row.Rate, n.cfg.RateDecimalPlaces)

	mcc, err := domain.NormalizeMCC(domain.StringValue(row.MCC))
	if err != nil {
		return row, err
	}
	mnc, err := domain.NormalizeMNC(domain.StringValue(row.MNC))
	if err != nil {
		return row, err
	}
	row.MCC, row.MNC = mcc, mnc

	if row.Operator != nil {
		if op := strings.TrimSpace(*row.Operator); op != "" {
			row.Operator = &op
		} else {
			row.Operator = nil
		}
	}

	if row.Source == domain.SourceBody && row.SourceName == "" {
		row.SourceName = domain.EmailBodySourceName
	}

	return row, nil
}

func (n *Normalizer) recordDropped(report *domain.NormalizationReport, sourceName string, err error) {
	switch {
	case errors.Is(err, domain.ErrMalformedCell):
		report.MalformedRows++
	default:
		report.InvalidRows++
	}

	report.Dropped = append(report.Dropped, domain.DroppedRow{
		SourceName: sourceName,
		Reason:     err.Error(),
	})
}
