package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	formatTable = "table"
	formatJSON  = "json"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// printer imprime resultados em tabela (colorida quando a saída é um terminal) ou JSON
type printer struct {
	out    io.Writer
	format string
	color  bool
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) paint(color, text string) string {
	if !p.color {
		return text
	}
	return color + text + ansiReset
}

func (p *printer) runResult(result *domain.RunResult) error {
	if p.format == formatJSON {
		return p.json(domain.NewRunReport(result))
	}

	report := result.Report
	rows := 0
	if result.Snapshot != nil {
		rows = result.Snapshot.RowCount()
	}

	fmt.Fprintf(p.out, "Execução %s para %s em %s\n", result.RunID, result.Date, result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(p.out, "Documentos: %s (%s com falha)  Linhas: %s lidas, %s aceitas, %s descartadas\n",
		humanize.Comma(int64(report.Documents)),
		humanize.Comma(int64(report.FailedDocuments)),
		humanize.Comma(int64(report.InputRows)),
		humanize.Comma(int64(rows)),
		humanize.Comma(int64(report.MalformedRows+report.InvalidRows)),
	)
	for _, ignored := range report.Ignored {
		fmt.Fprintln(p.out, p.paint(ansiYellow, fmt.Sprintf("Ignorado: %s (%s)", ignored.SourceName, ignored.Reason)))
	}
	if len(report.ConflictWarnings) > 0 {
		fmt.Fprintln(p.out, p.paint(ansiYellow, fmt.Sprintf("%d conflitos resolvidos por confiança", len(report.ConflictWarnings))))
	}
	fmt.Fprintln(p.out)

	return p.diff(&result.Diff)
}

func (p *printer) diff(diff *domain.DiffResult) error {
	if p.format == formatJSON {
		return p.json(diff)
	}

	previous := "nenhum"
	if diff.PreviousDate != nil {
		previous = *diff.PreviousDate
	}
	fmt.Fprintf(p.out, "%s → %s: %d alteradas, %d novas, %d removidas\n",
		previous, diff.CurrentDate, diff.Summary.Changed, diff.Summary.New, diff.Summary.Removed)

	if diff.IsEmpty() {
		return nil
	}

	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nSTATUS\tPAÍS\tOPERADORA\tMCC\tMNC\tANTES\tDEPOIS\tMOEDA\tDIREÇÃO")

	for _, c := range diff.Changed {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			"alterada", c.After.Country, deref(c.After.Operator), deref(c.After.MCC), deref(c.After.MNC),
			c.Before.Rate.String(), c.After.Rate.String(), currencyTransition(c), p.direction(c.Direction))
	}
	for _, r := range diff.New {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			"nova", r.Country, deref(r.Operator), deref(r.MCC), deref(r.MNC), "-", r.Rate.String(), r.Currency, "")
	}
	for _, r := range diff.Removed {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			"removida", r.Country, deref(r.Operator), deref(r.MCC), deref(r.MNC), r.Rate.String(), "-", r.Currency, "")
	}

	return tw.Flush()
}

func (p *printer) direction(d domain.Direction) string {
	switch d {
	case domain.DirectionIncrease:
		return p.paint(ansiRed, "▲ aumento")
	case domain.DirectionDecrease:
		return p.paint(ansiGreen, "▼ redução")
	default:
		return p.paint(ansiYellow, "moeda")
	}
}

func (p *printer) snapshot(s *domain.Snapshot) error {
	rows := s.Rows()

	if p.format == formatJSON {
		return p.json(map[string]any{
			"date":       s.DateString(),
			"created_at": s.CreatedAt(),
			"row_count":  s.RowCount(),
			"rows":       rows,
		})
	}

	fmt.Fprintf(p.out, "Snapshot %s: %s linhas, gravado em %s\n\n",
		s.DateString(), humanize.Comma(int64(s.RowCount())), s.CreatedAt().Format(time.RFC3339))

	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAÍS\tOPERADORA\tMCC\tMNC\tTARIFA\tMOEDA\tORIGEM\tCONFIANÇA")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%.2f\n",
			r.Country, deref(r.Operator), deref(r.MCC), deref(r.MNC), r.Rate.String(), r.Currency, r.SourceName, r.RawConfidence)
	}

	return tw.Flush()
}

func (p *printer) dates(dates []time.Time, latest *domain.Snapshot) error {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(time.DateOnly))
	}

	latestDate := ""
	if latest != nil {
		latestDate = latest.DateString()
	}

	if p.format == formatJSON {
		return p.json(map[string]any{"dates": out, "latest": latestDate})
	}

	for _, d := range out {
		if d == latestDate {
			fmt.Fprintln(p.out, p.paint(ansiGreen, d+"  (latest)"))
			continue
		}
		fmt.Fprintln(p.out, d)
	}
	fmt.Fprintf(p.out, "%s snapshots\n", humanize.Comma(int64(len(out))))

	return nil
}

func currencyTransition(c domain.ChangedRow) string {
	if c.Before.Currency == c.After.Currency {
		return c.After.Currency
	}
	return c.Before.Currency + "→" + c.After.Currency
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
