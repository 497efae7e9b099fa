package report

import (
	"html/template"
	"io"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

type htmlRow struct {
	Provider      string
	Country       string
	Operator      string
	MCC           string
	MNC           string
	Old           string
	New           string
	Currency      string
	EffectiveFrom string
	Direction     string
}

type htmlSection struct {
	Title string
	Empty string
	Rows  []htmlRow
}

type htmlData struct {
	Date     string
	RunID    string
	Summary  domain.DiffSummary
	Rows     int
	Sections []htmlSection
}

var summaryTemplate = template.Must(template.New("summary").Parse(`<html><head><style>
  body {font-family: system-ui, -apple-system, Segoe UI, Roboto, Arial, sans-serif;}
  table {border-collapse: collapse; width: 100%;}
  th, td {border: 1px solid #ddd; padding: 6px; font-size: 12px;}
  th {background: #f5f5f5; text-align: left;}
  .num {text-align: right;}
</style></head><body>
<h1>SMS Price Daily Summary {{.Date}}</h1>
<p>Run {{.RunID}} · {{.Rows}} rows</p>
<p><b>Summary:</b> Changed: {{.Summary.Changed}} · New: {{.Summary.New}} · Removed: {{.Summary.Removed}}</p>
{{range .Sections}}
<h2>{{.Title}}</h2>
<table><thead><tr>
  <th>Provider</th><th>Country</th><th>Network/Operator</th><th>MCC</th><th>MNC</th>
  <th>Old</th><th>New</th><th>Currency</th><th>Effective From</th><th>Direction</th>
</tr></thead><tbody>
{{- range .Rows}}
<tr><td>{{.Provider}}</td><td>{{.Country}}</td><td>{{.Operator}}</td><td>{{.MCC}}</td><td>{{.MNC}}</td><td class="num">{{.Old}}</td><td class="num">{{.New}}</td><td>{{.Currency}}</td><td>{{.EffectiveFrom}}</td><td>{{.Direction}}</td></tr>
{{- else}}
<tr><td colspan="10">{{.Empty}}</td></tr>
{{- end}}
</tbody></table>
{{end}}
</body></html>
`))

// RenderHTML gera a tabela de alterações enviada por e-mail
func RenderHTML(w io.Writer, report *domain.RunReport) error {
	data := htmlData{
		Date:    report.Date,
		RunID:   report.RunID,
		Summary: report.Diff.Summary,
		Rows:    report.RowCount,
		Sections: []htmlSection{
			{Title: "Changed", Empty: "No changes"},
			{Title: "New entries", Empty: "No new entries"},
			{Title: "Removed entries", Empty: "No removed entries"},
		},
	}

	for _, c := range report.Diff.Changed {
		row := newHTMLRow(c.After, string(c.Direction))
		row.Old = c.Before.Rate.String()
		row.New = c.After.Rate.String()
		if c.Direction == domain.DirectionCurrencyChanged {
			row.Old += " " + c.Before.Currency
		}
		data.Sections[0].Rows = append(data.Sections[0].Rows, row)
	}
	for _, r := range report.Diff.New {
		row := newHTMLRow(r, "new")
		row.New = r.Rate.String()
		data.Sections[1].Rows = append(data.Sections[1].Rows, row)
	}
	for _, r := range report.Diff.Removed {
		row := newHTMLRow(r, "removed")
		row.Old = r.Rate.String()
		data.Sections[2].Rows = append(data.Sections[2].Rows, row)
	}

	return summaryTemplate.Execute(w, data)
}

func newHTMLRow(r domain.PriceRow, direction string) htmlRow {
	return htmlRow{
		Provider:      domain.StringValue(r.Provider),
		Country:       r.Country,
		Operator:      domain.StringValue(r.Operator),
		MCC:           domain.StringValue(r.MCC),
		MNC:           domain.StringValue(r.MNC),
		Currency:      r.Currency,
		EffectiveFrom: domain.StringValue(r.EffectiveFrom),
		Direction:     direction,
	}
}
