package domain

import "time"

// DroppedRow registra uma linha descartada durante extração ou normalização
type DroppedRow struct {
	SourceName string `json:"source_name"`
	Reason     string `json:"reason"`
}

// DocumentFailure registra um documento descartado inteiro
type DocumentFailure struct {
	SourceName string `json:"source_name"`
	Reason     string `json:"reason"`
}

// NormalizationReport resume o que aconteceu com as linhas de uma execução
type NormalizationReport struct {
	Documents          int `json:"documents"`
	FailedDocuments    int `json:"failed_documents"`
	IgnoredDocuments   int `json:"ignored_documents"`
	InputRows          int `json:"input_rows"`
	AcceptedRows       int `json:"accepted_rows"`
	MalformedRows      int `json:"malformed_rows"`
	InvalidRows        int `json:"invalid_rows"`
	SkippedRows        int `json:"skipped_rows"`
	DefaultedCurrency  int `json:"defaulted_currency"`
	UnresolvedCountry  int `json:"unresolved_country"`
	Conflicts          int `json:"conflicts"`
	ClampedConfidences int `json:"clamped_confidences"`

	Failures           []DocumentFailure           `json:"failures,omitempty"`
	Ignored            []DocumentFailure           `json:"ignored,omitempty"`
	Dropped            []DroppedRow                `json:"dropped,omitempty"`
	ConflictWarnings   []ConflictResolutionWarning `json:"conflict_warnings,omitempty"`
	CountryWarnings    []UnresolvedCountryWarning  `json:"country_warnings,omitempty"`
	CurrencyWarnings   []CurrencyDefaultedWarning  `json:"currency_warnings,omitempty"`
	ConfidenceWarnings []ConfidenceClampedWarning  `json:"confidence_warnings,omitempty"`
}

// RunResult é o resultado de uma execução completa do pipeline
type RunResult struct {
	RunID      string              `json:"run_id"`
	Date       string              `json:"date"`
	Snapshot   *Snapshot           `json:"-"`
	Diff       DiffResult          `json:"diff"`
	Report     NormalizationReport `json:"report"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
}

// RunReport é o resumo entregue ao publicador de relatórios
type RunReport struct {
	RunID      string              `json:"run_id"`
	Date       string              `json:"date"`
	RowCount   int                 `json:"row_count"`
	Diff       DiffResult          `json:"diff"`
	Report     NormalizationReport `json:"normalization"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
}

// NewRunReport monta o relatório a partir do resultado da execução
func NewRunReport(result *RunResult) RunReport {
	report := RunReport{
		RunID:      result.RunID,
		Date:       result.Date,
		Diff:       result.Diff,
		Report:     result.Report,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
	}
	if result.Snapshot != nil {
		report.RowCount = result.Snapshot.RowCount()
	}
	return report
}
