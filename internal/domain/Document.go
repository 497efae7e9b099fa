package domain

// DocumentKind indica o caminho de extração de um documento
type DocumentKind string

const (
	DocumentTable DocumentKind = "table"
	DocumentText  DocumentKind = "text"
	// Arquivo ou anexo recebido sem leitor (imagem, PDF/DOCX não convertido); só entra no relatório
	DocumentUnsupported DocumentKind = "unsupported"
)

// Table é uma planilha já lida (CSV/XLSX), com os cabeçalhos na ordem original
type Table struct {
	SourceName string
	Provider   string
	Headers    []string
	Rows       []map[string]any
}

// Document é uma unidade de entrada do pipeline: uma tabela ou um bloco de texto
type Document struct {
	SourceName string
	Provider   string
	Kind       DocumentKind
	Source     SourceKind
	Text       string
	Table      *Table
	Reason     string // Motivo do descarte, só para DocumentUnsupported
}

// SourceBatch é o resultado da extração de um documento, na ordem de entrada
type SourceBatch struct {
	SourceName string
	Kind       DocumentKind
	Rows       []PriceRow
	Errors     []error
	Warnings   []ConfidenceClampedWarning
	Skipped    int
	Failure    error  // Documento inteiro descartado (ex.: tentativas esgotadas)
	Ignored    string // Motivo quando o documento não tem leitor
}

// ExtractionRequest é a chamada feita ao colaborador de entendimento de texto
type ExtractionRequest struct {
	SourceName string
	Provider   string
	Text       string
	Prompt     string
	Schema     string
	Attempt    int
	Strict     bool
}
