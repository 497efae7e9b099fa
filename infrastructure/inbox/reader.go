// Package inbox lê os documentos de uma execução a partir de um diretório
package inbox

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

const bodySuffix = ".body.txt"

var ErrEmptyTable = errors.New("planilha sem cabeçalho")

// Reader converte os arquivos de um diretório em documentos:
// *.eml viram corpo mais anexos, *.csv, *.tsv e *.xlsx viram tabelas,
// *.body.txt o corpo do e-mail e os demais *.txt texto de anexo
type Reader struct {
	fs  afero.Fs
	dir string
}

func NewReader(fs afero.Fs, dir string) *Reader {
	return &Reader{fs: fs, dir: dir}
}

// Documents devolve os documentos em ordem alfabética de arquivo.
// Arquivos ilegíveis são registrados e ignorados; o erro só é devolvido quando nenhum arquivo pôde ser lido.
func (r *Reader) Documents(ctx context.Context) ([]domain.Document, error) {
	entries, err := afero.ReadDir(r.fs, r.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao listar a caixa de entrada %s", r.dir)
	}

	var (
		docs    []domain.Document
		readErr error
	)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		fileDocs, err := r.readFile(name)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"file":  name,
				"error": err.Error(),
			}).Warn("Arquivo da caixa de entrada ignorado")
			readErr = multierr.Append(readErr, err)
			continue
		}

		docs = append(docs, fileDocs...)
	}

	if len(docs) == 0 && readErr != nil {
		return nil, readErr
	}

	logrus.WithFields(logrus.Fields{
		"dir":       r.dir,
		"documents": len(docs),
	}).Info("Caixa de entrada lida")

	return docs, nil
}

func (r *Reader) readFile(name string) ([]domain.Document, error) {
	lower := strings.ToLower(name)
	provider := ProviderHint(name)

	data, err := afero.ReadFile(r.fs, filepath.Join(r.dir, name))
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler %s", name)
	}

	switch {
	case strings.HasSuffix(lower, ".eml"):
		return ReadMessage(name, provider, data)

	case strings.HasSuffix(lower, bodySuffix):
		text, err := DecodeText(data)
		if err != nil {
			return nil, errors.Wrapf(err, "erro ao decodificar %s", name)
		}
		return []domain.Document{{
			SourceName: domain.EmailBodySourceName,
			Provider:   provider,
			Kind:       domain.DocumentText,
			Source:     domain.SourceBody,
			Text:       text,
		}}, nil
	}

	return attachmentDocuments(name, provider, data)
}

// attachmentDocuments converte um arquivo solto ou anexo de e-mail conforme a extensão.
// Formatos sem leitor viram DocumentUnsupported para constar no relatório.
func attachmentDocuments(name, provider string, data []byte) ([]domain.Document, error) {
	lower := strings.ToLower(name)

	var delimiter rune
	switch filepath.Ext(lower) {
	case ".xlsx", ".xlsm":
		tables, err := ParseWorkbook(name, provider, data)
		if err != nil {
			return nil, err
		}

		docs := make([]domain.Document, 0, len(tables))
		for _, table := range tables {
			docs = append(docs, domain.Document{
				SourceName: table.SourceName,
				Provider:   provider,
				Kind:       domain.DocumentTable,
				Source:     domain.SourceAttachment,
				Table:      table,
			})
		}
		return docs, nil

	case ".tsv":
		delimiter = '\t'
	case ".csv", ".txt":
	default:
		return []domain.Document{unsupported(name, provider, "extensão não suportada")}, nil
	}

	text, err := DecodeText(data)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao decodificar %s", name)
	}

	if strings.HasSuffix(lower, ".txt") {
		return []domain.Document{{
			SourceName: name,
			Provider:   provider,
			Kind:       domain.DocumentText,
			Source:     domain.SourceAttachment,
			Text:       text,
		}}, nil
	}

	table, err := ParseTable(name, provider, text, delimiter)
	if err != nil {
		return nil, err
	}

	return []domain.Document{{
		SourceName: name,
		Provider:   provider,
		Kind:       domain.DocumentTable,
		Source:     domain.SourceAttachment,
		Table:      table,
	}}, nil
}

func unsupported(name, provider, reason string) domain.Document {
	logrus.WithFields(logrus.Fields{
		"file":   name,
		"reason": reason,
	}).Warn("Documento sem leitor, registrado como ignorado")

	return domain.Document{
		SourceName: name,
		Provider:   provider,
		Kind:       domain.DocumentUnsupported,
		Reason:     reason,
	}
}

// ProviderHint é o nome do arquivo até o primeiro ponto ("acme.2025-03-01.csv" -> "acme")
func ProviderHint(name string) string {
	base := filepath.Base(name)
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

// ParseTable lê CSV/TSV com cabeçalho na primeira linha não vazia.
// delimiter 0 escolhe entre vírgula e ponto e vírgula pelo cabeçalho.
func ParseTable(sourceName, provider, text string, delimiter rune) (*domain.Table, error) {
	if delimiter == 0 {
		delimiter = detectDelimiter(text)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao interpretar %s", sourceName)
	}

	table := tableFromRecords(sourceName, provider, records)
	if table == nil {
		return nil, errors.Wrap(ErrEmptyTable, sourceName)
	}

	return table, nil
}

func detectDelimiter(text string) rune {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Count(line, ";") > strings.Count(line, ",") {
			return ';'
		}
		break
	}
	return ','
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeText converte o conteúdo para UTF-8: respeita BOM (UTF-8/UTF-16) e
// trata bytes inválidos como Windows-1252, comum em planilhas exportadas do Excel
func DecodeText(data []byte) (string, error) {
	if bytes.HasPrefix(data, bomUTF8) || bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE) {
		out, _, err := transform.Bytes(xunicode.BOMOverride(transform.Nop), data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
