package domain

import (
	"errors"
	"fmt"
)

// Erros do domínio de preços
var (
	// Erros de validação de linha
	ErrInvalidRow           = errors.New("linha de preço inválida")
	ErrMalformedCell        = errors.New("célula numérica malformada")
	ErrInvalidDate          = errors.New("data inválida, formato esperado YYYY-MM-DD")
	ErrDuplicateIdentityKey = errors.New("chave de identidade duplicada no snapshot")

	// Erros de extração
	ErrExtractionParse  = errors.New("resposta do extrator não respeita o esquema")
	ErrNothingExtracted = errors.New("nenhuma linha de preço extraída")

	// Erros de armazenamento
	ErrDuplicateSnapshot = errors.New("já existe snapshot para a data")
	ErrCorruptSnapshot   = errors.New("snapshot corrompido")
	ErrSnapshotNotFound  = errors.New("snapshot não encontrado")
	ErrPromoteBackwards  = errors.New("latest não pode retroceder para uma data anterior")
)

// InvalidRowError indica uma linha rejeitada pelo construtor validado
type InvalidRowError struct {
	Field  string // Campo que falhou
	Value  string // Valor recebido
	Reason string // Motivo
}

func (e *InvalidRowError) Error() string {
	return fmt.Sprintf("%s: campo %s (%q): %s", ErrInvalidRow.Error(), e.Field, e.Value, e.Reason)
}

func (e *InvalidRowError) Unwrap() error {
	return ErrInvalidRow
}

// NewInvalidRowError cria um novo InvalidRowError
func NewInvalidRowError(field, value, reason string) *InvalidRowError {
	return &InvalidRowError{Field: field, Value: value, Reason: reason}
}

// MalformedCellError indica uma célula que não pôde ser convertida em número
type MalformedCellError struct {
	SourceName string
	Row        int // Índice da linha na tabela (base 0)
	Column     string
	Field      string
	Value      string
}

func (e *MalformedCellError) Error() string {
	return fmt.Sprintf("%s: %s linha %d coluna %q (%s) valor %q", ErrMalformedCell.Error(), e.SourceName, e.Row, e.Column, e.Field, e.Value)
}

func (e *MalformedCellError) Unwrap() error {
	return ErrMalformedCell
}

// ExtractionParseError indica uma resposta do extrator fora do esquema
type ExtractionParseError struct {
	SourceName string
	Attempt    int
	Reason     string
}

func (e *ExtractionParseError) Error() string {
	return fmt.Sprintf("%s: %s (tentativa %d): %s", ErrExtractionParse.Error(), e.SourceName, e.Attempt, e.Reason)
}

func (e *ExtractionParseError) Unwrap() error {
	return ErrExtractionParse
}

// DuplicateSnapshotError indica tentativa de gravar duas vezes a mesma data
type DuplicateSnapshotError struct {
	Date string
}

func (e *DuplicateSnapshotError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateSnapshot.Error(), e.Date)
}

func (e *DuplicateSnapshotError) Unwrap() error {
	return ErrDuplicateSnapshot
}

// CorruptSnapshotError indica um snapshot persistido que não pôde ser lido
type CorruptSnapshotError struct {
	Date     string
	Location string // Caminho do arquivo ou tabela
	Err      error
}

func (e *CorruptSnapshotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s): %s", ErrCorruptSnapshot.Error(), e.Date, e.Location, e.Err.Error())
	}
	return fmt.Sprintf("%s: %s (%s)", ErrCorruptSnapshot.Error(), e.Date, e.Location)
}

func (e *CorruptSnapshotError) Unwrap() error {
	return ErrCorruptSnapshot
}

// IsRowError verifica se o erro afeta apenas uma linha (a linha é descartada e o processamento segue)
func IsRowError(err error) bool {
	return errors.Is(err, ErrInvalidRow) || errors.Is(err, ErrMalformedCell)
}

// IsFatalStoreError verifica se o erro deve abortar a execução
func IsFatalStoreError(err error) bool {
	return errors.Is(err, ErrDuplicateSnapshot) || errors.Is(err, ErrCorruptSnapshot)
}
