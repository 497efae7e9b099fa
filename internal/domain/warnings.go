package domain

import "fmt"

// ConflictResolutionWarning registra duas linhas com a mesma chave de identidade
type ConflictResolutionWarning struct {
	Key            IdentityKey `json:"key"`
	KeptSource     string      `json:"kept_source"`
	KeptConfidence float64     `json:"kept_confidence"`
	DroppedSource  string      `json:"dropped_source"`
	DroppedRate    string      `json:"dropped_rate"`
	DroppedConf    float64     `json:"dropped_confidence"`
}

func (w ConflictResolutionWarning) String() string {
	return fmt.Sprintf("conflito em %s: mantida %s (%.2f), descartada %s (%.2f)", w.Key, w.KeptSource, w.KeptConfidence, w.DroppedSource, w.DroppedConf)
}

// UnresolvedCountryWarning registra um país que não foi reconhecido pela tabela de aliases
type UnresolvedCountryWarning struct {
	Country    string `json:"country"`
	SourceName string `json:"source_name"`
}

func (w UnresolvedCountryWarning) String() string {
	return fmt.Sprintf("país não reconhecido %q em %s", w.Country, w.SourceName)
}

// CurrencyDefaultedWarning registra uma linha sem moeda que recebeu a moeda padrão
type CurrencyDefaultedWarning struct {
	Currency   string      `json:"currency"`
	SourceName string      `json:"source_name"`
	Key        IdentityKey `json:"key"`
}

func (w CurrencyDefaultedWarning) String() string {
	return fmt.Sprintf("moeda ausente em %s (%s), assumido %s", w.SourceName, w.Key, w.Currency)
}

// ConfidenceClampedWarning registra uma confiança fora de [0,1] retornada pelo extrator
type ConfidenceClampedWarning struct {
	SourceName string  `json:"source_name"`
	Original   float64 `json:"original"`
	Clamped    float64 `json:"clamped"`
}

func (w ConfidenceClampedWarning) String() string {
	return fmt.Sprintf("confiança %v ajustada para %v em %s", w.Original, w.Clamped, w.SourceName)
}
