package handler

import (
	"errors"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
	"github.com/salojoakim/supplierpriceautomation/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SnapshotResponse é a representação de um snapshot na API
type SnapshotResponse struct {
	Date      string            `json:"date"`
	CreatedAt time.Time         `json:"created_at"`
	RowCount  int               `json:"row_count"`
	Rows      []domain.PriceRow `json:"rows"`
}

func newSnapshotResponse(s *domain.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		Date:      s.DateString(),
		CreatedAt: s.CreatedAt(),
		RowCount:  s.RowCount(),
		Rows:      s.Rows(),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resposta")
	}
}

// writeStoreError traduz os erros do armazenamento de snapshots para códigos da API
func writeStoreError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrInvalidDate):
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
	case errors.Is(err, domain.ErrSnapshotNotFound):
		apiErrors.WriteError(w, apiErrors.ErrSnapshotNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrCorruptSnapshot):
		logrus.WithError(err).Error(message)
		apiErrors.WriteError(w, apiErrors.ErrCorruptSnapshot, message, nil)
	default:
		logrus.WithError(err).Error(message)
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, message, nil)
	}
}
