package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/salojoakim/supplierpriceautomation/infrastructure/repository"
	"github.com/salojoakim/supplierpriceautomation/internal/domain"
	"github.com/salojoakim/supplierpriceautomation/pkg/apiErrors"
)

const latestDate = "latest"

// ListSnapshots devolve as datas com snapshot gravado, em ordem crescente
func ListSnapshots(store repository.SnapshotRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dates, err := store.ListDates(r.Context())
		if err != nil {
			writeStoreError(w, err, "Erro ao listar snapshots")
			return
		}

		out := make([]string, 0, len(dates))
		for _, d := range dates {
			out = append(out, d.Format("2006-01-02"))
		}

		writeJSON(w, http.StatusOK, map[string]any{"dates": out})
	}
}

// GetSnapshot devolve o snapshot de uma data (YYYY-MM-DD) ou o apontado por latest
func GetSnapshot(store repository.SnapshotRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		param := httprouter.ParamsFromContext(r.Context()).ByName("date")

		var (
			snapshot *domain.Snapshot
			err      error
		)

		if param == latestDate {
			snapshot, err = store.GetLatest(r.Context())
		} else {
			date, parseErr := domain.ParseCalendarDate(param)
			if parseErr != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, parseErr.Error(), nil)
				return
			}
			snapshot, err = store.Get(r.Context(), date)
		}

		if err != nil {
			writeStoreError(w, err, "Erro ao buscar snapshot")
			return
		}

		if snapshot == nil {
			apiErrors.WriteError(w, apiErrors.ErrSnapshotNotFound, "Nenhum snapshot encontrado", param)
			return
		}

		writeJSON(w, http.StatusOK, newSnapshotResponse(snapshot))
	}
}
