package handler

import (
	"net/http"

	"github.com/salojoakim/supplierpriceautomation/internal/usecases/tracking"
	"github.com/salojoakim/supplierpriceautomation/pkg/apiErrors"
	"github.com/salojoakim/supplierpriceautomation/pkg/utils"
)

// GetDiff compara dois snapshots gravados.
// Sem "to" usa latest; sem "from" usa o snapshot imediatamente anterior a "to".
func GetDiff(tracker tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		from, err := utils.ParseDate(query.Get("from"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), "from")
			return
		}

		to, err := utils.ParseDate(query.Get("to"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), "to")
			return
		}

		if from != nil && to != nil && !from.Before(*to) {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "from deve ser anterior a to", nil)
			return
		}

		result, err := tracker.CompareStored(r.Context(), from, to)
		if err != nil {
			writeStoreError(w, err, "Erro ao comparar snapshots")
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
