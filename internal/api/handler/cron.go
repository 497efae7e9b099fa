package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
	"github.com/salojoakim/supplierpriceautomation/pkg/apiErrors"
	"github.com/salojoakim/supplierpriceautomation/pkg/middleware"
)

//go:generate mockgen -source=cron.go -destination=mocks/price_syncer.go -package=mocks

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypePrices = "prices"
	CronJobTypeAll    = "all"
)

// PriceSyncer é a parte do agendador usada pelos handlers
type PriceSyncer interface {
	TriggerManualSync()
	IsRunning() bool
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron que podem ser executados manualmente
type CronJobServices struct {
	PriceSyncService PriceSyncer
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.Role != domain.RoleAdmin {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas administradores podem executar cron jobs", nil)
			return
		}

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")

		switch cronType {
		case CronJobTypePrices, CronJobTypeAll:
			if services.PriceSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização de preços não disponível", nil)
				return
			}
			if services.PriceSyncService.IsRunning() {
				apiErrors.WriteError(w, apiErrors.ErrSyncRunning, "Sincronização de preços já em andamento", nil)
				return
			}
			services.PriceSyncService.TriggerManualSync()
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: prices, all", cronType)
			return
		}

		logrus.WithFields(logrus.Fields{
			"type": cronType,
			"user": userClaims.Name,
		}).Info("Cron job disparada manualmente")

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.PriceSyncService != nil {
			status[CronJobTypePrices] = services.PriceSyncService.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	}
}
