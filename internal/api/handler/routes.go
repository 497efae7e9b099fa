package handler

import (
	"net/http"

	"github.com/salojoakim/supplierpriceautomation/infrastructure/repository"
	"github.com/salojoakim/supplierpriceautomation/internal/api/handler/router"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/tracking"
	"github.com/salojoakim/supplierpriceautomation/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Snapshots(store repository.SnapshotRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/snapshots",
			Method:      http.MethodGet,
			Handler:     ListSnapshots(store),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/snapshots/:date",
			Method:      http.MethodGet,
			Handler:     GetSnapshot(store),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Diff(tracker tracking.Tracker) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/diff",
			Method:      http.MethodGet,
			Handler:     GetDiff(tracker),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
