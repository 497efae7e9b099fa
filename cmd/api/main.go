package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/salojoakim/supplierpriceautomation/infrastructure/repository"
	"github.com/salojoakim/supplierpriceautomation/internal/api"
	"github.com/salojoakim/supplierpriceautomation/internal/bootstrap"
	"github.com/salojoakim/supplierpriceautomation/internal/config"
	"github.com/salojoakim/supplierpriceautomation/internal/scheduler"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/authenticating"
	"github.com/salojoakim/supplierpriceautomation/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel, os.Stderr)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := bootstrap.Store(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao abrir o armazenamento de snapshots")
	}
	defer closeStore()

	// A API lê snapshots antigos repetidamente; gravados nunca mudam
	cachedStore, err := repository.NewCachedSnapshotRepository(store, cfg.Storage.CacheSize)
	if err != nil {
		logrus.Fatal(err)
	}

	tracker, err := bootstrap.Tracker(cfg, cachedStore, afero.NewOsFs())
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao configurar o pipeline de preços")
	}

	authenticator := authenticating.NewService(cfg.Auth)

	priceSyncService := scheduler.NewPriceSyncService(tracker, cfg)
	if err := priceSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de preços")
	} else {
		logrus.Info("Agendador de sincronização de preços iniciado com sucesso")
	}

	server, err := api.New(cfg, cachedStore, tracker, authenticator, priceSyncService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}
