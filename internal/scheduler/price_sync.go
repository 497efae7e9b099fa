package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/salojoakim/supplierpriceautomation/internal/config"
	"github.com/salojoakim/supplierpriceautomation/internal/domain"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/tracking"
)

// PriceSyncConfig representa a configuração do agendador de preços
type PriceSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// PriceSyncService executa diariamente a leitura da caixa de entrada, o snapshot e o diff
type PriceSyncService struct {
	scheduler *gocron.Scheduler
	config    PriceSyncConfig
	tracker   tracking.Tracker
	now       func() time.Time
	baseCtx   context.Context

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRunID           string
	lastError           string
}

// NewPriceSyncService cria uma nova instância do serviço de sincronização de preços
func NewPriceSyncService(tracker tracking.Tracker, appConfig *config.Config) *PriceSyncService {
	syncConfig := PriceSyncConfig{
		CronSchedule: appConfig.PriceSync.CronSchedule,
		SyncEnabled:  appConfig.PriceSync.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de preços carregada")

	return &PriceSyncService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    syncConfig,
		tracker:   tracker,
		now:       time.Now,
		baseCtx:   context.Background(),
	}
}

// Start inicia o agendador
func (s *PriceSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de preços desabilitada por configuração")
		return nil
	}

	s.baseCtx = ctx

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de preços")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		_ = s.syncPrices()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de preços: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de preços")
		s.scheduler.Stop()
	}()

	return nil
}

// ErrSyncRunning indica que já existe uma execução em andamento
var ErrSyncRunning = errors.New("sincronização de preços já em andamento")

// syncPrices executa uma rodada completa para a data de hoje
func (s *PriceSyncService) syncPrices() error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de preços já em andamento, ignorando")
		return ErrSyncRunning
	}
	s.syncRunning = true
	startTime := s.now()
	s.lastSyncStartedAt = startTime
	s.syncMutex.Unlock()

	var (
		result *domain.RunResult
		err    error
	)

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		if err != nil {
			s.lastError = err.Error()
		} else {
			s.lastError = ""
			s.lastRunID = result.RunID
			s.lastSyncCompletedAt = s.now()
		}
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando sincronização de preços")

	result, err = s.tracker.RunFromSource(s.baseCtx, startTime)
	if err != nil {
		if errors.Is(err, domain.ErrNothingExtracted) {
			logrus.Warn("Nenhum preço encontrado na caixa de entrada, resumo não enviado")
		} else {
			logrus.WithError(err).Error("Erro na sincronização de preços")
		}
		return err
	}

	logrus.WithFields(logrus.Fields{
		"duration": s.now().Sub(startTime).String(),
		"run_id":   result.RunID,
		"date":     result.Date,
		"changed":  result.Diff.Summary.Changed,
		"new":      result.Diff.Summary.New,
		"removed":  result.Diff.Summary.Removed,
	}).Info("Sincronização de preços concluída")

	return nil
}

// TriggerManualSync dispara uma execução fora do horário agendado
func (s *PriceSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de preços já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização manual de preços")
	go func() {
		_ = s.syncPrices()
	}()
}

// IsRunning informa se há uma execução em andamento
func (s *PriceSyncService) IsRunning() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.syncRunning
}

// GetStatus retorna o status atual do agendador
func (s *PriceSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_run_id":            s.lastRunID,
		"last_error":             s.lastError,
	}
}
