package scheduler

import (
	"context"
	"time"

	"github.com/park1112/next-snp-management-sub002/internal/app/service"
	"github.com/park1112/next-snp-management-sub002/pkg/logger"
	"github.com/robfig/cron/v3"
)

const reminderActor = "scheduler"

// DueLister 지급 예정 계약 조회 (service.ContractService 가 구현)
type DueLister interface {
	DueWithin(ctx context.Context, now time.Time, window time.Duration) ([]service.ContractSummary, error)
}

// DueReminderScheduler 계약 지급 예정일 알림 스케줄러
type DueReminderScheduler struct {
	cron      *cron.Cron
	spec      string
	window    time.Duration
	contracts DueLister
	events    service.EventPublisher
	now       func() time.Time
}

// NewDueReminderScheduler spec 은 cron 표현식, window 는 며칠 앞까지 알릴지
func NewDueReminderScheduler(contracts DueLister, events service.EventPublisher, spec string, window time.Duration) *DueReminderScheduler {
	return &DueReminderScheduler{
		cron:      cron.New(),
		spec:      spec,
		window:    window,
		contracts: contracts,
		events:    events,
		now:       time.Now,
	}
}

// Start 스케줄러 시작
func (s *DueReminderScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Info("Starting scheduled due reminder")
		n, err := s.RunOnce(context.Background())
		if err != nil {
			logger.Error("Failed to run due reminder", err)
			return
		}
		logger.Info("Due reminder finished", map[string]interface{}{
			"contracts": n,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for due reminder", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Due reminder scheduler started", map[string]interface{}{
		"spec":   s.spec,
		"window": s.window.String(),
	})
	return nil
}

// RunOnce 지급 예정 계약마다 알림을 한 번 발행하고 건수를 돌려준다.
func (s *DueReminderScheduler) RunOnce(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.contracts.DueWithin(ctx, now, s.window)
	if err != nil {
		return 0, err
	}
	for _, summary := range due {
		s.events.Publish(service.Event{
			Type:     service.EventContractDueSoon,
			EntityID: summary.Contract.ID,
			Actor:    reminderActor,
			Data:     summary.NextDue,
			At:       now,
		})
	}
	return len(due), nil
}

// Stop 스케줄러 중지. 실행 중인 작업이 끝날 때까지 기다린다.
func (s *DueReminderScheduler) Stop() {
	logger.Info("Stopping due reminder scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Due reminder scheduler stopped")
}
