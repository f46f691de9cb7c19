package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/repository"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
	"github.com/park1112/next-snp-management-sub002/internal/identity"
	"github.com/park1112/next-snp-management-sub002/pkg/logger"
)

type CreateScheduleInput struct {
	WorkType  model.WorkType       `json:"workType"`
	FieldID   string               `json:"fieldId"`
	FarmerID  string               `json:"farmerId"`
	WorkerID  string               `json:"workerId"`
	Scheduled model.TimeWindow     `json:"scheduled"`
	Rate      model.RateInfo       `json:"rateInfo"`
	Transport *model.TransportInfo `json:"transport"`
	Notes     string               `json:"notes"`
}

type UpdateScheduleInput struct {
	WorkerID  *string              `json:"workerId"`
	Scheduled *model.TimeWindow    `json:"scheduled"`
	Actual    *model.TimeWindow    `json:"actual"`
	Rate      *model.RateInfo      `json:"rateInfo"`
	Transport *model.TransportInfo `json:"transport"`
	Notes     *string              `json:"notes"`
}

// ScheduleFilter 목록 조회 조건. 빈 값은 조건에서 제외한다.
type ScheduleFilter struct {
	WorkType      model.WorkType
	FarmerID      string
	FieldID       string
	WorkerID      string
	PaymentStatus model.SchedulePaymentStatus
	Stage         model.Stage
}

type CompletionInput struct {
	Quantity  float64                `json:"quantity"`
	Unit      string                 `json:"unit"`
	WorkPrice int64                  `json:"workPrice"`
	Extra     map[string]interface{} `json:"extra"`
	Notes     string                 `json:"notes"`
}

type AdditionalSettlementInput struct {
	Amount     int64      `json:"amount"`
	Reason     string     `json:"reason"`
	Date       *time.Time `json:"date"`
	CategoryID string     `json:"categoryId"`
}

type ScheduleService interface {
	Create(ctx context.Context, input CreateScheduleInput) (*model.Schedule, error)
	Get(ctx context.Context, id string) (*model.Schedule, error)
	List(ctx context.Context, filter ScheduleFilter) ([]model.Schedule, error)
	Update(ctx context.Context, id string, input UpdateScheduleInput) (*model.Schedule, error)
	Delete(ctx context.Context, id string) error

	AdvanceStage(ctx context.Context, id string, next model.Stage) (*model.Schedule, error)
	RecordCompletionDetails(ctx context.Context, id string, input CompletionInput) (*model.Schedule, error)
	AddAdditionalSettlement(ctx context.Context, id string, input AdditionalSettlementInput) (*model.Schedule, error)
}

type scheduleService struct {
	repos  *repository.Repositories
	actors identity.Provider
	events EventPublisher
	now    func() time.Time
}

func NewScheduleService(store docstore.Store, actors identity.Provider, events EventPublisher) ScheduleService {
	return &scheduleService{
		repos:  repository.New(store),
		actors: actors,
		events: publisherOrNoop(events),
		now:    time.Now,
	}
}

// resolveRate fills the base rate from the category's rate entry when the
// caller references one without a price.
func (s *scheduleService) resolveRate(ctx context.Context, rate *model.RateInfo) error {
	if rate.CategoryID == "" {
		return nil
	}
	category, err := s.repos.Categories.Get(ctx, rate.CategoryID)
	if err != nil {
		return err
	}
	if rate.RateID == "" {
		return nil
	}
	idx := category.FindRate(rate.RateID)
	if idx < 0 {
		return model.NewNotFoundError("rate", rate.RateID)
	}
	if rate.BaseRate == 0 {
		rate.BaseRate = category.Rates[idx].DefaultPrice
	}
	if rate.Unit == "" {
		rate.Unit = category.Rates[idx].Unit
	}
	return nil
}

func validateRateInfo(rate model.RateInfo) error {
	if rate.BaseRate < 0 {
		return model.NewValidationError("rateInfo.baseRate", "단가는 0 이상이어야 합니다")
	}
	if rate.NegotiatedRate != nil && *rate.NegotiatedRate < 0 {
		return model.NewValidationError("rateInfo.negotiatedRate", "협의 단가는 0 이상이어야 합니다")
	}
	if rate.Quantity != nil && *rate.Quantity < 0 {
		return model.NewValidationError("rateInfo.quantity", "수량은 0 이상이어야 합니다")
	}
	return nil
}

func (s *scheduleService) Create(ctx context.Context, input CreateScheduleInput) (*model.Schedule, error) {
	if strings.TrimSpace(string(input.WorkType)) == "" {
		return nil, model.NewValidationError("workType", "작업 종류를 선택해주세요")
	}
	if input.Scheduled.Start.IsZero() {
		return nil, model.NewValidationError("scheduled.start", "작업 예정일을 입력해주세요")
	}
	if input.Scheduled.End != nil && input.Scheduled.End.Before(input.Scheduled.Start) {
		return nil, model.NewValidationError("scheduled.end", "종료 시간이 시작 시간보다 빠릅니다")
	}
	if err := validateRateInfo(input.Rate); err != nil {
		return nil, err
	}
	if err := s.resolveRate(ctx, &input.Rate); err != nil {
		return nil, err
	}

	now := s.now()
	actor := s.actors.CurrentActorID(ctx)
	schedule := &model.Schedule{
		WorkType:      input.WorkType,
		FieldID:       input.FieldID,
		FarmerID:      input.FarmerID,
		WorkerID:      input.WorkerID,
		Stage:         model.NewStageState(now, actor),
		Scheduled:     input.Scheduled,
		Rate:          input.Rate,
		Transport:     input.Transport,
		PaymentStatus: model.ScheduleUnpaid,
		Notes:         input.Notes,
	}
	schedule.Stamp(now, actor)

	id, err := s.repos.Schedules.Create(ctx, schedule)
	if err != nil {
		return nil, err
	}
	schedule.ID = id

	logger.Info("Schedule created", map[string]interface{}{
		"schedule_id": id,
		"work_type":   schedule.WorkType,
		"farmer_id":   schedule.FarmerID,
		"worker_id":   schedule.WorkerID,
	})
	return schedule, nil
}

func (s *scheduleService) Get(ctx context.Context, id string) (*model.Schedule, error) {
	return s.repos.Schedules.Get(ctx, id)
}

func (f ScheduleFilter) matches(sc *model.Schedule) bool {
	switch {
	case f.WorkType != "" && sc.WorkType != f.WorkType:
		return false
	case f.FarmerID != "" && sc.FarmerID != f.FarmerID:
		return false
	case f.FieldID != "" && sc.FieldID != f.FieldID:
		return false
	case f.WorkerID != "" && sc.WorkerID != f.WorkerID:
		return false
	case f.PaymentStatus != "" && sc.PaymentStatus != f.PaymentStatus:
		return false
	case f.Stage != "" && sc.Stage.Current != f.Stage:
		return false
	}
	return true
}

// List pushes the most selective equality condition down to the store and
// applies the rest in memory.
func (s *scheduleService) List(ctx context.Context, filter ScheduleFilter) ([]model.Schedule, error) {
	var (
		schedules []model.Schedule
		err       error
	)
	switch {
	case filter.WorkerID != "":
		schedules, err = s.repos.Schedules.Where(ctx, "workerId", filter.WorkerID)
	case filter.FieldID != "":
		schedules, err = s.repos.Schedules.Where(ctx, "fieldId", filter.FieldID)
	case filter.FarmerID != "":
		schedules, err = s.repos.Schedules.Where(ctx, "farmerId", filter.FarmerID)
	case filter.PaymentStatus != "":
		schedules, err = s.repos.Schedules.Where(ctx, "paymentStatus", string(filter.PaymentStatus))
	case filter.WorkType != "":
		schedules, err = s.repos.Schedules.Where(ctx, "workType", string(filter.WorkType))
	default:
		schedules, err = s.repos.Schedules.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := schedules[:0]
	for i := range schedules {
		if filter.matches(&schedules[i]) {
			out = append(out, schedules[i])
		}
	}
	return out, nil
}

func (s *scheduleService) Update(ctx context.Context, id string, input UpdateScheduleInput) (*model.Schedule, error) {
	schedule, err := s.repos.Schedules.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.WorkerID != nil {
		schedule.WorkerID = *input.WorkerID
	}
	if input.Scheduled != nil {
		if input.Scheduled.Start.IsZero() {
			return nil, model.NewValidationError("scheduled.start", "작업 예정일을 입력해주세요")
		}
		schedule.Scheduled = *input.Scheduled
	}
	if input.Actual != nil {
		schedule.Actual = input.Actual
	}
	if input.Rate != nil {
		if err := validateRateInfo(*input.Rate); err != nil {
			return nil, err
		}
		rate := *input.Rate
		if err := s.resolveRate(ctx, &rate); err != nil {
			return nil, err
		}
		schedule.Rate = rate
	}
	if input.Transport != nil {
		schedule.Transport = input.Transport
	}
	if input.Notes != nil {
		schedule.Notes = *input.Notes
	}
	schedule.UpdatedAt = s.now()

	fields, err := docstore.Pick(schedule, "workerId", "scheduled", "actual", "rateInfo", "transport", "notes", "updatedAt")
	if err != nil {
		return nil, err
	}
	if err := s.repos.Schedules.Patch(ctx, id, fields); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Delete refuses schedules still linked to a settlement.
func (s *scheduleService) Delete(ctx context.Context, id string) error {
	schedule, err := s.repos.Schedules.Get(ctx, id)
	if err != nil {
		return err
	}
	if schedule.PaymentID != nil {
		return model.NewValidationError("paymentId", "정산에 포함된 일정은 삭제할 수 없습니다")
	}
	if err := s.repos.Schedules.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("Schedule deleted", map[string]interface{}{
		"schedule_id": id,
	})
	return nil
}

// AdvanceStage moves the schedule to next if next is the pipeline successor
// of the current stage or 취소. The actual time window is opened when work
// starts and closed when it completes.
func (s *scheduleService) AdvanceStage(ctx context.Context, id string, next model.Stage) (*model.Schedule, error) {
	schedule, err := s.repos.Schedules.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	actor := s.actors.CurrentActorID(ctx)
	from := schedule.Stage.Current
	if err := schedule.Stage.Advance(schedule.WorkType, next, now, actor); err != nil {
		logger.Warn("Rejected stage transition", map[string]interface{}{
			"schedule_id": id,
			"from":        from,
			"to":          next,
		})
		return nil, err
	}

	switch next {
	case model.StageInProgress, model.StageInTransit:
		if schedule.Actual == nil {
			schedule.Actual = &model.TimeWindow{Start: now}
		}
	case model.StageCompleted:
		if schedule.Actual == nil {
			schedule.Actual = &model.TimeWindow{Start: now}
		}
		end := now
		schedule.Actual.End = &end
	}
	schedule.UpdatedAt = now

	fields, err := docstore.Pick(schedule, "stage", "actual", "updatedAt")
	if err != nil {
		return nil, err
	}
	if err := s.repos.Schedules.Patch(ctx, id, fields); err != nil {
		return nil, err
	}

	logger.Info("Schedule stage advanced", map[string]interface{}{
		"schedule_id": id,
		"from":        from,
		"to":          next,
		"actor":       actor,
	})
	s.events.Publish(Event{
		Type:     EventStageAdvanced,
		EntityID: id,
		Actor:    actor,
		Data:     map[string]interface{}{"from": from, "to": next, "workType": schedule.WorkType},
		At:       now,
	})
	return schedule, nil
}

// RecordCompletionDetails attaches measured results and copies the quantity
// into the rate info. The stage is not changed.
func (s *scheduleService) RecordCompletionDetails(ctx context.Context, id string, input CompletionInput) (*model.Schedule, error) {
	if input.Quantity < 0 {
		return nil, model.NewValidationError("quantity", "수량은 0 이상이어야 합니다")
	}
	if input.WorkPrice < 0 {
		return nil, model.NewValidationError("workPrice", "작업 금액은 0 이상이어야 합니다")
	}

	schedule, err := s.repos.Schedules.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.Stage.Current != model.StageCompleted {
		logger.Warn("Completion details recorded before completion", map[string]interface{}{
			"schedule_id": id,
			"stage":       schedule.Stage.Current,
		})
	}

	now := s.now()
	schedule.Completion = &model.CompletionDetails{
		Quantity:   input.Quantity,
		Unit:       input.Unit,
		WorkPrice:  input.WorkPrice,
		Extra:      input.Extra,
		Notes:      input.Notes,
		RecordedAt: now,
		RecordedBy: s.actors.CurrentActorID(ctx),
	}
	quantity := input.Quantity
	schedule.Rate.Quantity = &quantity
	if input.Unit != "" {
		schedule.Rate.Unit = input.Unit
	}
	schedule.UpdatedAt = now

	fields, err := docstore.Pick(schedule, "completion", "rateInfo", "updatedAt")
	if err != nil {
		return nil, err
	}
	if err := s.repos.Schedules.Patch(ctx, id, fields); err != nil {
		return nil, err
	}

	logger.Info("Completion details recorded", map[string]interface{}{
		"schedule_id": id,
		"quantity":    input.Quantity,
		"unit":        input.Unit,
	})
	return schedule, nil
}

func (s *scheduleService) AddAdditionalSettlement(ctx context.Context, id string, input AdditionalSettlementInput) (*model.Schedule, error) {
	if input.Amount == 0 {
		return nil, model.NewValidationError("amount", "추가 정산 금액을 입력해주세요")
	}

	schedule, err := s.repos.Schedules.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	date := now
	if input.Date != nil {
		date = *input.Date
	}
	entry := model.AdditionalSettlement{
		ID:         uuid.New().String(),
		Amount:     input.Amount,
		Reason:     strings.TrimSpace(input.Reason),
		Date:       date,
		CategoryID: input.CategoryID,
		By:         s.actors.CurrentActorID(ctx),
	}
	schedule.AdditionalSettlements = append(schedule.AdditionalSettlements, entry)
	schedule.UpdatedAt = now

	fields, err := docstore.Pick(schedule, "additionalSettlements", "updatedAt")
	if err != nil {
		return nil, err
	}
	if err := s.repos.Schedules.Patch(ctx, id, fields); err != nil {
		return nil, err
	}

	logger.Info("Additional settlement added", map[string]interface{}{
		"schedule_id": id,
		"amount":      input.Amount,
		"total":       schedule.SettlementTotal(),
	})
	return schedule, nil
}
