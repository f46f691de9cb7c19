package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/repository"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
	"github.com/park1112/next-snp-management-sub002/internal/identity"
	"github.com/park1112/next-snp-management-sub002/pkg/logger"
)

type CreatePaymentInput struct {
	ReceiverID   string              `json:"receiverId"`
	ReceiverName string              `json:"receiverName"`
	ReceiverType model.ReceiverType  `json:"receiverType"`
	ScheduleIDs  []string            `json:"scheduleIds"`
	Amount       int64               `json:"amount"`
	Method       model.PaymentMethod `json:"method"`
	Bank         *model.BankInfo     `json:"bankInfo"`
	PaymentDate  *time.Time          `json:"paymentDate"`
	ReceiptRef   string              `json:"receiptRef"`
	Memo         string              `json:"memo"`
}

type PaymentFilter struct {
	ReceiverID string
	Status     model.PaymentStatus
}

type PaymentService interface {
	Create(ctx context.Context, input CreatePaymentInput) (*model.Payment, error)
	Get(ctx context.Context, id string) (*model.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]model.Payment, error)
	UpdateStatus(ctx context.Context, id string, status model.PaymentStatus) (*model.Payment, error)
	AttachReceipt(ctx context.Context, id, receiptRef string) (*model.Payment, error)
	// Delete removes the settlement and clears the back-link on every
	// schedule it covered, in one transaction.
	Delete(ctx context.Context, id string) error
}

type paymentService struct {
	store  docstore.Store
	repos  *repository.Repositories
	actors identity.Provider
	events EventPublisher
	now    func() time.Time
}

func NewPaymentService(store docstore.Store, actors identity.Provider, events EventPublisher) PaymentService {
	return &paymentService{
		store:  store,
		repos:  repository.New(store),
		actors: actors,
		events: publisherOrNoop(events),
		now:    time.Now,
	}
}

func validatePaymentInput(input CreatePaymentInput) error {
	if len(input.ScheduleIDs) == 0 {
		return model.NewValidationError("scheduleIds", "정산할 일정을 선택해주세요")
	}
	if input.Amount <= 0 {
		return model.NewValidationError("amount", "정산 금액은 0보다 커야 합니다")
	}
	if input.ReceiverType != "" && !input.ReceiverType.Valid() {
		return model.NewValidationError("receiverType", "받는 사람 구분이 올바르지 않습니다")
	}
	if input.Method != "" && !input.Method.Valid() {
		return model.NewValidationError("method", "지급 방법이 올바르지 않습니다")
	}
	if strings.TrimSpace(input.ReceiverID) == "" && strings.TrimSpace(input.ReceiverName) == "" {
		return model.NewValidationError("receiverId", "받는 사람을 선택해주세요")
	}
	seen := make(map[string]struct{}, len(input.ScheduleIDs))
	for _, id := range input.ScheduleIDs {
		if id == "" {
			return model.NewValidationError("scheduleIds", "일정 ID가 비어 있습니다")
		}
		if _, dup := seen[id]; dup {
			return model.NewValidationError("scheduleIds", "같은 일정이 두 번 포함되었습니다")
		}
		seen[id] = struct{}{}
	}
	return nil
}

// fillReceiver copies name, type and bank from the worker record when the
// caller left them empty.
func fillReceiver(ctx context.Context, repos *repository.Repositories, p *model.Payment) error {
	if p.ReceiverID == "" || (p.ReceiverName != "" && p.ReceiverType != "") {
		return nil
	}
	worker, err := repos.Workers.Get(ctx, p.ReceiverID)
	if err != nil {
		return err
	}
	if p.ReceiverName == "" {
		p.ReceiverName = worker.Name
	}
	if p.ReceiverType == "" {
		p.ReceiverType = worker.Type
	}
	if p.Bank == nil && p.Method == model.MethodBank {
		p.Bank = worker.Bank
	}
	return nil
}

func (s *paymentService) Create(ctx context.Context, input CreatePaymentInput) (*model.Payment, error) {
	if err := validatePaymentInput(input); err != nil {
		return nil, err
	}

	now := s.now()
	actor := s.actors.CurrentActorID(ctx)
	method := input.Method
	if method == "" {
		method = model.MethodBank
	}
	paymentDate := now
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	payment := &model.Payment{
		ReceiverID:   input.ReceiverID,
		ReceiverName: strings.TrimSpace(input.ReceiverName),
		ReceiverType: input.ReceiverType,
		PayerID:      actor,
		Amount:       input.Amount,
		Method:       method,
		Status:       model.PaymentPending,
		Bank:         input.Bank,
		PaymentDate:  paymentDate,
		ReceiptRef:   input.ReceiptRef,
		Memo:         input.Memo,
	}
	payment.Stamp(now, actor)

	err := s.store.RunInTransaction(ctx, func(tx docstore.Store) error {
		repos := repository.New(tx)
		if err := fillReceiver(ctx, repos, payment); err != nil {
			return err
		}

		payment.Schedules = make([]model.SettledSchedule, 0, len(input.ScheduleIDs))
		for _, scheduleID := range input.ScheduleIDs {
			schedule, err := repos.Schedules.Get(ctx, scheduleID)
			if err != nil {
				return err
			}
			if schedule.PaymentID != nil && *schedule.PaymentID != "" {
				return model.NewValidationError("scheduleIds", "이미 정산된 일정이 포함되어 있습니다: "+scheduleID)
			}
			payment.Schedules = append(payment.Schedules, model.SettledSchedule{
				ScheduleID: scheduleID,
				Detail: model.ScheduleDetail{
					WorkType:      schedule.WorkType,
					FarmerID:      schedule.FarmerID,
					FieldID:       schedule.FieldID,
					ScheduledDate: schedule.Scheduled.Start,
					Stage:         schedule.Stage.Current,
					Amount:        schedule.SettlementTotal(),
				},
			})
		}

		id, err := repos.Payments.Create(ctx, payment)
		if err != nil {
			return err
		}
		for _, scheduleID := range input.ScheduleIDs {
			if err := repos.Schedules.Patch(ctx, scheduleID, docstore.Fields{
				"paymentId":     id,
				"paymentStatus": string(model.SchedulePending),
				"updatedAt":     now,
			}); err != nil {
				return err
			}
		}
		payment.ID = id
		return nil
	})
	if err != nil {
		logger.Warn("Payment creation failed", map[string]interface{}{
			"receiver_id": input.ReceiverID,
			"schedules":   len(input.ScheduleIDs),
			"error":       err.Error(),
		})
		return nil, err
	}

	logger.Info("Payment created", map[string]interface{}{
		"payment_id":  payment.ID,
		"receiver_id": payment.ReceiverID,
		"amount":      payment.Amount,
		"schedules":   len(payment.Schedules),
	})
	s.events.Publish(Event{
		Type:     EventPaymentCreated,
		EntityID: payment.ID,
		Actor:    actor,
		Data:     map[string]interface{}{"amount": payment.Amount, "scheduleIds": payment.ScheduleIDs()},
		At:       now,
	})
	return payment, nil
}

func (s *paymentService) Get(ctx context.Context, id string) (*model.Payment, error) {
	return s.repos.Payments.Get(ctx, id)
}

func (s *paymentService) List(ctx context.Context, filter PaymentFilter) ([]model.Payment, error) {
	var (
		payments []model.Payment
		err      error
	)
	switch {
	case filter.ReceiverID != "":
		payments, err = s.repos.Payments.Where(ctx, "receiverId", filter.ReceiverID)
	case filter.Status != "":
		payments, err = s.repos.Payments.Where(ctx, "status", string(filter.Status))
	default:
		payments, err = s.repos.Payments.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	if filter.Status == "" {
		return payments, nil
	}
	out := payments[:0]
	for _, p := range payments {
		if p.Status == filter.Status {
			out = append(out, p)
		}
	}
	return out, nil
}

// UpdateStatus moves the settlement forward. Completing it marks every
// linked schedule paid.
func (s *paymentService) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus) (*model.Payment, error) {
	var payment *model.Payment
	now := s.now()
	err := s.store.RunInTransaction(ctx, func(tx docstore.Store) error {
		repos := repository.New(tx)
		p, err := repos.Payments.Get(ctx, id)
		if err != nil {
			return err
		}
		if !p.Status.CanMoveTo(status) {
			return &model.InvalidTransitionError{Entity: "payment", From: string(p.Status), To: string(status)}
		}
		if err := repos.Payments.Patch(ctx, id, docstore.Fields{
			"status":    string(status),
			"updatedAt": now,
		}); err != nil {
			return err
		}
		if status == model.PaymentCompleted {
			for _, scheduleID := range p.ScheduleIDs() {
				if err := repos.Schedules.Patch(ctx, scheduleID, docstore.Fields{
					"paymentStatus": string(model.SchedulePaid),
					"updatedAt":     now,
				}); err != nil {
					return err
				}
			}
		}
		p.Status = status
		p.UpdatedAt = now
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payment status changed", map[string]interface{}{
		"payment_id": id,
		"status":     status,
	})
	s.events.Publish(Event{
		Type:     EventPaymentUpdated,
		EntityID: id,
		Actor:    s.actors.CurrentActorID(ctx),
		Data:     map[string]interface{}{"status": status},
		At:       now,
	})
	return payment, nil
}

func (s *paymentService) AttachReceipt(ctx context.Context, id, receiptRef string) (*model.Payment, error) {
	if strings.TrimSpace(receiptRef) == "" {
		return nil, model.NewValidationError("receiptRef", "영수증 주소가 비어 있습니다")
	}
	payment, err := s.repos.Payments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	payment.ReceiptRef = receiptRef
	payment.UpdatedAt = s.now()
	if err := s.repos.Payments.Patch(ctx, id, docstore.Fields{
		"receiptRef": receiptRef,
		"updatedAt":  payment.UpdatedAt,
	}); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) Delete(ctx context.Context, id string) error {
	now := s.now()
	var cleared int
	err := s.store.RunInTransaction(ctx, func(tx docstore.Store) error {
		repos := repository.New(tx)
		payment, err := repos.Payments.Get(ctx, id)
		if err != nil {
			return err
		}
		for _, scheduleID := range payment.ScheduleIDs() {
			schedule, err := repos.Schedules.Get(ctx, scheduleID)
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Settled schedule no longer exists", map[string]interface{}{
					"payment_id":  id,
					"schedule_id": scheduleID,
				})
				continue
			}
			if err != nil {
				return err
			}
			if schedule.PaymentID == nil || *schedule.PaymentID != id {
				continue
			}
			if err := repos.Schedules.Patch(ctx, scheduleID, docstore.Fields{
				"paymentId":     nil,
				"paymentStatus": string(model.ScheduleUnpaid),
				"updatedAt":     now,
			}); err != nil {
				return err
			}
			cleared++
		}
		return repos.Payments.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.Info("Payment deleted", map[string]interface{}{
		"payment_id":        id,
		"cleared_schedules": cleared,
	})
	s.events.Publish(Event{
		Type:     EventPaymentDeleted,
		EntityID: id,
		Actor:    s.actors.CurrentActorID(ctx),
		At:       now,
	})
	return nil
}
