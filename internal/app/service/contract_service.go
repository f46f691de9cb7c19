package service

import (
	"context"
	"strings"
	"time"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/repository"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
	"github.com/park1112/next-snp-management-sub002/internal/identity"
	"github.com/park1112/next-snp-management-sub002/pkg/logger"
)

type LineInput struct {
	Amount  int64      `json:"amount"`
	DueDate *time.Time `json:"dueDate"`
}

type IntermediateInput struct {
	Installment int `json:"installment"`
	LineInput
}

type CreateContractInput struct {
	FarmerID             string                `json:"farmerId"`
	FieldIDs             []string              `json:"fieldIds"`
	ContractNumber       string                `json:"contractNumber"`
	ContractDate         time.Time             `json:"contractDate"`
	Type                 string                `json:"type"`
	Status               model.ContractStatus  `json:"status"`
	TotalAmount          int64                 `json:"totalAmount"`
	DownPayment          LineInput             `json:"downPayment"`
	IntermediatePayments []IntermediateInput   `json:"intermediatePayments"`
	FinalPayment         LineInput             `json:"finalPayment"`
	Details              model.ContractDetails `json:"contractDetails"`
}

type UpdateContractInput struct {
	FieldIDs     []string               `json:"fieldIds"`
	ContractDate *time.Time             `json:"contractDate"`
	Type         *string                `json:"type"`
	TotalAmount  *int64                 `json:"totalAmount"`
	Details      *model.ContractDetails `json:"contractDetails"`
}

type ContractFilter struct {
	FarmerID string
	Status   model.ContractStatus
}

// ContractSummary 계약 조회 시 함께 계산되는 집계 값
type ContractSummary struct {
	Contract       model.Contract `json:"contract"`
	PaidToDate     int64          `json:"paidToDate"`
	Outstanding    int64          `json:"outstanding"`
	NextDue        *model.DueLine `json:"nextDue"`
	StatusMismatch bool           `json:"statusMismatch"`
}

func Summarize(c model.Contract) ContractSummary {
	summary := ContractSummary{
		Contract:       c,
		PaidToDate:     c.PaidToDate(),
		Outstanding:    c.Outstanding(),
		StatusMismatch: c.StatusMismatch(),
	}
	if due, ok := c.NextDuePayment(); ok {
		summary.NextDue = &due
	}
	return summary
}

type ContractService interface {
	Create(ctx context.Context, input CreateContractInput) (*model.Contract, error)
	Get(ctx context.Context, id string) (*model.Contract, error)
	List(ctx context.Context, filter ContractFilter) ([]model.Contract, error)
	Update(ctx context.Context, id string, input UpdateContractInput) (*model.Contract, error)
	Delete(ctx context.Context, id string) error

	Summary(ctx context.Context, id string) (*ContractSummary, error)
	SetStatus(ctx context.Context, id string, status model.ContractStatus) (*model.Contract, error)
	MarkLinePaid(ctx context.Context, id string, ref model.LineRef, info model.PaidInfo) (*model.Contract, error)
	MarkLineScheduled(ctx context.Context, id string, ref model.LineRef, dueDate *time.Time) (*model.Contract, error)
	// DueWithin lists contracts whose next due line falls before now+window.
	DueWithin(ctx context.Context, now time.Time, window time.Duration) ([]ContractSummary, error)
}

type contractService struct {
	repos  *repository.Repositories
	actors identity.Provider
	events EventPublisher
	now    func() time.Time
}

func NewContractService(store docstore.Store, actors identity.Provider, events EventPublisher) ContractService {
	return &contractService{
		repos:  repository.New(store),
		actors: actors,
		events: publisherOrNoop(events),
		now:    time.Now,
	}
}

func newLine(in LineInput) model.PaymentLine {
	return model.PaymentLine{Amount: in.Amount, DueDate: in.DueDate, Status: model.LineUnpaid}
}

func validateContractInput(input CreateContractInput) error {
	if strings.TrimSpace(input.FarmerID) == "" {
		return model.NewValidationError("farmerId", "농가를 선택해주세요")
	}
	if strings.TrimSpace(input.ContractNumber) == "" {
		return model.NewValidationError("contractNumber", "계약 번호를 입력해주세요")
	}
	if input.TotalAmount < 0 {
		return model.NewValidationError("totalAmount", "계약 금액은 0 이상이어야 합니다")
	}
	if input.DownPayment.Amount < 0 || input.FinalPayment.Amount < 0 {
		return model.NewValidationError("amount", "지급 금액은 0 이상이어야 합니다")
	}
	if input.Status != "" && !input.Status.Valid() {
		return model.NewValidationError("status", "계약 상태가 올바르지 않습니다")
	}
	seen := map[int]struct{}{}
	for _, p := range input.IntermediatePayments {
		if p.Amount < 0 {
			return model.NewValidationError("intermediatePayments.amount", "지급 금액은 0 이상이어야 합니다")
		}
		if p.Installment <= 0 {
			continue
		}
		if _, dup := seen[p.Installment]; dup {
			return model.NewValidationError("intermediatePayments.installment", "중도금 회차가 중복되었습니다")
		}
		seen[p.Installment] = struct{}{}
	}
	return nil
}

// Create stores a contract with every payment line unpaid. Intermediate
// lines without an installment number are numbered after the highest given.
func (s *contractService) Create(ctx context.Context, input CreateContractInput) (*model.Contract, error) {
	if err := validateContractInput(input); err != nil {
		return nil, err
	}

	maxInstallment := 0
	for _, p := range input.IntermediatePayments {
		if p.Installment > maxInstallment {
			maxInstallment = p.Installment
		}
	}
	intermediates := make([]model.IntermediatePayment, 0, len(input.IntermediatePayments))
	for _, p := range input.IntermediatePayments {
		n := p.Installment
		if n <= 0 {
			maxInstallment++
			n = maxInstallment
		}
		intermediates = append(intermediates, model.IntermediatePayment{Installment: n, PaymentLine: newLine(p.LineInput)})
	}

	status := input.Status
	if status == "" {
		status = model.ContractPending
	}
	fieldIDs := input.FieldIDs
	if fieldIDs == nil {
		fieldIDs = []string{}
	}
	contractDate := input.ContractDate
	now := s.now()
	if contractDate.IsZero() {
		contractDate = now
	}

	contract := &model.Contract{
		FarmerID:             input.FarmerID,
		FieldIDs:             fieldIDs,
		ContractNumber:       strings.TrimSpace(input.ContractNumber),
		ContractDate:         contractDate,
		Type:                 input.Type,
		Status:               status,
		TotalAmount:          input.TotalAmount,
		DownPayment:          newLine(input.DownPayment),
		IntermediatePayments: intermediates,
		FinalPayment:         newLine(input.FinalPayment),
		Details:              input.Details,
	}
	contract.Stamp(now, s.actors.CurrentActorID(ctx))

	id, err := s.repos.Contracts.Create(ctx, contract)
	if err != nil {
		return nil, err
	}
	contract.ID = id

	logger.Info("Contract created", map[string]interface{}{
		"contract_id":     id,
		"contract_number": contract.ContractNumber,
		"farmer_id":       contract.FarmerID,
		"total_amount":    contract.TotalAmount,
	})
	return contract, nil
}

func (s *contractService) Get(ctx context.Context, id string) (*model.Contract, error) {
	return s.repos.Contracts.Get(ctx, id)
}

func (s *contractService) List(ctx context.Context, filter ContractFilter) ([]model.Contract, error) {
	var (
		contracts []model.Contract
		err       error
	)
	if filter.FarmerID != "" {
		contracts, err = s.repos.Contracts.Where(ctx, "farmerId", filter.FarmerID)
	} else {
		contracts, err = s.repos.Contracts.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	if filter.Status == "" {
		return contracts, nil
	}
	out := contracts[:0]
	for _, c := range contracts {
		if c.Status == filter.Status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *contractService) Update(ctx context.Context, id string, input UpdateContractInput) (*model.Contract, error) {
	contract, err := s.repos.Contracts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.TotalAmount != nil {
		if *input.TotalAmount < 0 {
			return nil, model.NewValidationError("totalAmount", "계약 금액은 0 이상이어야 합니다")
		}
		contract.TotalAmount = *input.TotalAmount
	}
	if input.FieldIDs != nil {
		contract.FieldIDs = input.FieldIDs
	}
	if input.ContractDate != nil {
		contract.ContractDate = *input.ContractDate
	}
	if input.Type != nil {
		contract.Type = *input.Type
	}
	if input.Details != nil {
		contract.Details = *input.Details
	}
	contract.UpdatedAt = s.now()

	fields, err := docstore.Pick(contract, "fieldIds", "contractDate", "type", "totalAmount", "contractDetails", "updatedAt")
	if err != nil {
		return nil, err
	}
	if err := s.repos.Contracts.Patch(ctx, id, fields); err != nil {
		return nil, err
	}
	return contract, nil
}

func (s *contractService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Contracts.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Contract deleted", map[string]interface{}{
		"contract_id": id,
	})
	return nil
}

func (s *contractService) Summary(ctx context.Context, id string) (*ContractSummary, error) {
	contract, err := s.repos.Contracts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := Summarize(*contract)
	return &summary, nil
}

// SetStatus changes the contract status only. Line statuses are left alone;
// disagreement is reported through the summary's statusMismatch flag.
func (s *contractService) SetStatus(ctx context.Context, id string, status model.ContractStatus) (*model.Contract, error) {
	if !status.Valid() {
		return nil, model.NewValidationError("status", "계약 상태가 올바르지 않습니다")
	}
	contract, err := s.repos.Contracts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := contract.Status
	contract.Status = status
	contract.UpdatedAt = s.now()

	if err := s.repos.Contracts.Patch(ctx, id, docstore.Fields{
		"status":    string(status),
		"updatedAt": contract.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"contract_id": id,
		"from":        from,
		"to":          status,
	}
	if contract.StatusMismatch() {
		logger.Warn("Contract status disagrees with payment lines", fields)
	} else {
		logger.Info("Contract status changed", fields)
	}
	return contract, nil
}

func (s *contractService) saveLines(ctx context.Context, contract *model.Contract) error {
	contract.UpdatedAt = s.now()
	fields, err := docstore.Pick(contract, "downPayment", "intermediatePayments", "finalPayment", "updatedAt")
	if err != nil {
		return err
	}
	return s.repos.Contracts.Patch(ctx, contract.ID, fields)
}

func (s *contractService) MarkLinePaid(ctx context.Context, id string, ref model.LineRef, info model.PaidInfo) (*model.Contract, error) {
	if info.PaidAmount != nil && *info.PaidAmount < 0 {
		return nil, model.NewValidationError("paidAmount", "지급액은 0 이상이어야 합니다")
	}
	contract, err := s.repos.Contracts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if info.PaidDate.IsZero() {
		info.PaidDate = s.now()
	}
	if err := contract.MarkLinePaid(ref, info); err != nil {
		return nil, err
	}
	if err := s.saveLines(ctx, contract); err != nil {
		return nil, err
	}

	outstanding := contract.Outstanding()
	logFields := map[string]interface{}{
		"contract_id": id,
		"line":        ref.String(),
		"paid_total":  contract.PaidToDate(),
		"outstanding": outstanding,
	}
	if outstanding < 0 {
		logger.Warn("Contract paid beyond total amount", logFields)
	} else {
		logger.Info("Contract line marked paid", logFields)
	}

	s.events.Publish(Event{
		Type:     EventContractLinePaid,
		EntityID: id,
		Actor:    s.actors.CurrentActorID(ctx),
		Data:     map[string]interface{}{"line": ref.String(), "outstanding": outstanding},
		At:       contract.UpdatedAt,
	})
	return contract, nil
}

func (s *contractService) MarkLineScheduled(ctx context.Context, id string, ref model.LineRef, dueDate *time.Time) (*model.Contract, error) {
	contract, err := s.repos.Contracts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := contract.MarkLineScheduled(ref, dueDate); err != nil {
		return nil, err
	}
	if err := s.saveLines(ctx, contract); err != nil {
		return nil, err
	}

	logger.Info("Contract line scheduled", map[string]interface{}{
		"contract_id": id,
		"line":        ref.String(),
	})
	return contract, nil
}

func (s *contractService) DueWithin(ctx context.Context, now time.Time, window time.Duration) ([]ContractSummary, error) {
	contracts, err := s.repos.Contracts.List(ctx)
	if err != nil {
		return nil, err
	}
	limit := now.Add(window)
	var due []ContractSummary
	for _, c := range contracts {
		if c.Status == model.ContractCancelled {
			continue
		}
		summary := Summarize(c)
		if summary.NextDue == nil || summary.NextDue.Line.DueDate == nil {
			continue
		}
		if summary.NextDue.Line.DueDate.Before(limit) {
			due = append(due, summary)
		}
	}
	return due, nil
}
