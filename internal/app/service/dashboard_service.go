package service

import (
	"context"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/repository"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
)

// DashboardCounts 대시보드 건수 집계 (건수만 제공)
type DashboardCounts struct {
	Farmers            int                                 `json:"farmers"`
	Fields             int                                 `json:"fields"`
	Workers            int                                 `json:"workers"`
	ContractsByStatus  map[model.ContractStatus]int        `json:"contractsByStatus"`
	SchedulesByStage   map[model.Stage]int                 `json:"schedulesByStage"`
	SchedulesByPayment map[model.SchedulePaymentStatus]int `json:"schedulesByPayment"`
	PaymentsByStatus   map[model.PaymentStatus]int         `json:"paymentsByStatus"`
}

type DashboardService interface {
	Counts(ctx context.Context) (*DashboardCounts, error)
}

type dashboardService struct {
	repos *repository.Repositories
}

func NewDashboardService(store docstore.Store) DashboardService {
	return &dashboardService{repos: repository.New(store)}
}

func (s *dashboardService) Counts(ctx context.Context) (*DashboardCounts, error) {
	farmers, err := s.repos.Farmers.List(ctx)
	if err != nil {
		return nil, err
	}
	fields, err := s.repos.Fields.List(ctx)
	if err != nil {
		return nil, err
	}
	workers, err := s.repos.Workers.List(ctx)
	if err != nil {
		return nil, err
	}
	contracts, err := s.repos.Contracts.List(ctx)
	if err != nil {
		return nil, err
	}
	schedules, err := s.repos.Schedules.List(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.repos.Payments.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := &DashboardCounts{
		Farmers:            len(farmers),
		Fields:             len(fields),
		Workers:            len(workers),
		ContractsByStatus:  map[model.ContractStatus]int{},
		SchedulesByStage:   map[model.Stage]int{},
		SchedulesByPayment: map[model.SchedulePaymentStatus]int{},
		PaymentsByStatus:   map[model.PaymentStatus]int{},
	}
	for _, c := range contracts {
		counts.ContractsByStatus[c.Status]++
	}
	for _, sc := range schedules {
		counts.SchedulesByStage[sc.Stage.Current]++
		counts.SchedulesByPayment[sc.PaymentStatus]++
	}
	for _, p := range payments {
		counts.PaymentsByStatus[p.Status]++
	}
	return counts, nil
}
