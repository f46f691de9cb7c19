package service

import (
	"context"
	"errors"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/repository"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
	"github.com/park1112/next-snp-management-sub002/internal/excel"
	"github.com/park1112/next-snp-management-sub002/pkg/logger"
)

// StatementFile 내려받을 정산서 파일
type StatementFile struct {
	Name string
	Data []byte
}

type ExportService interface {
	PaymentStatement(ctx context.Context, paymentID string) (*StatementFile, error)
}

type exportService struct {
	repos     *repository.Repositories
	generator *excel.Generator
}

func NewExportService(store docstore.Store) ExportService {
	return &exportService{repos: repository.New(store), generator: excel.NewGenerator()}
}

// PaymentStatement uses the details cached on the settlement and resolves
// farmer and field names where the records still exist.
func (s *exportService) PaymentStatement(ctx context.Context, paymentID string) (*StatementFile, error) {
	payment, err := s.repos.Payments.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	farmerNames := map[string]string{}
	fieldNames := map[string]string{}
	resolve := func(id string, names map[string]string, get func(string) (string, error)) string {
		if id == "" {
			return ""
		}
		if name, ok := names[id]; ok {
			return name
		}
		name, err := get(id)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			logger.Warn("Failed to resolve name for statement", map[string]interface{}{
				"payment_id": paymentID,
				"id":         id,
				"error":      err.Error(),
			})
		}
		names[id] = name
		return name
	}
	farmerName := func(id string) (string, error) {
		f, err := s.repos.Farmers.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return f.Name, nil
	}
	fieldName := func(id string) (string, error) {
		f, err := s.repos.Fields.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return f.Name, nil
	}

	st := excel.Statement{Payment: *payment}
	for _, settled := range payment.Schedules {
		st.Lines = append(st.Lines, excel.StatementLine{
			ScheduleID: settled.ScheduleID,
			Detail:     settled.Detail,
			FarmerName: resolve(settled.Detail.FarmerID, farmerNames, farmerName),
			FieldName:  resolve(settled.Detail.FieldID, fieldNames, fieldName),
		})
	}

	data, err := s.generator.Generate(st)
	if err != nil {
		logger.Error("Failed to generate settlement statement", err, map[string]interface{}{
			"payment_id": paymentID,
		})
		return nil, err
	}

	logger.Info("Settlement statement generated", map[string]interface{}{
		"payment_id": paymentID,
		"lines":      len(st.Lines),
		"bytes":      len(data),
	})
	return &StatementFile{Name: excel.FileName(*payment), Data: data}, nil
}
