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

// DirectoryService 농가, 농지, 작업자(반장/기사) 기본 정보 관리
type DirectoryService interface {
	ListFarmers(ctx context.Context) ([]model.Farmer, error)
	GetFarmer(ctx context.Context, id string) (*model.Farmer, error)
	CreateFarmer(ctx context.Context, farmer model.Farmer) (*model.Farmer, error)
	UpdateFarmer(ctx context.Context, id string, farmer model.Farmer) (*model.Farmer, error)
	DeleteFarmer(ctx context.Context, id string) error

	ListFields(ctx context.Context, farmerID string) ([]model.Field, error)
	GetField(ctx context.Context, id string) (*model.Field, error)
	CreateField(ctx context.Context, field model.Field) (*model.Field, error)
	UpdateField(ctx context.Context, id string, field model.Field) (*model.Field, error)
	DeleteField(ctx context.Context, id string) error

	ListWorkers(ctx context.Context, workerType model.ReceiverType) ([]model.Worker, error)
	GetWorker(ctx context.Context, id string) (*model.Worker, error)
	CreateWorker(ctx context.Context, worker model.Worker) (*model.Worker, error)
	UpdateWorker(ctx context.Context, id string, worker model.Worker) (*model.Worker, error)
	DeleteWorker(ctx context.Context, id string) error
}

type directoryService struct {
	repos  *repository.Repositories
	actors identity.Provider
	now    func() time.Time
}

func NewDirectoryService(store docstore.Store, actors identity.Provider) DirectoryService {
	return &directoryService{repos: repository.New(store), actors: actors, now: time.Now}
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", model.NewValidationError("name", "이름을 입력해주세요")
	}
	return name, nil
}

// keepAudit carries creation stamps over on a full replace.
func keepAudit(prev model.Audit, now time.Time) model.Audit {
	prev.UpdatedAt = now
	return prev
}

func (s *directoryService) ListFarmers(ctx context.Context) ([]model.Farmer, error) {
	return s.repos.Farmers.List(ctx)
}

func (s *directoryService) GetFarmer(ctx context.Context, id string) (*model.Farmer, error) {
	return s.repos.Farmers.Get(ctx, id)
}

func (s *directoryService) CreateFarmer(ctx context.Context, farmer model.Farmer) (*model.Farmer, error) {
	name, err := requireName(farmer.Name)
	if err != nil {
		return nil, err
	}
	farmer.Name = name
	farmer.Stamp(s.now(), s.actors.CurrentActorID(ctx))

	id, err := s.repos.Farmers.Create(ctx, &farmer)
	if err != nil {
		return nil, err
	}
	farmer.ID = id

	logger.Info("Farmer created", map[string]interface{}{
		"farmer_id": id,
		"name":      name,
	})
	return &farmer, nil
}

func (s *directoryService) UpdateFarmer(ctx context.Context, id string, farmer model.Farmer) (*model.Farmer, error) {
	name, err := requireName(farmer.Name)
	if err != nil {
		return nil, err
	}
	prev, err := s.repos.Farmers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	farmer.ID = id
	farmer.Name = name
	farmer.Audit = keepAudit(prev.Audit, s.now())
	if err := s.repos.Farmers.Save(ctx, id, &farmer); err != nil {
		return nil, err
	}
	return &farmer, nil
}

// DeleteFarmer refuses while fields or contracts still reference the farmer.
func (s *directoryService) DeleteFarmer(ctx context.Context, id string) error {
	if _, err := s.repos.Farmers.Get(ctx, id); err != nil {
		return err
	}
	fields, err := s.repos.Fields.Where(ctx, "farmerId", id)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return model.NewValidationError("farmerId", "등록된 농지가 있는 농가는 삭제할 수 없습니다")
	}
	contracts, err := s.repos.Contracts.Where(ctx, "farmerId", id)
	if err != nil {
		return err
	}
	if len(contracts) > 0 {
		return model.NewValidationError("farmerId", "계약이 있는 농가는 삭제할 수 없습니다")
	}
	if err := s.repos.Farmers.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("Farmer deleted", map[string]interface{}{
		"farmer_id": id,
	})
	return nil
}

func (s *directoryService) ListFields(ctx context.Context, farmerID string) ([]model.Field, error) {
	if farmerID != "" {
		return s.repos.Fields.Where(ctx, "farmerId", farmerID)
	}
	return s.repos.Fields.List(ctx)
}

func (s *directoryService) GetField(ctx context.Context, id string) (*model.Field, error) {
	return s.repos.Fields.Get(ctx, id)
}

func (s *directoryService) validateField(ctx context.Context, field *model.Field) error {
	name, err := requireName(field.Name)
	if err != nil {
		return err
	}
	field.Name = name
	if field.FarmerID == "" {
		return model.NewValidationError("farmerId", "농가를 선택해주세요")
	}
	if field.AreaPyeong < 0 {
		return model.NewValidationError("areaPyeong", "면적은 0 이상이어야 합니다")
	}
	_, err = s.repos.Farmers.Get(ctx, field.FarmerID)
	return err
}

func (s *directoryService) CreateField(ctx context.Context, field model.Field) (*model.Field, error) {
	if err := s.validateField(ctx, &field); err != nil {
		return nil, err
	}
	field.Stamp(s.now(), s.actors.CurrentActorID(ctx))

	id, err := s.repos.Fields.Create(ctx, &field)
	if err != nil {
		return nil, err
	}
	field.ID = id

	logger.Info("Field created", map[string]interface{}{
		"field_id":  id,
		"farmer_id": field.FarmerID,
	})
	return &field, nil
}

func (s *directoryService) UpdateField(ctx context.Context, id string, field model.Field) (*model.Field, error) {
	if err := s.validateField(ctx, &field); err != nil {
		return nil, err
	}
	prev, err := s.repos.Fields.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	field.ID = id
	field.Audit = keepAudit(prev.Audit, s.now())
	if err := s.repos.Fields.Save(ctx, id, &field); err != nil {
		return nil, err
	}
	return &field, nil
}

func (s *directoryService) DeleteField(ctx context.Context, id string) error {
	return s.repos.Fields.Delete(ctx, id)
}

func (s *directoryService) ListWorkers(ctx context.Context, workerType model.ReceiverType) ([]model.Worker, error) {
	if workerType != "" {
		return s.repos.Workers.Where(ctx, "type", string(workerType))
	}
	return s.repos.Workers.List(ctx)
}

func (s *directoryService) GetWorker(ctx context.Context, id string) (*model.Worker, error) {
	return s.repos.Workers.Get(ctx, id)
}

func validateWorker(worker *model.Worker) error {
	name, err := requireName(worker.Name)
	if err != nil {
		return err
	}
	worker.Name = name
	if !worker.Type.Valid() {
		return model.NewValidationError("type", "작업자 구분은 foreman 또는 driver 여야 합니다")
	}
	return nil
}

func (s *directoryService) CreateWorker(ctx context.Context, worker model.Worker) (*model.Worker, error) {
	if err := validateWorker(&worker); err != nil {
		return nil, err
	}
	worker.Stamp(s.now(), s.actors.CurrentActorID(ctx))

	id, err := s.repos.Workers.Create(ctx, &worker)
	if err != nil {
		return nil, err
	}
	worker.ID = id

	logger.Info("Worker created", map[string]interface{}{
		"worker_id": id,
		"type":      worker.Type,
	})
	return &worker, nil
}

func (s *directoryService) UpdateWorker(ctx context.Context, id string, worker model.Worker) (*model.Worker, error) {
	if err := validateWorker(&worker); err != nil {
		return nil, err
	}
	prev, err := s.repos.Workers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	worker.ID = id
	worker.Audit = keepAudit(prev.Audit, s.now())
	if err := s.repos.Workers.Save(ctx, id, &worker); err != nil {
		return nil, err
	}
	return &worker, nil
}

func (s *directoryService) DeleteWorker(ctx context.Context, id string) error {
	return s.repos.Workers.Delete(ctx, id)
}
