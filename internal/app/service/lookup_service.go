package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/repository"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
	"github.com/park1112/next-snp-management-sub002/internal/identity"
	"github.com/park1112/next-snp-management-sub002/pkg/logger"
)

type LookupInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LookupService 지급 그룹 / 작물 종류 / 작업 종류 단순 CRUD
type LookupService interface {
	List(ctx context.Context, kind model.LookupKind) ([]model.Lookup, error)
	Get(ctx context.Context, kind model.LookupKind, id string) (*model.Lookup, error)
	Create(ctx context.Context, kind model.LookupKind, input LookupInput) (*model.Lookup, error)
	Update(ctx context.Context, kind model.LookupKind, id string, input LookupInput) (*model.Lookup, error)
	Delete(ctx context.Context, kind model.LookupKind, id string) error
}

type lookupService struct {
	repos  *repository.Repositories
	actors identity.Provider
	now    func() time.Time
}

func NewLookupService(store docstore.Store, actors identity.Provider) LookupService {
	return &lookupService{repos: repository.New(store), actors: actors, now: time.Now}
}

func (s *lookupService) repo(kind model.LookupKind) (repository.LookupRepository, error) {
	r, ok := s.repos.Lookup(kind)
	if !ok {
		return nil, model.NewValidationError("kind", "알 수 없는 코드 종류입니다: "+string(kind))
	}
	return r, nil
}

func (s *lookupService) List(ctx context.Context, kind model.LookupKind) ([]model.Lookup, error) {
	r, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	return r.List(ctx)
}

func (s *lookupService) Get(ctx context.Context, kind model.LookupKind, id string) (*model.Lookup, error) {
	r, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (s *lookupService) Create(ctx context.Context, kind model.LookupKind, input LookupInput) (*model.Lookup, error) {
	r, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, model.NewValidationError("name", "이름을 입력해주세요")
	}

	item := &model.Lookup{Name: name, Description: strings.TrimSpace(input.Description)}
	item.Stamp(s.now(), s.actors.CurrentActorID(ctx))
	id, err := r.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	item.ID = id

	logger.Info("Lookup created", map[string]interface{}{
		"kind": kind,
		"id":   id,
		"name": name,
	})
	return item, nil
}

func (s *lookupService) Update(ctx context.Context, kind model.LookupKind, id string, input LookupInput) (*model.Lookup, error) {
	r, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, model.NewValidationError("name", "이름을 입력해주세요")
	}
	item, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Name = name
	item.Description = strings.TrimSpace(input.Description)
	item.UpdatedAt = s.now()

	fields, err := docstore.Pick(item, "name", "description", "updatedAt")
	if err != nil {
		return nil, err
	}
	if err := r.Patch(ctx, id, fields); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *lookupService) Delete(ctx context.Context, kind model.LookupKind, id string) error {
	r, err := s.repo(kind)
	if err != nil {
		return err
	}
	if err := r.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Lookup deleted", map[string]interface{}{
		"kind": kind,
		"id":   id,
	})
	return nil
}

// LookupSnapshot 캐시가 보관하는 선택 목록 묶음
type LookupSnapshot struct {
	Categories    []model.Category `json:"categories"`
	PaymentGroups []model.Lookup   `json:"paymentGroups"`
	CropTypes     []model.Lookup   `json:"cropTypes"`
	WorkTypes     []model.Lookup   `json:"workTypes"`
	LoadedAt      time.Time        `json:"loadedAt"`
}

// LookupCache holds the selectable lists shown on every form. It is built
// once at start-up and only changes when Refresh is called.
type LookupCache struct {
	repos  *repository.Repositories
	events EventPublisher

	mu       sync.RWMutex
	snapshot LookupSnapshot
}

func NewLookupCache(store docstore.Store, events EventPublisher) *LookupCache {
	return &LookupCache{repos: repository.New(store), events: publisherOrNoop(events)}
}

// Refresh reloads every list. On failure the previous snapshot is kept.
func (c *LookupCache) Refresh(ctx context.Context) (LookupSnapshot, error) {
	var next LookupSnapshot
	var err error

	if next.Categories, err = c.repos.Categories.List(ctx); err != nil {
		return c.Snapshot(), err
	}
	model.SortCategories(next.Categories)
	if next.PaymentGroups, err = c.repos.PaymentGroups.List(ctx); err != nil {
		return c.Snapshot(), err
	}
	if next.CropTypes, err = c.repos.CropTypes.List(ctx); err != nil {
		return c.Snapshot(), err
	}
	if next.WorkTypes, err = c.repos.WorkTypes.List(ctx); err != nil {
		return c.Snapshot(), err
	}
	next.LoadedAt = time.Now()

	c.mu.Lock()
	c.snapshot = next
	c.mu.Unlock()

	logger.Info("Lookup cache refreshed", map[string]interface{}{
		"categories":     len(next.Categories),
		"payment_groups": len(next.PaymentGroups),
		"crop_types":     len(next.CropTypes),
		"work_types":     len(next.WorkTypes),
	})
	c.events.Publish(Event{Type: EventLookupRefreshed, At: next.LoadedAt})
	return next, nil
}

func (c *LookupCache) Snapshot() LookupSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Name resolves a lookup id to its display name from the snapshot.
func (c *LookupCache) Name(kind model.LookupKind, id string) (string, bool) {
	snap := c.Snapshot()
	var items []model.Lookup
	switch kind {
	case model.LookupPaymentGroup:
		items = snap.PaymentGroups
	case model.LookupCropType:
		items = snap.CropTypes
	case model.LookupWorkType:
		items = snap.WorkTypes
	}
	for _, item := range items {
		if item.ID == id {
			return item.Name, true
		}
	}
	return "", false
}

func (c *LookupCache) CategoryName(id string) (string, bool) {
	for _, cat := range c.Snapshot().Categories {
		if cat.ID == id {
			return cat.Name, true
		}
	}
	return "", false
}
