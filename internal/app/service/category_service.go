package service

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/repository"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
	"github.com/park1112/next-snp-management-sub002/internal/identity"
	"github.com/park1112/next-snp-management-sub002/pkg/logger"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

type CreateCategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type RateInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DefaultPrice int64  `json:"defaultPrice"`
	Unit         string `json:"unit"`
}

type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id string) (*model.Category, error)
	Create(ctx context.Context, input CreateCategoryInput) (*model.Category, error)
	Update(ctx context.Context, id string, input UpdateCategoryInput) (*model.Category, error)
	SetNext(ctx context.Context, id string, nextID *string) (*model.Category, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, orderedIDs []string) error
	MovePosition(ctx context.Context, id string, dir Direction) ([]model.Category, error)
	ChainFrom(ctx context.Context, startID string) (iter.Seq[model.Category], error)

	AddRate(ctx context.Context, categoryID string, input RateInput) (*model.Rate, error)
	UpdateRate(ctx context.Context, categoryID, rateID string, patch model.RatePatch) (*model.Rate, error)
	RemoveRate(ctx context.Context, categoryID, rateID string) error
}

type categoryService struct {
	store  docstore.Store
	repos  *repository.Repositories
	actors identity.Provider
	now    func() time.Time
}

func NewCategoryService(store docstore.Store, actors identity.Provider) CategoryService {
	return &categoryService{
		store:  store,
		repos:  repository.New(store),
		actors: actors,
		now:    time.Now,
	}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	model.SortCategories(categories)
	return categories, nil
}

func (s *categoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	return s.repos.Categories.Get(ctx, id)
}

func (s *categoryService) Create(ctx context.Context, input CreateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, model.NewValidationError("name", "카테고리 이름을 입력해주세요")
	}

	existing, err := s.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	order := model.NextOrder(existing)

	category := &model.Category{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Rates:       []model.Rate{},
		Order:       &order,
	}
	category.Stamp(s.now(), s.actors.CurrentActorID(ctx))

	id, err := s.repos.Categories.Create(ctx, category)
	if err != nil {
		return nil, err
	}
	category.ID = id

	logger.Info("Category created", map[string]interface{}{
		"category_id": id,
		"name":        name,
		"order":       order,
	})
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id string, input UpdateCategoryInput) (*model.Category, error) {
	category, err := s.repos.Categories.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, model.NewValidationError("name", "카테고리 이름을 입력해주세요")
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = strings.TrimSpace(*input.Description)
	}
	category.UpdatedAt = s.now()

	fields, err := docstore.Pick(category, "name", "description", "updatedAt")
	if err != nil {
		return nil, err
	}
	if err := s.repos.Categories.Patch(ctx, id, fields); err != nil {
		return nil, err
	}
	return category, nil
}

// SetNext points the category at nextID, or clears the link when nextID is
// nil or empty. Cycles are not rejected here; traversal guards against them.
func (s *categoryService) SetNext(ctx context.Context, id string, nextID *string) (*model.Category, error) {
	category, err := s.repos.Categories.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if nextID != nil && *nextID == "" {
		nextID = nil
	}
	if nextID != nil {
		if _, err := s.repos.Categories.Get(ctx, *nextID); err != nil {
			return nil, err
		}
	}

	category.NextCategoryID = nextID
	category.UpdatedAt = s.now()

	fields, err := docstore.Pick(category, "nextCategoryId", "updatedAt")
	if err != nil {
		return nil, err
	}
	if err := s.repos.Categories.Patch(ctx, id, fields); err != nil {
		return nil, err
	}

	logger.Info("Category next link updated", map[string]interface{}{
		"category_id": id,
		"next_id":     nextID,
	})
	return category, nil
}

// Delete clears every back-reference and removes the category in a single
// transaction.
func (s *categoryService) Delete(ctx context.Context, id string) error {
	var cleared int
	err := s.store.RunInTransaction(ctx, func(tx docstore.Store) error {
		repos := repository.New(tx)
		if _, err := repos.Categories.Get(ctx, id); err != nil {
			return err
		}

		referrers, err := repos.Categories.Where(ctx, "nextCategoryId", id)
		if err != nil {
			return err
		}
		now := s.now()
		for _, ref := range referrers {
			if err := repos.Categories.Patch(ctx, ref.ID, docstore.Fields{
				"nextCategoryId": nil,
				"updatedAt":      now,
			}); err != nil {
				return err
			}
		}
		cleared = len(referrers)
		return repos.Categories.Delete(ctx, id)
	})
	if err != nil {
		logger.Warn("Category delete aborted", map[string]interface{}{
			"category_id": id,
			"error":       err.Error(),
		})
		return err
	}

	logger.Info("Category deleted", map[string]interface{}{
		"category_id":        id,
		"cleared_references": cleared,
	})
	return nil
}

func (s *categoryService) persistOrder(ctx context.Context, ids []string) error {
	return s.store.RunInTransaction(ctx, func(tx docstore.Store) error {
		repos := repository.New(tx)
		now := s.now()
		for i, id := range ids {
			if err := repos.Categories.Patch(ctx, id, docstore.Fields{
				"order":     i,
				"updatedAt": now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// Reorder assigns order = index for each id in the given sequence.
func (s *categoryService) Reorder(ctx context.Context, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return model.NewValidationError("ids", "정렬할 카테고리를 지정해주세요")
	}
	seen := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := seen[id]; dup {
			return model.NewValidationError("ids", "중복된 카테고리가 있습니다")
		}
		seen[id] = struct{}{}
	}

	if err := s.persistOrder(ctx, orderedIDs); err != nil {
		return err
	}

	logger.Info("Categories reordered", map[string]interface{}{
		"count": len(orderedIDs),
	})
	return nil
}

// MovePosition swaps the category with its neighbour and renumbers the whole
// list. Moving past either end is a silent no-op.
func (s *categoryService) MovePosition(ctx context.Context, id string, dir Direction) ([]model.Category, error) {
	if dir != DirectionUp && dir != DirectionDown {
		return nil, model.NewValidationError("direction", "이동 방향은 up 또는 down 이어야 합니다")
	}

	categories, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range categories {
		if categories[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, model.NewNotFoundError("category", id)
	}

	target := idx - 1
	if dir == DirectionDown {
		target = idx + 1
	}
	if target < 0 || target >= len(categories) {
		return categories, nil
	}
	categories[idx], categories[target] = categories[target], categories[idx]

	ids := make([]string, len(categories))
	for i := range categories {
		ids[i] = categories[i].ID
	}
	if err := s.persistOrder(ctx, ids); err != nil {
		return nil, err
	}
	for i := range categories {
		order := i
		categories[i].Order = &order
	}
	return categories, nil
}

// ChainFrom snapshots the categories and returns the chain starting at
// startID. The sequence can be ranged over repeatedly.
func (s *categoryService) ChainFrom(ctx context.Context, startID string) (iter.Seq[model.Category], error) {
	categories, err := s.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	index := model.IndexCategories(categories)
	if _, ok := index[startID]; !ok {
		return nil, model.NewNotFoundError("category", startID)
	}
	return model.Chain(index, startID), nil
}

func (s *categoryService) saveRates(ctx context.Context, category *model.Category) error {
	category.UpdatedAt = s.now()
	fields, err := docstore.Pick(category, "rates", "updatedAt")
	if err != nil {
		return err
	}
	return s.repos.Categories.Patch(ctx, category.ID, fields)
}

func (s *categoryService) AddRate(ctx context.Context, categoryID string, input RateInput) (*model.Rate, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, model.NewValidationError("name", "단가 항목 이름을 입력해주세요")
	}
	if input.DefaultPrice < 0 {
		return nil, model.NewValidationError("defaultPrice", "기본 단가는 0 이상이어야 합니다")
	}

	category, err := s.repos.Categories.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	rate := model.Rate{
		ID:           uuid.New().String(),
		Name:         name,
		Description:  input.Description,
		DefaultPrice: input.DefaultPrice,
		Unit:         strings.TrimSpace(input.Unit),
	}
	category.Rates = append(category.Rates, rate)
	if err := s.saveRates(ctx, category); err != nil {
		return nil, err
	}

	logger.Info("Rate added", map[string]interface{}{
		"category_id": categoryID,
		"rate_id":     rate.ID,
		"price":       rate.DefaultPrice,
	})
	return &rate, nil
}

func (s *categoryService) UpdateRate(ctx context.Context, categoryID, rateID string, patch model.RatePatch) (*model.Rate, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, model.NewValidationError("name", "단가 항목 이름을 입력해주세요")
	}
	if patch.DefaultPrice != nil && *patch.DefaultPrice < 0 {
		return nil, model.NewValidationError("defaultPrice", "기본 단가는 0 이상이어야 합니다")
	}

	category, err := s.repos.Categories.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	idx := category.FindRate(rateID)
	if idx < 0 {
		return nil, model.NewNotFoundError("rate", rateID)
	}

	patch.Apply(&category.Rates[idx])
	if err := s.saveRates(ctx, category); err != nil {
		return nil, err
	}
	rate := category.Rates[idx]
	return &rate, nil
}

// RemoveRate drops the rate; a missing rate id is not an error.
func (s *categoryService) RemoveRate(ctx context.Context, categoryID, rateID string) error {
	category, err := s.repos.Categories.Get(ctx, categoryID)
	if err != nil {
		return err
	}
	idx := category.FindRate(rateID)
	if idx < 0 {
		logger.Debug("Rate already absent", map[string]interface{}{
			"category_id": categoryID,
			"rate_id":     rateID,
		})
		return nil
	}

	category.Rates = append(category.Rates[:idx], category.Rates[idx+1:]...)
	return s.saveRates(ctx, category)
}
