package service

import (
	"context"
	"slices"
	"testing"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCategoryServiceTest(t *testing.T) (CategoryService, docstore.Store) {
	store := setupDocStore(t)
	return NewCategoryService(store, testActor), store
}

func mustCreateCategory(t *testing.T, svc CategoryService, name string) *model.Category {
	c, err := svc.Create(context.Background(), CreateCategoryInput{Name: name})
	require.NoError(t, err)
	return c
}

func chainNames(t *testing.T, svc CategoryService, startID string) []string {
	seq, err := svc.ChainFrom(context.Background(), startID)
	require.NoError(t, err)
	var names []string
	for c := range seq {
		names = append(names, c.Name)
	}
	return names
}

func TestCategoryService_Create(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)
	ctx := context.Background()

	first := mustCreateCategory(t, svc, "  뽑기 ")
	assert.Equal(t, "뽑기", first.Name)
	assert.Nil(t, first.NextCategoryID)
	assert.Empty(t, first.Rates)
	require.NotNil(t, first.Order)
	assert.Equal(t, 0, *first.Order)
	assert.Equal(t, "manager-1", first.CreatedBy)

	second := mustCreateCategory(t, svc, "포장")
	assert.Equal(t, 1, *second.Order)

	_, err := svc.Create(ctx, CreateCategoryInput{Name: "   "})
	assert.ErrorIs(t, err, model.ErrValidation)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCategoryService_SetNextAndChain(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)
	ctx := context.Background()

	pulling := mustCreateCategory(t, svc, "뽑기")
	packing := mustCreateCategory(t, svc, "포장")

	_, err := svc.SetNext(ctx, pulling.ID, &packing.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"뽑기", "포장"}, chainNames(t, svc, pulling.ID))

	missing := "missing"
	_, err = svc.SetNext(ctx, pulling.ID, &missing)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = svc.SetNext(ctx, "missing", nil)
	assert.ErrorIs(t, err, model.ErrNotFound)

	empty := ""
	updated, err := svc.SetNext(ctx, pulling.ID, &empty)
	require.NoError(t, err)
	assert.Nil(t, updated.NextCategoryID)
}

func TestCategoryService_ChainStopsOnCycle(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)
	ctx := context.Background()

	a := mustCreateCategory(t, svc, "A")
	b := mustCreateCategory(t, svc, "B")
	c := mustCreateCategory(t, svc, "C")
	_, err := svc.SetNext(ctx, a.ID, &b.ID)
	require.NoError(t, err)
	_, err = svc.SetNext(ctx, b.ID, &c.ID)
	require.NoError(t, err)
	_, err = svc.SetNext(ctx, c.ID, &a.ID)
	require.NoError(t, err)

	names := chainNames(t, svc, b.ID)
	assert.Equal(t, []string{"B", "C", "A"}, names)
	assert.LessOrEqual(t, len(names), 3)

	// restartable
	seq, err := svc.ChainFrom(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, slices.Collect(seq), 3)
	assert.Len(t, slices.Collect(seq), 3)

	_, err = svc.ChainFrom(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCategoryService_DeleteClearsBackReferences(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)
	ctx := context.Background()

	start := mustCreateCategory(t, svc, "시작")
	pulling := mustCreateCategory(t, svc, "뽑기")
	other := mustCreateCategory(t, svc, "기타")
	_, err := svc.SetNext(ctx, start.ID, &pulling.ID)
	require.NoError(t, err)
	_, err = svc.SetNext(ctx, other.ID, &pulling.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, pulling.ID))

	reloaded, err := svc.Get(ctx, start.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.NextCategoryID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, c := range all {
		assert.Nil(t, c.NextCategoryID)
	}

	assert.ErrorIs(t, svc.Delete(ctx, pulling.ID), model.ErrNotFound)
}

func TestCategoryService_DeleteIsAtomic(t *testing.T) {
	store := setupDocStore(t)
	ctx := context.Background()
	svc := NewCategoryService(store, testActor)

	start := mustCreateCategory(t, svc, "시작")
	pulling := mustCreateCategory(t, svc, "뽑기")
	_, err := svc.SetNext(ctx, start.ID, &pulling.ID)
	require.NoError(t, err)

	failing := NewCategoryService(&faultyStore{Store: store, failRemove: true}, testActor)
	err = failing.Delete(ctx, pulling.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrStore)

	reloaded, err := svc.Get(ctx, start.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.NextCategoryID, "back-reference must survive a failed delete")
	assert.Equal(t, pulling.ID, *reloaded.NextCategoryID)

	_, err = svc.Get(ctx, pulling.ID)
	assert.NoError(t, err)
}

func TestCategoryService_ReorderAndMove(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)
	ctx := context.Background()

	a := mustCreateCategory(t, svc, "A")
	b := mustCreateCategory(t, svc, "B")
	c := mustCreateCategory(t, svc, "C")

	names := func() []string {
		all, err := svc.List(ctx)
		require.NoError(t, err)
		out := make([]string, len(all))
		for i, cat := range all {
			out[i] = cat.Name
		}
		return out
	}

	require.NoError(t, svc.Reorder(ctx, []string{c.ID, a.ID, b.ID}))
	assert.Equal(t, []string{"C", "A", "B"}, names())

	_, err := svc.MovePosition(ctx, b.ID, DirectionUp)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, names())

	// boundaries are no-ops
	_, err = svc.MovePosition(ctx, c.ID, DirectionUp)
	require.NoError(t, err)
	_, err = svc.MovePosition(ctx, a.ID, DirectionDown)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, names())

	_, err = svc.MovePosition(ctx, "missing", DirectionUp)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = svc.MovePosition(ctx, a.ID, "sideways")
	assert.ErrorIs(t, err, model.ErrValidation)

	assert.ErrorIs(t, svc.Reorder(ctx, nil), model.ErrValidation)
	assert.ErrorIs(t, svc.Reorder(ctx, []string{a.ID, a.ID}), model.ErrValidation)
	assert.ErrorIs(t, svc.Reorder(ctx, []string{a.ID, "missing"}), model.ErrNotFound)
}

func TestCategoryService_Rates(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)
	ctx := context.Background()

	packing := mustCreateCategory(t, svc, "포장")

	rate, err := svc.AddRate(ctx, packing.ID, RateInput{Name: "망담기", DefaultPrice: 500, Unit: "개"})
	require.NoError(t, err)
	assert.NotEmpty(t, rate.ID)

	reloaded, err := svc.Get(ctx, packing.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Rates, 1)
	assert.Equal(t, rate.ID, reloaded.Rates[0].ID)
	assert.Equal(t, "망담기", reloaded.Rates[0].Name)
	assert.Equal(t, int64(500), reloaded.Rates[0].DefaultPrice)
	assert.Equal(t, "개", reloaded.Rates[0].Unit)

	price := int64(650)
	updated, err := svc.UpdateRate(ctx, packing.ID, rate.ID, model.RatePatch{DefaultPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(650), updated.DefaultPrice)
	assert.Equal(t, "망담기", updated.Name)

	_, err = svc.UpdateRate(ctx, packing.ID, "missing", model.RatePatch{DefaultPrice: &price})
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = svc.AddRate(ctx, "missing", RateInput{Name: "x"})
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = svc.AddRate(ctx, packing.ID, RateInput{Name: "x", DefaultPrice: -1})
	assert.ErrorIs(t, err, model.ErrValidation)

	require.NoError(t, svc.RemoveRate(ctx, packing.ID, "missing"))
	require.NoError(t, svc.RemoveRate(ctx, packing.ID, rate.ID))

	reloaded, err = svc.Get(ctx, packing.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Rates)
}
