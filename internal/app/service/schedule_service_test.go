package service

import (
	"context"
	"testing"
	"time"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScheduleServiceTest(t *testing.T) (ScheduleService, CategoryService, *recordingPublisher) {
	store := setupDocStore(t)
	events := &recordingPublisher{}
	return NewScheduleService(store, testActor, events), NewCategoryService(store, testActor), events
}

func mustCreateSchedule(t *testing.T, svc ScheduleService, wt model.WorkType) *model.Schedule {
	sc, err := svc.Create(context.Background(), CreateScheduleInput{
		WorkType:  wt,
		FarmerID:  "farmer-1",
		FieldID:   "field-1",
		WorkerID:  "worker-1",
		Scheduled: model.TimeWindow{Start: time.Date(2026, 10, 1, 7, 0, 0, 0, time.UTC)},
		Rate:      model.RateInfo{BaseRate: 150000},
	})
	require.NoError(t, err)
	return sc
}

func TestScheduleService_Create(t *testing.T) {
	svc, _, _ := setupScheduleServiceTest(t)
	ctx := context.Background()

	sc := mustCreateSchedule(t, svc, model.WorkPulling)
	assert.Equal(t, model.StageScheduled, sc.Stage.Current)
	require.Len(t, sc.Stage.History, 1)
	assert.Equal(t, "manager-1", sc.Stage.History[0].By)
	assert.Equal(t, model.ScheduleUnpaid, sc.PaymentStatus)
	assert.Nil(t, sc.PaymentID)

	_, err := svc.Create(ctx, CreateScheduleInput{Scheduled: model.TimeWindow{Start: time.Now()}})
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = svc.Create(ctx, CreateScheduleInput{WorkType: model.WorkPacking})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestScheduleService_CreateResolvesCategoryRate(t *testing.T) {
	svc, categories, _ := setupScheduleServiceTest(t)
	ctx := context.Background()

	packing := mustCreateCategory(t, categories, "포장")
	rate, err := categories.AddRate(ctx, packing.ID, RateInput{Name: "망담기", DefaultPrice: 500, Unit: "개"})
	require.NoError(t, err)

	sc, err := svc.Create(ctx, CreateScheduleInput{
		WorkType:  model.WorkPacking,
		Scheduled: model.TimeWindow{Start: time.Now()},
		Rate:      model.RateInfo{CategoryID: packing.ID, RateID: rate.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(500), sc.Rate.BaseRate)
	assert.Equal(t, "개", sc.Rate.Unit)

	_, err = svc.Create(ctx, CreateScheduleInput{
		WorkType:  model.WorkPacking,
		Scheduled: model.TimeWindow{Start: time.Now()},
		Rate:      model.RateInfo{CategoryID: packing.ID, RateID: "missing"},
	})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestScheduleService_AdvanceStage(t *testing.T) {
	svc, _, events := setupScheduleServiceTest(t)
	ctx := context.Background()

	sc := mustCreateSchedule(t, svc, model.WorkPulling)
	for _, next := range []model.Stage{model.StagePreparing, model.StageInProgress, model.StageCompleted} {
		updated, err := svc.AdvanceStage(ctx, sc.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Stage.Current)
		assert.Equal(t, next, updated.Stage.History[len(updated.Stage.History)-1].Stage)
	}

	reloaded, err := svc.Get(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageCompleted, reloaded.Stage.Current)
	assert.Len(t, reloaded.Stage.History, 4)
	require.NotNil(t, reloaded.Actual)
	assert.NotNil(t, reloaded.Actual.End)

	_, err = svc.AdvanceStage(ctx, sc.ID, model.StageCancelled)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	reloaded, err = svc.Get(ctx, sc.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Stage.History, 4, "rejected transitions leave history untouched")
	assert.Len(t, events.types(), 3)
}

func TestScheduleService_AdvanceStageRejectsSkips(t *testing.T) {
	svc, _, _ := setupScheduleServiceTest(t)
	ctx := context.Background()

	sc := mustCreateSchedule(t, svc, model.WorkTransport)

	_, err := svc.AdvanceStage(ctx, sc.ID, model.StageCompleted)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = svc.AdvanceStage(ctx, sc.ID, model.StagePreparing)
	require.NoError(t, err)
	_, err = svc.AdvanceStage(ctx, sc.ID, model.StageInProgress)
	assert.ErrorIs(t, err, model.ErrInvalidTransition, "transport goes through 운송중")
	_, err = svc.AdvanceStage(ctx, sc.ID, model.StageInTransit)
	require.NoError(t, err)

	cancelled, err := svc.AdvanceStage(ctx, sc.ID, model.StageCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.StageCancelled, cancelled.Stage.Current)

	_, err = svc.AdvanceStage(ctx, "missing", model.StagePreparing)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestScheduleService_CompletionAndSettlements(t *testing.T) {
	svc, _, _ := setupScheduleServiceTest(t)
	ctx := context.Background()

	sc := mustCreateSchedule(t, svc, model.WorkPacking)

	updated, err := svc.RecordCompletionDetails(ctx, sc.ID, CompletionInput{
		Quantity: 2.5,
		Unit:     "톤",
		Extra:    map[string]interface{}{"boxes": 120},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageScheduled, updated.Stage.Current, "stage is not changed")
	require.NotNil(t, updated.Rate.Quantity)
	assert.Equal(t, 2.5, *updated.Rate.Quantity)

	_, err = svc.AddAdditionalSettlement(ctx, sc.ID, AdditionalSettlementInput{Amount: 20000, Reason: "야간 작업"})
	require.NoError(t, err)
	_, err = svc.AddAdditionalSettlement(ctx, sc.ID, AdditionalSettlementInput{Amount: -5000, Reason: "조기 종료"})
	require.NoError(t, err)
	_, err = svc.AddAdditionalSettlement(ctx, sc.ID, AdditionalSettlementInput{Amount: 0})
	assert.ErrorIs(t, err, model.ErrValidation)

	reloaded, err := svc.Get(ctx, sc.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.AdditionalSettlements, 2)
	require.NotNil(t, reloaded.Completion)
	assert.Equal(t, "톤", reloaded.Completion.Unit)
	// 150000 × 2.5 + 20000 - 5000
	assert.Equal(t, int64(390000), reloaded.SettlementTotal())
}

func TestScheduleService_ListAndDelete(t *testing.T) {
	svc, _, _ := setupScheduleServiceTest(t)
	ctx := context.Background()

	pulling := mustCreateSchedule(t, svc, model.WorkPulling)
	mustCreateSchedule(t, svc, model.WorkTransport)
	_, err := svc.AdvanceStage(ctx, pulling.ID, model.StagePreparing)
	require.NoError(t, err)

	all, err := svc.List(ctx, ScheduleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byType, err := svc.List(ctx, ScheduleFilter{WorkType: model.WorkTransport})
	require.NoError(t, err)
	assert.Len(t, byType, 1)

	byStage, err := svc.List(ctx, ScheduleFilter{WorkerID: "worker-1", Stage: model.StagePreparing})
	require.NoError(t, err)
	require.Len(t, byStage, 1)
	assert.Equal(t, pulling.ID, byStage[0].ID)

	notes := "비 예보로 연기"
	updated, err := svc.Update(ctx, pulling.ID, UpdateScheduleInput{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)

	require.NoError(t, svc.Delete(ctx, pulling.ID))
	_, err = svc.Get(ctx, pulling.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
