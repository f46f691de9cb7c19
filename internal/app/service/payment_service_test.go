package service

import (
	"context"
	"testing"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/repository"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	store     docstore.Store
	payments  PaymentService
	schedules ScheduleService
	events    *recordingPublisher
	workerID  string
}

func setupPaymentServiceTest(t *testing.T) *paymentFixture {
	store := setupDocStore(t)
	events := &recordingPublisher{}

	workerID, err := repository.New(store).Workers.Create(context.Background(), &model.Worker{
		Name: "이반장",
		Type: model.ReceiverForeman,
		Bank: &model.BankInfo{BankName: "농협", AccountNumber: "302-0000-0000-00", AccountHolder: "이반장"},
	})
	require.NoError(t, err)

	return &paymentFixture{
		store:     store,
		payments:  NewPaymentService(store, testActor, events),
		schedules: NewScheduleService(store, testActor, nil),
		events:    events,
		workerID:  workerID,
	}
}

func (f *paymentFixture) settle(t *testing.T, scheduleIDs ...string) *model.Payment {
	p, err := f.payments.Create(context.Background(), CreatePaymentInput{
		ReceiverID:  f.workerID,
		ScheduleIDs: scheduleIDs,
		Amount:      300000,
	})
	require.NoError(t, err)
	return p
}

func TestPaymentService_CreateLinksSchedules(t *testing.T) {
	f := setupPaymentServiceTest(t)
	ctx := context.Background()

	s1 := mustCreateSchedule(t, f.schedules, model.WorkPulling)
	s2 := mustCreateSchedule(t, f.schedules, model.WorkPacking)

	p := f.settle(t, s1.ID, s2.ID)
	assert.Equal(t, "이반장", p.ReceiverName)
	assert.Equal(t, model.ReceiverForeman, p.ReceiverType)
	assert.Equal(t, model.PaymentPending, p.Status)
	assert.Equal(t, "manager-1", p.PayerID)
	require.NotNil(t, p.Bank)
	assert.Equal(t, "농협", p.Bank.BankName)
	assert.Equal(t, []string{s1.ID, s2.ID}, p.ScheduleIDs())

	detail, ok := p.DetailFor(s2.ID)
	require.True(t, ok)
	assert.Equal(t, model.WorkPacking, detail.WorkType)
	assert.Equal(t, int64(150000), detail.Amount)

	for _, id := range []string{s1.ID, s2.ID} {
		sc, err := f.schedules.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, sc.PaymentID)
		assert.Equal(t, p.ID, *sc.PaymentID)
		assert.Equal(t, model.SchedulePending, sc.PaymentStatus)
	}
	assert.Equal(t, []string{EventPaymentCreated}, f.events.types())
}

func TestPaymentService_CreateValidation(t *testing.T) {
	f := setupPaymentServiceTest(t)
	ctx := context.Background()

	s1 := mustCreateSchedule(t, f.schedules, model.WorkPulling)

	tests := []struct {
		name  string
		input CreatePaymentInput
	}{
		{name: "no schedules", input: CreatePaymentInput{ReceiverID: f.workerID, Amount: 1000}},
		{name: "zero amount", input: CreatePaymentInput{ReceiverID: f.workerID, ScheduleIDs: []string{s1.ID}}},
		{name: "negative amount", input: CreatePaymentInput{ReceiverID: f.workerID, ScheduleIDs: []string{s1.ID}, Amount: -1}},
		{name: "duplicate schedule", input: CreatePaymentInput{ReceiverID: f.workerID, ScheduleIDs: []string{s1.ID, s1.ID}, Amount: 1000}},
		{name: "bad method", input: CreatePaymentInput{ReceiverID: f.workerID, ScheduleIDs: []string{s1.ID}, Amount: 1000, Method: "coupon"}},
		{name: "no receiver", input: CreatePaymentInput{ScheduleIDs: []string{s1.ID}, Amount: 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.payments.Create(ctx, tt.input)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}

	_, err := f.payments.Create(ctx, CreatePaymentInput{ReceiverID: f.workerID, ScheduleIDs: []string{"missing"}, Amount: 1000})
	assert.ErrorIs(t, err, model.ErrNotFound)

	sc, err := f.schedules.Get(ctx, s1.ID)
	require.NoError(t, err)
	assert.Nil(t, sc.PaymentID)

	payments, err := f.payments.List(ctx, PaymentFilter{})
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestPaymentService_RejectsAlreadySettledSchedule(t *testing.T) {
	f := setupPaymentServiceTest(t)
	ctx := context.Background()

	s1 := mustCreateSchedule(t, f.schedules, model.WorkPulling)
	s2 := mustCreateSchedule(t, f.schedules, model.WorkPulling)
	first := f.settle(t, s1.ID)

	_, err := f.payments.Create(ctx, CreatePaymentInput{ReceiverID: f.workerID, ScheduleIDs: []string{s2.ID, s1.ID}, Amount: 1000})
	assert.ErrorIs(t, err, model.ErrValidation)

	sc2, err := f.schedules.Get(ctx, s2.ID)
	require.NoError(t, err)
	assert.Nil(t, sc2.PaymentID, "failed settlement must not link any schedule")

	sc1, err := f.schedules.Get(ctx, s1.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, *sc1.PaymentID)
}

func TestPaymentService_DeleteClearsBackLinks(t *testing.T) {
	f := setupPaymentServiceTest(t)
	ctx := context.Background()

	s1 := mustCreateSchedule(t, f.schedules, model.WorkPulling)
	s2 := mustCreateSchedule(t, f.schedules, model.WorkTransport)
	p := f.settle(t, s1.ID, s2.ID)

	require.NoError(t, f.payments.Delete(ctx, p.ID))

	for _, id := range []string{s1.ID, s2.ID} {
		sc, err := f.schedules.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, sc.PaymentID)
		assert.Equal(t, model.ScheduleUnpaid, sc.PaymentStatus)
	}
	_, err := f.payments.Get(ctx, p.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, f.payments.Delete(ctx, p.ID), model.ErrNotFound)

	// schedules can be settled again
	f.settle(t, s1.ID, s2.ID)
}

func TestPaymentService_DeleteRollsBackOnFailure(t *testing.T) {
	f := setupPaymentServiceTest(t)
	ctx := context.Background()

	s1 := mustCreateSchedule(t, f.schedules, model.WorkPulling)
	p := f.settle(t, s1.ID)

	failing := NewPaymentService(&faultyStore{Store: f.store, failRemove: true}, testActor, nil)
	assert.ErrorIs(t, failing.Delete(ctx, p.ID), model.ErrStore)

	sc, err := f.schedules.Get(ctx, s1.ID)
	require.NoError(t, err)
	require.NotNil(t, sc.PaymentID)
	assert.Equal(t, p.ID, *sc.PaymentID)
}

func TestPaymentService_UpdateStatus(t *testing.T) {
	f := setupPaymentServiceTest(t)
	ctx := context.Background()

	s1 := mustCreateSchedule(t, f.schedules, model.WorkPulling)
	p := f.settle(t, s1.ID)

	updated, err := f.payments.UpdateStatus(ctx, p.ID, model.PaymentProcessing)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentProcessing, updated.Status)

	_, err = f.payments.UpdateStatus(ctx, p.ID, model.PaymentPending)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = f.payments.UpdateStatus(ctx, p.ID, model.PaymentCompleted)
	require.NoError(t, err)

	sc, err := f.schedules.Get(ctx, s1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SchedulePaid, sc.PaymentStatus)

	completed, err := f.payments.List(ctx, PaymentFilter{Status: model.PaymentCompleted})
	require.NoError(t, err)
	assert.Len(t, completed, 1)

	withReceipt, err := f.payments.AttachReceipt(ctx, p.ID, "https://cdn.example.com/receipts/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/receipts/a.jpg", withReceipt.ReceiptRef)
}

func TestScheduleService_DeleteRefusesSettledSchedule(t *testing.T) {
	f := setupPaymentServiceTest(t)
	s1 := mustCreateSchedule(t, f.schedules, model.WorkPulling)
	f.settle(t, s1.ID)

	assert.ErrorIs(t, f.schedules.Delete(context.Background(), s1.ID), model.ErrValidation)
}
