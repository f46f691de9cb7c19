package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/db"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDocumentTest(t *testing.T) *Repositories {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return New(docstore.NewGormStore(testDB))
}

func TestDocumentRepository_RoundTrip(t *testing.T) {
	repos := setupDocumentTest(t)
	ctx := context.Background()

	farmer := &model.Farmer{
		Name:  "김농부",
		Phone: "010-1111-2222",
		Bank:  &model.BankInfo{BankName: "농협", AccountNumber: "123-45", AccountHolder: "김농부"},
	}
	id, err := repos.Farmers.Create(ctx, farmer)
	require.NoError(t, err)

	got, err := repos.Farmers.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "김농부", got.Name)
	require.NotNil(t, got.Bank)
	assert.Equal(t, "농협", got.Bank.BankName)

	all, err := repos.Farmers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDocumentRepository_SaveClearsOmittedFields(t *testing.T) {
	repos := setupDocumentTest(t)
	ctx := context.Background()

	farmer := &model.Farmer{Name: "박농부", Bank: &model.BankInfo{BankName: "국민"}}
	id, err := repos.Farmers.Create(ctx, farmer)
	require.NoError(t, err)

	farmer.Bank = nil
	require.NoError(t, repos.Farmers.Save(ctx, id, farmer))

	got, err := repos.Farmers.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.Bank)
}

func TestDocumentRepository_NotFound(t *testing.T) {
	repos := setupDocumentTest(t)
	ctx := context.Background()

	_, err := repos.Contracts.Get(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	var nf *model.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "contract", nf.Entity)
	assert.Equal(t, "missing", nf.ID)

	assert.ErrorIs(t, repos.Contracts.Patch(ctx, "missing", docstore.Fields{"status": "active"}), model.ErrNotFound)
	assert.ErrorIs(t, repos.Contracts.Delete(ctx, "missing"), model.ErrNotFound)
}

func TestDocumentRepository_Where(t *testing.T) {
	repos := setupDocumentTest(t)
	ctx := context.Background()

	for _, wt := range []model.WorkType{model.WorkPulling, model.WorkTransport, model.WorkPulling} {
		_, err := repos.Schedules.Create(ctx, &model.Schedule{WorkType: wt, PaymentStatus: model.ScheduleUnpaid})
		require.NoError(t, err)
	}

	found, err := repos.Schedules.Where(ctx, "workType", string(model.WorkPulling))
	require.NoError(t, err)
	assert.Len(t, found, 2)
	for _, s := range found {
		assert.Equal(t, model.WorkPulling, s.WorkType)
		assert.Nil(t, s.PaymentID)
	}
}

type failingStore struct {
	docstore.Store
}

func (failingStore) GetAll(context.Context, string) ([]docstore.Document, error) {
	return nil, errors.New("connection reset")
}

func TestDocumentRepository_StoreError(t *testing.T) {
	repos := New(failingStore{})

	_, err := repos.Categories.List(context.Background())
	assert.ErrorIs(t, err, model.ErrStore)

	var se *model.StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "getAll categories", se.Op)
}

func TestRepositories_Lookup(t *testing.T) {
	repos := setupDocumentTest(t)

	for _, kind := range []model.LookupKind{model.LookupPaymentGroup, model.LookupCropType, model.LookupWorkType} {
		r, ok := repos.Lookup(kind)
		assert.True(t, ok)
		assert.NotNil(t, r)
	}
	_, ok := repos.Lookup("unknown")
	assert.False(t, ok)
}
