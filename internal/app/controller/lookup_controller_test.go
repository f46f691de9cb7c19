package controller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/service"
	"github.com/park1112/next-snp-management-sub002/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLookupControllerTest(t *testing.T) *gin.Engine {
	store := setupTestStore(t)
	ctrl := NewLookupController(
		service.NewLookupService(store, identity.ContextProvider{}),
		service.NewLookupCache(store, nil),
	)

	router := newTestRouter()
	router.GET("/lookups", ctrl.Snapshot)
	router.POST("/lookups/refresh", ctrl.Refresh)
	router.GET("/crop-types", ctrl.List(model.LookupCropType))
	router.POST("/crop-types", ctrl.Create(model.LookupCropType))
	router.PUT("/crop-types/:id", ctrl.Update(model.LookupCropType))
	router.DELETE("/crop-types/:id", ctrl.Delete(model.LookupCropType))
	router.POST("/payment-groups", ctrl.Create(model.LookupPaymentGroup))
	return router
}

func TestLookupController_CRUD(t *testing.T) {
	router := setupLookupControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/crop-types", service.LookupInput{Name: "대파"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	crop := decode[model.Lookup](t, w)

	w = doJSON(t, router, http.MethodPut, "/crop-types/"+crop.ID, service.LookupInput{Name: "쪽파"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "쪽파", decode[model.Lookup](t, w).Name)

	w = doJSON(t, router, http.MethodPost, "/crop-types", service.LookupInput{Name: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/crop-types/"+crop.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodGet, "/crop-types", nil)
	assert.Equal(t, 0, decode[ListResponse[model.Lookup]](t, w).Count)
}

func TestLookupController_SnapshotOnlyChangesOnRefresh(t *testing.T) {
	router := setupLookupControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/payment-groups", service.LookupInput{Name: "1조"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/lookups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[service.LookupSnapshot](t, w).PaymentGroups)

	w = doJSON(t, router, http.MethodPost, "/lookups/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	refreshed := decode[service.LookupSnapshot](t, w)
	require.Len(t, refreshed.PaymentGroups, 1)
	assert.Equal(t, "1조", refreshed.PaymentGroups[0].Name)

	w = doJSON(t, router, http.MethodGet, "/lookups", nil)
	assert.Len(t, decode[service.LookupSnapshot](t, w).PaymentGroups, 1)
}
