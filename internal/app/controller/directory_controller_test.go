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

func setupDirectoryControllerTest(t *testing.T) *gin.Engine {
	store := setupTestStore(t)
	ctrl := NewDirectoryController(service.NewDirectoryService(store, identity.ContextProvider{}))
	dashboard := NewDashboardController(service.NewDashboardService(store))

	router := newTestRouter()
	router.GET("/farmers", ctrl.ListFarmers)
	router.POST("/farmers", ctrl.CreateFarmer)
	router.PUT("/farmers/:id", ctrl.UpdateFarmer)
	router.DELETE("/farmers/:id", ctrl.DeleteFarmer)
	router.GET("/fields", ctrl.ListFields)
	router.POST("/fields", ctrl.CreateField)
	router.DELETE("/fields/:id", ctrl.DeleteField)
	router.GET("/workers", ctrl.ListWorkers)
	router.POST("/workers", ctrl.CreateWorker)
	router.GET("/dashboard", dashboard.Counts)
	return router
}

func TestDirectoryController_FarmerWithFields(t *testing.T) {
	router := setupDirectoryControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/farmers", model.Farmer{Name: " 박농부 ", Phone: "010-1234-5678"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	farmer := decode[model.Farmer](t, w)
	assert.Equal(t, "박농부", farmer.Name)
	assert.Equal(t, "42", farmer.CreatedBy)

	w = doJSON(t, router, http.MethodPost, "/fields", model.Field{FarmerID: farmer.ID, Name: "윗밭", AreaPyeong: 1200})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	field := decode[model.Field](t, w)

	w = doJSON(t, router, http.MethodGet, "/fields?farmerId="+farmer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[ListResponse[model.Field]](t, w).Count)

	// 농지가 남아 있으면 농가를 지울 수 없다
	w = doJSON(t, router, http.MethodDelete, "/farmers/"+farmer.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/fields/"+field.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodDelete, "/farmers/"+farmer.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDirectoryController_Validation(t *testing.T) {
	router := setupDirectoryControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/farmers", model.Farmer{Name: "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "name")

	w = doJSON(t, router, http.MethodPost, "/workers", model.Worker{Name: "이기사", Type: "pilot"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, "/farmers/missing", model.Farmer{Name: "없음"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDirectoryController_WorkersAndDashboard(t *testing.T) {
	router := setupDirectoryControllerTest(t)

	for _, worker := range []model.Worker{
		{Name: "김반장", Type: model.ReceiverForeman},
		{Name: "이기사", Type: model.ReceiverDriver, VehicleNumber: "12가3456"},
		{Name: "최기사", Type: model.ReceiverDriver},
	} {
		w := doJSON(t, router, http.MethodPost, "/workers", worker)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doJSON(t, router, http.MethodGet, "/workers?type=driver", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[ListResponse[model.Worker]](t, w).Count)

	w = doJSON(t, router, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	counts := decode[service.DashboardCounts](t, w)
	assert.Equal(t, 3, counts.Workers)
	assert.Equal(t, 0, counts.Farmers)
}
