package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/service"
)

// DirectoryController 농가 / 농지 / 작업자 관리
type DirectoryController struct {
	directoryService service.DirectoryService
}

func NewDirectoryController(directoryService service.DirectoryService) *DirectoryController {
	return &DirectoryController{directoryService: directoryService}
}

// ListFarmers GET /api/v1/farmers
func (ctrl *DirectoryController) ListFarmers(c *gin.Context) {
	farmers, err := ctrl.directoryService.ListFarmers(c.Request.Context())
	if err != nil {
		respondError(c, err, "farmer")
		return
	}
	c.JSON(http.StatusOK, listOf(farmers))
}

func (ctrl *DirectoryController) GetFarmer(c *gin.Context) {
	farmer, err := ctrl.directoryService.GetFarmer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "farmer")
		return
	}
	c.JSON(http.StatusOK, farmer)
}

func (ctrl *DirectoryController) CreateFarmer(c *gin.Context) {
	var req model.Farmer
	if !bindJSON(c, &req) {
		return
	}
	farmer, err := ctrl.directoryService.CreateFarmer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "create farmer")
		return
	}
	c.JSON(http.StatusCreated, farmer)
}

func (ctrl *DirectoryController) UpdateFarmer(c *gin.Context) {
	var req model.Farmer
	if !bindJSON(c, &req) {
		return
	}
	farmer, err := ctrl.directoryService.UpdateFarmer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "update farmer")
		return
	}
	c.JSON(http.StatusOK, farmer)
}

func (ctrl *DirectoryController) DeleteFarmer(c *gin.Context) {
	if err := ctrl.directoryService.DeleteFarmer(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "delete farmer")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListFields GET /api/v1/fields?farmerId=
func (ctrl *DirectoryController) ListFields(c *gin.Context) {
	fields, err := ctrl.directoryService.ListFields(c.Request.Context(), c.Query("farmerId"))
	if err != nil {
		respondError(c, err, "field")
		return
	}
	c.JSON(http.StatusOK, listOf(fields))
}

func (ctrl *DirectoryController) GetField(c *gin.Context) {
	field, err := ctrl.directoryService.GetField(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "field")
		return
	}
	c.JSON(http.StatusOK, field)
}

func (ctrl *DirectoryController) CreateField(c *gin.Context) {
	var req model.Field
	if !bindJSON(c, &req) {
		return
	}
	field, err := ctrl.directoryService.CreateField(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "create field")
		return
	}
	c.JSON(http.StatusCreated, field)
}

func (ctrl *DirectoryController) UpdateField(c *gin.Context) {
	var req model.Field
	if !bindJSON(c, &req) {
		return
	}
	field, err := ctrl.directoryService.UpdateField(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "update field")
		return
	}
	c.JSON(http.StatusOK, field)
}

func (ctrl *DirectoryController) DeleteField(c *gin.Context) {
	if err := ctrl.directoryService.DeleteField(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "delete field")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListWorkers GET /api/v1/workers?type=foreman|driver
func (ctrl *DirectoryController) ListWorkers(c *gin.Context) {
	workers, err := ctrl.directoryService.ListWorkers(c.Request.Context(), model.ReceiverType(c.Query("type")))
	if err != nil {
		respondError(c, err, "worker")
		return
	}
	c.JSON(http.StatusOK, listOf(workers))
}

func (ctrl *DirectoryController) GetWorker(c *gin.Context) {
	worker, err := ctrl.directoryService.GetWorker(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "worker")
		return
	}
	c.JSON(http.StatusOK, worker)
}

func (ctrl *DirectoryController) CreateWorker(c *gin.Context) {
	var req model.Worker
	if !bindJSON(c, &req) {
		return
	}
	worker, err := ctrl.directoryService.CreateWorker(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "create worker")
		return
	}
	c.JSON(http.StatusCreated, worker)
}

func (ctrl *DirectoryController) UpdateWorker(c *gin.Context) {
	var req model.Worker
	if !bindJSON(c, &req) {
		return
	}
	worker, err := ctrl.directoryService.UpdateWorker(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "update worker")
		return
	}
	c.JSON(http.StatusOK, worker)
}

func (ctrl *DirectoryController) DeleteWorker(c *gin.Context) {
	if err := ctrl.directoryService.DeleteWorker(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "delete worker")
		return
	}
	c.Status(http.StatusNoContent)
}
