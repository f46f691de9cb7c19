package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/service"
)

type ScheduleController struct {
	scheduleService service.ScheduleService
}

func NewScheduleController(scheduleService service.ScheduleService) *ScheduleController {
	return &ScheduleController{scheduleService: scheduleService}
}

type AdvanceStageRequest struct {
	Stage model.Stage `json:"stage" binding:"required"`
}

// List GET /api/v1/schedules?workType=&farmerId=&fieldId=&workerId=&paymentStatus=&stage=
func (ctrl *ScheduleController) List(c *gin.Context) {
	filter := service.ScheduleFilter{
		WorkType:      model.WorkType(c.Query("workType")),
		FarmerID:      c.Query("farmerId"),
		FieldID:       c.Query("fieldId"),
		WorkerID:      c.Query("workerId"),
		PaymentStatus: model.SchedulePaymentStatus(c.Query("paymentStatus")),
		Stage:         model.Stage(c.Query("stage")),
	}
	schedules, err := ctrl.scheduleService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "schedule")
		return
	}
	c.JSON(http.StatusOK, listOf(schedules))
}

// Get GET /api/v1/schedules/:id
func (ctrl *ScheduleController) Get(c *gin.Context) {
	schedule, err := ctrl.scheduleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "schedule")
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// Create POST /api/v1/schedules
func (ctrl *ScheduleController) Create(c *gin.Context) {
	var req service.CreateScheduleInput
	if !bindJSON(c, &req) {
		return
	}
	schedule, err := ctrl.scheduleService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "create schedule")
		return
	}
	c.JSON(http.StatusCreated, schedule)
}

// Update PATCH /api/v1/schedules/:id
func (ctrl *ScheduleController) Update(c *gin.Context) {
	var req service.UpdateScheduleInput
	if !bindJSON(c, &req) {
		return
	}
	schedule, err := ctrl.scheduleService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "update schedule")
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// Delete DELETE /api/v1/schedules/:id
func (ctrl *ScheduleController) Delete(c *gin.Context) {
	if err := ctrl.scheduleService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "delete schedule")
		return
	}
	c.Status(http.StatusNoContent)
}

// AdvanceStage POST /api/v1/schedules/:id/stage
func (ctrl *ScheduleController) AdvanceStage(c *gin.Context) {
	var req AdvanceStageRequest
	if !bindJSON(c, &req) {
		return
	}
	schedule, err := ctrl.scheduleService.AdvanceStage(c.Request.Context(), c.Param("id"), req.Stage)
	if err != nil {
		respondError(c, err, "update schedule")
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// RecordCompletion PUT /api/v1/schedules/:id/completion
func (ctrl *ScheduleController) RecordCompletion(c *gin.Context) {
	var req service.CompletionInput
	if !bindJSON(c, &req) {
		return
	}
	schedule, err := ctrl.scheduleService.RecordCompletionDetails(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "update schedule")
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// AddAdditionalSettlement POST /api/v1/schedules/:id/additional-settlements
func (ctrl *ScheduleController) AddAdditionalSettlement(c *gin.Context) {
	var req service.AdditionalSettlementInput
	if !bindJSON(c, &req) {
		return
	}
	schedule, err := ctrl.scheduleService.AddAdditionalSettlement(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "update schedule")
		return
	}
	c.JSON(http.StatusCreated, schedule)
}
