package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/service"
	apperrors "github.com/park1112/next-snp-management-sub002/internal/errors"
)

type ContractController struct {
	contractService service.ContractService
}

func NewContractController(contractService service.ContractService) *ContractController {
	return &ContractController{contractService: contractService}
}

type SetContractStatusRequest struct {
	Status model.ContractStatus `json:"status" binding:"required"`
}

type LineRefRequest struct {
	Kind        string `json:"kind" binding:"required"` // down, intermediate, final
	Installment int    `json:"installment"`
}

type MarkLinePaidRequest struct {
	LineRefRequest
	PaidDate   *time.Time `json:"paidDate"` // 비우면 오늘
	PaidAmount *int64     `json:"paidAmount"`
	ReceiptRef string     `json:"receiptRef"`
}

type MarkLineScheduledRequest struct {
	LineRefRequest
	DueDate *time.Time `json:"dueDate"`
}

// List GET /api/v1/contracts?farmerId=&status=
func (ctrl *ContractController) List(c *gin.Context) {
	contracts, err := ctrl.contractService.List(c.Request.Context(), service.ContractFilter{
		FarmerID: c.Query("farmerId"),
		Status:   model.ContractStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, err, "contract")
		return
	}
	c.JSON(http.StatusOK, listOf(contracts))
}

// Get GET /api/v1/contracts/:id
func (ctrl *ContractController) Get(c *gin.Context) {
	contract, err := ctrl.contractService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "contract")
		return
	}
	c.JSON(http.StatusOK, contract)
}

// Create POST /api/v1/contracts
func (ctrl *ContractController) Create(c *gin.Context) {
	var req service.CreateContractInput
	if !bindJSON(c, &req) {
		return
	}
	contract, err := ctrl.contractService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "create contract")
		return
	}
	c.JSON(http.StatusCreated, contract)
}

// Update PATCH /api/v1/contracts/:id
func (ctrl *ContractController) Update(c *gin.Context) {
	var req service.UpdateContractInput
	if !bindJSON(c, &req) {
		return
	}
	contract, err := ctrl.contractService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "update contract")
		return
	}
	c.JSON(http.StatusOK, contract)
}

// Delete DELETE /api/v1/contracts/:id
func (ctrl *ContractController) Delete(c *gin.Context) {
	if err := ctrl.contractService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "delete contract")
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary GET /api/v1/contracts/:id/summary
func (ctrl *ContractController) Summary(c *gin.Context) {
	summary, err := ctrl.contractService.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "contract")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SetStatus PUT /api/v1/contracts/:id/status
func (ctrl *ContractController) SetStatus(c *gin.Context) {
	var req SetContractStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	contract, err := ctrl.contractService.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "update contract")
		return
	}
	c.JSON(http.StatusOK, contract)
}

// MarkLinePaid POST /api/v1/contracts/:id/lines/pay
func (ctrl *ContractController) MarkLinePaid(c *gin.Context) {
	var req MarkLinePaidRequest
	if !bindJSON(c, &req) {
		return
	}
	ref, err := parseLineRef(req.Kind, req.Installment)
	if err != nil {
		respondError(c, err, "update contract")
		return
	}
	info := model.PaidInfo{PaidDate: time.Now(), PaidAmount: req.PaidAmount, ReceiptRef: req.ReceiptRef}
	if req.PaidDate != nil {
		info.PaidDate = *req.PaidDate
	}

	contract, err := ctrl.contractService.MarkLinePaid(c.Request.Context(), c.Param("id"), ref, info)
	if err != nil {
		respondError(c, err, "update contract")
		return
	}
	c.JSON(http.StatusOK, contract)
}

// MarkLineScheduled POST /api/v1/contracts/:id/lines/schedule
func (ctrl *ContractController) MarkLineScheduled(c *gin.Context) {
	var req MarkLineScheduledRequest
	if !bindJSON(c, &req) {
		return
	}
	ref, err := parseLineRef(req.Kind, req.Installment)
	if err != nil {
		respondError(c, err, "update contract")
		return
	}
	contract, err := ctrl.contractService.MarkLineScheduled(c.Request.Context(), c.Param("id"), ref, req.DueDate)
	if err != nil {
		respondError(c, err, "update contract")
		return
	}
	c.JSON(http.StatusOK, contract)
}

// Due GET /api/v1/contracts/due?days=7
func (ctrl *ContractController) Due(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "조회 기간이 올바르지 않습니다")
		return
	}
	due, err := ctrl.contractService.DueWithin(c.Request.Context(), time.Now(), time.Duration(days)*24*time.Hour)
	if err != nil {
		respondError(c, err, "contract")
		return
	}
	c.JSON(http.StatusOK, listOf(due))
}
