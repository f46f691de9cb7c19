package controller

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/service"
	"github.com/park1112/next-snp-management-sub002/internal/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PaymentController struct {
	paymentService service.PaymentService
	exportService  service.ExportService
	files          storage.FileStorage // nil 이면 정산서 보관 안 함
}

func NewPaymentController(paymentService service.PaymentService, exportService service.ExportService, files storage.FileStorage) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		exportService:  exportService,
		files:          files,
	}
}

type UpdatePaymentStatusRequest struct {
	Status model.PaymentStatus `json:"status" binding:"required"`
}

type AttachReceiptRequest struct {
	ReceiptRef string `json:"receiptRef" binding:"required"`
}

// List GET /api/v1/payments?receiverId=&status=
func (ctrl *PaymentController) List(c *gin.Context) {
	payments, err := ctrl.paymentService.List(c.Request.Context(), service.PaymentFilter{
		ReceiverID: c.Query("receiverId"),
		Status:     model.PaymentStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, err, "payment")
		return
	}
	c.JSON(http.StatusOK, listOf(payments))
}

// Get GET /api/v1/payments/:id
func (ctrl *PaymentController) Get(c *gin.Context) {
	payment, err := ctrl.paymentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Create POST /api/v1/payments
// 선택한 일정마다 정산 ID 를 연결한다.
func (ctrl *PaymentController) Create(c *gin.Context) {
	var req service.CreatePaymentInput
	if !bindJSON(c, &req) {
		return
	}
	payment, err := ctrl.paymentService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "create payment")
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// UpdateStatus PUT /api/v1/payments/:id/status
func (ctrl *PaymentController) UpdateStatus(c *gin.Context) {
	var req UpdatePaymentStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := ctrl.paymentService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "update payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// AttachReceipt PUT /api/v1/payments/:id/receipt
func (ctrl *PaymentController) AttachReceipt(c *gin.Context) {
	var req AttachReceiptRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := ctrl.paymentService.AttachReceipt(c.Request.Context(), c.Param("id"), req.ReceiptRef)
	if err != nil {
		respondError(c, err, "update payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Delete DELETE /api/v1/payments/:id
// 연결된 일정의 정산 ID 를 지우고 정산 상태를 unpaid 로 되돌린다.
func (ctrl *PaymentController) Delete(c *gin.Context) {
	if err := ctrl.paymentService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "delete payment")
		return
	}
	c.Status(http.StatusNoContent)
}

// Statement GET /api/v1/payments/:id/statement[?archive=true]
func (ctrl *PaymentController) Statement(c *gin.Context) {
	file, err := ctrl.exportService.PaymentStatement(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "payment")
		return
	}

	if c.Query("archive") == "true" && ctrl.files != nil {
		fileURL, err := ctrl.files.PutStatement(c.Request.Context(), file.Name, file.Data)
		if err != nil {
			respondError(c, err, "create statement")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"name": file.Name, "fileUrl": fileURL})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(file.Name)))
	c.Data(http.StatusOK, xlsxContentType, file.Data)
}
