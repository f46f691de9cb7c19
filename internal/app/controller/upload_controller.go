package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/park1112/next-snp-management-sub002/internal/app/service"
	apperrors "github.com/park1112/next-snp-management-sub002/internal/errors"
	"github.com/park1112/next-snp-management-sub002/internal/middleware"
	"github.com/park1112/next-snp-management-sub002/internal/storage"
)

type UploadController struct {
	files          storage.FileStorage
	paymentService service.PaymentService
}

func NewUploadController(files storage.FileStorage, paymentService service.PaymentService) *UploadController {
	return &UploadController{files: files, paymentService: paymentService}
}

type ReceiptUploadRequest struct {
	PaymentID   string `json:"paymentId" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// ReceiptURL 영수증 업로드용 presigned URL 발급
// POST /api/v1/uploads/receipt
// 업로드가 끝나면 fileUrl 을 PUT /payments/:id/receipt 로 등록한다.
func (ctrl *UploadController) ReceiptURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ReceiptUploadRequest
	if !bindJSON(c, &req) {
		return
	}
	if ctrl.files == nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalConfigError, "파일 저장소가 설정되지 않았습니다")
		return
	}

	// 없는 정산에 대한 업로드 주소는 발급하지 않는다
	if _, err := ctrl.paymentService.Get(c.Request.Context(), req.PaymentID); err != nil {
		respondError(c, err, "payment")
		return
	}

	resp, err := ctrl.files.PresignReceiptUpload(c.Request.Context(), req.PaymentID, req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrContentTypeNotAllowed) {
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "이미지 또는 PDF 파일만 업로드할 수 있습니다")
			return
		}
		log.Error("Failed to presign receipt upload", err, map[string]interface{}{
			"payment_id": req.PaymentID,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "업로드 주소 발급에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, resp)
}
