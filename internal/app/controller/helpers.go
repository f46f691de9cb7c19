package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	apperrors "github.com/park1112/next-snp-management-sub002/internal/errors"
	"github.com/park1112/next-snp-management-sub002/internal/middleware"
)

// bindJSON decodes the body and answers 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return false
	}
	return true
}

// respondError logs the failure at a level matching its kind and writes the
// mapped error envelope.
func respondError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)
	info := apperrors.ParseError(err, context)
	fields := map[string]interface{}{
		"context": context,
		"code":    info.Code,
	}
	if info.Status >= 500 {
		log.Error("Request failed", err, fields)
	} else {
		fields["error"] = err.Error()
		log.Warn("Request rejected", fields)
	}
	apperrors.Respond(c, err, context)
}

// ListResponse 목록 응답 공통 구조
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func listOf[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}

// parseLineRef reads {kind, installment} from a request.
func parseLineRef(kind string, installment int) (model.LineRef, error) {
	switch model.LineKind(kind) {
	case model.LineDown, model.LineFinal:
		return model.LineRef{Kind: model.LineKind(kind)}, nil
	case model.LineIntermediate:
		if installment <= 0 {
			return model.LineRef{}, model.NewValidationError("installment", "중도금 회차를 입력해주세요")
		}
		return model.LineRef{Kind: model.LineIntermediate, Installment: installment}, nil
	}
	return model.LineRef{}, model.NewValidationError("kind", "지급 항목 구분이 올바르지 않습니다")
}
