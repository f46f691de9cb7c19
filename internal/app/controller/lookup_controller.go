package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/service"
)

// LookupController 지급 그룹 / 작물 종류 / 작업 종류. 종류마다 같은 핸들러를
// kind 만 바꿔 등록한다.
type LookupController struct {
	lookupService service.LookupService
	cache         *service.LookupCache
}

func NewLookupController(lookupService service.LookupService, cache *service.LookupCache) *LookupController {
	return &LookupController{lookupService: lookupService, cache: cache}
}

func (ctrl *LookupController) List(kind model.LookupKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := ctrl.lookupService.List(c.Request.Context(), kind)
		if err != nil {
			respondError(c, err, string(kind))
			return
		}
		c.JSON(http.StatusOK, listOf(items))
	}
}

func (ctrl *LookupController) Get(kind model.LookupKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := ctrl.lookupService.Get(c.Request.Context(), kind, c.Param("id"))
		if err != nil {
			respondError(c, err, string(kind))
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func (ctrl *LookupController) Create(kind model.LookupKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.LookupInput
		if !bindJSON(c, &req) {
			return
		}
		item, err := ctrl.lookupService.Create(c.Request.Context(), kind, req)
		if err != nil {
			respondError(c, err, "create "+string(kind))
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func (ctrl *LookupController) Update(kind model.LookupKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.LookupInput
		if !bindJSON(c, &req) {
			return
		}
		item, err := ctrl.lookupService.Update(c.Request.Context(), kind, c.Param("id"), req)
		if err != nil {
			respondError(c, err, "update "+string(kind))
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func (ctrl *LookupController) Delete(kind model.LookupKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ctrl.lookupService.Delete(c.Request.Context(), kind, c.Param("id")); err != nil {
			respondError(c, err, "delete "+string(kind))
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// Snapshot GET /api/v1/lookups
func (ctrl *LookupController) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.cache.Snapshot())
}

// Refresh POST /api/v1/lookups/refresh
func (ctrl *LookupController) Refresh(c *gin.Context) {
	snapshot, err := ctrl.cache.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err, "lookup")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
