package controller

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/service"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type SetNextRequest struct {
	NextID *string `json:"nextId"` // null 또는 "" 이면 연결 해제
}

type MoveRequest struct {
	Direction service.Direction `json:"direction" binding:"required"`
}

type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// List GET /api/v1/categories
func (ctrl *CategoryController) List(c *gin.Context) {
	categories, err := ctrl.categoryService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, listOf(categories))
}

// Get GET /api/v1/categories/:id
func (ctrl *CategoryController) Get(c *gin.Context) {
	category, err := ctrl.categoryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// Create POST /api/v1/categories
func (ctrl *CategoryController) Create(c *gin.Context) {
	var req service.CreateCategoryInput
	if !bindJSON(c, &req) {
		return
	}
	category, err := ctrl.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Update PATCH /api/v1/categories/:id
func (ctrl *CategoryController) Update(c *gin.Context) {
	var req service.UpdateCategoryInput
	if !bindJSON(c, &req) {
		return
	}
	category, err := ctrl.categoryService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete DELETE /api/v1/categories/:id
// 이 분류를 다음 단계로 가리키던 분류의 연결도 함께 끊는다.
func (ctrl *CategoryController) Delete(c *gin.Context) {
	if err := ctrl.categoryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

// SetNext PUT /api/v1/categories/:id/next
func (ctrl *CategoryController) SetNext(c *gin.Context) {
	var req SetNextRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := ctrl.categoryService.SetNext(c.Request.Context(), c.Param("id"), req.NextID)
	if err != nil {
		respondError(c, err, "update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// Move POST /api/v1/categories/:id/move
func (ctrl *CategoryController) Move(c *gin.Context) {
	var req MoveRequest
	if !bindJSON(c, &req) {
		return
	}
	categories, err := ctrl.categoryService.MovePosition(c.Request.Context(), c.Param("id"), req.Direction)
	if err != nil {
		respondError(c, err, "update category")
		return
	}
	c.JSON(http.StatusOK, listOf(categories))
}

// Reorder PUT /api/v1/categories/reorder
func (ctrl *CategoryController) Reorder(c *gin.Context) {
	var req ReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := ctrl.categoryService.Reorder(c.Request.Context(), req.IDs); err != nil {
		respondError(c, err, "update category")
		return
	}
	categories, err := ctrl.categoryService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, listOf(categories))
}

// Chain GET /api/v1/categories/:id/chain
func (ctrl *CategoryController) Chain(c *gin.Context) {
	seq, err := ctrl.categoryService.ChainFrom(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, listOf(slices.Collect(seq)))
}

// AddRate POST /api/v1/categories/:id/rates
func (ctrl *CategoryController) AddRate(c *gin.Context) {
	var req service.RateInput
	if !bindJSON(c, &req) {
		return
	}
	rate, err := ctrl.categoryService.AddRate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "create rate")
		return
	}
	c.JSON(http.StatusCreated, rate)
}

// UpdateRate PATCH /api/v1/categories/:id/rates/:rateId
func (ctrl *CategoryController) UpdateRate(c *gin.Context) {
	var req model.RatePatch
	if !bindJSON(c, &req) {
		return
	}
	rate, err := ctrl.categoryService.UpdateRate(c.Request.Context(), c.Param("id"), c.Param("rateId"), req)
	if err != nil {
		respondError(c, err, "update rate")
		return
	}
	c.JSON(http.StatusOK, rate)
}

// RemoveRate DELETE /api/v1/categories/:id/rates/:rateId
func (ctrl *CategoryController) RemoveRate(c *gin.Context) {
	if err := ctrl.categoryService.RemoveRate(c.Request.Context(), c.Param("id"), c.Param("rateId")); err != nil {
		respondError(c, err, "delete rate")
		return
	}
	c.Status(http.StatusNoContent)
}
