package model

import (
	"iter"
	"sort"
	"strings"
)

// Rate 카테고리에 속한 단가 항목 (예: 망담기 500원/개)
type Rate struct {
	ID           string `json:"id"`                    // 카테고리 내에서만 고유
	Name         string `json:"name"`                  // 항목명
	Description  string `json:"description,omitempty"` // 설명
	DefaultPrice int64  `json:"defaultPrice"`          // 기본 단가 (원)
	Unit         string `json:"unit"`                  // 단위 (개, 시간, kg ...)
}

// RatePatch updateRate 에 쓰이는 부분 수정 필드. nil 이면 유지.
type RatePatch struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	DefaultPrice *int64  `json:"defaultPrice"`
	Unit         *string `json:"unit"`
}

func (p RatePatch) Apply(r *Rate) {
	if p.Name != nil {
		r.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.DefaultPrice != nil {
		r.DefaultPrice = *p.DefaultPrice
	}
	if p.Unit != nil {
		r.Unit = *p.Unit
	}
}

// Category 작업 단계. NextCategoryID 로 다음 단계를 가리켜 파이프라인을 이룬다.
type Category struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	NextCategoryID *string `json:"nextCategoryId"`
	Rates          []Rate  `json:"rates"`
	Order          *int    `json:"order,omitempty"`
	Audit
}

// FindRate returns the index of the rate with the given id, or -1.
func (c *Category) FindRate(rateID string) int {
	for i := range c.Rates {
		if c.Rates[i].ID == rateID {
			return i
		}
	}
	return -1
}

// SortCategories orders categories by Order; categories without an order go
// last, ties fall back to creation time and then id.
func SortCategories(categories []Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		a, b := categories[i], categories[j]
		switch {
		case a.Order != nil && b.Order == nil:
			return true
		case a.Order == nil && b.Order != nil:
			return false
		case a.Order != nil && b.Order != nil && *a.Order != *b.Order:
			return *a.Order < *b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// NextOrder returns max(order)+1, or 0 when no category carries an order.
func NextOrder(categories []Category) int {
	next := 0
	for _, c := range categories {
		if c.Order != nil && *c.Order+1 > next {
			next = *c.Order + 1
		}
	}
	return next
}

// Chain follows NextCategoryID links from startID. The sequence stops at a
// nil pointer, a broken link, or the first id already visited, so it yields
// at most len(categories) items. Each range over the result starts over.
func Chain(categories map[string]Category, startID string) iter.Seq[Category] {
	return func(yield func(Category) bool) {
		visited := make(map[string]struct{}, len(categories))
		id := startID
		for {
			if _, seen := visited[id]; seen {
				return
			}
			c, ok := categories[id]
			if !ok {
				return
			}
			visited[id] = struct{}{}
			if !yield(c) {
				return
			}
			if c.NextCategoryID == nil || *c.NextCategoryID == "" {
				return
			}
			id = *c.NextCategoryID
		}
	}
}

// IndexCategories keys categories by id.
func IndexCategories(categories []Category) map[string]Category {
	m := make(map[string]Category, len(categories))
	for _, c := range categories {
		m[c.ID] = c
	}
	return m
}
