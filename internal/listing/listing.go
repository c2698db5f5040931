// Package listing filters an already fetched rule list by category and
// subcategory and slices it into pages. Nothing here talks to the server;
// see RideQuery for the rides list, which is filtered server side.
package listing

import (
	"fmt"
	"strings"

	"rideadmin/pricing/internal/domain"
)

// All disables a filter level
const All = "all"

// DefaultPageSize is used when a caller passes a non-positive page size
const DefaultPageSize = 10

// Classified is any record that can be filtered by the hierarchy
type Classified interface {
	CategoryID() string
	SubcategoryID() string
}

type Filter struct {
	CategoryID    string `json:"category"`
	SubcategoryID string `json:"sub_category"`
}

type Paging struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Page is one page of a filtered list plus the numbers for the
// "showing X-Y of Z" summary. StartRecord and EndRecord are 1-based and 0
// when the filtered list is empty.
type Page[T any] struct {
	Items       []T `json:"items"`
	Page        int `json:"page"`
	PageSize    int `json:"page_size"`
	TotalPages  int `json:"total_pages"`
	Total       int `json:"total"`
	StartRecord int `json:"start_record"`
	EndRecord   int `json:"end_record"`
}

func (p Page[T]) Summary() string {
	return fmt.Sprintf("Showing %d-%d of %d", p.StartRecord, p.EndRecord, p.Total)
}

// Apply filters items and returns the requested page. Out of range pages are
// clamped into [1, TotalPages].
func Apply[T Classified](items []T, f Filter, p Paging) Page[T] {
	filtered := Match(items, f)

	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	total := len(filtered)
	totalPages := (total + size - 1) / size

	page := p.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	end := min(page*size, total)

	result := Page[T]{
		Items:      make([]T, 0, max(end-start, 0)),
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		Total:      total,
	}
	if start < end {
		result.Items = append(result.Items, filtered[start:end]...)
		result.StartRecord = start + 1
		result.EndRecord = end
	}
	return result
}

// Match applies the category and subcategory equality filters
func Match[T Classified](items []T, f Filter) []T {
	category := normalize(f.CategoryID)
	subcategory := normalize(f.SubcategoryID)

	result := make([]T, 0, len(items))
	for _, item := range items {
		if category != All && item.CategoryID() != category {
			continue
		}
		if subcategory != All && item.SubcategoryID() != subcategory {
			continue
		}
		result = append(result, item)
	}
	return result
}

// SubcategoryOptions lists the subcategory filter choices for a category
// filter. It is empty while the category filter is "all".
func SubcategoryOptions(catalog *domain.Catalog, categoryFilter string) []domain.Option {
	category := normalize(categoryFilter)
	if category == All {
		return []domain.Option{}
	}
	return domain.Options(catalog.SubcategoriesOf(category))
}

func normalize(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.EqualFold(id, All) {
		return All
	}
	return id
}
