package listing

import (
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// RideQuery is the filter of the rides list. Unlike rule lists, rides are
// filtered and paginated by the server, so the query becomes URL parameters.
type RideQuery struct {
	CategoryID    string
	SubcategoryID string
	Status        string
	Search        string
	From          time.Time
	To            time.Time
	Page          int
	Limit         int
}

// Params renders the query string parameters. "all" and empty filters are left out.
func (q RideQuery) Params() map[string]string {
	params := map[string]string{}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	params["page"] = strconv.Itoa(page)
	params["limit"] = strconv.Itoa(limit)

	if c := normalize(q.CategoryID); c != All {
		params["category"] = c
		// A subcategory only narrows a concrete category
		if s := normalize(q.SubcategoryID); s != All {
			params["subCategory"] = s
		}
	}
	if status := strings.TrimSpace(q.Status); status != "" && !strings.EqualFold(status, All) {
		params["status"] = status
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		params["search"] = search
	}
	if !q.From.IsZero() {
		params["startDate"] = q.From.Format(dateLayout)
	}
	if !q.To.IsZero() {
		params["endDate"] = q.To.Format(dateLayout)
	}
	return params
}
