package listing

// FilterState is the filter bar of a rule list page. Changing a filter resets
// the page to 1; changing the category also resets the subcategory to "all".
type FilterState struct {
	categoryID    string
	subcategoryID string
	page          int
	pageSize      int
}

func NewFilterState(pageSize int) *FilterState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &FilterState{
		categoryID:    All,
		subcategoryID: All,
		page:          1,
		pageSize:      pageSize,
	}
}

// SetCategory reports whether anything changed. Picking the current category
// again is a no-op.
func (s *FilterState) SetCategory(id string) bool {
	id = normalize(id)
	if id == s.categoryID {
		return false
	}
	s.categoryID = id
	s.subcategoryID = All
	s.page = 1
	return true
}

// SetSubcategory is ignored while the category filter is "all"
func (s *FilterState) SetSubcategory(id string) bool {
	id = normalize(id)
	if s.categoryID == All && id != All {
		return false
	}
	if id == s.subcategoryID {
		return false
	}
	s.subcategoryID = id
	s.page = 1
	return true
}

func (s *FilterState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.page = page
}

func (s *FilterState) SetPageSize(size int) {
	if size <= 0 || size == s.pageSize {
		return
	}
	s.pageSize = size
	s.page = 1
}

// SubcategoryEnabled reports whether the subcategory filter accepts input
func (s *FilterState) SubcategoryEnabled() bool {
	return s.categoryID != All
}

func (s *FilterState) Filter() Filter {
	return Filter{CategoryID: s.categoryID, SubcategoryID: s.subcategoryID}
}

func (s *FilterState) Paging() Paging {
	return Paging{Page: s.page, PageSize: s.pageSize}
}
