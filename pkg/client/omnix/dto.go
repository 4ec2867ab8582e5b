package omnix

type (
	// Pagination is the page block of list responses. Older endpoints send
	// currentPage instead of page.
	Pagination struct {
		Page        int  `json:"page,omitempty"`
		CurrentPage int  `json:"currentPage,omitempty"`
		Limit       int  `json:"limit,omitempty"`
		Total       int  `json:"total,omitempty"`
		TotalPages  int  `json:"totalPages"`
		HasNext     bool `json:"hasNext,omitempty"`
		HasPrev     bool `json:"hasPrev,omitempty"`
	}

	ListResponse struct {
		Message    string           `json:"message,omitempty"`
		Data       []map[string]any `json:"data"`
		Total      int              `json:"total"`
		Pagination *Pagination      `json:"pagination,omitempty"`
	}

	ItemResponse struct {
		Message string         `json:"message,omitempty"`
		Data    map[string]any `json:"data"`
	}
)

// PageInfo returns the current page and page count, or zeros for
// unpaginated responses.
func (r ListResponse) PageInfo() (int, int) {
	if r.Pagination == nil {
		return 0, 0
	}

	page := r.Pagination.Page
	if page == 0 {
		page = r.Pagination.CurrentPage
	}
	return page, r.Pagination.TotalPages
}

type APIError struct {
	Code       string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}
