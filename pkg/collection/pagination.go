package collection

import (
	"slices"
)

const DefaultPageLimit = 20

type CursorResult struct {
	Items       []Record `json:"items"`
	Cursor      string   `json:"cursor,omitempty"`
	HasNextPage bool     `json:"hasNextPage"`
	TotalCount  int      `json:"totalCount"`
}

// CursorPage returns up to limit items following the record whose id equals
// cursor. An empty or unknown cursor starts at the beginning. The returned
// cursor is the id of the last item, set only when more items follow.
func CursorPage(items []Record, cursor string, limit int) CursorResult {
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	start := 0
	if cursor != "" {
		start = slices.IndexFunc(items, func(r Record) bool {
			return recordID(r) == cursor
		}) + 1
	}

	end := min(start+limit, len(items))
	page := slices.Clone(items[start:end])
	if page == nil {
		page = []Record{}
	}

	res := CursorResult{
		Items:       page,
		HasNextPage: start+limit < len(items),
		TotalCount:  len(items),
	}
	if res.HasNextPage && len(page) > 0 {
		res.Cursor = recordID(page[len(page)-1])
	}

	return res
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type OffsetResult struct {
	Items      []Record   `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// OffsetPage returns the 1-based page of items. Pages past the end are empty.
func OffsetPage(items []Record, page, limit int) OffsetResult {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	total := len(items)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	totalPages := (total + limit - 1) / limit

	pageItems := slices.Clone(items[start:end])
	if pageItems == nil {
		pageItems = []Record{}
	}

	return OffsetResult{
		Items: pageItems,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    end < total,
			HasPrev:    page > 1,
		},
	}
}

func recordID(r Record) string {
	return stringify(r["id"])
}
