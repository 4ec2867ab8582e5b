package service

import (
	"github.com/vladislavprovich/omnix-dataservice/pkg/collection"
)

type PageRequest struct {
	Page      int
	Limit     int
	UseCursor bool
	Cursor    string
}

// Paginate returns a collection.CursorResult when the request asks for
// cursor paging and a collection.OffsetResult otherwise.
func (s *Service) Paginate(data []collection.Record, req PageRequest) any {
	if req.UseCursor {
		return collection.CursorPage(data, req.Cursor, req.Limit)
	}
	return collection.OffsetPage(data, req.Page, req.Limit)
}
