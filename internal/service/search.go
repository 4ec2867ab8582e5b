package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/vladislavprovich/omnix-dataservice/pkg/collection"
)

var defaultSearchFields = map[string][]string{
	"products":  {"name", "sku", "description", "supplier", "category"},
	"customers": {"name", "email", "phone"},
	"orders":    {"orderNumber", "customerName", "status"},
}

type searchIndex struct {
	index collection.SearchIndex
	// data is the snapshot the index was built from.
	data []collection.Record
}

// InitializeSearchIndex builds and stores the search index of entity over
// data. Without explicit fields the entity defaults are used.
func (s *Service) InitializeSearchIndex(entity string, data []collection.Record, fields []string) error {
	if len(fields) == 0 {
		fields = defaultSearchFields[strings.ToLower(entity)]
	}
	if len(fields) == 0 {
		s.logger.Warn("no search fields configured", slog.String("entity", entity))
		return fmt.Errorf("%w for %s", ErrNoSearchFields, entity)
	}

	idx := collection.BuildSearchIndex(data, fields)

	s.indexMu.Lock()
	s.indexes[entity] = &searchIndex{index: idx, data: data}
	s.indexMu.Unlock()

	s.logger.Info("search index created",
		slog.String("entity", entity),
		slog.Int("items", len(data)),
		slog.Int("ngrams", len(idx)),
	)

	return nil
}

// Search queries the index of entity. Without an index it falls back to a
// case-insensitive substring match over each record's JSON form.
func (s *Service) Search(entity string, data []collection.Record, query string, minScore float64) []collection.Record {
	if minScore <= 0 {
		minScore = s.cfg.SearchMinScore
	}

	s.indexMu.RLock()
	entry, ok := s.indexes[entity]
	s.indexMu.RUnlock()

	if !ok {
		s.logger.Warn("no search index found", slog.String("entity", entity))
		return substringSearch(data, query)
	}

	return collection.Search(data, entry.index, query, minScore)
}

func (s *Service) ApplyFilters(data []collection.Record, filters map[string]any) []collection.Record {
	return collection.Filter(data, filters)
}

func (s *Service) ApplySort(data []collection.Record, sortBy string, order collection.SortOrder) []collection.Record {
	return collection.Sort(data, sortBy, order)
}

// ensureIndex rebuilds the index of entity when data is not the snapshot it
// was built from.
func (s *Service) ensureIndex(entity string, data []collection.Record) error {
	s.indexMu.RLock()
	entry, ok := s.indexes[entity]
	s.indexMu.RUnlock()

	if ok && sameSnapshot(entry.data, data) {
		return nil
	}
	return s.InitializeSearchIndex(entity, data, nil)
}

func sameSnapshot(a, b []collection.Record) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

func substringSearch(data []collection.Record, query string) []collection.Record {
	needle := strings.ToLower(query)
	return slices.DeleteFunc(slices.Clone(data), func(item collection.Record) bool {
		raw, err := json.Marshal(item)
		if err != nil {
			return true
		}
		return !strings.Contains(strings.ToLower(string(raw)), needle)
	})
}
