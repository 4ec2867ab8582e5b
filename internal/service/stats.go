package service

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
)

type IndexStats struct {
	Entity string `json:"entity"`
	Size   int    `json:"size"`
}

type CacheStats struct {
	Query         cache.Stats  `json:"query"`
	SearchIndexes []IndexStats `json:"searchIndexes"`
}

type CachePerformance struct {
	HitRate    float64 `json:"hitRate"`
	Size       int     `json:"size"`
	MaxSize    int     `json:"maxSize"`
	Efficiency string  `json:"efficiency"`
}

type PerformanceMetrics struct {
	Cache            CachePerformance `json:"cache"`
	SearchIndexes    int              `json:"searchIndexes"`
	OptimizedQueries int              `json:"optimizedQueries"`
	Status           string           `json:"status"`
}

func (s *Service) CacheStats() CacheStats {
	s.indexMu.RLock()
	indexes := make([]IndexStats, 0, len(s.indexes))
	for entity, entry := range s.indexes {
		indexes = append(indexes, IndexStats{Entity: entity, Size: len(entry.index)})
	}
	s.indexMu.RUnlock()

	slices.SortFunc(indexes, func(a, b IndexStats) int {
		return cmp.Compare(a.Entity, b.Entity)
	})

	return CacheStats{
		Query:         s.cache.Stats(),
		SearchIndexes: indexes,
	}
}

// ClearCaches drops every cached result and search index.
func (s *Service) ClearCaches() {
	s.cache.Clear()

	s.indexMu.Lock()
	clear(s.indexes)
	s.indexMu.Unlock()

	s.logger.Info("all caches cleared")
}

func (s *Service) InvalidateCache(pattern cache.Pattern) int {
	removed := s.cache.Invalidate(pattern)
	s.logger.Info("cache invalidated", slog.Int("removed", removed))
	return removed
}

func (s *Service) PerformanceMetrics() PerformanceMetrics {
	stats := s.cache.Stats()

	s.indexMu.RLock()
	indexes := len(s.indexes)
	s.indexMu.RUnlock()

	return PerformanceMetrics{
		Cache: CachePerformance{
			HitRate:    stats.HitRate,
			Size:       stats.Size,
			MaxSize:    stats.MaxSize,
			Efficiency: efficiency(stats.HitRate),
		},
		SearchIndexes:    indexes,
		OptimizedQueries: len(s.queries),
		Status:           "ready",
	}
}

func efficiency(hitRate float64) string {
	switch {
	case hitRate > 70:
		return "excellent"
	case hitRate > 50:
		return "good"
	default:
		return "poor"
	}
}
