package service

import (
	"context"
	"net/http"

	"github.com/sony/gobreaker"
)

type HealthResponse struct {
	Status   int    `json:"status"`
	Upstream string `json:"upstream,omitempty"`
}

type breakerReporter interface {
	BreakerState() gobreaker.State
}

func (s *Service) Health(_ context.Context) *HealthResponse {
	resp := &HealthResponse{
		Status: http.StatusOK,
	}
	if reporter, ok := s.client.(breakerReporter); ok {
		resp.Upstream = reporter.BreakerState().String()
	}

	return resp
}
