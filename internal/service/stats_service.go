package service

import (
	"context"
	"fmt"

	"faktura/internal/domain"
	"faktura/internal/port"
)

// StatsService provides aggregate dashboard statistics.
type StatsService interface {
	GetStats(ctx context.Context) (*domain.Stats, error)
}

type statsService struct {
	stats   port.StatsRepository
	clients port.ClientRepository
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(stats port.StatsRepository, clients port.ClientRepository) StatsService {
	return &statsService{stats: stats, clients: clients}
}

func (s *statsService) GetStats(ctx context.Context) (*domain.Stats, error) {
	stats, err := s.stats.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching stats: %w", err)
	}
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting clients: %w", err)
	}
	stats.ClientCount = len(clients)
	return stats, nil
}
