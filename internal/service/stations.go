package service

import (
	"context"

	"github.com/google/uuid"

	"comanda/internal/domain"
	"comanda/internal/logger"
	"comanda/internal/repository"
)

type StationServiceInterface interface {
	CreateStation(ctx context.Context, tenant uuid.UUID, req domain.CreateStationRequest) (domain.Station, error)
	ListStations(ctx context.Context, tenant uuid.UUID) ([]domain.Station, error)
	DeleteStation(ctx context.Context, tenant, id uuid.UUID) error
}

type StationService struct {
	repo repository.Stations
	lg   *logger.Logger
}

func NewStationService(repo repository.Stations, lg *logger.Logger) *StationService {
	return &StationService{repo: repo, lg: lg}
}

func (s *StationService) CreateStation(ctx context.Context, tenant uuid.UUID, req domain.CreateStationRequest) (domain.Station, error) {
	if req.Name == "" {
		return domain.Station{}, validationf("station name is required")
	}
	st := domain.Station{TenantID: tenant, Name: req.Name, Color: req.Color}
	if err := s.repo.Create(ctx, &st); err != nil {
		return domain.Station{}, err
	}
	s.lg.Info("station_created", map[string]any{"station_id": st.ID.String(), "name": st.Name})
	return st, nil
}

func (s *StationService) ListStations(ctx context.Context, tenant uuid.UUID) ([]domain.Station, error) {
	return s.repo.List(ctx, tenant)
}

// DeleteStation unassigns the station from menu items; historical order
// lines are left untouched.
func (s *StationService) DeleteStation(ctx context.Context, tenant, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, tenant, id); err != nil {
		return err
	}
	s.lg.Info("station_deleted", map[string]any{"station_id": id.String()})
	return nil
}
