package service

import (
	"context"
	"fmt"
	"strings"

	"cor_dashboard/internal/models"
	"cor_dashboard/internal/repository"
	"cor_dashboard/internal/swimlane"
)

type SystemService struct {
	systems repository.SystemRepo
}

func NewSystemService(systems repository.SystemRepo) *SystemService {
	return &SystemService{systems: systems}
}

func (s *SystemService) List(ctx context.Context) ([]models.System, error) {
	return s.systems.List(ctx)
}

// ByRegion groups systems in region display order. A non-empty query keeps
// only serial numbers containing it (case-insensitive). Empty regions and
// systems outside the known regions are left out.
func (s *SystemService) ByRegion(ctx context.Context, query string) ([]models.SystemsByRegion, error) {
	all, err := s.systems.List(ctx)
	if err != nil {
		return nil, err
	}
	return groupByRegion(filterBySerial(all, query)), nil
}

func filterBySerial(systems []models.System, query string) []models.System {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return systems
	}
	out := make([]models.System, 0, len(systems))
	for _, sys := range systems {
		if strings.Contains(strings.ToLower(sys.SerialNumber), q) {
			out = append(out, sys)
		}
	}
	return out
}

func groupByRegion(systems []models.System) []models.SystemsByRegion {
	grouped := make(map[models.Region][]models.System, len(models.Regions))
	for _, sys := range systems {
		grouped[sys.Region] = append(grouped[sys.Region], sys)
	}

	out := make([]models.SystemsByRegion, 0, len(models.Regions))
	for _, r := range models.Regions {
		if len(grouped[r]) == 0 {
			continue
		}
		out = append(out, models.SystemsByRegion{Region: r, Systems: grouped[r]})
	}
	return out
}

func (s *SystemService) Get(ctx context.Context, serial string) (models.System, error) {
	sys, err := s.systems.Get(ctx, serial)
	if err != nil {
		return models.System{}, err
	}
	if sys == nil {
		return models.System{}, fmt.Errorf("%w: %s", ErrSystemNotFound, serial)
	}
	return *sys, nil
}

// SwimLanes returns the lane layout of a system.
func (s *SystemService) SwimLanes(ctx context.Context, serial string) ([]models.SwimLaneConfig, error) {
	sys, err := s.Get(ctx, serial)
	if err != nil {
		return nil, err
	}
	topo, err := swimlane.NewTopology(sys.ModuleConfiguration)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTopology, serial, err)
	}
	return swimlane.BuildSwimLanes(topo), nil
}
