package service

import (
	"context"

	"cor_dashboard/internal/models"
	"cor_dashboard/internal/repository"
)

type ReferenceService struct {
	systems   repository.SystemRepo
	reference repository.ReferenceRepo
}

func NewReferenceService(systems repository.SystemRepo, reference repository.ReferenceRepo) *ReferenceService {
	return &ReferenceService{systems: systems, reference: reference}
}

// ReferenceData returns the assay catalogue, the event legend and one
// customer entry per atlas key, derived from the registered systems.
func (s *ReferenceService) ReferenceData(ctx context.Context) (models.ReferenceData, error) {
	assays, err := s.reference.Assays(ctx)
	if err != nil {
		return models.ReferenceData{}, err
	}
	eventTypes, err := s.reference.EventTypes(ctx)
	if err != nil {
		return models.ReferenceData{}, err
	}
	systems, err := s.systems.List(ctx)
	if err != nil {
		return models.ReferenceData{}, err
	}

	seen := make(map[string]struct{}, len(systems))
	customers := make([]models.CustomerInfo, 0, len(systems))
	for _, sys := range systems {
		if _, ok := seen[sys.AtlasKey]; ok {
			continue
		}
		seen[sys.AtlasKey] = struct{}{}
		customers = append(customers, models.CustomerInfo{
			AtlasKey:     sys.AtlasKey,
			CustomerName: sys.CustomerName,
			Region:       sys.Region,
			SiteTimezone: sys.SiteTimezone,
		})
	}

	return models.ReferenceData{Assays: assays, EventTypes: eventTypes, Customers: customers}, nil
}
