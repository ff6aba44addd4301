package service

import (
	"context"
	"time"

	"cor_dashboard/internal/models"
	"cor_dashboard/internal/repository"
)

// unknownSiteTimezone is reported for serial numbers with no registered system.
const unknownSiteTimezone = "UTC"

type EventService struct {
	systems repository.SystemRepo
	events  repository.EventRepo
}

func NewEventService(systems repository.SystemRepo, events repository.EventRepo) *EventService {
	return &EventService{systems: systems, events: events}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeRange converts the bounds to UTC and validates their order.
func normalizeRange(from, to time.Time) (time.Time, time.Time, error) {
	from = normalizeToUTC(from)
	to = normalizeToUTC(to)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, ErrInvalidTimeRange
	}
	return from, to, nil
}

// SystemEvents returns every configured module of the system with its events
// in the range, followed by a System module when system-level events exist.
// An unknown serial yields an empty response rather than an error.
func (s *EventService) SystemEvents(ctx context.Context, req models.SystemEventsRequest) (models.SystemEventsResponse, error) {
	from, to, err := normalizeRange(req.StartDate, req.EndDate)
	if err != nil {
		return models.SystemEventsResponse{}, err
	}

	sys, err := s.systems.Get(ctx, req.SerialNumber)
	if err != nil {
		return models.SystemEventsResponse{}, err
	}
	if sys == nil {
		return models.SystemEventsResponse{
			SerialNumber: req.SerialNumber,
			SiteTimezone: unknownSiteTimezone,
			Modules:      []models.Module{},
		}, nil
	}

	modules := make([]models.Module, 0, len(sys.ModuleConfiguration))
	for _, slot := range sys.ModuleConfiguration {
		m, err := loadModule(ctx, s.events, slot, from, to)
		if err != nil {
			return models.SystemEventsResponse{}, err
		}
		modules = append(modules, m)
	}

	systemEvents, err := s.events.List(ctx, sys.SerialNumber, from, to)
	if err != nil {
		return models.SystemEventsResponse{}, err
	}
	if len(systemEvents) > 0 {
		modules = append(modules, models.Module{
			ModuleName:         models.ModuleSystem,
			ModuleSide:         models.SideNA,
			ModuleSerialNumber: sys.SerialNumber,
			Events:             systemEvents,
		})
	}

	return models.SystemEventsResponse{
		SerialNumber:    sys.SerialNumber,
		SiteTimezone:    sys.SiteTimezone,
		SoftwareVersion: sys.SoftwareVersion,
		Modules:         modules,
	}, nil
}

func loadModule(ctx context.Context, repo repository.EventRepo, slot models.ModuleSlot, from, to time.Time) (models.Module, error) {
	events, err := repo.List(ctx, slot.ModuleSerialNumber, from, to)
	if err != nil {
		return models.Module{}, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return models.Module{
		ModuleName:         slot.ModuleName,
		ModuleSide:         slot.ModuleSide,
		ModuleSerialNumber: slot.ModuleSerialNumber,
		Events:             events,
	}, nil
}
