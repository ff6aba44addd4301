package service

import (
	"context"
	"fmt"
	"time"

	"cor_dashboard/internal/logger"
	"cor_dashboard/internal/models"
	"cor_dashboard/internal/processor"
	"cor_dashboard/internal/repository"
	"cor_dashboard/internal/swimlane"

	"golang.org/x/sync/errgroup"
)

// pairingMargin is how far past each edge of the requested window events are
// read so that runs crossing an edge still find their other half.
const pairingMargin = 24 * time.Hour

type TimelineService struct {
	systems   repository.SystemRepo
	events    repository.EventRepo
	reference repository.ReferenceRepo
	log       *logger.Logger
	now       func() time.Time
}

func NewTimelineService(
	systems repository.SystemRepo,
	events repository.EventRepo,
	reference repository.ReferenceRepo,
	log *logger.Logger,
) *TimelineService {
	return &TimelineService{
		systems:   systems,
		events:    events,
		reference: reference,
		log:       log,
		now:       time.Now,
	}
}

// Timeline loads the events of every lane concurrently and runs each
// through the processor matching its module type.
func (s *TimelineService) Timeline(ctx context.Context, req TimelineRequest) (models.Timeline, error) {
	from, to, err := normalizeRange(req.StartDate, req.EndDate)
	if err != nil {
		return models.Timeline{}, err
	}

	sys, err := s.systems.Get(ctx, req.SerialNumber)
	if err != nil {
		return models.Timeline{}, err
	}
	if sys == nil {
		return models.Timeline{}, fmt.Errorf("%w: %s", ErrSystemNotFound, req.SerialNumber)
	}

	topo, err := swimlane.NewTopology(sys.ModuleConfiguration)
	if err != nil {
		return models.Timeline{}, fmt.Errorf("%w: %s: %w", ErrInvalidTopology, sys.SerialNumber, err)
	}
	lanes := swimlane.BuildSwimLanes(topo)

	assays, err := s.reference.Assays(ctx)
	if err != nil {
		return models.Timeline{}, fmt.Errorf("load assays: %w", err)
	}

	ref := req.ReferenceTime
	if ref.IsZero() {
		ref = s.now()
	}

	readFrom, readTo := widen(from, to)

	views := make([]models.LaneView, len(lanes))
	g, gctx := errgroup.WithContext(ctx)
	for i, cfg := range lanes {
		g.Go(func() error {
			module, err := loadModule(gctx, s.events, models.ModuleSlot{
				ModuleName:         cfg.ModuleName,
				ModuleSide:         cfg.ModuleSide,
				ModuleSerialNumber: cfg.ModuleSerialNumber,
			}, readFrom, readTo)
			if err != nil {
				return fmt.Errorf("load events for %s: %w", cfg.ModuleSerialNumber, err)
			}

			var inspected []models.Event
			module.Events, inspected = pairAcrossWindow(module.Events, from, to)

			if q := processor.Inspect(inspected); !q.Clean() {
				s.log.Warnw("lane_data_quality",
					"serial_number", sys.SerialNumber,
					"module_serial", cfg.ModuleSerialNumber,
					"duplicate_starts", q.DuplicateStarts,
					"duplicate_ends", q.DuplicateEnds,
					"orphan_ends", q.OrphanEnds,
					"unknown_codes", q.UnknownCodes,
				)
			}

			view := models.LaneView{Config: cfg, Label: swimlane.LaneLabel(cfg)}
			if cfg.Position == models.LanePX {
				data := processor.ProcessControllerEvents(module)
				view.Controller = &data
			} else {
				data := processor.ProcessAnalyzerEvents(module, ref, assays)
				view.Analyzer = &data
			}
			views[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Errorw("timeline_build_failed", "serial_number", sys.SerialNumber, "error", err)
		return models.Timeline{}, err
	}

	return models.Timeline{
		SerialNumber:    sys.SerialNumber,
		SiteTimezone:    sys.SiteTimezone,
		SoftwareVersion: sys.SoftwareVersion,
		ReferenceTime:   ref,
		Lanes:           views,
	}, nil
}

// widen extends a non-zero window by pairingMargin on each side.
func widen(from, to time.Time) (time.Time, time.Time) {
	if !from.IsZero() {
		from = from.Add(-pairingMargin)
	}
	if !to.IsZero() {
		to = to.Add(pairingMargin)
	}
	return from, to
}

func isWorkflowStart(c models.EventCode) bool {
	return c == models.EventAssayWorkflowStart || c == models.EventWorkflowStart
}

func isWorkflowEnd(c models.EventCode) bool {
	return c == models.EventAssayWorkflowEnd || c == models.EventWorkflowEnd || c == models.EventMxAPSInventory
}

// pairAcrossWindow splits events read with widen into the events to process
// and the events to inspect. Both hold everything inside [from, to]. The
// processed set also gets outside ends of runs that started inside the
// window, so a run finished after the window is not shown as open. The
// inspected set additionally gets outside starts of runs that ended inside
// the window, so they are not reported as orphan ends.
func pairAcrossWindow(events []models.Event, from, to time.Time) (process, inspect []models.Event) {
	inWindow := func(t time.Time) bool {
		return (from.IsZero() || !t.Before(from)) && (to.IsZero() || !t.After(to))
	}

	startedIn := make(map[string]struct{})
	endedIn := make(map[string]struct{})
	process = make([]models.Event, 0, len(events))
	for _, e := range events {
		if !inWindow(e.OccurredAt) {
			continue
		}
		process = append(process, e)
		if e.ExecutionID == "" {
			continue
		}
		if isWorkflowStart(e.EventCode) {
			startedIn[e.ExecutionID] = struct{}{}
		}
		if isWorkflowEnd(e.EventCode) {
			endedIn[e.ExecutionID] = struct{}{}
		}
	}

	inspect = append([]models.Event(nil), process...)
	for _, e := range events {
		if inWindow(e.OccurredAt) || e.ExecutionID == "" {
			continue
		}
		if _, ok := startedIn[e.ExecutionID]; ok && isWorkflowEnd(e.EventCode) {
			process = append(process, e)
			inspect = append(inspect, e)
		}
		if _, ok := endedIn[e.ExecutionID]; ok && isWorkflowStart(e.EventCode) {
			inspect = append(inspect, e)
		}
	}
	return process, inspect
}
