package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"cor_dashboard/internal/logger"
	"cor_dashboard/internal/models"
	"cor_dashboard/internal/repository"

	"github.com/google/uuid"
)

// ----------- Simulation constants -----------
const (
	dayStartHour = 7 // backfilled days start at 07:00 site time

	tickAssayStartChance = 0.5
	tickActivityChance   = 0.1
	tickAlertChance      = 0.05
	tickErrorChance      = 0.05
)

var (
	pxStates        = []string{"PoweredOff", "PoweredOnStarting", "OfflineIdle", "OfflineStarting", "OnlinePauseIdle", "Online"}
	pxActivityCodes = []models.EventCode{models.EventWasteEmptySolid, models.EventWasteEmptyLiquid, models.EventOSDValidation}
	gxAssays        = []string{"HPV", "CT_GC", "TV"}
	mxAssays        = []string{"GBS", "FLU", "RSV", "CT_GC"}
	gxDevices       = []string{"Drawer1", "Drawer2"}
	mxDevices       = []string{"APS1", "APS2", "APS3"}
)

// controllerSchedule lists the PX instrument workflows of a simulated day,
// in minutes after the day start.
var controllerSchedule = []struct {
	startMin, endMin int
	workflowID       string
}{
	{120, 150, "RefillPipettes"},
	{360, 405, "AddMedia"},
	{720, 750, "CalibrationCheck"},
}

// pendingEnd is an assay end event waiting for its time to come.
type pendingEnd struct {
	module string
	event  models.Event
}

// SimulatorService generates demo telemetry and feeds it through the
// ingest path, so stored data looks like what instruments send.
type SimulatorService struct {
	systems   repository.SystemRepo
	reference repository.ReferenceRepo
	ingest    Ingestor
	log       *logger.Logger
	rnd       *rand.Rand
	now       func() time.Time

	pending map[string][]pendingEnd // by system serial
}

// NewSimulatorService returns a simulator. A zero seed uses the clock.
func NewSimulatorService(
	systems repository.SystemRepo,
	reference repository.ReferenceRepo,
	ingest Ingestor,
	log *logger.Logger,
	seed int64,
) *SimulatorService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SimulatorService{
		systems:   systems,
		reference: reference,
		ingest:    ingest,
		log:       log,
		rnd:       rand.New(rand.NewSource(seed)),
		now:       time.Now,
		pending:   make(map[string][]pendingEnd),
	}
}

// Seed loads the demo fleet and reference data into an empty store and
// backfills the previous day of telemetry for every system. A store that
// already holds systems is left alone.
func (s *SimulatorService) Seed(ctx context.Context) error {
	existing, err := s.systems.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.log.Infow("simulator_seed_skipped", "systems", len(existing))
		return nil
	}

	for _, a := range fixtureAssays {
		if err := s.reference.UpsertAssay(ctx, a); err != nil {
			return err
		}
	}
	for _, et := range fixtureEventTypes {
		if err := s.reference.UpsertEventType(ctx, et); err != nil {
			return err
		}
	}

	now := s.now()
	systems := fixtureSystems()
	for _, sys := range systems {
		if err := s.systems.Upsert(ctx, sys); err != nil {
			return err
		}
	}
	for _, sys := range systems {
		loc := siteLocation(sys.SiteTimezone)
		local := now.In(loc)
		base := time.Date(local.Year(), local.Month(), local.Day(), dayStartHour, 0, 0, 0, loc).AddDate(0, 0, -1)

		msg := s.dayMessage(sys, base, now)
		if _, err := s.ingest.Ingest(ctx, msg); err != nil {
			return fmt.Errorf("backfill %s: %w", sys.SerialNumber, err)
		}
	}

	s.log.Infow("simulator_seeded", "systems", len(systems), "assays", len(fixtureAssays))
	return nil
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.step(ctx, s.now())
		}
	}
}

// step sends one message per system with the telemetry of this tick.
func (s *SimulatorService) step(ctx context.Context, now time.Time) {
	systems, err := s.systems.List(ctx)
	if err != nil {
		s.log.Errorw("simulator_list_failed", "error", err)
		return
	}

	for _, sys := range systems {
		msg := s.tickMessage(sys, now)
		if _, err := s.ingest.Ingest(ctx, msg); err != nil {
			s.log.Warnw("simulator_ingest_failed", "serial_number", sys.SerialNumber, "error", err)
		}
	}
}

func (s *SimulatorService) tickMessage(sys models.System, now time.Time) models.Message {
	now = now.In(siteLocation(sys.SiteTimezone))
	modules := make([]models.Module, 0, len(sys.ModuleConfiguration))

	for _, slot := range sys.ModuleConfiguration {
		events := []models.Event{{EventCode: models.EventHeartbeat, OccurredAt: now}}

		if slot.ModuleName.IsAnalyzer() {
			assays, devices := analyzerCatalog(slot.ModuleName)
			if s.rnd.Float64() < tickAssayStartChance {
				start, end := s.assayRun(now, assays, devices)
				events = append(events, start)
				if end != nil {
					s.pending[sys.SerialNumber] = append(s.pending[sys.SerialNumber],
						pendingEnd{module: slot.ModuleSerialNumber, event: *end})
				}
			}
			if s.rnd.Float64() < tickErrorChance {
				events = append(events, models.Event{
					EventCode: models.EventErrorSample, OccurredAt: now, Device: pick(s.rnd, devices),
				})
			}
		} else if s.rnd.Float64() < tickActivityChance {
			events = append(events, models.Event{
				EventCode: pick(s.rnd, pxActivityCodes), OccurredAt: now, Device: string(models.ModulePX),
			})
		}

		if s.rnd.Float64() < tickAlertChance {
			events = append(events, s.alert(now))
		}

		modules = append(modules, models.Module{
			ModuleName:         slot.ModuleName,
			ModuleSide:         slot.ModuleSide,
			ModuleSerialNumber: slot.ModuleSerialNumber,
			Events:             events,
		})
	}

	s.flushPending(sys.SerialNumber, modules, now)

	return models.Message{
		MessageDateTimeOffset: now,
		SerialNumber:          sys.SerialNumber,
		SoftwareVersion:       sys.SoftwareVersion,
		AtlasKey:              sys.AtlasKey,
		Modules:               modules,
	}
}

// flushPending moves due end events into the modules they belong to.
func (s *SimulatorService) flushPending(serial string, modules []models.Module, now time.Time) {
	keep := s.pending[serial][:0]
	for _, p := range s.pending[serial] {
		if p.event.OccurredAt.After(now) {
			keep = append(keep, p)
			continue
		}
		for i := range modules {
			if modules[i].ModuleSerialNumber == p.module {
				modules[i].Events = append(modules[i].Events, p.event)
				break
			}
		}
	}
	s.pending[serial] = keep
}

// dayMessage builds a full day of telemetry starting at base. Events later
// than now are left out.
func (s *SimulatorService) dayMessage(sys models.System, base, now time.Time) models.Message {
	modules := make([]models.Module, 0, len(sys.ModuleConfiguration))
	for _, slot := range sys.ModuleConfiguration {
		var events []models.Event
		if slot.ModuleName.IsAnalyzer() {
			events = s.analyzerDay(base, slot.ModuleName)
		} else {
			events = s.controllerDay(base)
		}

		kept := events[:0]
		for _, e := range events {
			if !e.OccurredAt.After(now) {
				kept = append(kept, e)
			}
		}
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].OccurredAt.Before(kept[j].OccurredAt) })

		modules = append(modules, models.Module{
			ModuleName:         slot.ModuleName,
			ModuleSide:         slot.ModuleSide,
			ModuleSerialNumber: slot.ModuleSerialNumber,
			Events:             kept,
		})
	}

	return models.Message{
		MessageDateTimeOffset: now.In(base.Location()),
		SerialNumber:          sys.SerialNumber,
		SoftwareVersion:       sys.SoftwareVersion,
		AtlasKey:              sys.AtlasKey,
		Modules:               modules,
	}
}

func (s *SimulatorService) controllerDay(base time.Time) []models.Event {
	px := string(models.ModulePX)
	events := []models.Event{
		{EventCode: models.EventPowerCycle, OccurredAt: base, Device: px},
		{EventCode: models.EventBoot, OccurredAt: base.Add(15 * time.Minute), Device: px},
	}

	stateAt := base.Add(15 * time.Minute)
	for i := 0; i < len(pxStates)-1; i++ {
		events = append(events, models.Event{
			EventCode:      models.EventPxState,
			OccurredAt:     stateAt,
			StartStateCode: pxStates[i],
			EndStateCode:   pxStates[i+1],
		})
		stateAt = stateAt.Add(30*time.Second + s.jitter(30*time.Second))
	}

	for i := 0; i < 5; i++ {
		events = append(events, models.Event{
			EventCode:  pick(s.rnd, pxActivityCodes),
			OccurredAt: base.Add(time.Hour + s.jitter(900*time.Minute)),
			Device:     px,
		})
	}

	for m := 0; m < 24*60; m += 10 {
		events = append(events, models.Event{EventCode: models.EventHeartbeat, OccurredAt: base.Add(time.Duration(m) * time.Minute)})
	}

	events = append(events,
		models.Event{EventCode: models.EventAlert, OccurredAt: base.Add(120 * time.Minute), AlertType: "PX_TEMP_HIGH"},
		models.Event{EventCode: models.EventAlert, OccurredAt: base.Add(480 * time.Minute), AlertType: "PX_DOOR_OPEN"},
	)

	for i := 0; i < 3; i++ {
		events = append(events, models.Event{
			EventCode:  models.EventErrorSample,
			OccurredAt: base.Add(180*time.Minute + s.jitter(600*time.Minute)),
			Device:     px,
		})
	}

	for _, w := range controllerSchedule {
		events = append(events, s.instrumentRun(base, w.startMin, w.endMin, w.workflowID)...)
	}
	return events
}

func (s *SimulatorService) analyzerDay(base time.Time, name models.ModuleName) []models.Event {
	assays, devices := analyzerCatalog(name)
	var events []models.Event

	runs := 15 + s.rnd.Intn(6)
	for i := 0; i < runs; i++ {
		startAt := base.Add(45*time.Minute + s.jitter(735*time.Minute))
		start, end := s.assayRun(startAt, assays, devices)
		events = append(events, start)
		if end != nil {
			events = append(events, *end)
		}
	}

	alerts := 1 + s.rnd.Intn(3)
	for i := 0; i < alerts; i++ {
		events = append(events, s.alert(base.Add(90*time.Minute+s.jitter(780*time.Minute))))
	}

	for i := 0; i < 2; i++ {
		events = append(events, models.Event{
			EventCode:  models.EventErrorSample,
			OccurredAt: base.Add(120*time.Minute + s.jitter(600*time.Minute)),
			Device:     pick(s.rnd, devices),
		})
	}

	return append(events, s.instrumentRun(base, 300, 330, "Maintenance")...)
}

// assayRun starts an assay workflow at startAt. 85% complete normally,
// 5% fail, 5% run long and 5% never end (end is nil).
func (s *SimulatorService) assayRun(startAt time.Time, assays, devices []string) (models.Event, *models.Event) {
	execID := uuid.NewString()
	assay := pick(s.rnd, assays)
	device := pick(s.rnd, devices)

	start := models.Event{
		EventCode:     models.EventAssayWorkflowStart,
		OccurredAt:    startAt,
		ExecutionID:   execID,
		Assay:         assay,
		Device:        device,
		WorkflowState: "started",
	}

	var (
		duration time.Duration
		state    = "complete"
	)
	switch r := s.rnd.Float64(); {
	case r > 0.95:
		return start, nil
	case r > 0.90:
		duration = 240*time.Minute + s.jitter(480*time.Minute)
	case r > 0.85:
		duration = 30*time.Minute + s.jitter(210*time.Minute)
		state = "error"
	default:
		duration = 30*time.Minute + s.jitter(210*time.Minute)
	}

	end := start
	end.EventCode = models.EventAssayWorkflowEnd
	end.OccurredAt = startAt.Add(duration)
	end.WorkflowState = state
	return start, &end
}

func (s *SimulatorService) instrumentRun(base time.Time, startMin, endMin int, workflowID string) []models.Event {
	execID := uuid.NewString()
	return []models.Event{
		{
			EventCode:     models.EventWorkflowStart,
			OccurredAt:    base.Add(time.Duration(startMin) * time.Minute),
			ExecutionID:   execID,
			WorkflowID:    workflowID,
			WorkflowState: "started",
		},
		{
			EventCode:     models.EventWorkflowEnd,
			OccurredAt:    base.Add(time.Duration(endMin) * time.Minute),
			ExecutionID:   execID,
			WorkflowID:    workflowID,
			WorkflowState: "complete",
		},
	}
}

func (s *SimulatorService) alert(at time.Time) models.Event {
	return models.Event{
		EventCode:  models.EventAlert,
		OccurredAt: at,
		AlertType:  fmt.Sprintf("ALERT_%d", 1000+s.rnd.Intn(9000)),
	}
}

// jitter returns a random duration in [0, upTo).
func (s *SimulatorService) jitter(upTo time.Duration) time.Duration {
	return time.Duration(s.rnd.Int63n(int64(upTo)))
}

func analyzerCatalog(name models.ModuleName) (assays, devices []string) {
	if name == models.ModuleGX {
		return gxAssays, gxDevices
	}
	return mxAssays, mxDevices
}

func pick[T any](rnd *rand.Rand, items []T) T {
	return items[rnd.Intn(len(items))]
}

// siteLocation resolves an IANA zone, falling back to UTC.
func siteLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
