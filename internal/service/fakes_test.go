package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"cor_dashboard/internal/models"
)

// ---- Test doubles ----

type fakeSystemRepo struct {
	mu      sync.Mutex
	systems map[string]models.System
	err     error
	upserts int
	touches []touch
}

type touch struct {
	serial               string
	lastEvent, lastAlert *time.Time
}

func newFakeSystemRepo(systems ...models.System) *fakeSystemRepo {
	f := &fakeSystemRepo{systems: make(map[string]models.System)}
	for _, s := range systems {
		f.systems[s.SerialNumber] = s
	}
	return f
}

func (f *fakeSystemRepo) List(context.Context) ([]models.System, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.System, 0, len(f.systems))
	for _, s := range f.systems {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SerialNumber < out[j].SerialNumber })
	return out, nil
}

func (f *fakeSystemRepo) Get(_ context.Context, serial string) (*models.System, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.systems[serial]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSystemRepo) Upsert(_ context.Context, s models.System) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	f.systems[s.SerialNumber] = s
	return nil
}

func (f *fakeSystemRepo) TouchActivity(_ context.Context, serial string, lastEvent, lastAlert *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touches = append(f.touches, touch{serial: serial, lastEvent: lastEvent, lastAlert: lastAlert})
	return nil
}

type fakeEventRepo struct {
	mu       sync.Mutex
	byModule map[string][]models.Event
	listErr  error
	gotFrom  time.Time
	gotTo    time.Time
	appended int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byModule: make(map[string][]models.Event)}
}

func (f *fakeEventRepo) Append(_ context.Context, _, module string, events []models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byModule[module] = append(f.byModule[module], events...)
	f.appended += len(events)
	return nil
}

func (f *fakeEventRepo) List(_ context.Context, module string, from, to time.Time) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotFrom, f.gotTo = from, to
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Event
	for _, e := range f.byModule[module] {
		if !from.IsZero() && e.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.OccurredAt.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeReferenceRepo struct {
	assays     []models.AssayInfo
	eventTypes []models.EventTypeInfo
	err        error
}

func (f *fakeReferenceRepo) Assays(context.Context) ([]models.AssayInfo, error) {
	return f.assays, f.err
}

func (f *fakeReferenceRepo) EventTypes(context.Context) ([]models.EventTypeInfo, error) {
	return f.eventTypes, f.err
}

func (f *fakeReferenceRepo) UpsertAssay(_ context.Context, a models.AssayInfo) error {
	f.assays = append(f.assays, a)
	return nil
}

func (f *fakeReferenceRepo) UpsertEventType(_ context.Context, et models.EventTypeInfo) error {
	f.eventTypes = append(f.eventTypes, et)
	return nil
}

// ---- Fixtures ----

var t0 = time.Date(2026, 2, 5, 8, 0, 0, 0, time.UTC)

func testSystem(serial string, region models.Region, analyzers ...models.ModuleSlot) models.System {
	return models.System{
		SerialNumber:        serial,
		CustomerName:        "Lab " + serial,
		Region:              region,
		SiteTimezone:        "America/Chicago",
		SoftwareVersion:     "2.1.0.1234",
		AtlasKey:            "atlas-" + serial,
		ModuleConfiguration: slots("PX-"+serial, analyzers...),
	}
}
