package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cor_dashboard/internal/logger"
	"cor_dashboard/internal/models"
	"cor_dashboard/internal/repository"
)

type IngestService struct {
	systems repository.SystemRepo
	events  repository.EventRepo
	log     *logger.Logger
}

func NewIngestService(systems repository.SystemRepo, events repository.EventRepo, log *logger.Logger) *IngestService {
	return &IngestService{systems: systems, events: events, log: log}
}

var (
	errMissingSerial    = errors.New("serialNumber is required")
	errMissingVersion   = errors.New("softwareVersion is required")
	errMissingAtlasKey  = errors.New("atlasKey is required")
	errMissingTimestamp = errors.New("messageDateTimeOffset is required")
	errNoModules        = errors.New("at least one module is required")
)

// validateMessage checks the envelope and every event in it. Unknown event
// codes are accepted; the processor drops them later.
func validateMessage(msg models.Message) error {
	switch {
	case strings.TrimSpace(msg.SerialNumber) == "":
		return errMissingSerial
	case strings.TrimSpace(msg.SoftwareVersion) == "":
		return errMissingVersion
	case strings.TrimSpace(msg.AtlasKey) == "":
		return errMissingAtlasKey
	case msg.MessageDateTimeOffset.IsZero():
		return errMissingTimestamp
	case len(msg.Modules) == 0:
		return errNoModules
	}

	for i, m := range msg.Modules {
		if strings.TrimSpace(m.ModuleSerialNumber) == "" {
			return fmt.Errorf("module %d: moduleSerialNumber is required", i)
		}
		switch m.ModuleName {
		case models.ModuleSystem, models.ModulePX, models.ModuleMX, models.ModuleGX:
		default:
			return fmt.Errorf("module %s: unknown moduleName %q", m.ModuleSerialNumber, m.ModuleName)
		}
		for j, e := range m.Events {
			if e.EventCode == "" {
				return fmt.Errorf("module %s event %d: eventCode is required", m.ModuleSerialNumber, j)
			}
			if e.OccurredAt.IsZero() {
				return fmt.Errorf("module %s event %d: associatedDateTimeOffset is required", m.ModuleSerialNumber, j)
			}
		}
	}
	return nil
}

// Ingest stores the events of a message under their modules and moves the
// system's last event and alert times forward. Analyzer and controller
// modules must belong to the system's configuration; System-level events are
// stored under the system's serial number.
func (s *IngestService) Ingest(ctx context.Context, msg models.Message) (IngestResult, error) {
	if err := validateMessage(msg); err != nil {
		s.log.Warnw("ingest_rejected", "serial_number", msg.SerialNumber, "error", err)
		return IngestResult{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	sys, err := s.systems.Get(ctx, msg.SerialNumber)
	if err != nil {
		return IngestResult{}, err
	}
	if sys == nil {
		s.log.Warnw("ingest_rejected", "serial_number", msg.SerialNumber, "error", ErrSystemNotFound)
		return IngestResult{}, fmt.Errorf("%w: %s", ErrSystemNotFound, msg.SerialNumber)
	}

	configured := make(map[string]models.ModuleName, len(sys.ModuleConfiguration))
	for _, slot := range sys.ModuleConfiguration {
		configured[slot.ModuleSerialNumber] = slot.ModuleName
	}
	for _, m := range msg.Modules {
		if m.ModuleName == models.ModuleSystem {
			continue
		}
		if name, ok := configured[m.ModuleSerialNumber]; !ok || name != m.ModuleName {
			err := fmt.Errorf("module %s (%s) is not configured on %s", m.ModuleSerialNumber, m.ModuleName, sys.SerialNumber)
			s.log.Warnw("ingest_rejected", "serial_number", msg.SerialNumber, "error", err)
			return IngestResult{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
		}
	}

	// stored activity times are rewritten unchanged here and moved forward below
	if sys.SoftwareVersion != msg.SoftwareVersion {
		s.log.Infow("software_version_changed",
			"serial_number", sys.SerialNumber, "from", sys.SoftwareVersion, "to", msg.SoftwareVersion)
		sys.SoftwareVersion = msg.SoftwareVersion
		if err := s.systems.Upsert(ctx, *sys); err != nil {
			return IngestResult{}, err
		}
	}

	var (
		lastEvent, lastAlert *time.Time
		total                int
	)
	for _, m := range msg.Modules {
		if err := s.events.Append(ctx, sys.SerialNumber, storageSerial(*sys, m), m.Events); err != nil {
			return IngestResult{}, fmt.Errorf("append events for %s: %w", m.ModuleSerialNumber, err)
		}
		total += len(m.Events)
		for _, e := range m.Events {
			lastEvent = later(lastEvent, e.OccurredAt)
			if e.EventCode == models.EventAlert {
				lastAlert = later(lastAlert, e.OccurredAt)
			}
		}
	}

	if err := s.systems.TouchActivity(ctx, sys.SerialNumber, lastEvent, lastAlert); err != nil {
		return IngestResult{}, err
	}

	s.log.Debugw("message_ingested", "serial_number", sys.SerialNumber, "modules", len(msg.Modules), "events", total)
	return IngestResult{SerialNumber: sys.SerialNumber, Modules: len(msg.Modules), Events: total}, nil
}

// storageSerial is the module key events are stored under. A system has one
// System-level module, keyed by the system itself.
func storageSerial(sys models.System, m models.Module) string {
	if m.ModuleName == models.ModuleSystem {
		return sys.SerialNumber
	}
	return m.ModuleSerialNumber
}

func later(cur *time.Time, t time.Time) *time.Time {
	if cur == nil || t.After(*cur) {
		return &t
	}
	return cur
}
