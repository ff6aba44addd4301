package processor

import (
	"sort"

	"cor_dashboard/internal/models"
)

var activityTypes = map[models.EventCode]models.ActivityType{
	models.EventWasteEmptySolid:     models.ActivityGeneral,
	models.EventWasteEmptyLiquid:    models.ActivityGeneral,
	models.EventOSDValidation:       models.ActivityGeneral,
	models.EventHeartbeat:           models.ActivityGeneral,
	models.EventErrorSample:         models.ActivityErrorSample,
	models.EventErrorTubeTransition: models.ActivityErrorSample,
	models.EventAlert:               models.ActivityAlert,
}

func activities(events []models.Event) []models.ProcessedActivity {
	out := make([]models.ProcessedActivity, 0)
	for _, e := range events {
		typ, ok := activityTypes[e.EventCode]
		if !ok {
			continue
		}
		a := models.ProcessedActivity{
			Timestamp:  e.OccurredAt,
			EventCode:  e.EventCode,
			Type:       typ,
			Device:     e.Device,
			Properties: e.Properties(),
		}
		if typ == models.ActivityAlert {
			a.AlertType = e.AlertType
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func bootEvents(events []models.Event) []models.ProcessedBootEvent {
	out := make([]models.ProcessedBootEvent, 0)
	for _, e := range events {
		if e.EventCode != models.EventBoot && e.EventCode != models.EventPowerCycle {
			continue
		}
		out = append(out, models.ProcessedBootEvent{
			Timestamp:  e.OccurredAt,
			Type:       e.EventCode,
			Properties: e.Properties(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func stateTransitions(events []models.Event) []models.ProcessedStateTransition {
	out := make([]models.ProcessedStateTransition, 0)
	for _, e := range events {
		if e.EventCode != models.EventPxState {
			continue
		}
		out = append(out, models.ProcessedStateTransition{
			Timestamp:      e.OccurredAt,
			StartStateCode: e.StartStateCode,
			EndStateCode:   e.EndStateCode,
			Properties:     e.Properties(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// stateNames collects the distinct states seen in transitions, for the
// PX axis labels.
func stateNames(transitions []models.ProcessedStateTransition) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		names = append(names, s)
	}
	for _, t := range transitions {
		add(t.StartStateCode)
		add(t.EndStateCode)
	}
	return names
}

// devices lists the distinct devices that ran assay workflows, sorted so the
// per-device rows keep a stable order between refreshes.
func devices(events []models.Event) []string {
	seen := make(map[string]struct{})
	for _, e := range events {
		if e.EventCode != models.EventAssayWorkflowStart && e.EventCode != models.EventAssayWorkflowEnd {
			continue
		}
		if e.Device != "" {
			seen[e.Device] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// deriveAnalyzerStateBars is where MX/GX state bars will be built from
// workflowStart/workflowEnd pairs. Analyzers never send mxGxState, and the
// condition that marks a workflow pair as a state change is not defined
// upstream yet, so no bars are produced.
//
// TODO: filter instrument workflow pairs once the workflow condition for
// analyzer states is published in the event schema.
func deriveAnalyzerStateBars(_ []models.Event) []models.ProcessedAnalyzerStateBar {
	return []models.ProcessedAnalyzerStateBar{}
}
