// Package processor turns the raw events of one module into the chart-ready
// data of its swim lane. Every function is pure: results depend only on the
// arguments, nothing is cached, and calls may run concurrently.
package processor

import (
	"time"

	"cor_dashboard/internal/models"
)

// ProcessAnalyzerEvents builds the lane data of an MX or GX module.
// Assay display names come from assays; codes without a match are shown raw.
func ProcessAnalyzerEvents(module models.Module, referenceTime time.Time, assays []models.AssayInfo) models.AnalyzerLaneData {
	events := module.Events
	lookup := make(map[string]string, len(assays))
	for _, a := range assays {
		lookup[a.AssayCode] = a.DisplayName
	}

	return models.AnalyzerLaneData{
		AssayWorkflows:      assayWorkflows(events, referenceTime, lookup),
		StateBars:           deriveAnalyzerStateBars(events),
		InstrumentWorkflows: instrumentWorkflows(events),
		Activities:          activities(events),
		Devices:             devices(events),
	}
}

// ProcessControllerEvents builds the lane data of the PX module.
func ProcessControllerEvents(module models.Module) models.ControllerLaneData {
	events := module.Events
	transitions := stateTransitions(events)

	return models.ControllerLaneData{
		StateTransitions:    transitions,
		InstrumentWorkflows: instrumentWorkflows(events),
		Activities:          activities(events),
		BootEvents:          bootEvents(events),
		StateNames:          stateNames(transitions),
	}
}
