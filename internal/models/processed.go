package models

import "time"

// AssayWorkflowStatus drives the color of an assay workflow bar.
type AssayWorkflowStatus string

const (
	StatusNormal          AssayWorkflowStatus = "normal"
	StatusError           AssayWorkflowStatus = "error"
	StatusInflight        AssayWorkflowStatus = "inflight"        // open < 4h
	StatusWarningInflight AssayWorkflowStatus = "warningInflight" // open 4h-12h
	StatusMaxInflight     AssayWorkflowStatus = "maxInflight"     // open >= 12h
)

// ProcessedAssayWorkflow is an assay run reconstructed from its start/end pair.
type ProcessedAssayWorkflow struct {
	ExecutionID      string              `json:"executionId"`
	Assay            string              `json:"assay"`
	AssayDisplayName string              `json:"assayDisplayName"`
	Device           string              `json:"device"`
	StartTime        time.Time           `json:"startTime"`
	EndTime          *time.Time          `json:"endTime"` // nil while in flight
	Status           AssayWorkflowStatus `json:"status"`
	BatchIDLast4     string              `json:"batchIdLast4"`
	WorkflowState    string              `json:"workflowState"`
	Properties       map[string]any      `json:"properties"`
}

// ProcessedInstrumentWorkflow is a maintenance/instrument workflow interval.
type ProcessedInstrumentWorkflow struct {
	ExecutionID   string         `json:"executionId"`
	WorkflowID    string         `json:"workflowId"`
	StartTime     time.Time      `json:"startTime"`
	EndTime       *time.Time     `json:"endTime"`
	WorkflowState string         `json:"workflowState"`
	Properties    map[string]any `json:"properties"`
}

// ProcessedStateTransition is a point-in-time controller state change.
type ProcessedStateTransition struct {
	Timestamp      time.Time      `json:"timestamp"`
	StartStateCode string         `json:"startStateCode"`
	EndStateCode   string         `json:"endStateCode"`
	Properties     map[string]any `json:"properties"`
}

// ProcessedAnalyzerStateBar is a duration bar on an analyzer's state axis.
type ProcessedAnalyzerStateBar struct {
	StartTime    time.Time      `json:"startTime"`
	EndTime      *time.Time     `json:"endTime"`
	EndStateCode string         `json:"endStateCode"`
	Properties   map[string]any `json:"properties"`
}

// ActivityType is the marker category on the alerts & errors axis.
type ActivityType string

const (
	ActivityGeneral     ActivityType = "activity"
	ActivityErrorSample ActivityType = "errorSample"
	ActivityAlert       ActivityType = "alert"
)

// ProcessedActivity is an activity, error sample or alert marker.
type ProcessedActivity struct {
	Timestamp  time.Time      `json:"timestamp"`
	EventCode  EventCode      `json:"eventCode"`
	Type       ActivityType   `json:"type"`
	AlertType  string         `json:"alertType,omitempty"`
	Device     string         `json:"device,omitempty"`
	Properties map[string]any `json:"properties"`
}

// ProcessedBootEvent is a boot or power cycle marker.
type ProcessedBootEvent struct {
	Timestamp  time.Time      `json:"timestamp"`
	Type       EventCode      `json:"type"` // boot | powerCycle
	Properties map[string]any `json:"properties"`
}

// AnalyzerLaneData is everything an MX/GX lane renders.
type AnalyzerLaneData struct {
	AssayWorkflows      []ProcessedAssayWorkflow      `json:"assayWorkflows"`
	StateBars           []ProcessedAnalyzerStateBar   `json:"stateBars"`
	InstrumentWorkflows []ProcessedInstrumentWorkflow `json:"instrumentWorkflows"`
	Activities          []ProcessedActivity           `json:"activities"`
	Devices             []string                      `json:"devices"`
}

// ControllerLaneData is everything the PX lane renders.
type ControllerLaneData struct {
	StateTransitions    []ProcessedStateTransition    `json:"stateTransitions"`
	InstrumentWorkflows []ProcessedInstrumentWorkflow `json:"instrumentWorkflows"`
	Activities          []ProcessedActivity           `json:"activities"`
	BootEvents          []ProcessedBootEvent          `json:"bootEvents"`
	StateNames          []string                      `json:"stateNames"`
}
