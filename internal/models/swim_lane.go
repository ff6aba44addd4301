package models

import "time"

// SwimLanePosition is where a lane sits on the plot page.
type SwimLanePosition string

const (
	LaneLeft  SwimLanePosition = "left"
	LaneRight SwimLanePosition = "right"
	LanePX    SwimLanePosition = "px"
)

// SwimLaneAxisType selects which processed data an axis shows.
type SwimLaneAxisType string

const (
	AxisAlertsErrors    SwimLaneAxisType = "alertsErrors"
	AxisAssayWorkflow   SwimLaneAxisType = "assayWorkflow"
	AxisPxState         SwimLaneAxisType = "pxState"
	AxisStateTransition SwimLaneAxisType = "stateTransition"
)

type SwimLaneAxis struct {
	Name string           `json:"name"`
	Type SwimLaneAxisType `json:"type"`
}

// SwimLaneConfig describes one horizontal lane of a system's timeline.
type SwimLaneConfig struct {
	Position           SwimLanePosition `json:"position"`
	ModuleName         ModuleName       `json:"moduleName"`
	ModuleSide         ModuleSide       `json:"moduleSide"`
	ModuleSerialNumber string           `json:"moduleSerialNumber"`
	Axes               []SwimLaneAxis   `json:"axes"`
}

// Timeline is the processed view of one system over a date range.
type Timeline struct {
	SerialNumber    string     `json:"serialNumber"`
	SiteTimezone    string     `json:"siteTimezone"`
	SoftwareVersion string     `json:"softwareVersion"`
	ReferenceTime   time.Time  `json:"referenceTime"`
	Lanes           []LaneView `json:"lanes"`
}

// LaneView pairs a lane layout with its processed data. Exactly one of
// Analyzer and Controller is set.
type LaneView struct {
	Config     SwimLaneConfig      `json:"config"`
	Label      string              `json:"label"`
	Analyzer   *AnalyzerLaneData   `json:"analyzer,omitempty"`
	Controller *ControllerLaneData `json:"controller,omitempty"`
}
