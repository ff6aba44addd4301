package models

// AssayInfo maps an assay code used in events to its display names.
type AssayInfo struct {
	AssayCode   string `json:"assayCode"`
	DisplayName string `json:"displayName"`
	ShortName   string `json:"shortName"`
}

// EventTypeCategory groups event types on the legend.
type EventTypeCategory string

const (
	CategoryWorkflow EventTypeCategory = "workflow"
	CategoryState    EventTypeCategory = "state"
	CategoryActivity EventTypeCategory = "activity"
	CategoryMetric   EventTypeCategory = "metric"
	CategorySystem   EventTypeCategory = "system"
)

// EventTypeInfo describes an event code for display.
type EventTypeInfo struct {
	EventCode   EventCode         `json:"eventCode"`
	DisplayName string            `json:"displayName"`
	Category    EventTypeCategory `json:"category"`
}

// CustomerInfo describes the site a system is installed at.
type CustomerInfo struct {
	AtlasKey     string `json:"atlasKey"`
	CustomerName string `json:"customerName"`
	Region       Region `json:"region"`
	SiteTimezone string `json:"siteTimezone"`
}

// ReferenceData is the static lookup data maintained outside the dashboard.
type ReferenceData struct {
	Assays     []AssayInfo     `json:"assays"`
	EventTypes []EventTypeInfo `json:"eventTypes"`
	Customers  []CustomerInfo  `json:"customers"`
}
