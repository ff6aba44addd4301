package models

import "time"

// Region groups systems on the fleet overview.
type Region string

const (
	RegionNorthAmerica Region = "North America"
	RegionEMEA         Region = "EMEA"
	RegionAPAC         Region = "APAC"
	RegionLATAM        Region = "LATAM"
)

// Regions lists the regions in display order.
var Regions = []Region{RegionNorthAmerica, RegionEMEA, RegionAPAC, RegionLATAM}

// System is a COR instrument installed at a customer site.
type System struct {
	SerialNumber    string     `json:"serialNumber"`
	CustomerName    string     `json:"customerName"`
	Region          Region     `json:"region"`
	SiteTimezone    string     `json:"siteTimezone"` // IANA name
	SoftwareVersion string     `json:"softwareVersion"`
	AtlasKey        string     `json:"atlasKey"`
	LastEventTime   *time.Time `json:"lastEventTime"`
	LastAlertTime   *time.Time `json:"lastAlertTime"`
	// ModuleConfiguration always holds the PX controller plus 0-2 analyzers.
	ModuleConfiguration []ModuleSlot `json:"moduleConfiguration"`
}

// SystemsByRegion is one region bucket of the fleet overview.
type SystemsByRegion struct {
	Region  Region   `json:"region"`
	Systems []System `json:"systems"`
}

// SystemEventsRequest selects a system's events over a date range.
type SystemEventsRequest struct {
	SerialNumber string
	StartDate    time.Time
	EndDate      time.Time
}

// SystemEventsResponse carries a system's modules with their raw events.
type SystemEventsResponse struct {
	SerialNumber    string   `json:"serialNumber"`
	SiteTimezone    string   `json:"siteTimezone"`
	SoftwareVersion string   `json:"softwareVersion"`
	Modules         []Module `json:"modules"`
}
