package models

import "time"

// ModuleName names the physical module type reporting events.
type ModuleName string

const (
	ModuleSystem ModuleName = "System"
	ModulePX     ModuleName = "PX" // controller
	ModuleMX     ModuleName = "MX" // analyzer
	ModuleGX     ModuleName = "GX" // analyzer
)

// IsAnalyzer reports whether the module is one of the two analyzer types.
func (n ModuleName) IsAnalyzer() bool {
	return n == ModuleMX || n == ModuleGX
}

// ModuleSide is the physical slot of a module relative to the controller.
type ModuleSide string

const (
	SideNA    ModuleSide = "NA"
	SideLeft  ModuleSide = "Left"
	SideRight ModuleSide = "Right"
)

// ModuleSlot is one entry of a system's module configuration.
type ModuleSlot struct {
	ModuleName         ModuleName `json:"moduleName"`
	ModuleSide         ModuleSide `json:"moduleSide"`
	ModuleSerialNumber string     `json:"moduleSerialNumber"`
}

// Module is a module slot together with the events it reported for one period.
type Module struct {
	ModuleName         ModuleName `json:"moduleName"`
	ModuleSide         ModuleSide `json:"moduleSide"`
	ModuleSerialNumber string     `json:"moduleSerialNumber"`
	Events             []Event    `json:"events"`
}

// Slot strips the events off the module.
func (m Module) Slot() ModuleSlot {
	return ModuleSlot{
		ModuleName:         m.ModuleName,
		ModuleSide:         m.ModuleSide,
		ModuleSerialNumber: m.ModuleSerialNumber,
	}
}

// Message is one bundle delivered by an instrument: every module that
// reported since the previous bundle, with its events.
type Message struct {
	MessageDateTimeOffset time.Time `json:"messageDateTimeOffset"`
	SerialNumber          string    `json:"serialNumber"`
	SoftwareVersion       string    `json:"softwareVersion"` // MAJOR.MINOR.BUILD.REVISION
	AtlasKey              string    `json:"atlasKey"`
	Modules               []Module  `json:"modules"`
}
