package service

import (
	"time"

	"cor_dashboard/internal/models"
)

func at(year int, month time.Month, day, hour, minute, offsetHours int) *time.Time {
	t := time.Date(year, month, day, hour, minute, 0, 0, time.FixedZone("", offsetHours*3600))
	return &t
}

func slots(px string, analyzers ...models.ModuleSlot) []models.ModuleSlot {
	out := []models.ModuleSlot{{ModuleName: models.ModulePX, ModuleSide: models.SideNA, ModuleSerialNumber: px}}
	return append(out, analyzers...)
}

func left(name models.ModuleName, serial string) models.ModuleSlot {
	return models.ModuleSlot{ModuleName: name, ModuleSide: models.SideLeft, ModuleSerialNumber: serial}
}

func right(name models.ModuleName, serial string) models.ModuleSlot {
	return models.ModuleSlot{ModuleName: name, ModuleSide: models.SideRight, ModuleSerialNumber: serial}
}

// fixtureSystems is the demo fleet loaded into an empty store.
func fixtureSystems() []models.System {
	return []models.System{
		{
			SerialNumber: "SN20240847", CustomerName: "Main Laboratory", Region: models.RegionNorthAmerica,
			SiteTimezone: "America/New_York", SoftwareVersion: "2.1.0.1234", AtlasKey: "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
			LastEventTime: at(2026, 2, 5, 10, 30, -5), LastAlertTime: at(2026, 2, 4, 15, 20, -5),
			ModuleConfiguration: slots("PX20240847", left(models.ModuleGX, "GX20241201"), right(models.ModuleMX, "MX20241202")),
		},
		{
			SerialNumber: "SN20240901", CustomerName: "Central Medical Center", Region: models.RegionNorthAmerica,
			SiteTimezone: "America/Chicago", SoftwareVersion: "2.1.0.1234", AtlasKey: "b2c3d4e5-f6a7-8901-bcde-f12345678901",
			LastEventTime:       at(2026, 2, 5, 9, 15, -6),
			ModuleConfiguration: slots("PX20240901", left(models.ModuleMX, "MX20241301"), right(models.ModuleMX, "MX20241302")),
		},
		{
			SerialNumber: "SN20240756", CustomerName: "University Hospital", Region: models.RegionNorthAmerica,
			SiteTimezone: "America/Los_Angeles", SoftwareVersion: "2.0.3.987", AtlasKey: "c3d4e5f6-a7b8-9012-cdef-123456789012",
			LastEventTime: at(2026, 2, 5, 11, 45, -8), LastAlertTime: at(2026, 2, 5, 8, 30, -8),
			ModuleConfiguration: slots("PX20240756", right(models.ModuleMX, "MX20241401")),
		},
		{
			SerialNumber: "SN20240623", CustomerName: "Regional Diagnostics", Region: models.RegionNorthAmerica,
			SiteTimezone: "America/Denver", SoftwareVersion: "2.1.0.1234", AtlasKey: "d4e5f6a7-b8c9-0123-defa-234567890123",
			LastEventTime: at(2026, 2, 5, 7, 0, -7), LastAlertTime: at(2026, 2, 3, 22, 15, -7),
			ModuleConfiguration: slots("PX20240623", left(models.ModuleGX, "GX20241501"), right(models.ModuleGX, "GX20241502")),
		},
		{
			SerialNumber: "SN20240502", CustomerName: "Berlin Diagnostics", Region: models.RegionEMEA,
			SiteTimezone: "Europe/Berlin", SoftwareVersion: "2.1.0.1234", AtlasKey: "e5f6a7b8-c9d0-1234-efab-345678901234",
			LastEventTime: at(2026, 2, 5, 8, 0, 1), LastAlertTime: at(2026, 2, 5, 7, 45, 1),
			ModuleConfiguration: slots("PX20240502", left(models.ModuleMX, "MX20241601"), right(models.ModuleGX, "GX20241602")),
		},
		{
			SerialNumber: "SN20240418", CustomerName: "London Clinical Labs", Region: models.RegionEMEA,
			SiteTimezone: "Europe/London", SoftwareVersion: "2.0.3.987", AtlasKey: "f6a7b8c9-d0e1-2345-fabc-456789012345",
			LastEventTime:       at(2026, 2, 5, 12, 30, 0),
			ModuleConfiguration: slots("PX20240418", right(models.ModuleGX, "GX20241701")),
		},
		{
			SerialNumber: "SN20240389", CustomerName: "Paris Medical Institute", Region: models.RegionEMEA,
			SiteTimezone: "Europe/Paris", SoftwareVersion: "2.1.0.1234", AtlasKey: "a7b8c9d0-e1f2-3456-abcd-567890123456",
			LastEventTime: at(2026, 2, 5, 6, 15, 1), LastAlertTime: at(2026, 2, 4, 18, 0, 1),
			ModuleConfiguration: slots("PX20240389", left(models.ModuleMX, "MX20241801"), right(models.ModuleMX, "MX20241802")),
		},
		{
			SerialNumber: "SN20240234", CustomerName: "Tokyo General Hospital", Region: models.RegionAPAC,
			SiteTimezone: "Asia/Tokyo", SoftwareVersion: "2.0.3.987", AtlasKey: "b8c9d0e1-f2a3-4567-bcde-678901234567",
			LastEventTime: at(2026, 2, 5, 3, 0, 9), LastAlertTime: at(2026, 2, 5, 1, 30, 9),
			ModuleConfiguration: slots("PX20240234", left(models.ModuleGX, "GX20241901"), right(models.ModuleMX, "MX20241902")),
		},
		{
			SerialNumber: "SN20240198", CustomerName: "Singapore Health Center", Region: models.RegionAPAC,
			SiteTimezone: "Asia/Singapore", SoftwareVersion: "2.1.0.1234", AtlasKey: "c9d0e1f2-a3b4-5678-cdef-789012345678",
			LastEventTime:       at(2026, 2, 5, 4, 45, 8),
			ModuleConfiguration: slots("PX20240198", left(models.ModuleMX, "MX20242001")),
		},
		{
			SerialNumber: "SN20240156", CustomerName: "Sydney Pathology", Region: models.RegionAPAC,
			SiteTimezone: "Australia/Sydney", SoftwareVersion: "2.0.3.987", AtlasKey: "d0e1f2a3-b4c5-6789-defa-890123456789",
			LastEventTime: at(2026, 2, 5, 2, 30, 11), LastAlertTime: at(2026, 2, 4, 23, 0, 11),
			ModuleConfiguration: slots("PX20240156", left(models.ModuleGX, "GX20242101"), right(models.ModuleGX, "GX20242102")),
		},
		{
			SerialNumber: "SN20240089", CustomerName: "Sao Paulo Diagnostics", Region: models.RegionLATAM,
			SiteTimezone: "America/Sao_Paulo", SoftwareVersion: "2.1.0.1234", AtlasKey: "e1f2a3b4-c5d6-7890-efab-901234567890",
			LastEventTime: at(2026, 2, 5, 9, 0, -3), LastAlertTime: at(2026, 2, 5, 5, 45, -3),
			ModuleConfiguration: slots("PX20240089", left(models.ModuleMX, "MX20242201"), right(models.ModuleGX, "GX20242202")),
		},
		{
			SerialNumber: "SN20240045", CustomerName: "Mexico City Labs", Region: models.RegionLATAM,
			SiteTimezone: "America/Mexico_City", SoftwareVersion: "2.0.3.987", AtlasKey: "f2a3b4c5-d6e7-8901-fabc-012345678901",
			LastEventTime:       at(2026, 2, 5, 8, 30, -6),
			ModuleConfiguration: slots("PX20240045", left(models.ModuleGX, "GX20242301")),
		},
	}
}

var fixtureAssays = []models.AssayInfo{
	{AssayCode: "HPV", DisplayName: "HPV Analysis", ShortName: "HPV"},
	{AssayCode: "CT_GC", DisplayName: "CT/GC Detection", ShortName: "CT/GC"},
	{AssayCode: "TV", DisplayName: "Trichomonas Vaginalis", ShortName: "TV"},
	{AssayCode: "GBS", DisplayName: "Group B Streptococcus", ShortName: "GBS"},
	{AssayCode: "FLU", DisplayName: "Influenza A/B", ShortName: "FluA/B"},
	{AssayCode: "RSV", DisplayName: "Respiratory Syncytial Virus", ShortName: "RSV"},
}

var fixtureEventTypes = []models.EventTypeInfo{
	{EventCode: models.EventAssayWorkflowStart, DisplayName: "Assay Workflow Start", Category: models.CategoryWorkflow},
	{EventCode: models.EventAssayWorkflowEnd, DisplayName: "Assay Workflow End", Category: models.CategoryWorkflow},
	{EventCode: models.EventWorkflowStart, DisplayName: "Instrument Workflow Start", Category: models.CategoryWorkflow},
	{EventCode: models.EventWorkflowEnd, DisplayName: "Instrument Workflow End", Category: models.CategoryWorkflow},
	{EventCode: models.EventMxAPSInventory, DisplayName: "MX APS Inventory", Category: models.CategoryWorkflow},
	{EventCode: models.EventWasteEmptySolid, DisplayName: "Empty Solid Waste", Category: models.CategoryActivity},
	{EventCode: models.EventWasteEmptyLiquid, DisplayName: "Empty Liquid Waste", Category: models.CategoryActivity},
	{EventCode: models.EventOSDValidation, DisplayName: "OSD Validation", Category: models.CategoryActivity},
	{EventCode: models.EventHeartbeat, DisplayName: "Heartbeat", Category: models.CategorySystem},
	{EventCode: models.EventBoot, DisplayName: "System Boot", Category: models.CategorySystem},
	{EventCode: models.EventPowerCycle, DisplayName: "Power Cycle", Category: models.CategorySystem},
	{EventCode: models.EventErrorSample, DisplayName: "Error Sample", Category: models.CategoryActivity},
	{EventCode: models.EventErrorTubeTransition, DisplayName: "Error Tube Transition", Category: models.CategoryActivity},
	{EventCode: models.EventAlert, DisplayName: "Alert", Category: models.CategoryActivity},
	{EventCode: models.EventPxState, DisplayName: "PX State Transition", Category: models.CategoryState},
	{EventCode: models.EventMxGxState, DisplayName: "MX/GX State Transition", Category: models.CategoryState},
	{EventCode: models.EventMetric, DisplayName: "Metric", Category: models.CategoryMetric},
}
