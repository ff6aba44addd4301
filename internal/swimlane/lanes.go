package swimlane

import "cor_dashboard/internal/models"

// BuildSwimLanes returns the lanes of a system in display order: left
// analyzer, right analyzer, then the PX controller which is always last.
// A zero Topology yields no lanes.
func BuildSwimLanes(t Topology) []models.SwimLaneConfig {
	if !t.Valid() {
		return []models.SwimLaneConfig{}
	}

	lanes := make([]models.SwimLaneConfig, 0, 3)
	if left, ok := t.Left(); ok {
		lanes = append(lanes, analyzerLane(left, models.LaneLeft))
	}
	if right, ok := t.Right(); ok {
		lanes = append(lanes, analyzerLane(right, models.LaneRight))
	}
	return append(lanes, controllerLane(t.Controller()))
}

// LaneLabel returns the display label of a lane, e.g. "PX" or "Left GX".
func LaneLabel(cfg models.SwimLaneConfig) string {
	if cfg.Position == models.LanePX {
		return string(models.ModulePX)
	}
	return string(cfg.ModuleSide) + " " + string(cfg.ModuleName)
}

func analyzerLane(slot models.ModuleSlot, pos models.SwimLanePosition) models.SwimLaneConfig {
	return models.SwimLaneConfig{
		Position:           pos,
		ModuleName:         slot.ModuleName,
		ModuleSide:         slot.ModuleSide,
		ModuleSerialNumber: slot.ModuleSerialNumber,
		Axes: []models.SwimLaneAxis{
			{Name: "Alerts & Errors", Type: models.AxisAlertsErrors},
			{Name: "State Transition", Type: models.AxisStateTransition},
			{Name: "Assay Workflows", Type: models.AxisAssayWorkflow},
		},
	}
}

func controllerLane(slot models.ModuleSlot) models.SwimLaneConfig {
	return models.SwimLaneConfig{
		Position:           models.LanePX,
		ModuleName:         slot.ModuleName,
		ModuleSide:         slot.ModuleSide,
		ModuleSerialNumber: slot.ModuleSerialNumber,
		Axes: []models.SwimLaneAxis{
			{Name: "Alerts & Errors", Type: models.AxisAlertsErrors},
			{Name: "PX States", Type: models.AxisPxState},
		},
	}
}
