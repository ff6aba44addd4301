package processor

import (
	"sort"
	"time"

	"cor_dashboard/internal/models"
)

const unknown = "Unknown"

// Open assay workflows change color once they have been running this long.
const (
	warningInflightAfter = 4 * time.Hour
	maxInflightAfter     = 12 * time.Hour
)

// workflowPair is a start event with its matching end, if one arrived.
type workflowPair struct {
	executionID string
	start       models.Event
	end         *models.Event
}

// pairWorkflows matches start and end events on executionId. Pairs come back
// in the order their execution ids first started; a repeated start or end for
// the same id replaces the earlier one. Events without an id are skipped.
func pairWorkflows(events []models.Event, isStart, isEnd func(models.EventCode) bool) []workflowPair {
	var order []string
	starts := make(map[string]models.Event)
	ends := make(map[string]models.Event)

	for _, e := range events {
		if e.ExecutionID == "" {
			continue
		}
		if isStart(e.EventCode) {
			if _, seen := starts[e.ExecutionID]; !seen {
				order = append(order, e.ExecutionID)
			}
			starts[e.ExecutionID] = e
		}
		if isEnd(e.EventCode) {
			ends[e.ExecutionID] = e
		}
	}

	pairs := make([]workflowPair, 0, len(order))
	for _, id := range order {
		p := workflowPair{executionID: id, start: starts[id]}
		if end, ok := ends[id]; ok {
			p.end = &end
		}
		pairs = append(pairs, p)
	}
	return pairs
}

func (p workflowPair) endTime() *time.Time {
	if p.end == nil {
		return nil
	}
	t := p.end.OccurredAt
	return &t
}

func isCode(code models.EventCode) func(models.EventCode) bool {
	return func(c models.EventCode) bool { return c == code }
}

func isInstrumentEnd(c models.EventCode) bool {
	return c == models.EventWorkflowEnd || c == models.EventMxAPSInventory
}

func assayWorkflows(events []models.Event, referenceTime time.Time, assayNames map[string]string) []models.ProcessedAssayWorkflow {
	pairs := pairWorkflows(events, isCode(models.EventAssayWorkflowStart), isCode(models.EventAssayWorkflowEnd))

	out := make([]models.ProcessedAssayWorkflow, 0, len(pairs))
	for _, p := range pairs {
		startTime := p.start.OccurredAt
		state := "inflight"
		if p.end != nil {
			state = orDefault(p.end.WorkflowState, "complete")
		}

		out = append(out, models.ProcessedAssayWorkflow{
			ExecutionID:      p.executionID,
			Assay:            orDefault(p.start.Assay, unknown),
			AssayDisplayName: assayDisplayName(p.start.Assay, assayNames),
			Device:           orDefault(p.start.Device, unknown),
			StartTime:        startTime,
			EndTime:          p.endTime(),
			Status:           classifyWorkflowStatus(p.end, startTime, referenceTime),
			BatchIDLast4:     lastN(p.executionID, 4),
			WorkflowState:    state,
			Properties:       models.MergeProperties(p.start, p.end),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func instrumentWorkflows(events []models.Event) []models.ProcessedInstrumentWorkflow {
	pairs := pairWorkflows(events, isCode(models.EventWorkflowStart), isInstrumentEnd)

	out := make([]models.ProcessedInstrumentWorkflow, 0, len(pairs))
	for _, p := range pairs {
		state := "started"
		if p.end != nil {
			state = orDefault(p.end.WorkflowState, "complete")
		}
		out = append(out, models.ProcessedInstrumentWorkflow{
			ExecutionID:   p.executionID,
			WorkflowID:    p.start.WorkflowID,
			StartTime:     p.start.OccurredAt,
			EndTime:       p.endTime(),
			WorkflowState: state,
			Properties:    models.MergeProperties(p.start, p.end),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// classifyWorkflowStatus picks the display status of an assay workflow.
// Finished runs are normal unless they ended in error or were aborted; open
// runs are graded by how long they have been running at referenceTime.
func classifyWorkflowStatus(end *models.Event, startTime, referenceTime time.Time) models.AssayWorkflowStatus {
	if end != nil {
		switch end.WorkflowState {
		case "error", "aborted":
			return models.StatusError
		default:
			return models.StatusNormal
		}
	}

	elapsed := referenceTime.Sub(startTime)
	switch {
	case elapsed >= maxInflightAfter:
		return models.StatusMaxInflight
	case elapsed >= warningInflightAfter:
		return models.StatusWarningInflight
	default:
		return models.StatusInflight
	}
}

func assayDisplayName(code string, names map[string]string) string {
	if name, ok := names[code]; ok && name != "" {
		return name
	}
	return orDefault(code, unknown)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// lastN returns the last n characters of s.
func lastN(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
