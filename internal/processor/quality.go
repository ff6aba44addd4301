package processor

import (
	"sort"

	"cor_dashboard/internal/models"
)

// DataQuality lists oddities in a module's event stream. It is diagnostic
// only: the lane data is built the same way whether or not it is empty.
type DataQuality struct {
	// DuplicateStarts and DuplicateEnds hold execution ids that started or
	// ended more than once; the last event wins when pairing.
	DuplicateStarts []string `json:"duplicateStarts"`
	DuplicateEnds   []string `json:"duplicateEnds"`
	// OrphanEnds holds execution ids that ended without a start.
	OrphanEnds []string `json:"orphanEnds"`
	// UnknownCodes counts events whose code is outside the enumeration.
	UnknownCodes map[models.EventCode]int `json:"unknownCodes"`
}

// Clean reports whether nothing was found.
func (q DataQuality) Clean() bool {
	return len(q.DuplicateStarts) == 0 && len(q.DuplicateEnds) == 0 &&
		len(q.OrphanEnds) == 0 && len(q.UnknownCodes) == 0
}

// Inspect scans events for the oddities DataQuality describes. Assay and
// instrument workflows are checked separately.
func Inspect(events []models.Event) DataQuality {
	q := DataQuality{UnknownCodes: make(map[models.EventCode]int)}

	kinds := []struct {
		isStart, isEnd func(models.EventCode) bool
	}{
		{isCode(models.EventAssayWorkflowStart), isCode(models.EventAssayWorkflowEnd)},
		{isCode(models.EventWorkflowStart), isInstrumentEnd},
	}
	for _, k := range kinds {
		starts := make(map[string]int)
		ends := make(map[string]int)
		for _, e := range events {
			if e.ExecutionID == "" {
				continue
			}
			if k.isStart(e.EventCode) {
				starts[e.ExecutionID]++
			}
			if k.isEnd(e.EventCode) {
				ends[e.ExecutionID]++
			}
		}
		q.DuplicateStarts = append(q.DuplicateStarts, over(starts, 1)...)
		q.DuplicateEnds = append(q.DuplicateEnds, over(ends, 1)...)
		for id := range ends {
			if _, ok := starts[id]; !ok {
				q.OrphanEnds = append(q.OrphanEnds, id)
			}
		}
	}
	sort.Strings(q.OrphanEnds)

	for _, e := range events {
		if !e.EventCode.Known() {
			q.UnknownCodes[e.EventCode]++
		}
	}
	if len(q.UnknownCodes) == 0 {
		q.UnknownCodes = nil
	}
	return q
}

// over returns the sorted keys whose count exceeds n.
func over(counts map[string]int, n int) []string {
	var ids []string
	for id, c := range counts {
		if c > n {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
