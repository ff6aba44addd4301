package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// EventCode identifies the type of a COR event. The set is part of the wire
// contract with the instrument telemetry feed.
type EventCode string

const (
	EventAssayWorkflowStart  EventCode = "assayWorkflowStart"
	EventAssayWorkflowEnd    EventCode = "assayWorkflowEnd"
	EventWorkflowStart       EventCode = "workflowStart"
	EventWorkflowEnd         EventCode = "workflowEnd"
	EventMxAPSInventory      EventCode = "mxAPSInventory"
	EventWasteEmptySolid     EventCode = "wasteEmptySolid"
	EventWasteEmptyLiquid    EventCode = "wasteEmptyLiquid"
	EventOSDValidation       EventCode = "osdValidation"
	EventHeartbeat           EventCode = "heartbeat"
	EventBoot                EventCode = "boot"
	EventPowerCycle          EventCode = "powerCycle"
	EventErrorSample         EventCode = "errorSample"
	EventErrorTubeTransition EventCode = "errorTubeTransition"
	EventAlert               EventCode = "alert"
	EventPxState             EventCode = "pxState"
	// EventMxGxState is never sent for real analyzer modules; kept so reference
	// data and older captures still parse.
	EventMxGxState EventCode = "mxGxState"
	EventMetric    EventCode = "metric"
)

var knownEventCodes = map[EventCode]struct{}{
	EventAssayWorkflowStart:  {},
	EventAssayWorkflowEnd:    {},
	EventWorkflowStart:       {},
	EventWorkflowEnd:         {},
	EventMxAPSInventory:      {},
	EventWasteEmptySolid:     {},
	EventWasteEmptyLiquid:    {},
	EventOSDValidation:       {},
	EventHeartbeat:           {},
	EventBoot:                {},
	EventPowerCycle:          {},
	EventErrorSample:         {},
	EventErrorTubeTransition: {},
	EventAlert:               {},
	EventPxState:             {},
	EventMxGxState:           {},
	EventMetric:              {},
}

// Known reports whether c belongs to the COR event code enumeration.
func (c EventCode) Known() bool {
	_, ok := knownEventCodes[c]
	return ok
}

// JSON keys of the declared event fields.
const (
	keyEventCode      = "eventCode"
	keyOccurredAt     = "associatedDateTimeOffset"
	keyExecutionID    = "executionId"
	keyAssay          = "assay"
	keyDevice         = "device"
	keyWorkflowState  = "workflowState"
	keyWorkflowID     = "workflowId"
	keyAlertType      = "alertType"
	keyStartStateCode = "startStateCode"
	keyEndStateCode   = "endStateCode"
	keyMetricName     = "metricName"
	keyMetricValue    = "metricValue"
)

// Event is a single COR telemetry record. Only EventCode and OccurredAt are
// always present; the rest depend on the code. Fields the schema does not
// declare are kept in Extras and written back unchanged.
type Event struct {
	EventCode      EventCode
	OccurredAt     time.Time
	ExecutionID    string
	Assay          string
	Device         string
	WorkflowState  string
	WorkflowID     string
	AlertType      string
	StartStateCode string
	EndStateCode   string
	MetricName     string
	MetricValue    *float64
	Extras         map[string]any

	// wireTime is associatedDateTimeOffset exactly as received.
	wireTime string
	// sent holds declared string keys that were on the wire, even when empty.
	sent map[string]struct{}
}

// UnmarshalJSON decodes the declared fields and collects everything else into Extras.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Event
	strFields := map[string]*string{
		keyExecutionID:    &out.ExecutionID,
		keyAssay:          &out.Assay,
		keyDevice:         &out.Device,
		keyWorkflowState:  &out.WorkflowState,
		keyWorkflowID:     &out.WorkflowID,
		keyAlertType:      &out.AlertType,
		keyStartStateCode: &out.StartStateCode,
		keyEndStateCode:   &out.EndStateCode,
		keyMetricName:     &out.MetricName,
	}

	for k, v := range raw {
		switch k {
		case keyEventCode:
			var code string
			if err := json.Unmarshal(v, &code); err != nil {
				return fmt.Errorf("decode %s: %w", keyEventCode, err)
			}
			out.EventCode = EventCode(code)
		case keyOccurredAt:
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("decode %s: %w", keyOccurredAt, err)
			}
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return fmt.Errorf("decode %s: %w", keyOccurredAt, err)
			}
			out.OccurredAt = t
			out.wireTime = s
		case keyMetricValue:
			if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
				continue
			}
			var f float64
			if err := json.Unmarshal(v, &f); err != nil {
				// keep non-numeric values visible instead of dropping them
				out.putExtra(k, v)
				continue
			}
			out.MetricValue = &f
		default:
			if dst, ok := strFields[k]; ok {
				if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
					continue
				}
				if err := json.Unmarshal(v, dst); err == nil {
					if out.sent == nil {
						out.sent = make(map[string]struct{})
					}
					out.sent[k] = struct{}{}
					continue
				}
			}
			out.putExtra(k, v)
		}
	}

	*e = out
	return nil
}

func (e *Event) putExtra(key string, v json.RawMessage) {
	var val any
	if err := json.Unmarshal(v, &val); err != nil {
		val = string(v)
	}
	if e.Extras == nil {
		e.Extras = make(map[string]any)
	}
	e.Extras[key] = val
}

// MarshalJSON writes the event back in the wire shape it was received in.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Properties())
}

// Properties flattens the event into a key/value bag holding every present
// field, declared or not. Declared fields win over extras with the same key.
// A declared string field sent empty stays in the bag as "".
func (e Event) Properties() map[string]any {
	props := make(map[string]any, len(e.Extras)+4)
	for k, v := range e.Extras {
		props[k] = v
	}
	props[keyEventCode] = string(e.EventCode)
	if !e.OccurredAt.IsZero() {
		props[keyOccurredAt] = e.occurredAtText()
	}
	setIf := func(key, val string) {
		if _, sent := e.sent[key]; val != "" || sent {
			props[key] = val
		}
	}
	setIf(keyExecutionID, e.ExecutionID)
	setIf(keyAssay, e.Assay)
	setIf(keyDevice, e.Device)
	setIf(keyWorkflowState, e.WorkflowState)
	setIf(keyWorkflowID, e.WorkflowID)
	setIf(keyAlertType, e.AlertType)
	setIf(keyStartStateCode, e.StartStateCode)
	setIf(keyEndStateCode, e.EndStateCode)
	setIf(keyMetricName, e.MetricName)
	if e.MetricValue != nil {
		props[keyMetricValue] = *e.MetricValue
	}
	return props
}

// occurredAtText echoes the received timestamp while OccurredAt still holds
// the instant it was parsed from.
func (e Event) occurredAtText() string {
	if e.wireTime != "" {
		if t, err := time.Parse(time.RFC3339Nano, e.wireTime); err == nil && t.Equal(e.OccurredAt) {
			return e.wireTime
		}
	}
	return e.OccurredAt.Format(time.RFC3339Nano)
}

// MergeProperties returns the properties of first overlaid by those of later
// events; on key collisions the later event wins.
func MergeProperties(first Event, later ...*Event) map[string]any {
	props := first.Properties()
	for _, ev := range later {
		if ev == nil {
			continue
		}
		for k, v := range ev.Properties() {
			props[k] = v
		}
	}
	return props
}
