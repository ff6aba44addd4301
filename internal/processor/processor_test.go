package processor

import (
	"reflect"
	"testing"
	"time"

	"cor_dashboard/internal/models"
)

var t0 = time.Date(2026, time.February, 5, 7, 0, 0, 0, time.FixedZone("EST", -5*3600))

func ev(code models.EventCode, at time.Time, opts ...func(*models.Event)) models.Event {
	e := models.Event{EventCode: code, OccurredAt: at}
	for _, o := range opts {
		o(&e)
	}
	return e
}

func execID(id string) func(*models.Event) { return func(e *models.Event) { e.ExecutionID = id } }
func state(s string) func(*models.Event) { return func(e *models.Event) { e.WorkflowState = s } }
func assay(a string) func(*models.Event) { return func(e *models.Event) { e.Assay = a } }
func device(d string) func(*models.Event) { return func(e *models.Event) { e.Device = d } }
func alertType(a string) func(*models.Event) { return func(e *models.Event) { e.AlertType = a } }
func transition(from, to string) func(*models.Event) {
	return func(e *models.Event) { e.StartStateCode, e.EndStateCode = from, to }
}

func analyzerModule(events ...models.Event) models.Module {
	return models.Module{ModuleName: models.ModuleGX, ModuleSide: models.SideLeft, ModuleSerialNumber: "GX-1", Events: events}
}

func controllerModule(events ...models.Event) models.Module {
	return models.Module{ModuleName: models.ModulePX, ModuleSide: models.SideNA, ModuleSerialNumber: "PX-1", Events: events}
}

func TestAssayWorkflows_PairedRunIsNormal(t *testing.T) {
	t.Parallel()

	end := t0.Add(90 * time.Minute)
	out := ProcessAnalyzerEvents(analyzerModule(
		ev(models.EventAssayWorkflowStart, t0, execID("A"), assay("HPV"), device("Drawer1"), state("started")),
		ev(models.EventAssayWorkflowEnd, end, execID("A"), state("complete")),
	), t0.Add(2*time.Hour), nil)

	if len(out.AssayWorkflows) != 1 {
		t.Fatalf("got %d workflows, want 1", len(out.AssayWorkflows))
	}
	wf := out.AssayWorkflows[0]
	if wf.Status != models.StatusNormal {
		t.Fatalf("status = %q, want normal", wf.Status)
	}
	if wf.EndTime == nil || !wf.EndTime.Equal(end) {
		t.Fatalf("endTime = %v, want %v", wf.EndTime, end)
	}
	if wf.WorkflowState != "complete" {
		t.Fatalf("workflowState = %q", wf.WorkflowState)
	}
	if wf.Properties["workflowState"] != "complete" || wf.Properties["eventCode"] != "assayWorkflowEnd" {
		t.Fatalf("end event did not override properties: %v", wf.Properties)
	}
	if wf.Properties["device"] != "Drawer1" {
		t.Fatalf("start-only property lost: %v", wf.Properties)
	}
}

func TestAssayWorkflows_OpenRunWarning(t *testing.T) {
	t.Parallel()

	out := ProcessAnalyzerEvents(analyzerModule(
		ev(models.EventAssayWorkflowStart, t0, execID("B")),
	), t0.Add(5*time.Hour), nil)

	if len(out.AssayWorkflows) != 1 {
		t.Fatalf("got %d workflows, want 1", len(out.AssayWorkflows))
	}
	wf := out.AssayWorkflows[0]
	if wf.EndTime != nil {
		t.Fatalf("endTime = %v, want nil", wf.EndTime)
	}
	if wf.Status != models.StatusWarningInflight {
		t.Fatalf("status = %q, want warningInflight", wf.Status)
	}
	if wf.WorkflowState != "inflight" {
		t.Fatalf("workflowState = %q, want inflight", wf.WorkflowState)
	}
}

func TestClassifyWorkflowStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		end     *models.Event
		elapsed time.Duration
		want    models.AssayWorkflowStatus
	}{
		{"just started", nil, 0, models.StatusInflight},
		{"start after reference time", nil, -time.Hour, models.StatusInflight},
		{"3h59m", nil, 3*time.Hour + 59*time.Minute, models.StatusInflight},
		{"one ns before 4h", nil, 4*time.Hour - time.Nanosecond, models.StatusInflight},
		{"exactly 4h", nil, 4 * time.Hour, models.StatusWarningInflight},
		{"11h59m", nil, 11*time.Hour + 59*time.Minute, models.StatusWarningInflight},
		{"exactly 12h", nil, 12 * time.Hour, models.StatusMaxInflight},
		{"two days", nil, 48 * time.Hour, models.StatusMaxInflight},
		{"ended complete", &models.Event{WorkflowState: "complete"}, 30 * time.Hour, models.StatusNormal},
		{"ended without state", &models.Event{}, time.Hour, models.StatusNormal},
		{"ended in error", &models.Event{WorkflowState: "error"}, time.Hour, models.StatusError},
		{"aborted", &models.Event{WorkflowState: "aborted"}, time.Hour, models.StatusError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := classifyWorkflowStatus(tc.end, t0, t0.Add(tc.elapsed))
			if got != tc.want {
				t.Fatalf("classifyWorkflowStatus = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAssayWorkflows_OpenStatusIgnoresUnrelatedEvents(t *testing.T) {
	t.Parallel()

	ref := t0.Add(13 * time.Hour)
	alone := ProcessAnalyzerEvents(analyzerModule(ev(models.EventAssayWorkflowStart, t0, execID("C"))), ref, nil)
	noisy := ProcessAnalyzerEvents(analyzerModule(
		ev(models.EventHeartbeat, t0.Add(time.Minute)),
		ev(models.EventAssayWorkflowStart, t0, execID("C")),
		ev(models.EventAssayWorkflowEnd, t0.Add(time.Hour), execID("other"), state("complete")),
		ev(models.EventWorkflowEnd, t0.Add(2*time.Hour), execID("C"), state("complete")),
		ev(models.EventAlert, t0.Add(3*time.Hour), alertType("X")),
	), ref, nil)

	a, n := alone.AssayWorkflows[0], noisy.AssayWorkflows[0]
	if a.Status != models.StatusMaxInflight || n.Status != a.Status || n.EndTime != nil {
		t.Fatalf("open workflow changed by unrelated events: alone=%+v noisy=%+v", a, n)
	}
}

func TestAssayWorkflows_SortedStableOnTies(t *testing.T) {
	t.Parallel()

	out := ProcessAnalyzerEvents(analyzerModule(
		ev(models.EventAssayWorkflowStart, t0.Add(time.Hour), execID("late")),
		ev(models.EventAssayWorkflowStart, t0, execID("tie-1")),
		ev(models.EventAssayWorkflowStart, t0, execID("tie-2")),
		ev(models.EventAssayWorkflowStart, t0, execID("tie-3")),
		ev(models.EventAssayWorkflowStart, t0.Add(-time.Hour), execID("early")),
	), t0, nil)

	var got []string
	for _, wf := range out.AssayWorkflows {
		got = append(got, wf.ExecutionID)
	}
	want := []string{"early", "tie-1", "tie-2", "tie-3", "late"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestAssayWorkflows_LastEndWins(t *testing.T) {
	t.Parallel()

	out := ProcessAnalyzerEvents(analyzerModule(
		ev(models.EventAssayWorkflowStart, t0, execID("D")),
		ev(models.EventAssayWorkflowEnd, t0.Add(time.Hour), execID("D"), state("complete")),
		ev(models.EventAssayWorkflowEnd, t0.Add(2*time.Hour), execID("D"), state("aborted")),
	), t0.Add(3*time.Hour), nil)

	wf := out.AssayWorkflows[0]
	if wf.Status != models.StatusError || !wf.EndTime.Equal(t0.Add(2*time.Hour)) {
		t.Fatalf("expected last end to win, got %+v", wf)
	}
}

func TestAssayWorkflows_OrphanEndAndMissingIDIgnored(t *testing.T) {
	t.Parallel()

	out := ProcessAnalyzerEvents(analyzerModule(
		ev(models.EventAssayWorkflowEnd, t0, execID("orphan"), state("complete")),
		ev(models.EventAssayWorkflowStart, t0),
	), t0, nil)

	if len(out.AssayWorkflows) != 0 {
		t.Fatalf("expected no workflows, got %+v", out.AssayWorkflows)
	}
}

func TestAssayWorkflows_Defaults(t *testing.T) {
	t.Parallel()

	assays := []models.AssayInfo{{AssayCode: "CT_GC", DisplayName: "CT/GC Detection", ShortName: "CT/GC"}}
	out := ProcessAnalyzerEvents(analyzerModule(
		ev(models.EventAssayWorkflowStart, t0, execID("exec-9f3a2b71"), assay("CT_GC")),
		ev(models.EventAssayWorkflowStart, t0.Add(time.Minute), execID("x1"), assay("NEW_ASSAY")),
		ev(models.EventAssayWorkflowStart, t0.Add(2*time.Minute), execID("x2")),
		ev(models.EventAssayWorkflowEnd, t0.Add(3*time.Minute), execID("x2")),
	), t0.Add(time.Hour), assays)

	wfs := out.AssayWorkflows
	if wfs[0].AssayDisplayName != "CT/GC Detection" || wfs[0].BatchIDLast4 != "2b71" {
		t.Fatalf("lookup/batch id: %+v", wfs[0])
	}
	if wfs[1].AssayDisplayName != "NEW_ASSAY" || wfs[1].Assay != "NEW_ASSAY" {
		t.Fatalf("fallback to raw code: %+v", wfs[1])
	}
	if wfs[1].BatchIDLast4 != "x1" {
		t.Fatalf("short id batch = %q", wfs[1].BatchIDLast4)
	}
	if wfs[2].Assay != "Unknown" || wfs[2].AssayDisplayName != "Unknown" || wfs[2].Device != "Unknown" {
		t.Fatalf("missing fields not defaulted: %+v", wfs[2])
	}
	if wfs[2].WorkflowState != "complete" || wfs[2].Status != models.StatusNormal {
		t.Fatalf("end without state: %+v", wfs[2])
	}
}

func TestInstrumentWorkflows(t *testing.T) {
	t.Parallel()

	events := []models.Event{
		ev(models.EventWorkflowStart, t0.Add(2*time.Hour), execID("w2"), func(e *models.Event) { e.WorkflowID = "AddMedia" }),
		ev(models.EventWorkflowStart, t0, execID("w1"), func(e *models.Event) { e.WorkflowID = "RefillPipettes" }),
		ev(models.EventWorkflowEnd, t0.Add(30*time.Minute), execID("w1"), state("complete")),
		ev(models.EventMxAPSInventory, t0.Add(150*time.Minute), execID("w2")),
		ev(models.EventWorkflowStart, t0.Add(3*time.Hour), execID("w3")),
	}
	out := ProcessControllerEvents(controllerModule(events...))

	iw := out.InstrumentWorkflows
	if len(iw) != 3 {
		t.Fatalf("got %d workflows, want 3", len(iw))
	}
	if iw[0].ExecutionID != "w1" || iw[0].WorkflowState != "complete" || iw[0].WorkflowID != "RefillPipettes" {
		t.Fatalf("w1 = %+v", iw[0])
	}
	if iw[1].ExecutionID != "w2" || iw[1].EndTime == nil || !iw[1].EndTime.Equal(t0.Add(150*time.Minute)) {
		t.Fatalf("mxAPSInventory must close w2: %+v", iw[1])
	}
	if iw[1].WorkflowState != "complete" {
		t.Fatalf("w2 state = %q", iw[1].WorkflowState)
	}
	if iw[2].EndTime != nil || iw[2].WorkflowState != "started" || iw[2].WorkflowID != "" {
		t.Fatalf("w3 = %+v", iw[2])
	}
}

func TestActivities(t *testing.T) {
	t.Parallel()

	out := ProcessAnalyzerEvents(analyzerModule(
		ev(models.EventAlert, t0.Add(3*time.Minute), alertType("PX_DOOR_OPEN"), device("PX")),
		ev(models.EventHeartbeat, t0),
		ev(models.EventErrorTubeTransition, t0.Add(2*time.Minute), device("APS1")),
		ev(models.EventWasteEmptySolid, t0.Add(time.Minute)),
		ev(models.EventMetric, t0.Add(time.Minute)),
		ev(models.EventPxState, t0.Add(time.Minute)),
	), t0, nil)

	acts := out.Activities
	if len(acts) != 4 {
		t.Fatalf("got %d activities, want 4: %+v", len(acts), acts)
	}
	wantTypes := []models.ActivityType{models.ActivityGeneral, models.ActivityGeneral, models.ActivityErrorSample, models.ActivityAlert}
	for i, a := range acts {
		if a.Type != wantTypes[i] {
			t.Fatalf("activity %d type = %q, want %q", i, a.Type, wantTypes[i])
		}
	}
	if acts[3].AlertType != "PX_DOOR_OPEN" || acts[3].Device != "PX" {
		t.Fatalf("alert = %+v", acts[3])
	}
	if acts[2].Device != "APS1" || acts[2].AlertType != "" {
		t.Fatalf("error sample = %+v", acts[2])
	}
}

func TestControllerLane(t *testing.T) {
	t.Parallel()

	out := ProcessControllerEvents(controllerModule(
		ev(models.EventPxState, t0.Add(2*time.Minute), transition("OfflineIdle", "Online")),
		ev(models.EventBoot, t0.Add(15*time.Minute)),
		ev(models.EventPxState, t0, transition("PoweredOff", "OfflineIdle")),
		ev(models.EventPowerCycle, t0),
		ev(models.EventPxState, t0.Add(5*time.Minute), transition("Online", "")),
	))

	if len(out.StateTransitions) != 3 || out.StateTransitions[0].StartStateCode != "PoweredOff" {
		t.Fatalf("transitions = %+v", out.StateTransitions)
	}
	want := []string{"PoweredOff", "OfflineIdle", "Online"}
	if !reflect.DeepEqual(out.StateNames, want) {
		t.Fatalf("stateNames = %v, want %v", out.StateNames, want)
	}
	if len(out.BootEvents) != 2 || out.BootEvents[0].Type != models.EventPowerCycle || out.BootEvents[1].Type != models.EventBoot {
		t.Fatalf("boot events = %+v", out.BootEvents)
	}
}

func TestDevices_SortedDistinctFromAssayEventsOnly(t *testing.T) {
	t.Parallel()

	out := ProcessAnalyzerEvents(analyzerModule(
		ev(models.EventAssayWorkflowStart, t0, execID("1"), device("APS3")),
		ev(models.EventAssayWorkflowEnd, t0, execID("1"), device("APS1")),
		ev(models.EventAssayWorkflowStart, t0, execID("2"), device("APS3")),
		ev(models.EventErrorSample, t0, device("APS9")),
		ev(models.EventAssayWorkflowStart, t0, execID("3")),
	), t0, nil)

	if !reflect.DeepEqual(out.Devices, []string{"APS1", "APS3"}) {
		t.Fatalf("devices = %v", out.Devices)
	}
}

func TestStateBarsStub(t *testing.T) {
	t.Parallel()

	out := ProcessAnalyzerEvents(analyzerModule(
		ev(models.EventWorkflowStart, t0, execID("m")),
		ev(models.EventWorkflowEnd, t0.Add(time.Hour), execID("m")),
		ev(models.EventMxGxState, t0, transition("Idle", "Processing")),
	), t0, nil)

	if out.StateBars == nil || len(out.StateBars) != 0 {
		t.Fatalf("stateBars = %#v, want empty", out.StateBars)
	}
}

func TestUnknownCodeIsIgnored(t *testing.T) {
	t.Parallel()

	base := []models.Event{
		ev(models.EventAssayWorkflowStart, t0, execID("A"), device("D1")),
		ev(models.EventAssayWorkflowEnd, t0.Add(time.Hour), execID("A"), state("complete")),
		ev(models.EventWorkflowStart, t0, execID("W")),
		ev(models.EventAlert, t0, alertType("A1")),
		ev(models.EventPxState, t0, transition("a", "b")),
		ev(models.EventBoot, t0),
	}
	withUnknown := append([]models.Event{ev("firmwareUpdate", t0, execID("A"), device("D9"))}, base...)
	ref := t0.Add(2 * time.Hour)

	if !reflect.DeepEqual(
		ProcessAnalyzerEvents(analyzerModule(base...), ref, nil),
		ProcessAnalyzerEvents(analyzerModule(withUnknown...), ref, nil),
	) {
		t.Fatalf("analyzer output changed by unknown event code")
	}
	if !reflect.DeepEqual(
		ProcessControllerEvents(controllerModule(base...)),
		ProcessControllerEvents(controllerModule(withUnknown...)),
	) {
		t.Fatalf("controller output changed by unknown event code")
	}
}

func TestEmptyInputYieldsEmptyLists(t *testing.T) {
	t.Parallel()

	a := ProcessAnalyzerEvents(analyzerModule(), t0, nil)
	if a.AssayWorkflows == nil || a.InstrumentWorkflows == nil || a.Activities == nil || a.Devices == nil || a.StateBars == nil {
		t.Fatalf("nil list in analyzer output: %#v", a)
	}
	c := ProcessControllerEvents(controllerModule())
	if c.StateTransitions == nil || c.BootEvents == nil || c.StateNames == nil || c.Activities == nil {
		t.Fatalf("nil list in controller output: %#v", c)
	}
}

func TestInputNotMutated(t *testing.T) {
	t.Parallel()

	events := []models.Event{
		ev(models.EventAssayWorkflowStart, t0.Add(time.Hour), execID("b")),
		ev(models.EventAssayWorkflowStart, t0, execID("a")),
	}
	before := append([]models.Event(nil), events...)
	_ = ProcessAnalyzerEvents(analyzerModule(events...), t0, nil)
	if !reflect.DeepEqual(events, before) {
		t.Fatalf("input events were reordered or changed")
	}
}
