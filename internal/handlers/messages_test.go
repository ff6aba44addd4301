package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cor_dashboard/internal/models"
	"cor_dashboard/internal/service"
)

const messageBody = `{
  "messageDateTimeOffset": "2026-02-05T10:30:00-05:00",
  "serialNumber": "SN20240847",
  "softwareVersion": "2.1.0.1234",
  "atlasKey": "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
  "modules": [
    {
      "moduleName": "MX",
      "moduleSide": "Right",
      "moduleSerialNumber": "MX20241202",
      "events": [
        {"eventCode": "assayWorkflowStart", "associatedDateTimeOffset": "2026-02-05T09:00:00-05:00",
         "executionId": "e-1234", "assay": "GBS", "device": "APS2", "rackId": "R-17"}
      ]
    }
  ]
}`

func TestPostMessage_Accepted(t *testing.T) {
	ingest := &mockIngestor{res: service.IngestResult{SerialNumber: "SN20240847", Modules: 1, Events: 1}}
	r := newTestRouter(&service.Service{Ingestor: ingest})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(messageBody))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	msg := ingest.lastMsg
	if msg.SerialNumber != "SN20240847" || len(msg.Modules) != 1 {
		t.Fatalf("message = %+v", msg)
	}
	ev := msg.Modules[0].Events[0]
	if ev.EventCode != models.EventAssayWorkflowStart || ev.Device != "APS2" || ev.Extras["rackId"] != "R-17" {
		t.Fatalf("event = %+v", ev)
	}
	if _, off := ev.OccurredAt.Zone(); off != -5*3600 {
		t.Fatalf("offset lost: %v", ev.OccurredAt)
	}
}

func TestPostMessage_Errors(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		err   error
		code  int
		calls int
	}{
		{"malformed json", `{"serialNumber":`, nil, http.StatusBadRequest, 0},
		{"bad event timestamp", strings.Replace(messageBody, "2026-02-05T09:00:00-05:00", "09:00", 1), nil, http.StatusBadRequest, 0},
		{"invalid message", messageBody, fmt.Errorf("%w: atlasKey is required", service.ErrInvalidMessage), http.StatusBadRequest, 1},
		{"unknown system", messageBody, fmt.Errorf("%w: SN20240847", service.ErrSystemNotFound), http.StatusNotFound, 1},
		{"store failure", messageBody, fmt.Errorf("append events: disk full"), http.StatusInternalServerError, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ingest := &mockIngestor{err: tc.err}
			r := newTestRouter(&service.Service{Ingestor: ingest})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tc.code {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.code, w.Body.String())
			}
			if ingest.calls != tc.calls {
				t.Fatalf("ingest calls = %d want %d", ingest.calls, tc.calls)
			}
		})
	}
}
