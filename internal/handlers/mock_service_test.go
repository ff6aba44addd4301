package handlers

import (
	"context"
	"time"

	"cor_dashboard/internal/models"
	"cor_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockSystems struct {
	systems []models.System
	groups  []models.SystemsByRegion
	system  models.System
	lanes   []models.SwimLaneConfig
	err     error

	lastQuery  string
	lastSerial string
}

func (m *mockSystems) List(ctx context.Context) ([]models.System, error) {
	return m.systems, m.err
}
func (m *mockSystems) ByRegion(ctx context.Context, query string) ([]models.SystemsByRegion, error) {
	m.lastQuery = query
	return m.groups, m.err
}
func (m *mockSystems) Get(ctx context.Context, serial string) (models.System, error) {
	m.lastSerial = serial
	return m.system, m.err
}
func (m *mockSystems) SwimLanes(ctx context.Context, serial string) ([]models.SwimLaneConfig, error) {
	m.lastSerial = serial
	return m.lanes, m.err
}

type mockEvents struct {
	resp    models.SystemEventsResponse
	err     error
	lastReq models.SystemEventsRequest
}

func (m *mockEvents) SystemEvents(ctx context.Context, req models.SystemEventsRequest) (models.SystemEventsResponse, error) {
	m.lastReq = req
	return m.resp, m.err
}

type mockTimelines struct {
	resp    models.Timeline
	err     error
	lastReq service.TimelineRequest
}

func (m *mockTimelines) Timeline(ctx context.Context, req service.TimelineRequest) (models.Timeline, error) {
	m.lastReq = req
	return m.resp, m.err
}

type mockIngestor struct {
	res     service.IngestResult
	err     error
	lastMsg models.Message
	calls   int
}

func (m *mockIngestor) Ingest(ctx context.Context, msg models.Message) (service.IngestResult, error) {
	m.calls++
	m.lastMsg = msg
	return m.res, m.err
}

type mockReference struct {
	data models.ReferenceData
	err  error
}

func (m *mockReference) ReferenceData(ctx context.Context) (models.ReferenceData, error) {
	return m.data, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

var testNow = time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)
