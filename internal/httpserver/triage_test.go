package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"inbox-triage/internal/model"
	"inbox-triage/internal/triage"
	"inbox-triage/pkg/response"
)

type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (mockLogger) Info(ctx context.Context, args ...any)                   {}
func (mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (mockLogger) Error(ctx context.Context, args ...any)                  {}
func (mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

type stubTriageUC struct {
	out triage.RunOutput
	err error
}

func (s *stubTriageUC) Run(ctx context.Context) (triage.RunOutput, error) {
	if s.err != nil {
		return triage.RunOutput{}, s.err
	}
	return s.out, nil
}

func (s *stubTriageUC) ProcessEmail(ctx context.Context, rec model.EmailRecord) model.ProcessingResult {
	return model.ProcessingResult{}
}

func newTestServer(t *testing.T, uc triage.UseCase) *HTTPServer {
	t.Helper()
	srv, err := New(mockLogger{}, Config{
		Port:          8080,
		Mode:          gin.TestMode,
		Environment:   "development",
		TriageUseCase: uc,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := srv.mapHandlers(); err != nil {
		t.Fatalf("mapHandlers: %v", err)
	}
	return srv
}

func sampleRunOutput() triage.RunOutput {
	return triage.RunOutput{
		RunID:      "run-1",
		StartedAt:  time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2024, 3, 11, 9, 0, 5, 0, time.UTC),
		Results: []model.ProcessingResult{
			{
				EmailID:  "email_01",
				Filename: "email_01.txt",
				Summary:  "Budget review requested.",
				Status:   model.StatusSuccess,
				Tasks: []model.ResolvedTask{
					{
						RawTask: model.RawTask{
							Description: "Review the budget",
							Owner:       model.OwnerUnspecified,
							Category:    model.CategoryReview,
						},
						Priority: model.PriorityMedium,
					},
				},
			},
		},
		Stats: model.RunStats{EmailsProcessed: 1, TasksExtracted: 1},
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, &stubTriageUC{})

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.gin.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}
}

func TestGetReportNoRun(t *testing.T) {
	srv := newTestServer(t, &stubTriageUC{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/report", nil)
	srv.gin.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 before any run, got %d", w.Code)
	}
}

func TestGetReportAfterRun(t *testing.T) {
	srv := newTestServer(t, &stubTriageUC{})
	srv.SetLatest(sampleRunOutput())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/report", nil)
	srv.gin.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp response.Resp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data payload: %v", resp.Data)
	}
	if data["run_id"] != "run-1" {
		t.Errorf("run_id = %v", data["run_id"])
	}
	tasks, ok := data["tasks"].([]interface{})
	if !ok || len(tasks) != 1 {
		t.Errorf("expected 1 task, got %v", data["tasks"])
	}
}

func TestTriggerRun(t *testing.T) {
	uc := &stubTriageUC{out: sampleRunOutput()}
	srv := newTestServer(t, uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
	srv.gin.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// The triggered run becomes the latest report.
	if _, ok := srv.store.Latest(); !ok {
		t.Error("run output was not stored")
	}
}

func TestTriggerRunFailure(t *testing.T) {
	uc := &stubTriageUC{err: errors.New("mailbox is unavailable")}
	srv := newTestServer(t, uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
	srv.gin.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestNewValidation(t *testing.T) {
	_, err := New(mockLogger{}, Config{Port: 8080, Mode: gin.TestMode})
	if err == nil {
		t.Error("expected error when triage usecase is missing")
	}

	_, err = New(mockLogger{}, Config{Mode: gin.TestMode, TriageUseCase: &stubTriageUC{}})
	if err == nil {
		t.Error("expected error when port is missing")
	}
}
