package httpserver

import (
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"inbox-triage/internal/model"
	"inbox-triage/internal/report"
	"inbox-triage/internal/triage"
	"inbox-triage/pkg/response"
)

// reportStore keeps the latest run output for the report endpoint.
type reportStore struct {
	mu     sync.RWMutex
	latest *triage.RunOutput
}

func newReportStore() *reportStore {
	return &reportStore{}
}

func (s *reportStore) Set(out triage.RunOutput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &out
}

func (s *reportStore) Latest() (triage.RunOutput, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return triage.RunOutput{}, false
	}
	return *s.latest, true
}

type reportResponse struct {
	RunID      string              `json:"run_id"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Stats      model.RunStats      `json:"stats"`
	Tasks      []report.TaskRecord `json:"tasks"`
}

// getReport returns the latest run's action items and stats.
func (srv *HTTPServer) getReport(c *gin.Context) {
	out, ok := srv.store.Latest()
	if !ok {
		response.NotFound(c, "no triage run has completed yet")
		return
	}

	response.OK(c, reportResponse{
		RunID:      out.RunID,
		StartedAt:  out.StartedAt,
		FinishedAt: out.FinishedAt,
		Stats:      out.Stats,
		Tasks:      report.BuildRecords(out.Results),
	})
}

// triggerRun performs a mailbox pass and returns its stats. Only one run
// may be in flight at a time.
func (srv *HTTPServer) triggerRun(c *gin.Context) {
	if !srv.runMu.TryLock() {
		response.Error(c, errors.New("a run is already in progress"), nil)
		return
	}
	defer srv.runMu.Unlock()

	out, err := srv.triageUC.Run(c.Request.Context())
	if err != nil {
		srv.l.Errorf(c.Request.Context(), "httpserver.triggerRun: %v", err)
		response.InternalError(c, err)
		return
	}

	srv.store.Set(out)

	response.OK(c, gin.H{
		"run_id": out.RunID,
		"stats":  out.Stats,
	})
}
