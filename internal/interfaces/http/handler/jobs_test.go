package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/fulfillment/internal/infrastructure/scheduler"
	"github.com/erp/fulfillment/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJobs struct {
	states []scheduler.JobState
	runErr error
	ran    []string
}

func (s *stubJobs) Status() []scheduler.JobState { return s.states }

func (s *stubJobs) RunNow(_ context.Context, name string) error {
	s.ran = append(s.ran, name)
	return s.runErr
}

func setupJobRouter(jobs JobController) *gin.Engine {
	router := gin.New()
	NewJobHandler(jobs).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestJobHandler_List(t *testing.T) {
	jobs := &stubJobs{states: []scheduler.JobState{
		{Name: "document-retry", Schedule: "@every 1m", Runs: 3},
		{Name: "outbox-relay", Schedule: "@every 5s"},
	}}
	router := setupJobRouter(jobs)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/jobs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w)["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, "document-retry", data[0].(map[string]any)["name"])
	assert.Equal(t, float64(3), data[0].(map[string]any)["runs"])
}

func TestJobHandler_Run(t *testing.T) {
	tests := []struct {
		name       string
		runErr     error
		wantStatus int
		wantCode   string
	}{
		{"success", nil, http.StatusOK, ""},
		{"unknown job", scheduler.ErrJobNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"scheduler stopped", scheduler.ErrSchedulerNotRunning, http.StatusConflict, dto.ErrCodeConflict},
		{"overlapping run", scheduler.ErrJobAlreadyRunning, http.StatusConflict, dto.ErrCodeConflict},
		{"job failure", errors.New("relay: broker unavailable"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := &stubJobs{
				runErr: tt.runErr,
				states: []scheduler.JobState{{Name: "document-retry", Runs: 1, LastStatus: scheduler.JobStatusSuccess}},
			}
			router := setupJobRouter(jobs)

			req, _ := http.NewRequest(http.MethodPost, "/api/v1/admin/jobs/document-retry/run", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, []string{"document-retry"}, jobs.ran)
			if tt.wantCode != "" {
				assertErrorCode(t, w, tt.wantCode)
				return
			}
			data := decodeResponse(t, w)["data"].(map[string]any)
			assert.Equal(t, "SUCCESS", data["last_status"])
		})
	}
}
