package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	cacheMocks "running-events-backend/internal/cache/mocks"
	"running-events-backend/internal/handler"
	"running-events-backend/internal/model"
	queueMocks "running-events-backend/internal/queue/mocks"
	"running-events-backend/internal/service/mocks"
	apperrors "running-events-backend/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const adminToken = "test-admin-token"

type adminDeps struct {
	events  *mocks.EventServiceMock
	cleanup *mocks.CleanupServiceMock
	queue   *queueMocks.CleanupQueueMock
	jobs    *cacheMocks.CleanupJobStoreMock
	router  *gin.Engine
}

func setupAdminTestRouter() *adminDeps {
	gin.SetMode(gin.TestMode)
	d := &adminDeps{
		events:  mocks.NewEventServiceMock(),
		cleanup: mocks.NewCleanupServiceMock(),
		queue:   queueMocks.NewCleanupQueueMock(),
		jobs:    cacheMocks.NewCleanupJobStoreMock(),
		router:  gin.New(),
	}
	handler.NewAdminHandler(d.events, d.cleanup, d.queue, d.jobs, adminToken).RegisterRoutes(d.router)
	return d
}

func authorized(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+adminToken)
	return req
}

func TestAdminAuth(t *testing.T) {
	t.Run("Failed - missing token", func(t *testing.T) {
		d := setupAdminTestRouter()

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/admin/events/1/approve", nil)
		w := serve(d.router, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		d.events.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
	})

	t.Run("Failed - wrong token", func(t *testing.T) {
		d := setupAdminTestRouter()

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/admin/events/1/approve", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := serve(d.router, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Failed - server without token rejects everything", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.GET("/secure", handler.AdminAuth(""), func(c *gin.Context) { c.Status(http.StatusOK) })

		req, _ := http.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer ")
		w := serve(router, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestApproveReject(t *testing.T) {
	t.Run("Success - approve", func(t *testing.T) {
		d := setupAdminTestRouter()
		d.events.On("Approve", mock.Anything, 3).
			Return(&model.Event{ID: 3, Status: model.EventStatusPublished}, nil).Once()

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/admin/events/3/approve", nil)
		w := serve(d.router, authorized(req))

		assert.Equal(t, http.StatusOK, w.Code)
		d.events.AssertExpectations(t)
	})

	t.Run("Failed - reject with invalid transition", func(t *testing.T) {
		d := setupAdminTestRouter()
		d.events.On("Reject", mock.Anything, 3).Return(nil, apperrors.ErrInvalidStatusTransition).Once()

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/admin/events/3/reject", nil)
		w := serve(d.router, authorized(req))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Failed - approve missing event", func(t *testing.T) {
		d := setupAdminTestRouter()
		d.events.On("Approve", mock.Anything, 99).Return(nil, apperrors.ErrEventNotFound).Once()

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/admin/events/99/approve", nil)
		w := serve(d.router, authorized(req))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Failed - non numeric id", func(t *testing.T) {
		d := setupAdminTestRouter()

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/admin/events/abc/approve", nil)
		w := serve(d.router, authorized(req))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestScanDuplicates(t *testing.T) {
	t.Run("Success - always dry run", func(t *testing.T) {
		d := setupAdminTestRouter()
		report := &model.CleanupReport{
			Groups:     []model.GroupReport{{Method: model.CleanupBySlug, Identifier: "jakarta-run"}},
			Unresolved: []string{},
			Skipped:    2,
		}
		d.cleanup.On("Run", mock.Anything, mock.MatchedBy(func(o model.CleanupOptions) bool {
			return o.DryRun && o.BySimilarity && o.MinSimilarity == 90
		}), nil).Return(report, nil).Once()

		req := createJSONHTTPRequest(http.MethodPost, "/api/v1/admin/events/duplicates/scan", map[string]interface{}{
			"similarity":     true,
			"min_similarity": 90,
		})
		w := serve(d.router, authorized(req))

		require.Equal(t, http.StatusOK, w.Code)
		var got model.CleanupReport
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
		assert.Equal(t, 2, got.Skipped)
		assert.Equal(t, "jakarta-run", got.Groups[0].Identifier)
		d.cleanup.AssertExpectations(t)
	})

	t.Run("Success - empty body", func(t *testing.T) {
		d := setupAdminTestRouter()
		d.cleanup.On("Run", mock.Anything, model.CleanupOptions{MinSimilarity: model.DefaultMinSimilarity, DryRun: true}, nil).
			Return(&model.CleanupReport{}, nil).Once()

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/admin/events/duplicates/scan", nil)
		w := serve(d.router, authorized(req))

		assert.Equal(t, http.StatusOK, w.Code)
		d.cleanup.AssertExpectations(t)
	})

	t.Run("Success - zero threshold is passed through", func(t *testing.T) {
		d := setupAdminTestRouter()
		d.cleanup.On("Run", mock.Anything, mock.MatchedBy(func(o model.CleanupOptions) bool {
			return o.DryRun && o.BySimilarity && o.MinSimilarity == 0
		}), nil).Return(&model.CleanupReport{}, nil).Once()

		req := createJSONHTTPRequest(http.MethodPost, "/api/v1/admin/events/duplicates/scan", map[string]interface{}{
			"similarity":     true,
			"min_similarity": 0,
		})
		w := serve(d.router, authorized(req))

		assert.Equal(t, http.StatusOK, w.Code)
		d.cleanup.AssertExpectations(t)
	})

	t.Run("Failed - invalid keep", func(t *testing.T) {
		d := setupAdminTestRouter()

		req := createJSONHTTPRequest(http.MethodPost, "/api/v1/admin/events/duplicates/scan", map[string]interface{}{
			"keep": "middle",
		})
		w := serve(d.router, authorized(req))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "oneof=oldest newest", decode(t, w).Errors["keep"])
	})
}

func TestQueueCleanup(t *testing.T) {
	t.Run("Success - queued as forced job", func(t *testing.T) {
		d := setupAdminTestRouter()

		d.jobs.On("Save", mock.Anything, mock.MatchedBy(func(j *model.CleanupJob) bool {
			return j.Status == model.CleanupJobQueued && j.Options.Force && j.Options.Keep == model.KeepNewest
		})).Return(nil).Once()
		d.queue.On("PublishJob", mock.Anything, mock.AnythingOfType("*model.CleanupJob")).Return(nil).Once()

		req := createJSONHTTPRequest(http.MethodPost, "/api/v1/admin/events/duplicates/cleanup", map[string]interface{}{
			"slug": true,
			"keep": "newest",
		})
		w := serve(d.router, authorized(req))

		require.Equal(t, http.StatusAccepted, w.Code)
		var job model.CleanupJob
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &job))
		assert.NotEqual(t, uuid.Nil, job.ID)
		assert.True(t, job.Options.BySlug)
		d.jobs.AssertExpectations(t)
		d.queue.AssertExpectations(t)
	})

	t.Run("Failed - queue error", func(t *testing.T) {
		d := setupAdminTestRouter()

		d.jobs.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
		d.queue.On("PublishJob", mock.Anything, mock.Anything).Return(assert.AnError).Once()

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/admin/events/duplicates/cleanup", nil)
		w := serve(d.router, authorized(req))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetCleanupJob(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		d := setupAdminTestRouter()
		id := uuid.New()
		d.jobs.On("Get", mock.Anything, id).Return(&model.CleanupJob{
			ID:          id,
			Status:      model.CleanupJobCompleted,
			RequestedAt: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			Report:      &model.CleanupReport{Deleted: 4},
		}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/events/duplicates/jobs/"+id.String(), nil)
		w := serve(d.router, authorized(req))

		require.Equal(t, http.StatusOK, w.Code)
		var job model.CleanupJob
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &job))
		assert.Equal(t, model.CleanupJobCompleted, job.Status)
		assert.Equal(t, 4, job.Report.Deleted)
	})

	t.Run("Failed - unknown job", func(t *testing.T) {
		d := setupAdminTestRouter()
		id := uuid.New()
		d.jobs.On("Get", mock.Anything, id).Return(nil, apperrors.ErrJobNotFound).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/events/duplicates/jobs/"+id.String(), nil)
		w := serve(d.router, authorized(req))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Failed - malformed id", func(t *testing.T) {
		d := setupAdminTestRouter()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/events/duplicates/jobs/not-a-uuid", nil)
		w := serve(d.router, authorized(req))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
