package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"running-events-backend/internal/cache"
	"running-events-backend/internal/model"
	"running-events-backend/internal/queue"
	"running-events-backend/internal/service"
	"running-events-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminHandler struct {
	events  service.EventService
	cleanup service.CleanupService
	queue   queue.CleanupQueue
	jobs    cache.CleanupJobStore
	token   string
}

func NewAdminHandler(events service.EventService, cleanup service.CleanupService, queue queue.CleanupQueue, jobs cache.CleanupJobStore, token string) *AdminHandler {
	return &AdminHandler{
		events:  events,
		cleanup: cleanup,
		queue:   queue,
		jobs:    jobs,
		token:   token,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/admin", AdminAuth(h.token))
	{
		router.PUT("events/:id/approve", h.Approve)
		router.PUT("events/:id/reject", h.Reject)
		router.POST("events/duplicates/scan", h.ScanDuplicates)
		router.POST("events/duplicates/cleanup", h.QueueCleanup)
		router.GET("events/duplicates/jobs/:id", h.GetCleanupJob)
	}
}

// AdminAuth 以 Bearer token 保護管理 API；未設定 token 時一律拒絕
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		provided, ok := strings.CutPrefix(header, "Bearer ")
		if token == "" || !ok || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			respondError(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

type EventIDUri struct {
	ID int `uri:"id" binding:"required,min=1"`
}

type JobIDUri struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// CleanupRequest 清理參數，對應 CLI 的 flags
type CleanupRequest struct {
	Slug          bool   `json:"slug"`
	Similarity    bool   `json:"similarity"`
	MinSimilarity *int   `json:"min_similarity" binding:"omitempty,min=0,max=100"`
	Keep          string `json:"keep" binding:"omitempty,oneof=oldest newest"`
}

func (r CleanupRequest) toOptions() model.CleanupOptions {
	opts := model.CleanupOptions{
		BySlug:        r.Slug,
		BySimilarity:  r.Similarity,
		MinSimilarity: model.DefaultMinSimilarity,
		Keep:          model.KeepPolicy(r.Keep),
	}
	if r.MinSimilarity != nil {
		opts.MinSimilarity = *r.MinSimilarity
	}
	return opts
}

func (h *AdminHandler) Approve(c *gin.Context) {
	var uri EventIDUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	event, err := h.events.Approve(c, uri.ID)
	if err != nil {
		handleError(c, err, "Approve")
		return
	}
	respond(c, http.StatusOK, toDetail(event), "Event approved.")
}

func (h *AdminHandler) Reject(c *gin.Context) {
	var uri EventIDUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	event, err := h.events.Reject(c, uri.ID)
	if err != nil {
		handleError(c, err, "Reject")
		return
	}
	respond(c, http.StatusOK, toDetail(event), "Event rejected.")
}

// bindCleanupRequest body 可以是空的
func bindCleanupRequest(c *gin.Context) (CleanupRequest, bool) {
	var req CleanupRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := BindJson(c, &req); err != nil {
		return req, false
	}
	return req, true
}

// ScanDuplicates 同步執行 dry-run，只回傳計畫
func (h *AdminHandler) ScanDuplicates(c *gin.Context) {
	req, ok := bindCleanupRequest(c)
	if !ok {
		return
	}

	opts := req.toOptions()
	opts.DryRun = true

	report, err := h.cleanup.Run(c, opts, nil)
	if err != nil {
		handleError(c, err, "ScanDuplicates")
		return
	}
	respond(c, http.StatusOK, report, "Duplicate scan completed.")
}

// QueueCleanup 排入背景清理，回傳 job id
func (h *AdminHandler) QueueCleanup(c *gin.Context) {
	req, ok := bindCleanupRequest(c)
	if !ok {
		return
	}

	opts := req.toOptions().Normalize()
	opts.Force = true
	if !opts.Validate() {
		respondValidationError(c, map[string]string{"keep": "oneof=oldest newest"})
		return
	}

	job := &model.CleanupJob{
		ID:          uuid.New(),
		Options:     opts,
		Status:      model.CleanupJobQueued,
		RequestedAt: time.Now().UTC(),
	}
	if err := h.jobs.Save(c, job); err != nil {
		handleError(c, err, "QueueCleanup")
		return
	}
	if err := h.queue.PublishJob(c, job); err != nil {
		handleError(c, err, "QueueCleanup")
		return
	}

	logger.WithComponent("handler").Info("cleanup job queued", zap.String("job_id", job.ID.String()))
	respond(c, http.StatusAccepted, job, "Cleanup job queued.")
}

func (h *AdminHandler) GetCleanupJob(c *gin.Context) {
	var uri JobIDUri
	if err := BindUri(c, &uri); err != nil {
		return
	}
	job, err := h.jobs.Get(c, uuid.MustParse(uri.ID))
	if err != nil {
		handleError(c, err, "GetCleanupJob")
		return
	}
	respond(c, http.StatusOK, job, "Cleanup job retrieved.")
}
