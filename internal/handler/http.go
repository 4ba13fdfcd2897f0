package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flashvault/flashvault/internal/models"
	"github.com/flashvault/flashvault/internal/service"
	"github.com/flashvault/flashvault/internal/service/srs"
	"github.com/flashvault/flashvault/pkg/utils"
)

// HTTPHandler exposes the engine over JSON. It owns no business logic: every
// route parses input, picks a single "now" and delegates to the Service.
type HTTPHandler struct {
	svc models.Service
}

func NewHTTPHandler(svc models.Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.POST("/sets", h.handleCreateSet)
		api.POST("/reviews", h.handleSubmitReview)
		api.GET("/sets/:set_id/progress", h.handleSetProgress)
		api.GET("/sets/:set_id/items", h.handleListItems)
		api.GET("/sets/:set_id/batch", h.handleNextBatch)
		api.POST("/sets/:set_id/sessions", h.handleStartSession)
		api.POST("/sessions/:session_id/complete", h.handleCompleteSession)
		api.GET("/stats", h.handleSnapshot)
		api.GET("/activity", h.handleActivity)
	}
}

func (h *HTTPHandler) handleCreateSet(c *gin.Context) {
	var req CreateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	set, err := h.svc.CreateSet(c.Request.Context(), req.Title, req.Description, req.Items, utils.NowUTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, set)
}

func (h *HTTPHandler) handleSubmitReview(c *gin.Context) {
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	now := utils.NowUTC()
	if req.Timestamp != nil {
		now = req.Timestamp.UTC()
	}

	rec, err := h.svc.SubmitReview(c.Request.Context(), req.UserID, req.ItemID, *req.IsCorrect, now)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubmitReviewResponse{
		State:         rec.State.String(),
		NextDueAt:     rec.NextDueAt,
		CorrectStreak: rec.CorrectStreak,
		ReviewCount:   rec.ReviewCount,
		CorrectCount:  rec.CorrectCount,
	})
}

func (h *HTTPHandler) handleSetProgress(c *gin.Context) {
	setID, ok := pathInt64(c, "set_id")
	if !ok {
		return
	}
	userID, ok := queryInt64(c, "user_id")
	if !ok {
		return
	}

	progress, err := h.svc.SetProgress(c.Request.Context(), userID, setID, utils.NowUTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *HTTPHandler) handleListItems(c *gin.Context) {
	setID, ok := pathInt64(c, "set_id")
	if !ok {
		return
	}
	userID, ok := queryInt64(c, "user_id")
	if !ok {
		return
	}
	category := c.DefaultQuery("category", "due")
	page := queryIntDefault(c, "page", 1)
	pageSize := queryIntDefault(c, "page_size", 20)

	result, err := h.svc.ListItemsByCategory(c.Request.Context(), userID, setID, category, utils.NowUTC(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *HTTPHandler) handleNextBatch(c *gin.Context) {
	setID, ok := pathInt64(c, "set_id")
	if !ok {
		return
	}
	userID, ok := queryInt64(c, "user_id")
	if !ok {
		return
	}
	batchSize := queryIntDefault(c, "batch_size", service.DefaultBatchSize)

	ids, err := h.svc.NextBatch(c.Request.Context(), userID, setID, utils.NowUTC(), batchSize)
	if err != nil {
		respondError(c, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	c.JSON(http.StatusOK, BatchResponse{ItemIDs: ids})
}

func (h *HTTPHandler) handleStartSession(c *gin.Context) {
	setID, ok := pathInt64(c, "set_id")
	if !ok {
		return
	}
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, items, err := h.svc.StartSession(c.Request.Context(), req.UserID, setID, utils.NowUTC(), req.BatchSize)
	if err != nil {
		respondError(c, err)
		return
	}
	if session == nil {
		// Nothing due and nothing new: empty state, not an error.
		c.JSON(http.StatusOK, StartSessionResponse{Items: []*models.LearningItem{}})
		return
	}
	c.JSON(http.StatusCreated, StartSessionResponse{
		SessionID: session.SessionID.String(),
		Items:     items,
	})
}

func (h *HTTPHandler) handleCompleteSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session_id"})
		return
	}
	var req CompleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.svc.CompleteSession(c.Request.Context(), sessionID, req.Answered, req.Correct, utils.NowUTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *HTTPHandler) handleSnapshot(c *gin.Context) {
	userID, ok := queryInt64(c, "user_id")
	if !ok {
		return
	}

	var setID *int64
	if raw := c.Query("set_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid set_id"})
			return
		}
		setID = &id
	}

	snap, err := h.svc.Snapshot(c.Request.Context(), userID, setID, utils.NowUTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *HTTPHandler) handleActivity(c *gin.Context) {
	userID, ok := queryInt64(c, "user_id")
	if !ok {
		return
	}

	now := utils.NowUTC()
	from := now.AddDate(0, 0, -29)
	to := now

	var err error
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse(time.DateOnly, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from date, want YYYY-MM-DD"})
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse(time.DateOnly, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to date, want YYYY-MM-DD"})
			return
		}
	}

	entries, err := h.svc.ActivityLog(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// respondError maps typed engine errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var (
		stale       *srs.StaleReviewError
		unknownItem *service.UnknownItemError
		emptySet    *service.EmptySetError
		rangeTooBig *service.RangeTooLargeError
		unknownSess *service.UnknownSessionError
		storeDown   *service.StoreUnavailableError
	)

	switch {
	case errors.As(err, &stale):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.As(err, &unknownItem), errors.As(err, &emptySet), errors.As(err, &unknownSess):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.As(err, &rangeTooBig):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &storeDown):
		zap.S().Errorw("store unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "temporary storage failure, try again"})
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
}

func pathInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return v, true
}

func queryInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + name})
		return 0, false
	}
	return v, true
}

func queryIntDefault(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
