package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kzhou/taskflow/internal/application/service"
	appwf "github.com/kzhou/taskflow/internal/application/workflow"
	domainwf "github.com/kzhou/taskflow/internal/domain/workflow"
)

// Handler exposes one workflow variant over HTTP. The handler stays thin:
// it parses input, delegates to the service and orchestrator, and maps the
// workflow error taxonomy onto status codes.
type Handler struct {
	items        service.WorkItemService
	orchestrator appwf.Orchestrator
	logger       *zap.Logger
}

// NewHandler creates a handler for one workflow variant
func NewHandler(items service.WorkItemService, orchestrator appwf.Orchestrator, logger *zap.Logger) *Handler {
	return &Handler{
		items:        items,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// RegisterRoutes mounts the handler under a route group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Edit)
	rg.GET("/:id/history", h.History)
	rg.GET("/:id/state", h.State)
	rg.POST("/:id/actions/:action", h.ApplyAction)
}

type createRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

type editRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

type actionRequest struct {
	ActorID     int64    `json:"actor_id" binding:"required"`
	ActorName   string   `json:"actor_name"`
	Notes       string   `json:"notes"`
	RequesterID int64    `json:"requester_id"`
	AssignerID  int64    `json:"assigner_id"`
	ExecutorID  int64    `json:"executor_id"`
	ActualHours *float64 `json:"actual_hours"`
}

// Create handles POST /
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "reason": "invalid_body"})
		return
	}

	item, err := h.items.Create(c.Request.Context(), service.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// List handles GET /
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.items.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Get handles GET /:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	item, err := h.items.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Edit handles PATCH /:id
func (h *Handler) Edit(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "reason": "invalid_body"})
		return
	}

	item, err := h.items.EditDetails(c.Request.Context(), id, service.EditInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// History handles GET /:id/history
func (h *Handler) History(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	records, err := h.orchestrator.GetHistory(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": records})
}

// State handles GET /:id/state
func (h *Handler) State(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	state, err := h.orchestrator.CurrentState(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}

// ApplyAction handles POST /:id/actions/:action
func (h *Handler) ApplyAction(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	action := domainwf.Action(strings.ToUpper(c.Param("action")))

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "reason": "invalid_body"})
		return
	}

	item, err := h.orchestrator.Apply(c.Request.Context(), id, action, req.ActorID, domainwf.Payload{
		Notes:       req.Notes,
		ActorName:   req.ActorName,
		RequesterID: req.RequesterID,
		AssignerID:  req.AssignerID,
		ExecutorID:  req.ExecutorID,
		ActualHours: req.ActualHours,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id", "reason": "invalid_id"})
		return 0, false
	}
	return id, true
}

// respondError maps the workflow error taxonomy onto HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainwf.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "reason": "not_found"})
	case errors.Is(err, domainwf.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "reason": "invalid_transition"})
	case errors.Is(err, domainwf.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "reason": "invalid_payload"})
	case errors.Is(err, domainwf.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "reason": "invalid_state"})
	case errors.Is(err, domainwf.ErrConcurrentModification):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "concurrent_modification"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "reason": "transition_failed"})
	}
}
