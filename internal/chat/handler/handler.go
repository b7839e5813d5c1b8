// Package handler exposes the chat API consumed by the embedded widget.
package handler

import (
	"net/http"

	"hashlife_backend/internal/chat"
	"hashlife_backend/internal/chat/transport"
	"hashlife_backend/platform/config"
	"hashlife_backend/platform/httpkit"
	"hashlife_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidInput = "Invalid input"

// Handler handles the public chat session endpoints.
type Handler struct {
	manager    *chat.Manager
	controller *chat.Controller
	val        *validator.Validator
	tokenCfg   config.SessionTokenConfig
}

// New creates the chat handler.
func New(manager *chat.Manager, controller *chat.Controller, val *validator.Validator, tokenCfg config.SessionTokenConfig) *Handler {
	return &Handler{
		manager:    manager,
		controller: controller,
		val:        val,
		tokenCfg:   tokenCfg,
	}
}

// RegisterRoutes mounts the chat routes. Session creation is rate limited
// separately; all per-session routes require the session token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, createLimiter, sessionAuth gin.HandlerFunc) {
	rg.POST("/sessions", createLimiter, h.CreateSession)

	authed := rg.Group("/sessions", sessionAuth)
	authed.GET("/:id", h.GetSnapshot)
	authed.POST("/:id/messages", h.PostMessage)
	authed.POST("/:id/reset", h.ResetSession)
	authed.DELETE("/:id", h.CloseSession)
}

// CreateSession opens a conversation for a newly mounted shell and returns
// the token the shell must present on every subsequent call.
func (h *Handler) CreateSession(c *gin.Context) {
	s := h.manager.Create()

	token, err := httpkit.NewSessionToken(h.tokenCfg.GetSessionTokenSecret(), s.ID, h.tokenCfg.GetSessionTokenTTL())
	if err != nil {
		h.manager.Close(s.ID)
		httpkit.Error(c, http.StatusInternalServerError, "could not create session", nil)
		return
	}

	c.JSON(http.StatusCreated, transport.StartSessionResponse{
		SessionID: s.ID.String(),
		Token:     token,
		Snapshot:  s.Snapshot(),
	})
}

// GetSnapshot returns the current shell read model.
func (h *Handler) GetSnapshot(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	httpkit.OK(c, transport.SnapshotResponse{Snapshot: s.Snapshot()})
}

// PostMessage feeds one visitor action into the dialogue controller and
// returns the resulting snapshot.
func (h *Handler) PostMessage(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req transport.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidInput, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidInput, nil)
		return
	}
	if req.Input() == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidInput, nil)
		return
	}

	h.controller.Receive(s, req.Input())
	httpkit.OK(c, transport.SnapshotResponse{Snapshot: s.Snapshot()})
}

// ResetSession starts the conversation over with an empty record.
func (h *Handler) ResetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.controller.Reset(s)
	httpkit.OK(c, transport.SnapshotResponse{Snapshot: s.Snapshot()})
}

// CloseSession tears the session down when the shell unmounts. Any pending
// deferred greeting is cancelled.
func (h *Handler) CloseSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidInput, nil)
		return
	}
	h.manager.Close(id)
	c.Status(http.StatusNoContent)
}

func (h *Handler) session(c *gin.Context) (*chat.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidInput, nil)
		return nil, false
	}

	s, err := h.manager.Get(id)
	if err != nil {
		httpkit.HandleError(c, err)
		return nil, false
	}
	return s, true
}
