// This file defines the module that encapsulates setup and route registration
// for the conversational lead-intake bounded context.
package handler

import (
	"hashlife_backend/internal/chat"
	"hashlife_backend/internal/events"
	apphttp "hashlife_backend/internal/http"
	"hashlife_backend/platform/config"
	"hashlife_backend/platform/logger"
	"hashlife_backend/platform/validator"
)

// ModuleConfig combines the config interfaces the chat module needs.
type ModuleConfig interface {
	config.ChatConfig
	config.SessionTokenConfig
}

// Module is the chat bounded context module implementing http.Module.
type Module struct {
	handler    *Handler
	manager    *chat.Manager
	controller *chat.Controller
}

// NewModule creates and initializes the chat module with all its dependencies.
func NewModule(cfg ModuleConfig, devMode bool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	script := chat.NewScript(cfg)
	controller := chat.NewController(script, eventBus, log, cfg.GetReplyTypingDelay(), devMode)
	manager := chat.NewManager(controller, eventBus, log, cfg.GetGreetingDelay(), cfg.GetSessionIdleTTL())

	h := New(manager, controller, val, cfg)

	return &Module{
		handler:    h,
		manager:    manager,
		controller: controller,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "chat"
}

// Manager returns the session manager for lifecycle control (shutdown).
func (m *Module) Manager() *chat.Manager {
	return m.manager
}

// Controller returns the dialogue controller.
func (m *Module) Controller() *chat.Controller {
	return m.controller
}

// RegisterRoutes mounts chat routes on the public chat group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Chat, ctx.CreateSessionLimiter.RateLimit(), ctx.SessionAuth)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
