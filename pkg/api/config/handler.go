package config

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voicebot_sim/pkg/core/agent"
	"voicebot_sim/pkg/core/llm"
)

type Response struct {
	ActiveProvider string                       `json:"active_provider"`
	Available      []string                     `json:"available"`
	Agents         map[string]agent.AgentConfig `json:"agents"`
	Resolved       map[string]RoleRoute         `json:"resolved"`
}

// RoleRoute is where a role's calls go right now. An empty model means the
// provider's default.
type RoleRoute struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

type SwitchRequest struct {
	Provider string `json:"provider" binding:"required"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	AgentMgr *agent.Manager
}

// NewHandler creates a new config handler
func NewHandler(agentMgr *agent.Manager) *Handler {
	return &Handler{
		AgentMgr: agentMgr,
	}
}

// Register mounts the config routes on rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/config", h.HandleConfig)
	rg.POST("/config/switch", h.HandleSwitch)
}

func (h *Handler) HandleConfig(c *gin.Context) {
	cfg := h.AgentMgr.Config()
	c.JSON(http.StatusOK, Response{
		ActiveProvider: cfg.ActiveProvider,
		Available:      h.AgentMgr.ProviderNames(),
		Agents:         cfg.Agents,
		Resolved:       h.routes(),
	})
}

func (h *Handler) HandleSwitch(c *gin.Context) {
	var req SwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.AgentMgr.SetGlobalProvider(req.Provider); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Switched to " + req.Provider, "active_provider": req.Provider, "resolved": h.routes()})
}

func (h *Handler) routes() map[string]RoleRoute {
	out := map[string]RoleRoute{}
	for _, role := range []string{agent.RoleGenerator, agent.RoleExtractor} {
		p, opts, err := h.AgentMgr.Resolve(role)
		if err != nil {
			continue
		}
		model, _ := opts[llm.OptModel].(string)
		out[role] = RoleRoute{Provider: p.Name(), Model: model}
	}
	return out
}
