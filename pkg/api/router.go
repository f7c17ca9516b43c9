// Package api assembles the HTTP surface of the simulator.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	configapi "voicebot_sim/pkg/api/config"
	"voicebot_sim/pkg/api/simulation"
	"voicebot_sim/pkg/core/agent"
	"voicebot_sim/pkg/core/config"
	"voicebot_sim/pkg/core/pipeline"
)

// SetupRouter registers every endpoint under /api.
func SetupRouter(cfg config.Config, mgr *agent.Manager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), cors())

	factory := func() (simulation.Runner, error) {
		return pipeline.New(cfg, mgr)
	}

	group := r.Group("/api")
	configapi.NewHandler(mgr).Register(group)
	simulation.NewHandler(factory, cfg.CSVPath()).Register(group)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "active_provider": mgr.GetActiveProvider()})
	})
	return r
}

// cors allows the local dev UI to call the API.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
