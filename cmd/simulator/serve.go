package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"voicebot_sim/pkg/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}

		gin.SetMode(gin.ReleaseMode)
		srv := &http.Server{Addr: addr, Handler: api.SetupRouter(cfg, agentMgr)}

		go func() {
			<-cmd.Context().Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()

		log.Printf("[simulator] API server starting on %s (provider: %s)", addr, agentMgr.GetActiveProvider())
		log.Printf("[simulator]   - GET  /api/config")
		log.Printf("[simulator]   - POST /api/config/switch")
		log.Printf("[simulator]   - POST /api/simulation/run")
		log.Printf("[simulator]   - POST /api/simulation/contract")
		log.Printf("[simulator]   - POST /api/simulation/prompt")
		log.Printf("[simulator]   - GET  /api/simulation/files/:name")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}
