package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"voicebot_sim/pkg/core/agent"
)

func setupRouter() (*gin.Engine, *agent.Manager) {
	gin.SetMode(gin.TestMode)
	mgr := agent.NewManager(agent.DefaultConfig())
	r := gin.New()
	NewHandler(mgr).Register(r.Group("/api"))
	return r, mgr
}

func TestHandleConfig(t *testing.T) {
	r, _ := setupRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ActiveProvider != "openai" || len(resp.Available) == 0 {
		t.Errorf("unexpected response %+v", resp)
	}
	if _, ok := resp.Agents[agent.RoleGenerator]; !ok {
		t.Error("expected generator role in response")
	}
	if got := resp.Resolved[agent.RoleExtractor]; got.Provider != "openai" || got.Model != "gpt-4o-mini" {
		t.Errorf("unexpected extractor route %+v", got)
	}
}

func TestHandleSwitch_RoutesFollowProvider(t *testing.T) {
	r, _ := setupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/config/switch", strings.NewReader(`{"provider":"ollama"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	for _, role := range []string{agent.RoleGenerator, agent.RoleExtractor} {
		if got := resp.Resolved[role]; got.Provider != "ollama" || got.Model != "" {
			t.Errorf("%s should run ollama's default model, got %+v", role, got)
		}
	}
}

func TestHandleSwitch(t *testing.T) {
	r, mgr := setupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/config/switch", strings.NewReader(`{"provider":"gemini"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if mgr.GetActiveProvider() != "gemini" {
		t.Errorf("provider not switched: %s", mgr.GetActiveProvider())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/config/switch", strings.NewReader(`{"provider":"kimi"}`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown provider, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/config/switch", strings.NewReader(`{}`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing provider, got %d", w.Code)
	}
}
