// Package httpadapter exposes the assistant over an A2A-style task API.
package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
	"github.com/kirillkom/wiki-assistant/internal/observability/metrics"
)

type RouterConfig struct {
	Service        string
	AuthToken      string
	BaseURL        string
	RateLimitRPS   float64
	RateLimitBurst int
}

type Router struct {
	sessions *SessionRegistry
	metrics  *metrics.ServerMetrics
	cfg      RouterConfig
	service  string
}

func NewRouter(sessions *SessionRegistry, m *metrics.ServerMetrics, cfg RouterConfig) *Router {
	return &Router{
		sessions: sessions,
		metrics:  m,
		cfg:      cfg,
		service:  cfg.Service,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /.well-known/agent.json", rt.agentCard)
	mux.HandleFunc("POST /v1/tasks/send", rt.sendTask)
	mux.HandleFunc("POST /v1/tasks/sendSubscribe", rt.sendTaskSubscribe)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = bearerAuthMiddleware(handler, rt.cfg.AuthToken)
	if rt.cfg.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst)
	}
	if rt.metrics != nil {
		handler = metricsMiddleware(handler, rt.metrics, rt.service)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) decodeTaskRequest(w http.ResponseWriter, r *http.Request) (*sendTaskRequest, string, bool) {
	var req sendTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return nil, "", false
	}
	text, ok := req.userText()
	if !ok {
		writeJSONError(w, http.StatusBadRequest, domain.WrapError(domain.ErrInvalidInput, "tasks.send", errNoTextPart).Error())
		return nil, "", false
	}
	req.fillDefaults()
	return &req, text, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
