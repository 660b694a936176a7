// Package server exposes the classifier over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/logging"
	"github.com/phishguard/phishguard/internal/observability"
	"github.com/phishguard/phishguard/internal/ratelimit"
	"github.com/phishguard/phishguard/internal/risk"
)

const requestIDHeader = "X-Request-Id"

type Server struct {
	mux        *http.ServeMux
	classifier *classifier.Classifier
	assessor   *risk.Assessor
	cache      scanCache
	limiter    *ratelimit.Limiter
	rateLimit  config.RateLimitConfig
	maxBody    int64

	metrics *observability.Metrics
	logger  logging.Logger
}

func New(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	c, err := classifier.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	assessor, err := risk.New(cfg.Risk.Keywords)
	if err != nil {
		return nil, err
	}
	cache, err := newScanCache(cfg.Cache.Size)
	if err != nil {
		return nil, fmt.Errorf("scan cache: %w", err)
	}
	limiter, err := ratelimit.NewLimiter(cfg.RateLimit.MaxClients)
	if err != nil {
		return nil, err
	}

	s := &Server{
		mux:        http.NewServeMux(),
		classifier: c,
		assessor:   assessor,
		cache:      cache,
		limiter:    limiter,
		rateLimit:  cfg.RateLimit,
		maxBody:    cfg.Server.MaxBodyBytes,
		logger:     logging.GetLogger(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleStatus)
	s.mux.HandleFunc("POST /scan", s.handleScan)
	s.mux.HandleFunc("OPTIONS /scan", s.handlePreflight)
	s.mux.HandleFunc("GET /rules", s.handleRules)

	return s, nil
}

func (s *Server) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

func (s *Server) SetLogger(logger logging.Logger) {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	s.logger = logger
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, requestID)
	w.Header().Set("Access-Control-Allow-Origin", "*")

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	if s.rateLimit.Enabled {
		ip := clientIP(r)
		if !s.limiter.Allow(ip, s.rateLimit.RPS, s.rateLimit.Burst, time.Now()) {
			s.metrics.ObserveRateLimit()
			s.logger.Warn(map[string]any{"client_ip": ip, "request_id": requestID}, "rate limit exceeded")
			writeError(rec, http.StatusTooManyRequests, "rate limit exceeded")
			s.metrics.ObserveRequest("ratelimited", rec.status)
			return
		}
	}

	s.mux.ServeHTTP(rec, r)

	path := r.Pattern
	if path == "" {
		path = "unmatched"
	}
	s.metrics.ObserveRequest(path, rec.status)
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "online", Message: "PhishGuard backend is running"})
}

type scanRequest struct {
	URL *string `json:"url"`
}

type scanResponse struct {
	URL       string       `json:"url"`
	Verdict   string       `json:"verdict"`
	Reason    string       `json:"reason,omitempty"`
	Rule      string       `json:"rule,omitempty"`
	Evidence  string       `json:"evidence,omitempty"`
	Risk      *risk.Report `json:"risk,omitempty"`
	RiskError string       `json:"risk_error,omitempty"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if s.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}

	var req scanRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "No URL provided")
		default:
			writeError(w, http.StatusBadRequest, "invalid JSON body")
		}
		return
	}
	if req.URL == nil {
		writeError(w, http.StatusBadRequest, "No URL provided")
		return
	}

	result := s.scan(*req.URL)
	resp := scanResponse{
		URL:       *req.URL,
		Verdict:   result.verdict.Kind.String(),
		Reason:    result.verdict.Reason,
		Rule:      result.verdict.RuleID,
		Evidence:  result.verdict.Evidence,
		Risk:      result.risk,
		RiskError: result.riskErr,
	}

	s.logger.Debug(map[string]any{
		"request_id": w.Header().Get(requestIDHeader),
		"verdict":    resp.Verdict,
		"rule":       resp.Rule,
	}, "scan complete")

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) scan(url string) cachedScan {
	if cached, ok := s.cache.Get(url); ok {
		s.metrics.ObserveCache(true)
		return cached
	}
	s.metrics.ObserveCache(false)

	start := time.Now()
	verdict := s.classifier.Classify(url)
	s.metrics.ObserveScan(verdict.Kind.String(), verdict.RuleID, time.Since(start))

	result := cachedScan{verdict: verdict}
	if rep, err := s.assessor.Assess(url); err != nil {
		result.riskErr = err.Error()
	} else {
		result.risk = &rep
	}

	s.cache.Put(url, result)
	return result
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

type ruleView struct {
	ID     string   `json:"id"`
	Input  string   `json:"input"`
	Reason string   `json:"reason"`
	Score  int      `json:"score"`
	Tags   []string `json:"tags,omitempty"`
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	table := s.classifier.Rules()
	out := make([]ruleView, 0, len(table))
	for _, rule := range table {
		out = append(out, ruleView{
			ID:     rule.ID,
			Input:  string(rule.Input),
			Reason: rule.Reason,
			Score:  rule.Score,
			Tags:   rule.Tags,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
