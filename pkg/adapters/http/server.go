package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/recolor/internal/dto"
	"github.com/aretw0/recolor/pkg/adapters/memory"
	"github.com/aretw0/recolor/pkg/domain"
	"github.com/aretw0/recolor/pkg/mappings"
	"github.com/aretw0/recolor/pkg/ports"
	"github.com/aretw0/recolor/pkg/runner"
)

// EventOutcome is the last line of a /convert stream.
const EventOutcome domain.EventType = "outcome"

const unlockTimeout = 5 * time.Second

// Server exposes one scene over HTTP.
type Server struct {
	Converter runner.Converter
	Tables    domain.Tables

	locker  ports.Locker
	lockKey string
	lockTTL time.Duration
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLocker serializes runs through l (default: an in-process locker).
func WithLocker(l ports.Locker, key string, ttl time.Duration) Option {
	return func(s *Server) {
		if l != nil {
			s.locker = l
		}
		if key != "" {
			s.lockKey = key
		}
		s.lockTTL = ttl
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler:
//
//	POST /convert   run a conversion, streaming events as NDJSON
//	GET  /rules     the advanced rule catalog
//	GET  /mappings  every table
//	GET  /healthz   liveness
//	GET  /metrics   when WithMetrics is set
func NewHandler(conv runner.Converter, tables domain.Tables, opts ...Option) http.Handler {
	s := &Server{
		Converter: conv,
		Tables:    tables,
		locker:    memory.NewLocker(),
		lockKey:   "scene",
		lockTTL:   10 * time.Minute,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Post("/convert", s.Convert)
	r.Get("/rules", s.GetRules)
	r.Get("/mappings", s.GetMappings)
	r.Get("/healthz", s.GetHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Convert handles POST /convert.
//
// The body is a convert payload ({"advancedRules":[...]}) and may be empty.
// The rules query parameter (comma separated ids) enables catalog rules instead.
func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		s.logger.Warn("Convert: invalid request", "err", err)
		return
	}

	unlock, err := s.locker.TryLock(r.Context(), s.lockKey, s.lockTTL)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrRunInProgress) {
			status = http.StatusConflict
		}
		writeError(w, status, err)
		s.logger.Warn("Convert: lock not acquired", "err", err)
		return
	}
	defer func() {
		// The request context is done once the client goes away; release regardless.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), unlockTimeout)
		defer cancel()
		if err := unlock(ctx); err != nil {
			s.logger.Error("Convert: unlock failed", "err", err)
		}
	}()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	emitter := runner.NewJSONEmitter(w)

	out, err := s.Converter.Convert(r.Context(), req, emitter)
	if err != nil {
		s.logger.Info("Convert: run ended with error", "status", out.Status, "err", err)
	}
	if err := emitter.Emit(r.Context(), domain.Event{Type: EventOutcome, Payload: out}); err != nil {
		s.logger.Warn("Convert: client went away", "err", err)
	}
}

func (s *Server) decodeRequest(r *http.Request) (domain.ConvertRequest, error) {
	if ids := r.URL.Query().Get("rules"); ids != "" {
		rules, err := mappings.Enable(s.Tables.Advanced, strings.Split(ids, ",")...)
		if err != nil {
			return domain.ConvertRequest{}, err
		}
		return domain.ConvertRequest{AdvancedRules: rules}, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, int64(runner.DefaultMaxMessageSize)+1))
	if err != nil {
		return domain.ConvertRequest{}, err
	}
	if err := runner.SanitizeMessage(body); err != nil {
		return domain.ConvertRequest{}, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return domain.ConvertRequest{}, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.ConvertRequest{}, err
	}
	return dto.DecodeConvertRequest(payload)
}

// GetRules handles GET /rules.
func (s *Server) GetRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Tables.Advanced)
}

// GetMappings handles GET /mappings.
func (s *Server) GetMappings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Tables)
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
