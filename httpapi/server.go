package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"

	"insightql/dataset"
	"insightql/insight"
	"insightql/store"
)

// Server exposes the pipeline over HTTP: one-shot ask, run history, and a
// websocket variant that streams the answer as it is narrated.
type Server struct {
	pipeline *insight.Pipeline
	runs     store.RunStore
	logger   hclog.Logger
	upgrader websocket.Upgrader
}

func NewServer(pipeline *insight.Pipeline, runs store.RunStore, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{
		pipeline: pipeline,
		runs:     runs,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("GET /api/ask/stream", s.handleAskStream)
	mux.HandleFunc("GET /api/runs", s.handleListRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.handleGetRun)
	return mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("http api listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	resp, err := s.pipeline.Run(r.Context(), req.Question)
	if err != nil {
		s.writeRunError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusNotFound, "run history is not enabled")
		return
	}

	runs, err := s.runs.ListRuns(50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusNotFound, "run history is not enabled")
		return
	}

	id := r.PathValue("id")
	run, err := s.runs.GetRun(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	tasks, err := s.runs.GetRunTasks(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tasks == nil {
		tasks = []store.RunTask{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"run": run, "tasks": tasks})
}

// writeRunError maps the run-level failure taxonomy onto status codes:
// missing dataset is a service problem, generator/narrator failures are
// upstream problems. Per-task failures never reach here; they live inside
// the envelope.
func (s *Server) writeRunError(w http.ResponseWriter, err error) {
	s.logger.Error("pipeline run failed", "error", err)

	var genErr *insight.GeneratorError
	var narErr *insight.NarratorError
	switch {
	case errors.Is(err, dataset.ErrSourceNotFound):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &genErr), errors.As(err, &narErr):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
